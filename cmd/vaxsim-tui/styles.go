package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-vaxsim/pkg/visualization"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	canvasBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

var statusStyles = map[visualization.Status]lipgloss.Style{
	visualization.Susceptible: lipgloss.NewStyle().Foreground(lipgloss.Color("#3C8DFF")),
	visualization.Vaccinated:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00D75F")).Bold(true),
	visualization.Infected:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	visualization.Seeded:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")).Bold(true),
}

var edgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
