package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-vaxsim/pkg/config"
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
	"github.com/dd0wney/cluso-vaxsim/pkg/visualization"
)

type view int

const (
	summaryView view = iota
	trialsView
	outbreakView
	networkView
	metricsView
	viewCount
)

var viewNames = [...]string{"Summary", "Trials", "Outbreak", "Network", "Metrics"}

type model struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry

	graph     *contact.Graph
	graphSeed uint64
	runner    *experiment.Runner
	cmp       *experiment.Comparison

	// Outbreak replay
	scene    *visualization.Scene
	trace    *experiment.Trial
	policy   policy.Kind
	trial    int
	frame    int
	playing  bool
	layout   layoutKind
	edges    bool
	replayed bool

	summaryTable table.Model
	trialTable   table.Model
	help         help.Model
	spinner      spinner.Model
	keys         keyMap

	currentView view
	busy        string
	message     string
	messageErr  bool
	width       int
	height      int
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		cfg:       cfg,
		logger:    logger,
		metrics:   reg,
		graphSeed: cfg.Graph.Seed,
		policy:    policy.HighDegree,
		trial:     1,
		edges:     true,
		summaryTable: newTable([]table.Column{
			{Title: "Strategy", Width: 14},
			{Title: "Runs", Width: 6},
			{Title: "AvgEver", Width: 9},
			{Title: "AvgFinal", Width: 9},
			{Title: "AvgVacc", Width: 9},
			{Title: "InfRate%", Width: 9},
			{Title: "Best", Width: 5},
		}, 5),
		trialTable: newTable([]table.Column{
			{Title: "Strategy", Width: 14},
			{Title: "Run", Width: 5},
			{Title: "Ever", Width: 6},
			{Title: "Final", Width: 6},
			{Title: "Vacc", Width: 6},
			{Title: "InfRate%", Width: 9},
		}, 15),
		help:    help.New(),
		spinner: sp,
		keys:    keys,
		busy:    "Building contact graph",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		buildGraphCmd(m.cfg, m.graphSeed, m.logger, m.metrics),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.trialTable.SetHeight(max(5, msg.Height-14))

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case graphBuiltMsg:
		if msg.err != nil {
			m.busy = ""
			m.setError(fmt.Errorf("build graph: %w", msg.err))
			return m, nil
		}
		m.graph, m.graphSeed, m.runner = msg.graph, msg.seed, msg.runner
		m.cmp, m.scene, m.trace = nil, nil, nil
		m.busy = fmt.Sprintf("Running %d trials per policy", m.cfg.Experiment.Trials)
		return m, compareCmd(m.runner)

	case comparisonMsg:
		m.busy = ""
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.cmp = msg.cmp
		m.fillTables()
		m.setInfo(fmt.Sprintf("Best policy: %s (%.1f%% fewer infections than Random)", m.cmp.Best, m.cmp.Improvement))
		if !m.replayed {
			m.policy = m.cmp.Best
		}
		return m, m.replay()

	case sceneMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("replay %s run %d: %w", msg.policy, msg.trial, msg.err))
			return m, nil
		}
		m.scene, m.trace = msg.scene, msg.trace
		m.policy, m.trial = msg.policy, msg.trial
		m.frame = 0
		if !m.playing {
			m.playing = true
			return m, frameTickCmd()
		}
		return m, nil

	case frameTickMsg:
		if !m.playing || m.scene == nil {
			m.playing = false
			return m, nil
		}
		if m.frame < m.scene.Frames()-1 {
			m.frame++
		} else {
			m.frame = 0
		}
		return m, frameTickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount

		case key.Matches(msg, m.keys.Rebuild):
			if m.busy == "" {
				m.busy = "Rebuilding contact graph"
				m.graphSeed = 0
				return m, tea.Batch(m.spinner.Tick, buildGraphCmd(m.cfg, 0, m.logger, m.metrics))
			}

		case key.Matches(msg, m.keys.Rerun):
			if m.busy == "" && m.graph != nil {
				m.busy = "Re-running trials"
				return m, tea.Batch(m.spinner.Tick, reseedCmd(m.cfg, m.graph, m.graphSeed, m.logger, m.metrics))
			}

		case key.Matches(msg, m.keys.Play):
			if m.scene != nil {
				m.playing = !m.playing
				if m.playing {
					return m, frameTickCmd()
				}
			}

		case key.Matches(msg, m.keys.Policy):
			all := policy.All()
			m.policy = all[(int(m.policy)+1)%len(all)]
			m.replayed = true
			return m, m.replay()

		case key.Matches(msg, m.keys.Layout):
			m.layout = (m.layout + 1) % 3
			return m, m.replay()

		case key.Matches(msg, m.keys.Edges):
			m.edges = !m.edges

		case m.currentView == outbreakView && key.Matches(msg, m.keys.Left):
			m.playing = false
			m.frame = max(0, m.frame-1)

		case m.currentView == outbreakView && key.Matches(msg, m.keys.Right):
			m.playing = false
			if m.scene != nil {
				m.frame = min(m.scene.Frames()-1, m.frame+1)
			}

		case m.currentView == trialsView && key.Matches(msg, m.keys.Enter):
			if row := m.trialTable.SelectedRow(); row != nil {
				k, err := policy.Parse(row[0])
				trial, convErr := strconv.Atoi(row[1])
				if err == nil && convErr == nil {
					m.policy, m.trial, m.replayed = k, trial, true
					m.currentView = outbreakView
					return m, m.replay()
				}
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case summaryView:
		m.summaryTable, cmd = m.summaryTable.Update(msg)
		cmds = append(cmds, cmd)
	case trialsView:
		m.trialTable, cmd = m.trialTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) replay() tea.Cmd {
	if m.runner == nil {
		return nil
	}
	trial := min(max(m.trial, 1), m.cfg.Experiment.Trials)
	return replayCmd(m.runner, m.policy, trial, m.layout, m.graphSeed)
}

func (m *model) fillTables() {
	summaries := make([]table.Row, 0, len(m.cmp.Summaries))
	for _, s := range m.cmp.Summaries {
		best := ""
		if s.Policy == m.cmp.Best {
			best = "*"
		}
		summaries = append(summaries, table.Row{
			s.Policy.String(),
			strconv.Itoa(s.Trials),
			fmt.Sprintf("%.2f", s.AvgEverInfected),
			fmt.Sprintf("%.2f", s.AvgFinalInfected),
			fmt.Sprintf("%.2f", s.AvgVaccinated),
			fmt.Sprintf("%.2f", s.InfectionRate()),
			best,
		})
	}
	m.summaryTable.SetRows(summaries)

	trials := make([]table.Row, 0, len(m.cmp.Results))
	for _, r := range m.cmp.Results {
		trials = append(trials, table.Row{
			r.Policy.String(),
			strconv.Itoa(r.Trial),
			strconv.Itoa(r.EverInfected),
			strconv.Itoa(r.FinalInfected),
			strconv.Itoa(r.Vaccinated),
			fmt.Sprintf("%.2f", r.InfectionRate()),
		})
	}
	m.trialTable.SetRows(trials)
}

func (m *model) setError(err error) {
	m.message = err.Error()
	m.messageErr = true
	m.logger.Error("dashboard action failed", logging.Error(err))
}

func (m *model) setInfo(msg string) {
	m.message = msg
	m.messageErr = false
}
