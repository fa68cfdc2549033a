// Package visualization lays out contact graphs and renders outbreak frames
// for terminal and JSON consumers. It only reads the graph and trial state.
package visualization

import (
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Initial placement seed for randomized layouts
}

// Layout computes one position per node, indexed by node id
type Layout interface {
	ComputeLayout(g *contact.Graph) ([]Position, error)
}

// Status is the epidemic state of a node as drawn
type Status int

const (
	Susceptible Status = iota
	Vaccinated
	Infected
	// Seeded marks the initially infected nodes
	Seeded
)

// String returns the status name used in JSON exports
func (s Status) String() string {
	switch s {
	case Vaccinated:
		return "vaccinated"
	case Infected:
		return "infected"
	case Seeded:
		return "seed"
	default:
		return "susceptible"
	}
}
