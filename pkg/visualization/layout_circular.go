package visualization

import (
	"math"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// CircularLayout arranges nodes in a circle in id order
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(g *contact.Graph) ([]Position, error) {
	n := g.Len()
	positions := make([]Position, n)

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Max(0, math.Min(centerX, centerY)-cl.config.Padding)

	angleStep := 2 * math.Pi / float64(n)
	for i := range positions {
		angle := float64(i) * angleStep
		positions[i] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
