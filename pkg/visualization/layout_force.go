package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/validation"
)

// ForceDirectedLayout implements Fruchterman-Reingold layout. The same seed
// always yields the same picture for a given graph.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	config.Iterations = validation.DefaultOr(config.Iterations, 50)
	config.Padding = validation.DefaultOr(config.Padding, 50)
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g *contact.Graph) ([]Position, error) {
	n := g.Len()
	cfg := fdl.config

	if n == 1 {
		return []Position{{X: cfg.Width / 2, Y: cfg.Height / 2}}, nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, 0x5eed))
	positions := make([]Position, n)
	for i := range positions {
		positions[i] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(n)) // Optimal distance
	temperature := cfg.Width / 10.0
	forces := make([]Position, n)

	for iter := 0; iter < cfg.Iterations; iter++ {
		clear(forces)

		// Repulsion between all pairs
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction along contacts; each undirected edge is seen from both ends
		for i := 0; i < n; i++ {
			for _, nb := range g.Neighbors(contact.NodeID(i)) {
				dx := positions[i].X - positions[nb].X
				dy := positions[i].Y - positions[nb].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for i := range positions {
			fx, fy := forces[i].X, forces[i].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[i].X += (fx / force) * step
				positions[i].Y += (fy / force) * step
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding), nil
}
