package visualization

import (
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/spread"
)

// WaveLayout stacks nodes in rows by the infection wave that reached them.
// Row 0 holds the seeds; nodes never infected share the bottom row.
type WaveLayout struct {
	config *LayoutConfig
	waves  spread.Waves
}

// NewWaveLayout creates a layout for one recorded outbreak
func NewWaveLayout(config *LayoutConfig, waves spread.Waves) *WaveLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &WaveLayout{config: config, waves: waves}
}

// ComputeLayout arranges nodes by wave
func (wl *WaveLayout) ComputeLayout(g *contact.Graph) ([]Position, error) {
	n := g.Len()
	positions := make([]Position, n)

	placed := make([]bool, n)
	levels := make([][]contact.NodeID, 0, len(wl.waves)+1)
	for _, wave := range wl.waves {
		level := make([]contact.NodeID, 0, len(wave))
		for _, id := range wave {
			if g.Contains(id) && !placed[id] {
				placed[id] = true
				level = append(level, id)
			}
		}
		if len(level) > 0 {
			levels = append(levels, level)
		}
	}

	rest := make([]contact.NodeID, 0)
	for i := range placed {
		if !placed[i] {
			rest = append(rest, contact.NodeID(i))
		}
	}
	if len(rest) > 0 {
		levels = append(levels, rest)
	}

	cfg := wl.config
	levelHeight := (cfg.Height - 2*cfg.Padding) / float64(len(levels))
	levelWidth := cfg.Width - 2*cfg.Padding

	for levelIdx, level := range levels {
		y := cfg.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for nodeIdx, id := range level {
			positions[id] = Position{X: cfg.Padding + spacing*float64(nodeIdx+1), Y: y}
		}
	}

	return positions, nil
}
