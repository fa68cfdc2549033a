package main

import (
	"context"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-vaxsim/pkg/config"
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/generator"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
	"github.com/dd0wney/cluso-vaxsim/pkg/visualization"
)

const frameInterval = 400 * time.Millisecond

type layoutKind int

const (
	forceLayout layoutKind = iota
	circularLayout
	waveLayout
)

func (l layoutKind) String() string {
	return [...]string{"force", "circular", "waves"}[l]
}

type graphBuiltMsg struct {
	graph  *contact.Graph
	seed   uint64
	runner *experiment.Runner
	err    error
}

type comparisonMsg struct {
	cmp *experiment.Comparison
	err error
}

type sceneMsg struct {
	policy policy.Kind
	trial  int
	trace  *experiment.Trial
	scene  *visualization.Scene
	err    error
}

type frameTickMsg time.Time

func frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// buildGraphCmd generates a fresh topology and a runner for it. A zero seed
// draws a new one.
func buildGraphCmd(cfg *config.Config, seed uint64, logger logging.Logger, reg *metrics.Registry) tea.Cmd {
	return func() tea.Msg {
		if seed == 0 {
			seed = rand.Uint64() | 1
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

		g, err := generator.Build(generator.Model(cfg.Graph.Model), cfg.Graph.Params(), rng)
		if err != nil {
			return graphBuiltMsg{err: err}
		}
		stats := g.Stats()
		reg.RecordGraph(cfg.Graph.Model, stats.Nodes, stats.Edges, stats.MaxDegree, stats.AverageDegree)

		runner, err := experiment.NewRunner(g, cfg.Experiment,
			experiment.WithLogger(logger), experiment.WithMetrics(reg))
		if err != nil {
			return graphBuiltMsg{err: err}
		}
		return graphBuiltMsg{graph: g, seed: seed, runner: runner}
	}
}

// reseedCmd keeps the topology but starts a runner with a fresh experiment
// seed, so re-running trials draws new outbreaks.
func reseedCmd(cfg *config.Config, g *contact.Graph, graphSeed uint64, logger logging.Logger, reg *metrics.Registry) tea.Cmd {
	return func() tea.Msg {
		ecfg := cfg.Experiment
		ecfg.Seed = 0
		runner, err := experiment.NewRunner(g, ecfg, experiment.WithLogger(logger), experiment.WithMetrics(reg))
		if err != nil {
			return graphBuiltMsg{err: err}
		}
		return graphBuiltMsg{graph: g, seed: graphSeed, runner: runner}
	}
}

func compareCmd(runner *experiment.Runner) tea.Cmd {
	return func() tea.Msg {
		cmp, err := runner.CompareAllPoliciesContext(context.Background())
		return comparisonMsg{cmp: cmp, err: err}
	}
}

// replayCmd re-runs one trial with wave recording and lays it out
func replayCmd(runner *experiment.Runner, k policy.Kind, trial int, layout layoutKind, seed uint64) tea.Cmd {
	return func() tea.Msg {
		trace, err := runner.Replay(k, trial)
		if err != nil {
			return sceneMsg{policy: k, trial: trial, err: err}
		}

		cfg := &visualization.LayoutConfig{Width: 1000, Height: 1000, Seed: seed}
		var l visualization.Layout
		switch layout {
		case circularLayout:
			l = visualization.NewCircularLayout(cfg)
		case waveLayout:
			l = visualization.NewWaveLayout(cfg, trace.Waves)
		default:
			l = visualization.NewForceDirectedLayout(cfg)
		}

		scene, err := visualization.NewScene(runner.Graph(), l, trace.Vaccinated, trace.Waves)
		return sceneMsg{policy: k, trial: trial, trace: trace, scene: scene, err: err}
	}
}
