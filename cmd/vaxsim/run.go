package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-vaxsim/pkg/algorithms"
	"github.com/dd0wney/cluso-vaxsim/pkg/config"
	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/generator"
	"github.com/dd0wney/cluso-vaxsim/pkg/health"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
	"github.com/dd0wney/cluso-vaxsim/pkg/report"
	"github.com/dd0wney/cluso-vaxsim/pkg/server"
	"github.com/dd0wney/cluso-vaxsim/pkg/store"
	"github.com/dd0wney/cluso-vaxsim/pkg/visualization"
)

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg := opts.cfg
	start := time.Now()

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	logging.SetDefaultLogger(logger)
	reg := metrics.NewRegistry()

	g, graphSeed, err := buildGraph(cfg.Graph.Model, cfg.Graph.Params(), cfg.Graph.Seed, logger, reg)
	if err != nil {
		return err
	}

	var pg *store.PGStore
	if cfg.Output.PostgresURL != "" {
		pg, err = store.NewPGStore(ctx, cfg.Output.PostgresURL)
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		defer pg.Close()
	}

	runner, err := experiment.NewRunner(g, cfg.Experiment,
		experiment.WithLogger(logger), experiment.WithMetrics(reg))
	if err != nil {
		return err
	}
	logger.Info("experiment configured",
		logging.ExperimentID(runner.ID()),
		logging.Seed(runner.Seed()),
		logging.Uint64("graph_seed", graphSeed),
		logging.Int("trials", cfg.Experiment.Trials),
		logging.Int("workers", runner.Config().Workers))

	var compareErr atomic.Pointer[error]
	var srv *server.GracefulServer
	srvDone := make(chan error, 1)
	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	if cfg.MetricsAddr != "" {
		total := len(policy.All()) * cfg.Experiment.Trials
		checker := health.NewChecker(5 * time.Second)
		checker.Register("memory", health.MemoryCheck())
		checker.RegisterReadiness("experiment", health.ExperimentCheck(func() (int, int, error) {
			if p := compareErr.Load(); p != nil {
				return runner.TrialCount(), total, *p
			}
			return runner.TrialCount(), total, nil
		}))
		if pg != nil {
			checker.RegisterReadiness("database", health.DatabaseCheck(pg.Ping))
		}

		srv = server.New(cfg.MetricsAddr, reg, checker, logger)
		go func() { srvDone <- srv.Run(srvCtx) }()
	} else {
		close(srvDone)
	}

	cmp, err := runner.CompareAllPoliciesContext(ctx)
	if err != nil {
		compareErr.Store(&err)
		return err
	}
	reg.UpdateSystemMetrics(start)
	if srv != nil {
		srv.Publish(cmp)
	}

	if cfg.Output.Text {
		largest := algorithms.ConnectedComponents(g, nil).Largest()
		if err := report.WriteGraphStats(stdout, g.Stats(), largest.Size); err != nil {
			return err
		}
		if err := report.WriteText(stdout, cmp); err != nil {
			return err
		}
	}

	if err := export(ctx, cfg.Output, cmp, logger, reg); err != nil {
		logger.Error("export failed", logging.Error(err))
	}

	if pg != nil {
		if err := pg.SaveComparison(ctx, cmp, runner.Config()); err != nil {
			logger.Error("failed to store comparison", logging.Error(err))
		} else {
			logger.Info("comparison stored", logging.ExperimentID(cmp.ExperimentID))
		}
	}

	if opts.scenePath != "" {
		if err := writeScene(opts.scenePath, runner, opts.scenePolicy, opts.sceneTrial, graphSeed); err != nil {
			logger.Error("failed to write scene", logging.Error(err), logging.Path(opts.scenePath))
		} else {
			logger.Info("scene written", logging.Path(opts.scenePath), logging.Policy(opts.scenePolicy.String()))
		}
	}

	if opts.serve {
		logger.Info("serving until interrupted", logging.String("addr", srv.Addr()))
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
	serve:
		for {
			select {
			case <-ctx.Done():
				break serve
			case err := <-srvDone:
				return err
			case <-ticker.C:
				reg.UpdateSystemMetrics(start)
			}
		}
	}

	stopServer()
	if err := <-srvDone; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// buildGraph generates the contact network. A zero seed is replaced by a
// random one, which is returned so the run can be reproduced.
func buildGraph(model string, params generator.Params, seed uint64, logger logging.Logger, reg *metrics.Registry) (*contact.Graph, uint64, error) {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	timer := logging.StartTimer(logger, "contact graph built",
		logging.String("model", model), logging.Population(params.Nodes))
	g, err := generator.Build(generator.Model(model), params, rng)
	if err != nil {
		timer.EndError(err)
		return nil, 0, fmt.Errorf("build %s graph: %w", model, err)
	}

	stats := g.Stats()
	largest := algorithms.ConnectedComponents(g, nil).Largest()
	timer.End(
		logging.Int("edges", stats.Edges),
		logging.Float64("average_degree", stats.AverageDegree),
		logging.Int("max_degree", stats.MaxDegree),
		logging.Int("isolated", stats.Isolated),
		logging.Int("largest_component", largest.Size))

	reg.RecordGraph(model, stats.Nodes, stats.Edges, stats.MaxDegree, stats.AverageDegree)
	return g, seed, nil
}

// export sends the CSV report to every configured sink
func export(ctx context.Context, out config.Output, cmp *experiment.Comparison, logger logging.Logger, reg *metrics.Registry) error {
	sinks := make([]report.Sink, 0, 2)
	if out.Dir != "" {
		fs, err := report.NewFileSink(out.Dir)
		if err != nil {
			return err
		}
		sinks = append(sinks, fs)
	}
	if out.S3 != nil {
		s3, err := report.NewS3Sink(ctx, *out.S3)
		if err != nil {
			return err
		}
		sinks = append(sinks, s3)
	}
	if len(sinks) == 0 {
		return nil
	}
	return report.NewExporter(sinks, out.Compress, logger, reg).Export(ctx, cmp)
}

// writeScene replays one trial and writes every frame as a JSON line
func writeScene(path string, runner *experiment.Runner, k policy.Kind, trial int, seed uint64) error {
	replay, err := runner.Replay(k, trial)
	if err != nil {
		return err
	}

	layout := visualization.NewForceDirectedLayout(&visualization.LayoutConfig{
		Width:  1000,
		Height: 1000,
		Seed:   seed,
	})
	scene, err := visualization.NewScene(runner.Graph(), layout, replay.Vaccinated, replay.Waves)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for frame := range scene.Frames() {
		data, err := scene.ExportJSON(frame)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
