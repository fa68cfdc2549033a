package main

import (
	"flag"
	"fmt"

	"github.com/dd0wney/cluso-vaxsim/pkg/config"
	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
)

type options struct {
	cfg   *config.Config
	serve bool

	// Optional scene export of one replayed trial
	scenePath   string
	scenePolicy policy.Kind
	sceneTrial  int
}

// parseFlags loads the config file named by -config, then lets explicitly set
// flags override it.
func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("vaxsim", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML config file")
	model := fs.String("model", "", "Graph model: random, scale-free or pairs")
	nodes := fs.Int("nodes", 0, "Number of dogs in the contact network")
	edgeProb := fs.Float64("p", 0, "Edge probability for the random model")
	edgesPerNode := fs.Int("k", 0, "Edges per new node for the scale-free model")
	graphSeed := fs.Uint64("graph-seed", 0, "Topology seed (0 = random)")
	trials := fs.Int("trials", 0, "Trials per policy")
	infected := fs.Int("infected", 0, "Initially infected dogs")
	vaccines := fs.Int("vaccines", 0, "Vaccine quota per trial")
	infProb := fs.Float64("infection-prob", 0, "Per-contact transmission probability")
	seed := fs.Uint64("seed", 0, "Experiment seed (0 = random)")
	workers := fs.Int("workers", 0, "Parallel trial workers (0 = GOMAXPROCS)")
	outDir := fs.String("out", "", "Directory to write the CSV report to")
	compress := fs.Bool("compress", false, "Snappy-compress exported reports")
	quiet := fs.Bool("quiet", false, "Do not print the text report")
	pgURL := fs.String("postgres", "", "Postgres URL to store results in")
	metricsAddr := fs.String("metrics-addr", "", "Address to serve /metrics and health probes on")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	serve := fs.Bool("serve", false, "Keep serving metrics after the comparison until interrupted")
	scene := fs.String("scene", "", "Write a JSON animation of one trial to this file")
	scenePolicy := fs.String("scene-policy", policy.HighDegree.String(), "Policy for -scene")
	sceneTrial := fs.Int("scene-trial", 1, "Trial number for -scene")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["model"] {
		cfg.Graph.Model = *model
	}
	if set["nodes"] {
		cfg.Graph.Nodes = *nodes
	}
	if set["p"] {
		cfg.Graph.EdgeProbability = *edgeProb
	}
	if set["k"] {
		cfg.Graph.EdgesPerNode = *edgesPerNode
	}
	if set["graph-seed"] {
		cfg.Graph.Seed = *graphSeed
	}
	if set["trials"] {
		cfg.Experiment.Trials = *trials
	}
	if set["infected"] {
		cfg.Experiment.InitialInfected = *infected
	}
	if set["vaccines"] {
		cfg.Experiment.VaccineQuota = *vaccines
	}
	if set["infection-prob"] {
		cfg.Experiment.InfectionProb = *infProb
	}
	if set["seed"] {
		cfg.Experiment.Seed = *seed
	}
	if set["workers"] {
		cfg.Experiment.Workers = *workers
	}
	if set["out"] {
		cfg.Output.Dir = *outDir
	}
	if set["compress"] {
		cfg.Output.Compress = *compress
	}
	if set["quiet"] {
		cfg.Output.Text = !*quiet
	}
	if set["postgres"] {
		cfg.Output.PostgresURL = *pgURL
	}
	if set["metrics-addr"] {
		cfg.MetricsAddr = *metricsAddr
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &options{cfg: cfg, serve: *serve, scenePath: *scene, sceneTrial: *sceneTrial}
	if opts.scenePath != "" {
		k, err := policy.Parse(*scenePolicy)
		if err != nil {
			return nil, err
		}
		if *sceneTrial < 1 {
			return nil, fmt.Errorf("-scene-trial must be >= 1, got %d", *sceneTrial)
		}
		opts.scenePolicy = k
	}
	if opts.serve && cfg.MetricsAddr == "" {
		return nil, fmt.Errorf("-serve requires -metrics-addr")
	}
	return opts, nil
}
