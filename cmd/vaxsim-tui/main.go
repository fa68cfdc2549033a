package main

import (
	"flag"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-vaxsim/pkg/config"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	model := flag.String("model", "", "Graph model: random, scale-free or pairs")
	nodes := flag.Int("nodes", 0, "Number of dogs")
	trials := flag.Int("trials", 0, "Trials per policy")
	seed := flag.Uint64("seed", 0, "Experiment seed (0 = random)")
	logPath := flag.String("log", "", "Write JSON logs to this file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *model != "" {
		cfg.Graph.Model = *model
	}
	if *nodes > 0 {
		cfg.Graph.Nodes = *nodes
	}
	if *trials > 0 {
		cfg.Experiment.Trials = *trials
	}
	if *seed != 0 {
		cfg.Experiment.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The terminal belongs to the dashboard; logs go to a file or nowhere
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.NewJSONLogger(out, logging.ParseLevel(cfg.LogLevel))

	p := tea.NewProgram(initialModel(cfg, logger, metrics.NewRegistry()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
