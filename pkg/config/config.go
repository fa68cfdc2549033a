// Package config loads the simulator's YAML configuration.
package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/generator"
	"github.com/dd0wney/cluso-vaxsim/pkg/report"
	"github.com/dd0wney/cluso-vaxsim/pkg/validation"
)

// Config is the full simulator configuration as read from YAML.
type Config struct {
	Graph       Graph             `yaml:"graph"`
	Experiment  experiment.Config `yaml:"experiment"`
	Output      Output            `yaml:"output"`
	LogLevel    string            `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	MetricsAddr string            `yaml:"metrics_addr,omitempty"`
}

// Graph selects the contact network model and its parameters.
type Graph struct {
	Model           string  `yaml:"model" validate:"required,oneof=random scale-free pairs"`
	Nodes           int     `yaml:"nodes" validate:"min=1"`
	EdgeProbability float64 `yaml:"edge_probability" validate:"gte=0,lte=1"`
	EdgesPerNode    int     `yaml:"edges_per_node" validate:"gte=0"`
	PairDraws       int     `yaml:"pair_draws" validate:"gte=0"`
	// Seed 0 draws a random topology each run.
	Seed uint64 `yaml:"seed"`
}

// Output controls where reports go. Every destination is optional.
type Output struct {
	Dir         string           `yaml:"dir,omitempty"`
	Compress    bool             `yaml:"compress"`
	Text        bool             `yaml:"text"`
	S3          *report.S3Config `yaml:"s3,omitempty"`
	PostgresURL string           `yaml:"postgres_url,omitempty" validate:"omitempty,url"`
}

// Params converts the graph section into generator parameters.
func (g Graph) Params() generator.Params {
	return generator.Params{
		Nodes:           g.Nodes,
		EdgeProbability: g.EdgeProbability,
		EdgesPerNode:    g.EdgesPerNode,
		PairDraws:       g.PairDraws,
	}
}

// Default returns a 100-dog scale-free setup with the standard experiment.
func Default() *Config {
	return &Config{
		Graph: Graph{
			Model:           string(generator.ModelScaleFree),
			Nodes:           100,
			EdgeProbability: 0.05,
			EdgesPerNode:    3,
		},
		Experiment: experiment.DefaultConfig(),
		Output: Output{
			Text: true,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Keys absent
// from data keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs the struct-tag rules, then the cross-field checks.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("config").
		Positive("experiment.trials", c.Experiment.Trials).
		Probability("experiment.infection_prob", c.Experiment.InfectionProb).
		When(c.Graph.Model == string(generator.ModelRandom), func(cv *validation.ConfigValidator) {
			cv.Probability("graph.edge_probability", c.Graph.EdgeProbability)
		}).
		When(c.Output.S3 != nil, func(cv *validation.ConfigValidator) {
			cv.Required("output.s3.bucket", c.Output.S3.Bucket)
			cv.When(c.Output.S3.AccessKeyID != "", func(cv *validation.ConfigValidator) {
				cv.Required("output.s3.secret_access_key", c.Output.S3.SecretAccessKey)
			})
		}).
		When(c.MetricsAddr != "", func(cv *validation.ConfigValidator) {
			cv.Custom("metrics_addr", func() error {
				_, _, err := net.SplitHostPort(c.MetricsAddr)
				return err
			})
		}).
		Validate()
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
