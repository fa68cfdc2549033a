package experiment

import (
	"runtime"

	"github.com/dd0wney/cluso-vaxsim/pkg/spread"
)

// Defaults used by DefaultConfig
const (
	DefaultTrials          = 20
	DefaultInitialInfected = 3
	DefaultVaccineQuota    = 20
)

// Config controls one experiment. Counts outside [0, population] are clamped
// when trials run; only Trials and InfectionProb are rejected by NewRunner.
type Config struct {
	Trials          int     `yaml:"trials" json:"trials" validate:"min=1"`
	InitialInfected int     `yaml:"initial_infected" json:"initial_infected"`
	VaccineQuota    int     `yaml:"vaccine_quota" json:"vaccine_quota"`
	InfectionProb   float64 `yaml:"infection_prob" json:"infection_prob" validate:"gte=0,lte=1"`
	// Seed 0 picks a random seed at construction; Runner.Seed reports it.
	Seed uint64 `yaml:"seed" json:"seed"`
	// Workers <= 0 means GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns the standard experiment setup.
func DefaultConfig() Config {
	return Config{
		Trials:          DefaultTrials,
		InitialInfected: DefaultInitialInfected,
		VaccineQuota:    DefaultVaccineQuota,
		InfectionProb:   spread.DefaultInfectionProb,
		Workers:         runtime.GOMAXPROCS(0),
	}
}
