// Package experiment runs repeated vaccination trials over one contact graph
// and ranks the policies by how far the outbreak spread.
//
// Every trial follows the same fixed sequence on a fresh epidemic state:
// seed the infection, apply the policy, spread. The topology is sealed and
// shared read-only, so trials run in parallel. Each trial draws from its own
// generator derived from the runner seed, the policy and the trial number,
// which makes a comparison reproducible regardless of worker count.
package experiment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
	"github.com/dd0wney/cluso-vaxsim/pkg/parallel"
	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
	"github.com/dd0wney/cluso-vaxsim/pkg/spread"
)

// Runner executes trials against a single contact graph.
type Runner struct {
	id      string
	graph   *contact.Graph
	cfg     Config
	seed    uint64
	sim     *spread.Simulator
	logger  logging.Logger
	metrics *metrics.Registry
	log     trialLog
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records trials and comparisons into reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// WithExperimentID overrides the generated experiment id.
func WithExperimentID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.id = id
		}
	}
}

// NewRunner seals g and prepares a runner for it. It fails only for a nil
// graph, fewer than one trial, or an infection probability outside [0, 1].
func NewRunner(g *contact.Graph, cfg Config, opts ...Option) (*Runner, error) {
	if g == nil {
		return nil, contact.InvalidParameterError("NewRunner", "graph is nil")
	}
	if cfg.Trials < 1 {
		return nil, contact.InvalidParameterError("NewRunner", "trials %d < 1", cfg.Trials)
	}
	sim, err := spread.New(cfg.InfectionProb)
	if err != nil {
		return nil, fmt.Errorf("NewRunner: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	g.Seal()

	r := &Runner{
		id:     uuid.NewString(),
		graph:  g,
		cfg:    cfg,
		seed:   cfg.Seed,
		sim:    sim,
		logger: logging.NewNopLogger(),
	}
	if r.seed == 0 {
		r.seed = rand.Uint64() | 1
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logging.Component("experiment"), logging.ExperimentID(r.id))

	n := g.Len()
	if c := contact.ClampCount(cfg.InitialInfected, n); c != cfg.InitialInfected {
		r.logger.Warn("initial infected count clamped",
			logging.Int("requested", cfg.InitialInfected), logging.Int("effective", c))
	}
	if c := contact.ClampCount(cfg.VaccineQuota, n); c != cfg.VaccineQuota {
		r.logger.Warn("vaccine quota clamped",
			logging.Int("requested", cfg.VaccineQuota), logging.Int("effective", c))
	}

	return r, nil
}

// ID returns the experiment id.
func (r *Runner) ID() string { return r.id }

// Seed returns the seed every trial generator is derived from.
func (r *Runner) Seed() uint64 { return r.seed }

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Graph returns the sealed contact graph.
func (r *Runner) Graph() *contact.Graph { return r.graph }

// trialRNG derives the generator for one (policy, trial) pair.
func (r *Runner) trialRNG(k policy.Kind, trial int) *rand.Rand {
	stream := uint64(uint32(k))<<32 | uint64(uint32(trial))
	return rand.New(rand.NewPCG(r.seed, stream))
}

// Trial is a fully materialised trial: the final state plus what each step
// selected. It is what visual replays consume.
type Trial struct {
	Result     SimulationResult
	Seeds      []contact.NodeID
	Vaccinated []contact.NodeID
	Waves      spread.Waves
	State      *contact.State
}

func (r *Runner) execute(k policy.Kind, trial int, recordWaves bool) (*Trial, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", policy.ErrUnknownPolicy, int(k))
	}
	start := time.Now()
	rng := r.trialRNG(k, trial)

	st := contact.NewState(r.graph)
	seeds := st.InfectSeed(rng, r.cfg.InitialInfected)
	vaccinated := k.Apply(st, r.cfg.VaccineQuota, rng)

	var (
		outcome spread.Outcome
		waves   spread.Waves
	)
	if recordWaves {
		outcome, waves = r.sim.RunWaves(st, rng)
	} else {
		outcome = r.sim.Run(st, rng)
	}

	result := SimulationResult{
		Policy:        k,
		Trial:         trial,
		EverInfected:  outcome.EverInfected,
		FinalInfected: outcome.FinalInfected,
		Vaccinated:    outcome.Vaccinated,
		Population:    r.graph.Len(),
	}

	elapsed := time.Since(start)
	// Replays re-derive a logged trial and are not counted again
	if r.metrics != nil && !recordWaves {
		r.metrics.RecordTrial(k.String(), result.FinalInfected, result.Vaccinated, result.Population, elapsed)
	}
	r.logger.Debug("trial finished",
		logging.Policy(k.String()),
		logging.Trial(trial),
		logging.Int("final_infected", result.FinalInfected),
		logging.Latency(elapsed))

	return &Trial{
		Result:     result,
		Seeds:      seeds,
		Vaccinated: vaccinated,
		Waves:      waves,
		State:      st,
	}, nil
}

// RunOnce executes one trial of policy k and appends its result to the log.
// The same (k, trial) pair always produces the same result for a runner.
func (r *Runner) RunOnce(k policy.Kind, trial int) (SimulationResult, error) {
	t, err := r.execute(k, trial, false)
	if err != nil {
		return SimulationResult{}, err
	}
	r.log.append(t.Result)
	return t.Result, nil
}

// RunOnceWaves replays trial (k, trial) and records the infection waves.
// The result matches RunOnce for the same pair and is not appended to the log.
func (r *Runner) RunOnceWaves(k policy.Kind, trial int) (SimulationResult, spread.Waves, error) {
	t, err := r.Replay(k, trial)
	if err != nil {
		return SimulationResult{}, nil, err
	}
	return t.Result, t.Waves, nil
}

// Replay re-executes trial (k, trial) and returns everything it produced.
// Nothing is appended to the log.
func (r *Runner) Replay(k policy.Kind, trial int) (*Trial, error) {
	return r.execute(k, trial, true)
}

// CompareAllPolicies runs Trials trials of every policy and ranks them.
func (r *Runner) CompareAllPolicies() (*Comparison, error) {
	return r.CompareAllPoliciesContext(context.Background())
}

// CompareAllPoliciesContext is CompareAllPolicies with cancellation. Trials
// are numbered 1..Trials and appended to the log in (policy, trial) order.
func (r *Runner) CompareAllPoliciesContext(ctx context.Context) (*Comparison, error) {
	timer := logging.StartTimer(r.logger, "policy comparison finished",
		logging.Population(r.graph.Len()),
		logging.Seed(r.seed),
		logging.Int("trials", r.cfg.Trials))

	policies := policy.All()
	trials := r.cfg.Trials

	results, err := parallel.MapIndexed(ctx, r.cfg.Workers, len(policies)*trials,
		func(_ context.Context, i int) (SimulationResult, error) {
			t, err := r.execute(policies[i/trials], i%trials+1, false)
			if err != nil {
				return SimulationResult{}, err
			}
			return t.Result, nil
		},
		parallel.WithLogger(r.logger))
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordComparisonFailure()
		}
		timer.EndError(err)
		return nil, fmt.Errorf("compare policies: %w", err)
	}

	r.log.append(results...)

	summaries := Summarize(results)
	best, _ := BestPolicy(summaries)

	cmp := &Comparison{
		ExperimentID: r.id,
		Seed:         r.seed,
		Population:   r.graph.Len(),
		Summaries:    summaries,
		Best:         best,
		Results:      results,
	}
	if random, ok := cmp.Summary(policy.Random); ok {
		winner, _ := cmp.Summary(best)
		cmp.Improvement = Improvement(random.AvgFinalInfected, winner.AvgFinalInfected)
	}

	cmp.Duration = timer.End(
		logging.Policy(best.String()),
		logging.Float64("improvement", cmp.Improvement))

	if r.metrics != nil {
		r.metrics.RecordComparison(cmp.Means(), best.String(), cmp.Improvement, cmp.Duration)
	}

	return cmp, nil
}

// Results returns a copy of every result logged so far, in append order.
func (r *Runner) Results() []SimulationResult {
	return r.log.snapshot()
}

// Summaries recomputes per-policy means over the whole log.
func (r *Runner) Summaries() []PolicySummary {
	return Summarize(r.log.snapshot())
}

// TrialCount returns how many results the log holds.
func (r *Runner) TrialCount() int {
	return r.log.len()
}
