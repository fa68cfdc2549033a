package experiment

import (
	"time"

	"golang.org/x/exp/constraints"

	"github.com/dd0wney/cluso-vaxsim/pkg/policy"
)

// SimulationResult is the immutable record of one trial.
type SimulationResult struct {
	Policy        policy.Kind `json:"policy"`
	Trial         int         `json:"trial"`
	EverInfected  int         `json:"ever_infected"`
	FinalInfected int         `json:"final_infected"`
	Vaccinated    int         `json:"vaccinated"`
	Population    int         `json:"population"`
}

// InfectionRate returns FinalInfected as a percentage of the population.
func (r SimulationResult) InfectionRate() float64 {
	return percent(float64(r.FinalInfected), r.Population)
}

// PolicySummary holds per-policy means over a set of trials.
type PolicySummary struct {
	Policy           policy.Kind `json:"policy"`
	Trials           int         `json:"trials"`
	AvgEverInfected  float64     `json:"avg_ever_infected"`
	AvgFinalInfected float64     `json:"avg_final_infected"`
	AvgVaccinated    float64     `json:"avg_vaccinated"`
	Population       int         `json:"population"`
}

// InfectionRate returns AvgFinalInfected as a percentage of the population.
func (s PolicySummary) InfectionRate() float64 {
	return percent(s.AvgFinalInfected, s.Population)
}

// Comparison is the outcome of CompareAllPolicies.
type Comparison struct {
	ExperimentID string             `json:"experiment_id"`
	Seed         uint64             `json:"seed"`
	Population   int                `json:"population"`
	Summaries    []PolicySummary    `json:"summaries"`
	Best         policy.Kind        `json:"best"`
	Improvement  float64            `json:"improvement"`
	Results      []SimulationResult `json:"results"`
	Duration     time.Duration      `json:"duration"`
}

// Summary returns the summary for k, if k took part in the comparison.
func (c *Comparison) Summary(k policy.Kind) (PolicySummary, bool) {
	for _, s := range c.Summaries {
		if s.Policy == k {
			return s, true
		}
	}
	return PolicySummary{}, false
}

// Means maps policy name to mean final infected.
func (c *Comparison) Means() map[string]float64 {
	means := make(map[string]float64, len(c.Summaries))
	for _, s := range c.Summaries {
		means[s.Policy.String()] = s.AvgFinalInfected
	}
	return means
}

// Summarize groups results by policy and averages each field. Summaries come
// back in canonical policy order; policies without results are left out.
func Summarize(results []SimulationResult) []PolicySummary {
	grouped := make(map[policy.Kind][]SimulationResult)
	for _, r := range results {
		grouped[r.Policy] = append(grouped[r.Policy], r)
	}

	summaries := make([]PolicySummary, 0, len(grouped))
	for _, k := range policy.All() {
		rs, ok := grouped[k]
		if !ok {
			continue
		}
		summaries = append(summaries, PolicySummary{
			Policy:           k,
			Trials:           len(rs),
			AvgEverInfected:  mean(field(rs, func(r SimulationResult) int { return r.EverInfected })),
			AvgFinalInfected: mean(field(rs, func(r SimulationResult) int { return r.FinalInfected })),
			AvgVaccinated:    mean(field(rs, func(r SimulationResult) int { return r.Vaccinated })),
			Population:       rs[0].Population,
		})
	}
	return summaries
}

// BestPolicy picks the summary with the lowest mean final infected count.
// Ties go to the policy listed first. ok is false for an empty slice.
func BestPolicy(summaries []PolicySummary) (best policy.Kind, ok bool) {
	lowest := 0.0
	for _, s := range summaries {
		if !ok || s.AvgFinalInfected < lowest {
			best, lowest, ok = s.Policy, s.AvgFinalInfected, true
		}
	}
	return best, ok
}

// Improvement is the relative reduction in mean final infections of best
// versus random: (random - best) / random, or 0 when random is 0.
func Improvement(random, best float64) float64 {
	if random == 0 {
		return 0
	}
	return (random - best) / random
}

func field[T any, V constraints.Integer | constraints.Float](items []T, get func(T) V) []V {
	out := make([]V, len(items))
	for i, item := range items {
		out[i] = get(item)
	}
	return out
}

func mean[V constraints.Integer | constraints.Float](values []V) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

func percent(value float64, population int) float64 {
	if population <= 0 {
		return 0
	}
	return value / float64(population) * 100
}
