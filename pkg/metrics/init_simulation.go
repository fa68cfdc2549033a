package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTrialMetrics() {
	r.TrialsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaxsim_trials_total",
			Help: "Total number of simulation trials run",
		},
		[]string{"policy"},
	)

	r.TrialFinalInfected = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaxsim_trial_final_infected",
			Help:    "Number of infected dogs at the end of a trial",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
		},
		[]string{"policy"},
	)

	r.TrialInfectionRate = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaxsim_trial_infection_rate",
			Help:    "Fraction of the population infected at the end of a trial",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"policy"},
	)

	r.TrialDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaxsim_trial_duration_seconds",
			Help:    "Wall time of a single trial in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"policy"},
	)

	r.VaccinesUsed = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaxsim_vaccines_used_total",
			Help: "Total number of vaccine doses administered",
		},
		[]string{"policy"},
	)
}

func (r *Registry) initComparisonMetrics() {
	r.ComparisonsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaxsim_comparisons_total",
			Help: "Total number of policy comparisons",
		},
		[]string{"status"},
	)

	r.ComparisonDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vaxsim_comparison_duration_seconds",
			Help:    "Wall time of a full policy comparison in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.PolicyMeanInfected = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vaxsim_policy_mean_final_infected",
			Help: "Mean final infected count per policy in the last comparison",
		},
		[]string{"policy"},
	)

	r.BestPolicy = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vaxsim_best_policy",
			Help: "1 for the policy that won the last comparison, 0 otherwise",
		},
		[]string{"policy"},
	)

	r.ImprovementOverRandom = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vaxsim_improvement_over_random_ratio",
			Help: "Relative reduction in mean infections of the best policy versus random",
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vaxsim_graph_nodes",
			Help: "Population of the current contact graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vaxsim_graph_edges",
			Help: "Number of contact edges in the current graph",
		},
	)

	r.GraphMaxDegree = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vaxsim_graph_max_degree",
			Help: "Largest degree in the current contact graph",
		},
	)

	r.GraphAverageDegree = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vaxsim_graph_average_degree",
			Help: "Average degree of the current contact graph",
		},
	)

	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaxsim_graph_builds_total",
			Help: "Total number of contact graphs generated",
		},
		[]string{"model"},
	)
}

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaxsim_exports_total",
			Help: "Total number of report exports",
		},
		[]string{"sink", "status"},
	)

	r.ExportBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaxsim_export_bytes_total",
			Help: "Total bytes written by report exports",
		},
		[]string{"sink"},
	)
}
