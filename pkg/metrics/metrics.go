package metrics

import (
	"runtime"
	"time"
)

// RecordTrial records a finished simulation trial
func (r *Registry) RecordTrial(policy string, finalInfected, vaccinated, population int, duration time.Duration) {
	r.TrialsTotal.WithLabelValues(policy).Inc()
	r.TrialFinalInfected.WithLabelValues(policy).Observe(float64(finalInfected))
	r.TrialDuration.WithLabelValues(policy).Observe(duration.Seconds())
	r.VaccinesUsed.WithLabelValues(policy).Add(float64(vaccinated))
	if population > 0 {
		r.TrialInfectionRate.WithLabelValues(policy).Observe(float64(finalInfected) / float64(population))
	}
}

// RecordComparison records the outcome of comparing all policies.
// means maps policy name to mean final infected.
func (r *Registry) RecordComparison(means map[string]float64, best string, improvement float64, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ComparisonsTotal.WithLabelValues("success").Inc()
	r.ComparisonDuration.Observe(duration.Seconds())
	r.ImprovementOverRandom.Set(improvement)

	for name, mean := range means {
		r.PolicyMeanInfected.WithLabelValues(name).Set(mean)
		r.BestPolicy.WithLabelValues(name).Set(0)
	}
	r.BestPolicy.WithLabelValues(best).Set(1)
}

// RecordComparisonFailure counts a comparison that returned an error
func (r *Registry) RecordComparisonFailure() {
	r.ComparisonsTotal.WithLabelValues("error").Inc()
}

// RecordGraph publishes the shape of a freshly built contact graph
func (r *Registry) RecordGraph(model string, nodes, edges, maxDegree int, averageDegree float64) {
	r.GraphBuildsTotal.WithLabelValues(model).Inc()
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.GraphMaxDegree.Set(float64(maxDegree))
	r.GraphAverageDegree.Set(averageDegree)
}

// RecordExport records a report export to the named sink
func (r *Registry) RecordExport(sink string, bytes int, err error) {
	if err != nil {
		r.ExportsTotal.WithLabelValues(sink, "error").Inc()
		return
	}
	r.ExportsTotal.WithLabelValues(sink, "success").Inc()
	r.ExportBytesTotal.WithLabelValues(sink).Add(float64(bytes))
}

// UpdateSystemMetrics refreshes process-level gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}
