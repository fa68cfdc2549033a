package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the simulator
type Registry struct {
	// Trial Metrics
	TrialsTotal        *prometheus.CounterVec
	TrialFinalInfected *prometheus.HistogramVec
	TrialInfectionRate *prometheus.HistogramVec
	TrialDuration      *prometheus.HistogramVec
	VaccinesUsed       *prometheus.CounterVec

	// Comparison Metrics
	ComparisonsTotal      *prometheus.CounterVec
	ComparisonDuration    prometheus.Histogram
	PolicyMeanInfected    *prometheus.GaugeVec
	BestPolicy            *prometheus.GaugeVec
	ImprovementOverRandom prometheus.Gauge

	// Graph Metrics
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	GraphMaxDegree     prometheus.Gauge
	GraphAverageDegree prometheus.Gauge
	GraphBuildsTotal   *prometheus.CounterVec

	// Export Metrics
	ExportsTotal     *prometheus.CounterVec
	ExportBytesTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initTrialMetrics()
	r.initComparisonMetrics()
	r.initGraphMetrics()
	r.initExportMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
