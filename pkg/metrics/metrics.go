package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles the engine's Prometheus collectors. Components receive a
// *Registry rather than registering metrics globally, so tests can use an
// isolated prometheus.Registry.
type Registry struct {
	PathComputationsTotal   *prometheus.CounterVec
	PathComputationDuration prometheus.Histogram
	ECMPPathsTotal          prometheus.Counter

	ImpactAnalysesTotal     *prometheus.CounterVec
	ImpactAnalysisDuration  prometheus.Histogram
	ImpactPairsProcessed    prometheus.Counter
	ImpactClassifications   *prometheus.CounterVec
}

// NewRegistry creates the collectors and registers them with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		PathComputationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkscope_path_computations_total",
			Help: "Shortest-path solver invocations by outcome",
		}, []string{"outcome"}),
		PathComputationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkscope_path_computation_duration_seconds",
			Help:    "Duration of a single shortest-path computation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 10, 8),
		}),
		ECMPPathsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkscope_ecmp_paths_total",
			Help: "Path computations that found equal-cost multi-path routes",
		}),
		ImpactAnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkscope_impact_analyses_total",
			Help: "Impact analysis runs by status",
		}, []string{"status"}),
		ImpactAnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkscope_impact_analysis_duration_seconds",
			Help:    "Duration of a full all-pairs impact analysis",
			Buckets: prometheus.ExponentialBuckets(0.001, 10, 6),
		}),
		ImpactPairsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkscope_impact_pairs_processed_total",
			Help: "Ordered src/dest pairs evaluated by the impact analyzer",
		}),
		ImpactClassifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkscope_impact_classifications_total",
			Help: "Impact records produced, by classification",
		}, []string{"classification"}),
	}
}

// RecordPathComputation records one solver invocation.
func (r *Registry) RecordPathComputation(found, ecmp bool, duration time.Duration) {
	outcome := "found"
	if !found {
		outcome = "no_path"
	}
	r.PathComputationsTotal.WithLabelValues(outcome).Inc()
	r.PathComputationDuration.Observe(duration.Seconds())
	if ecmp {
		r.ECMPPathsTotal.Inc()
	}
}

// RecordImpactAnalysis records a completed, cancelled or failed analysis run.
func (r *Registry) RecordImpactAnalysis(status string, duration time.Duration, pairs int) {
	r.ImpactAnalysesTotal.WithLabelValues(status).Inc()
	r.ImpactAnalysisDuration.Observe(duration.Seconds())
	r.ImpactPairsProcessed.Add(float64(pairs))
}

// RecordClassification counts one impact record by its classification.
func (r *Registry) RecordClassification(classification string) {
	r.ImpactClassifications.WithLabelValues(classification).Inc()
}
