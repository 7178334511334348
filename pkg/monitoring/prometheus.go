package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements SerializerMetrics using Prometheus for
// metric collection.
//
// This implementation exposes metrics in the Prometheus format, allowing
// them to be scraped by a Prometheus server and visualized in dashboards
// like Grafana.
//
// All metrics are prefixed with "bubblyweb_" to avoid naming conflicts.
//
// Metrics exposed:
//   - bubblyweb_component_serializations_total: Counter of serialized components by selector
//   - bubblyweb_serialization_duration_seconds: Histogram of per-component serialization time
//   - bubblyweb_annotation_bytes: Histogram of annotation payload sizes
//   - bubblyweb_path_steps: Histogram of DOM path lengths
//   - bubblyweb_path_failures_total: Counter of unreachable path targets by selector
//   - bubblyweb_collapsed_views_total: Counter of view records merged by the compressor
//   - bubblyweb_shared_annotations_total: Counter of hosts reusing an existing table entry
//
// Thread-safe: All Prometheus collectors are thread-safe by design.
//
// Example:
//
//	func main() {
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    http.Handle("/metrics", promhttp.Handler())
//	    http.ListenAndServe(":2112", nil)
//	}
type PrometheusMetrics struct {
	serializations *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	annotationSize prometheus.Histogram
	pathSteps      prometheus.Histogram
	pathFailures   *prometheus.CounterVec
	collapsedViews prometheus.Counter
	sharedEntries  prometheus.Counter
	registry       prometheus.Registerer
}

// NewPrometheusMetrics creates a new Prometheus metrics collector and
// registers all metrics.
//
// The provided Registerer is used to register all metrics. You can use:
//   - prometheus.DefaultRegisterer for the global default registry
//   - prometheus.NewRegistry() for a custom isolated registry
//
// All metrics are registered immediately. If any metric fails to register
// (e.g., duplicate), this function will panic. This is intentional for
// fail-fast behavior at startup.
//
// Parameters:
//   - reg: The Prometheus Registerer to use for metric registration
//
// Returns:
//   - *PrometheusMetrics: A new Prometheus metrics collector
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	// Labels: component (selector like "app-root")
	serializations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bubblyweb_component_serializations_total",
			Help: "Total number of component views serialized into hydration annotations, partitioned by selector.",
		},
		[]string{"component"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bubblyweb_serialization_duration_seconds",
			Help:    "Histogram of per-component serialization time, including nested hosts.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		},
		[]string{"component"},
	)

	// Buckets: 16B .. 32KB (typical annotation sizes; {} is 2 bytes)
	annotationSize := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bubblyweb_annotation_bytes",
			Help:    "Histogram of JSON-encoded annotation sizes in bytes.",
			Buckets: prometheus.ExponentialBuckets(16, 2, 12),
		},
	)

	// Buckets: 0..20 steps (long paths indicate fragile deep projection)
	pathSteps := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bubblyweb_path_steps",
			Help:    "Histogram of DOM navigation path lengths in steps.",
			Buckets: []float64{0, 1, 2, 3, 5, 7, 10, 15, 20},
		},
	)

	pathFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bubblyweb_path_failures_total",
			Help: "Total number of unreachable path targets (future client-side hydration mismatches), partitioned by selector.",
		},
		[]string{"component"},
	)

	collapsedViews := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bubblyweb_collapsed_views_total",
			Help: "Total number of view records merged into multiplicity runs by the compressor.",
		},
	)

	sharedEntries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bubblyweb_shared_annotations_total",
			Help: "Total number of component hosts that reused an existing annotation table entry.",
		},
	)

	// Register all metrics (will panic on duplicate registration - fail fast)
	reg.MustRegister(serializations)
	reg.MustRegister(duration)
	reg.MustRegister(annotationSize)
	reg.MustRegister(pathSteps)
	reg.MustRegister(pathFailures)
	reg.MustRegister(collapsedViews)
	reg.MustRegister(sharedEntries)

	return &PrometheusMetrics{
		serializations: serializations,
		duration:       duration,
		annotationSize: annotationSize,
		pathSteps:      pathSteps,
		pathFailures:   pathFailures,
		collapsedViews: collapsedViews,
		sharedEntries:  sharedEntries,
		registry:       reg,
	}
}

// RecordComponentSerialization records that one component was serialized.
//
// Increments bubblyweb_component_serializations_total and observes the
// duration histogram for the given selector.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (pm *PrometheusMetrics) RecordComponentSerialization(component string, duration time.Duration) {
	pm.serializations.WithLabelValues(component).Inc()
	pm.duration.WithLabelValues(component).Observe(duration.Seconds())
}

// RecordAnnotationSize records the size of one distinct annotation entry.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (pm *PrometheusMetrics) RecordAnnotationSize(bytes int) {
	pm.annotationSize.Observe(float64(bytes))
}

// RecordPathSteps records the length of one computed DOM path.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (pm *PrometheusMetrics) RecordPathSteps(steps int) {
	pm.pathSteps.Observe(float64(steps))
}

// RecordPathFailure records an unreachable path target.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (pm *PrometheusMetrics) RecordPathFailure(component string) {
	pm.pathFailures.WithLabelValues(component).Inc()
}

// RecordCollapsedView records one view record merged by the compressor.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (pm *PrometheusMetrics) RecordCollapsedView() {
	pm.collapsedViews.Inc()
}

// RecordSharedAnnotation records one host reusing an existing table entry.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (pm *PrometheusMetrics) RecordSharedAnnotation() {
	pm.sharedEntries.Inc()
}
