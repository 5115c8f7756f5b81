package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/routekit-go/routekit/pkg/route"
)

// MetricsConfig configures the Prometheus navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for navigations.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration prometheus.Histogram
	vetoesTotal        prometheus.Counter
	activeDepth        prometheus.Gauge
}

// globalMetrics is the singleton collector set, created on first Observe.
var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		navigationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration from invocation to outcome in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		vetoesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "vetoes_total",
			Help:        "Total number of navigations blocked by a veto",
			ConstLabels: config.ConstLabels,
		}),

		activeDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_path_depth",
			Help:        "Depth of the currently active route chain",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe subscribes Prometheus metrics to the engine's navigation stream.
//
// Metrics collected:
//   - routekit_navigations_total: counter by result (committed, vetoed, error)
//   - routekit_navigation_duration_seconds: histogram of navigation duration
//   - routekit_vetoes_total: counter of vetoed navigations
//   - routekit_active_path_depth: gauge of the active chain depth
//
// Collectors register once per process; later Observe calls reuse them.
// The returned function unsubscribes from the engine.
//
// Example:
//
//	middleware.Observe(engine, middleware.WithNamespace("myapp"))
//	http.Handle("/metrics", promhttp.Handler())
func Observe(e *route.Engine, opts ...MetricsOption) func() {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsOnce.Do(func() {
		globalMetrics = initMetrics(config)
	})
	m := globalMetrics

	return e.OnRouteStart(func(ev route.StartEvent) {
		start := time.Now()
		go func() {
			<-ev.Outcome.Done()
			m.navigationDuration.Observe(time.Since(start).Seconds())

			switch {
			case ev.Outcome.Err() != nil:
				m.navigationsTotal.WithLabelValues("error").Inc()
			case ev.Outcome.Committed():
				m.navigationsTotal.WithLabelValues("committed").Inc()
				m.activeDepth.Set(float64(len(e.ActivePath())))
			default:
				m.navigationsTotal.WithLabelValues("vetoed").Inc()
				m.vetoesTotal.Inc()
			}
		}()
	})
}
