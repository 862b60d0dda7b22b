// Package metrics exports render-cycle metrics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "fiber").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "fiber",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a fiber.Observer recording Prometheus metrics:
//   - fiber_cycles_started_total: cycles started, by scope (full, local)
//   - fiber_cycles_committed_total: cycles committed, by scope
//   - fiber_cycles_abandoned_total: cycles abandoned, by error code
//   - fiber_cycles_in_flight: cycles started and not finished
//   - fiber_units_total: nodes expanded
//   - fiber_slice_units: units processed per idle callback
//   - fiber_slice_duration_seconds: time spent per idle callback
//   - fiber_commit_duration_seconds: time spent in commit passes
//   - fiber_host_mutations_total: host adapter calls, by operation
type Observer struct {
	cyclesStarted   *prometheus.CounterVec
	cyclesCommitted *prometheus.CounterVec
	cyclesAbandoned *prometheus.CounterVec
	inFlight        prometheus.Gauge
	units           prometheus.Counter
	sliceUnits      prometheus.Histogram
	sliceDuration   prometheus.Histogram
	commitDuration  prometheus.Histogram
	mutations       *prometheus.CounterVec
}

var _ fiber.Observer = (*Observer)(nil)

// New creates an Observer and registers its metrics.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		cyclesStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_started_total",
			Help:        "Total number of render cycles started",
			ConstLabels: config.ConstLabels,
		}, []string{"scope"}),

		cyclesCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_committed_total",
			Help:        "Total number of render cycles committed",
			ConstLabels: config.ConstLabels,
		}, []string{"scope"}),

		cyclesAbandoned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_abandoned_total",
			Help:        "Total number of render cycles abandoned before commit",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_in_flight",
			Help:        "Number of render cycles started and not yet committed or abandoned",
			ConstLabels: config.ConstLabels,
		}),

		units: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "units_total",
			Help:        "Total number of nodes expanded",
			ConstLabels: config.ConstLabels,
		}),

		sliceUnits: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slice_units",
			Help:        "Units processed per idle callback",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
		}),

		sliceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slice_duration_seconds",
			Help:        "Time spent rendering per idle callback in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_mutations_total",
			Help:        "Total host adapter calls by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

func scope(info fiber.CycleInfo) string {
	if info.Full {
		return "full"
	}
	return "local"
}

// CycleStarted implements fiber.Observer.
func (o *Observer) CycleStarted(info fiber.CycleInfo) {
	o.cyclesStarted.WithLabelValues(scope(info)).Inc()
	o.inFlight.Inc()
}

// SliceFinished implements fiber.Observer.
func (o *Observer) SliceFinished(_ fiber.CycleInfo, s fiber.SliceStats) {
	o.units.Add(float64(s.Units))
	o.sliceUnits.Observe(float64(s.Units))
	o.sliceDuration.Observe(s.Elapsed.Seconds())
}

// CycleCommitted implements fiber.Observer.
func (o *Observer) CycleCommitted(info fiber.CycleInfo, s fiber.CommitStats) {
	o.cyclesCommitted.WithLabelValues(scope(info)).Inc()
	o.inFlight.Dec()
	o.commitDuration.Observe(s.Duration.Seconds())

	for op, n := range map[string]int{
		"create":          s.Created,
		"set_property":    s.PropsSet,
		"remove_property": s.PropsRemoved,
		"add_listener":    s.ListenersAdded,
		"remove_listener": s.ListenersRemoved,
		"append":          s.Appended,
		"insert":          s.Inserted,
		"remove":          s.Removed,
	} {
		if n > 0 {
			o.mutations.WithLabelValues(op).Add(float64(n))
		}
	}
}

// CycleAbandoned implements fiber.Observer.
func (o *Observer) CycleAbandoned(_ fiber.CycleInfo, err error) {
	code := errors.CodeOf(err)
	if code == "" {
		code = "unknown"
	}
	o.cyclesAbandoned.WithLabelValues(code).Inc()
	o.inFlight.Dec()
}
