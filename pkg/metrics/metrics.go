package metrics

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "fiber").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
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

// WithBuckets sets the histogram buckets.
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

// Collector records reconciliation metrics.
type Collector struct {
	passesTotal     prometheus.Counter
	passFailures    *prometheus.CounterVec
	passDuration    prometheus.Histogram
	fibersTotal     *prometheus.CounterVec
	effectsTotal    *prometheus.CounterVec
	bailOuts        prometheus.Counter
	renderSkips     prometheus.Counter
	teardowns       prometheus.Counter
	lifecycleErrors *prometheus.CounterVec
	lastPassFibers  prometheus.Gauge
}

// New creates a Collector and registers its metrics. Registering twice
// on the same registry panics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		passesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of completed reconciliation passes",
			ConstLabels: config.ConstLabels,
		}),

		passFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_failures_total",
			Help:        "Total number of aborted reconciliation passes",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		fibersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fibers_total",
			Help:        "Total number of fibers begun",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		effectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of effects emitted, by effect",
			ConstLabels: config.ConstLabels,
		}, []string{"effect"}),

		bailOuts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bailouts_total",
			Help:        "Total number of components that bailed out",
			ConstLabels: config.ConstLabels,
		}),

		renderSkips: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_skips_total",
			Help:        "Total number of components whose render was skipped",
			ConstLabels: config.ConstLabels,
		}),

		teardowns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "teardowns_total",
			Help:        "Total number of fibers torn down",
			ConstLabels: config.ConstLabels,
		}),

		lifecycleErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_errors_total",
			Help:        "Total lifecycle failures recovered inside components",
			ConstLabels: config.ConstLabels,
		}, []string{"hook", "code"}),

		lastPassFibers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "last_pass_fibers",
			Help:        "Number of fibers begun by the most recent pass",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe records a completed pass. It has the signature fiber.WithObserver
// expects.
func (c *Collector) Observe(p *fiber.Pass) {
	s := p.Stats
	c.passesTotal.Inc()
	c.passDuration.Observe(s.Duration.Seconds())
	c.fibersTotal.WithLabelValues("host").Add(float64(s.Hosts))
	c.fibersTotal.WithLabelValues("component").Add(float64(s.Components))
	c.bailOuts.Add(float64(s.BailOuts))
	c.renderSkips.Add(float64(s.RenderSkips))
	c.teardowns.Add(float64(s.Teardowns))
	c.lastPassFibers.Set(float64(s.Fibers))

	for e, n := range p.EffectCounts() {
		c.effectsTotal.WithLabelValues(e.String()).Add(float64(n))
	}
}

// RecordFailure records an aborted pass under the error's code.
func (c *Collector) RecordFailure(err error) {
	if err == nil {
		return
	}
	c.passFailures.WithLabelValues(codeOf(err)).Inc()
}

// RecordError records a recovered lifecycle failure.
func (c *Collector) RecordError(le *fiber.LifecycleError) {
	c.lifecycleErrors.WithLabelValues(le.Hook, codeOf(le)).Inc()
}

// ErrorSink returns an error sink that records le and then calls next,
// if any.
func (c *Collector) ErrorSink(next func(*fiber.LifecycleError)) func(*fiber.LifecycleError) {
	return func(le *fiber.LifecycleError) {
		c.RecordError(le)
		if next != nil {
			next(le)
		}
	}
}

// Options returns the reconciler options that feed c.
func (c *Collector) Options() []fiber.Option {
	return []fiber.Option{
		fiber.WithObserver(c.Observe),
		fiber.WithErrorSink(c.ErrorSink(nil)),
	}
}

// codeOf keeps label cardinality bounded by using error codes, never
// messages.
func codeOf(err error) string {
	var fe *errors.FiberError
	if stderrors.As(err, &fe) && fe.Code != "" {
		return fe.Code
	}
	return "unknown"
}
