// Package metrics records renderer and live-session metrics in Prometheus.
//
// Metrics is an instance bound to one registry. Every recording method is
// safe on a nil *Metrics, so renderers accept an optional instance and call
// it unconditionally.
//
// Series (with the default namespace):
//   - ripple_renders_total{renderer,status}
//   - ripple_render_duration_seconds{renderer}
//   - ripple_coercion_errors_total{attr}
//   - ripple_dom_mutations_total{op}
//   - ripple_live_sessions
//   - ripple_patches_sent_total
//   - ripple_http_requests_total{route,code}
//   - ripple_http_request_duration_seconds{route}
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Renderer labels.
const (
	RendererString = "string"
	RendererDOM    = "dom"
)

// Config configures a Metrics instance.
type Config struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: a fresh prometheus.NewRegistry()
	Registry prometheus.Registerer
}

// Option configures a Metrics instance.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
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

// Metrics holds the collectors for one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	coercionErrors *prometheus.CounterVec
	domMutations   *prometheus.CounterVec
	liveSessions   prometheus.Gauge
	patchesSent    prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: "ripple",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)
	m := &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "renders_total",
			Help:        "Total number of renders by renderer and status",
			ConstLabels: config.ConstLabels,
		}, []string{"renderer", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "render_duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"renderer"}),

		coercionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "coercion_errors_total",
			Help:        "Attribute values that could not be coerced and were omitted",
			ConstLabels: config.ConstLabels,
		}, []string{"attr"}),

		domMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "dom_mutations_total",
			Help:        "Live DOM writes by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "live_sessions",
			Help:        "Number of connected live sessions",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to live clients",
			ConstLabels: config.ConstLabels,
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route pattern and status code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
	if g, ok := config.Registry.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Gatherer returns the registry the collectors were registered with, or
// nil if it cannot be gathered.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

// ObserveRender records one render and its duration.
func (m *Metrics) ObserveRender(renderer string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.rendersTotal.WithLabelValues(renderer, status).Inc()
	m.renderDuration.WithLabelValues(renderer).Observe(time.Since(start).Seconds())
}

// RecordRenderError counts a failed update in a live region.
func (m *Metrics) RecordRenderError(renderer string) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(renderer, "error").Inc()
}

// RecordCoercionError counts an omitted attribute.
func (m *Metrics) RecordCoercionError(attr string) {
	if m == nil {
		return
	}
	m.coercionErrors.WithLabelValues(attr).Inc()
}

// RecordMutation counts a live DOM write.
func (m *Metrics) RecordMutation(op string) {
	if m == nil {
		return
	}
	m.domMutations.WithLabelValues(op).Inc()
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.liveSessions.Inc()
}

// SessionClosed records a closed live session.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.liveSessions.Dec()
}

// RecordPatches records the number of patches sent.
func (m *Metrics) RecordPatches(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.patchesSent.Add(float64(count))
}

// ObserveRequest records one HTTP request by route pattern.
func (m *Metrics) ObserveRequest(route string, code int, start time.Time) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
