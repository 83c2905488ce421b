package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all core synchronization metrics (not host-specific)
type Metrics struct {
	// Message flow metrics
	MessagesApplied *prometheus.CounterVec
	UpdatesApplied  *prometheus.CounterVec
	ParseWarnings   *prometheus.CounterVec
	ApplyDuration   *prometheus.HistogramVec

	// Protocol metrics
	PayloadsParsed *prometheus.CounterVec
	EventsBuilt    *prometheus.CounterVec

	// Surface and binding metrics
	SurfacesActive     prometheus.Gauge
	BindingResolutions *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all core metrics
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surfacekit",
				Subsystem: "messages",
				Name:      "applied_total",
				Help:      "Total number of surface messages applied",
			},
			[]string{"type", "status"},
		),

		UpdatesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surfacekit",
				Subsystem: "updates",
				Name:      "applied_total",
				Help:      "Total number of component-level updates applied",
			},
			[]string{"operation", "status"},
		),

		ParseWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surfacekit",
				Subsystem: "parse",
				Name:      "warnings_total",
				Help:      "Total number of lines or events skipped during parsing",
			},
			[]string{"protocol"},
		),

		ApplyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "surfacekit",
				Subsystem: "messages",
				Name:      "apply_duration_seconds",
				Help:      "Message apply duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),

		PayloadsParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surfacekit",
				Subsystem: "protocol",
				Name:      "payloads_total",
				Help:      "Total number of inbound payloads parsed",
			},
			[]string{"protocol", "status"},
		),

		EventsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surfacekit",
				Subsystem: "protocol",
				Name:      "events_built_total",
				Help:      "Total number of outbound events built",
			},
			[]string{"protocol"},
		),

		SurfacesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "surfacekit",
				Subsystem: "surfaces",
				Name:      "active",
				Help:      "Number of live surfaces in the store",
			},
		),

		BindingResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surfacekit",
				Subsystem: "binding",
				Name:      "resolutions_total",
				Help:      "Total number of binding resolutions by result (hit, miss, literal)",
			},
			[]string{"result"},
		),
	}
}

// RecordMessageApplied increments the applied message counter.
// All Record helpers are safe to call on a nil receiver.
func (c *Metrics) RecordMessageApplied(messageType, status string) {
	if c == nil {
		return
	}
	c.MessagesApplied.WithLabelValues(messageType, status).Inc()
}

// RecordUpdateApplied increments the component update counter
func (c *Metrics) RecordUpdateApplied(operation, status string) {
	if c == nil {
		return
	}
	c.UpdatesApplied.WithLabelValues(operation, status).Inc()
}

// RecordParseWarning increments the parse warning counter
func (c *Metrics) RecordParseWarning(protocol string) {
	if c == nil {
		return
	}
	c.ParseWarnings.WithLabelValues(protocol).Inc()
}

// RecordApplyDuration records message apply time
func (c *Metrics) RecordApplyDuration(messageType string, duration time.Duration) {
	if c == nil {
		return
	}
	c.ApplyDuration.WithLabelValues(messageType).Observe(duration.Seconds())
}

// RecordPayloadParsed increments the inbound payload counter
func (c *Metrics) RecordPayloadParsed(protocol, status string) {
	if c == nil {
		return
	}
	c.PayloadsParsed.WithLabelValues(protocol, status).Inc()
}

// RecordEventBuilt increments the outbound event counter
func (c *Metrics) RecordEventBuilt(protocol string) {
	if c == nil {
		return
	}
	c.EventsBuilt.WithLabelValues(protocol).Inc()
}

// RecordSurfacesActive updates the live surface gauge
func (c *Metrics) RecordSurfacesActive(count int) {
	if c == nil {
		return
	}
	c.SurfacesActive.Set(float64(count))
}

// RecordBindingResolution increments the binding resolution counter
func (c *Metrics) RecordBindingResolution(result string) {
	if c == nil {
		return
	}
	c.BindingResolutions.WithLabelValues(result).Inc()
}
