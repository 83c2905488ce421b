// Package metric provides Prometheus-based metrics collection for surface
// synchronization observability.
//
// The package offers a centralized metrics registry managing both core
// synchronization metrics (messages applied, component updates, protocol
// payloads, binding resolutions) and host-defined collectors. A handler
// constructor exposes the registry in Prometheus format for the host to
// mount; the package never runs a server of its own.
//
// # Basic Usage
//
// Setting up metrics collection:
//
//	registry := metric.NewMetricsRegistry()
//	core := registry.CoreMetrics()
//
//	// Hand the core metrics to the client
//	c, err := client.New(client.Config{Metrics: core})
//
//	// Expose wherever the host serves HTTP
//	mux.Handle("/metrics", metric.Handler(registry))
//
// # Core Metrics
//
// The registry automatically registers metrics tracking:
//
//   - Message flow: messages_applied_total, updates_applied_total, parse_warnings_total
//   - Apply performance: apply_duration_seconds
//   - Protocol traffic: payloads_total, events_built_total
//   - Surface state: surfaces_active
//   - Binding resolution: resolutions_total (hit, miss, literal)
//
// All Record helpers are safe on a nil *Metrics, so instrumentation call
// sites need no feature guards.
package metric
