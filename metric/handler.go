package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler exposing the registry's metrics in
// Prometheus format. The host decides where to mount it; this package
// does not run a server.
func Handler(registry *MetricsRegistry) http.Handler {
	if registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(
		registry.PrometheusRegistry(),
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
}
