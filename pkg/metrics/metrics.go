// Package metrics provides prometheus instrumentation for the service:
// HTTP request metrics, dataset mutation counters and validation outcomes.
package metrics

import (
	"net/http"
	_ "net/http/pprof" // registers pprof endpoints on the default mux

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/geovault/pkg/configs"
)

var (
	// RequestCounter counts HTTP requests.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration observes HTTP request latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// DatasetMutations counts catalog/content mutations by action.
	DatasetMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geovault_dataset_mutations_total",
			Help: "Total number of dataset mutations by audit action",
		},
		[]string{"action"},
	)

	// ValidationRejections counts documents rejected by the ingestion gate.
	ValidationRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geovault_validation_rejections_total",
			Help: "Total number of feature collections rejected by validation",
		},
	)

	// ContentInconsistencies counts catalog rows whose content file is
	// missing, as found by the consistency sweep.
	ContentInconsistencies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "geovault_content_inconsistencies",
			Help: "Catalog rows whose content file is currently missing",
		},
	)

	registry = prometheus.NewRegistry()
)

// InitMetrics registers collectors according to configuration.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(
		RequestCounter,
		RequestDuration,
		DatasetMutations,
		ValidationRejections,
		ContentInconsistencies,
	)

	return nil
}

// StartMetricsServer exposes /metrics (and optionally pprof) on the engine.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry returns the prometheus registry.
func GetRegistry() *prometheus.Registry {
	return registry
}
