package metrics

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors on a private registry.
type MetricsManager struct {
	Registry            *prometheus.Registry
	ListingsCreated     prometheus.Counter
	ModerationDecisions *prometheus.CounterVec
	FavoriteChanges     *prometheus.CounterVec
	UsersDeleted        prometheus.Counter
	ImagesUploaded      prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPLatency         *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		ListingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Total number of listings submitted for moderation.",
		}),
		ModerationDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_decisions_total",
			Help:      "Total number of moderation decisions by resulting status.",
		}, []string{"status"}),
		FavoriteChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_changes_total",
			Help:      "Total number of favorite additions and removals.",
		}, []string{"action"}),
		UsersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_deleted_total",
			Help:      "Total number of users removed with their listings.",
		}),
		ImagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_uploaded_total",
			Help:      "Total number of listing images stored.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.ListingsCreated,
		m.ModerationDecisions,
		m.FavoriteChanges,
		m.UsersDeleted,
		m.ImagesUploaded,
		m.HTTPRequests,
		m.HTTPLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// NewMetricsServer builds the HTTP server exposing /metrics for registry.
func NewMetricsServer(port string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
}

// StartMetricsServer blocks serving /metrics. An empty port disables it.
func StartMetricsServer(srv *http.Server, appLogger *logger.Logger) error {
	if srv == nil || srv.Addr == ":" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}
	appLogger.Info("Prometheus metrics server starting", zap.String("addr", srv.Addr), zap.String("path", "/metrics"))
	return srv.ListenAndServe()
}
