package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
)

type PrometheusAdapter struct {
	registry *prometheus.Registry

	routeDecisions  *prometheus.CounterVec
	backendFetches  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusAdapter метрики регистрируются в собственном реестре, а не в глобальном
func NewPrometheusAdapter(serviceName string) *PrometheusAdapter {
	constLabels := prometheus.Labels{"service": serviceName}

	adapter := &PrometheusAdapter{
		registry: prometheus.NewRegistry(),
		routeDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "intake_route_decisions_total",
				Help:        "Total number of routing decisions by destination screen",
				ConstLabels: constLabels,
			},
			[]string{"screen"},
		),
		backendFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "intake_backend_fetch_total",
				Help:        "Total number of appointment collection fetches from the clinic backend",
				ConstLabels: constLabels,
			},
			[]string{"collection", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Duration of HTTP requests in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "endpoint", "status_code"},
		),
	}

	adapter.registry.MustRegister(
		adapter.routeDecisions,
		adapter.backendFetches,
		adapter.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return adapter
}

func (p *PrometheusAdapter) RouteDecided(screen domain.ScreenName) {
	p.routeDecisions.WithLabelValues(string(screen)).Inc()
}

func (p *PrometheusAdapter) BackendFetched(collection domain.AppointmentType, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	p.backendFetches.WithLabelValues(string(collection), status).Inc()
}

func (p *PrometheusAdapter) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// GinMiddleware длительность запросов по шаблону маршрута, а не по фактическому пути
func (p *PrometheusAdapter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		p.requestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
