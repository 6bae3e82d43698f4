package httpserver

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the HTTP server.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	AuthFailuresTotal prometheus.Counter
	SearchResults     prometheus.Histogram
	CatalogSize       prometheus.Gauge
}

// NewMetrics registers and returns server metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviedex_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moviedex_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		}, []string{"method", "route"}),
		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviedex_auth_failures_total",
			Help: "Requests rejected by the bearer token check.",
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moviedex_search_results",
			Help:    "Number of movies returned per search.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moviedex_catalog_movies",
			Help: "Number of movies loaded into the in-memory catalog.",
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.AuthFailuresTotal,
		m.SearchResults,
		m.CatalogSize,
	)

	return m
}

// Middleware records count and latency of every request. Errors are
// handed to the error handler here so the final status is known.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := routeLabel(c)
			method := c.Request().Method
			m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (s *Server) RegisterMetricsRoutes() {
	s.Router.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))
}

// routeLabel is the registered path of the matched route, so label
// cardinality stays bounded by the route table.
func routeLabel(c echo.Context) string {
	if route := c.Path(); route != "" {
		return route
	}
	return "unmatched"
}
