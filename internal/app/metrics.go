package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/satcolor/internal/coloring"
)

const metricsNamespace = "satcolor"

// Metrics collects attempt and HTTP metrics on a private registry, so that
// several apps can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	attempts       *prometheus.CounterVec
	solveSeconds   *prometheus.HistogramVec
	formulaClauses prometheus.Histogram

	requests       *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
}

var _ coloring.Observer = (*Metrics)(nil)

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "attempts_total",
				Help:      "Coloring attempts by engine and result.",
			},
			[]string{"engine", "result"},
		),
		solveSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "solve_duration_seconds",
				Help:      "Time spent inside the solver.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"engine"},
		),
		formulaClauses: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "formula_clauses",
				Help:      "Clauses per encoded formula.",
				Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	m.registry.MustRegister(m.attempts, m.solveSeconds, m.formulaClauses, m.requests, m.requestSeconds)
	return m
}

// Observe records one attempt.
func (m *Metrics) Observe(out *coloring.Outcome, err error) {
	engine := "unknown"
	if out != nil {
		engine = out.Engine
	}

	result := failureKind(err)
	switch {
	case err != nil:
	case out.Satisfiable():
		result = "colored"
	default:
		result = "uncolorable"
	}
	m.attempts.WithLabelValues(engine, result).Inc()

	if out == nil {
		return
	}
	if out.Clauses > 0 {
		m.formulaClauses.Observe(float64(out.Clauses))
	}
	if out.SolveTime > 0 {
		m.solveSeconds.WithLabelValues(engine).Observe(out.SolveTime.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by their chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestSeconds.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
