package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the translation server
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	translationsTotal prometheus.Counter
	tagErrorsTotal    prometheus.Counter
	triplesTotal      prometheus.Counter
	runsSavedTotal    prometheus.Counter
}

// NewMetrics creates the metrics on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bsit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bsit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		translationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bsit",
			Name:      "translations_total",
			Help:      "Objects translated",
		}),

		tagErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bsit",
			Name:      "tag_errors_total",
			Help:      "Tags that failed to translate",
		}),

		triplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bsit",
			Name:      "triples_total",
			Help:      "Triples emitted by translations",
		}),

		runsSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bsit",
			Name:      "runs_saved_total",
			Help:      "Translation runs written to the archive",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.translationsTotal,
		m.tagErrorsTotal,
		m.triplesTotal,
		m.runsSavedTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordTranslation counts one translated object
func (m *Metrics) RecordTranslation(triples, tagErrors int) {
	m.translationsTotal.Inc()
	m.triplesTotal.Add(float64(triples))
	m.tagErrorsTotal.Add(float64(tagErrors))
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs and measures every routed request
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed)
	})
}
