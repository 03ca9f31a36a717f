package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/timesheet/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry with the HTTP and use-case
// collectors. It also implements service.UseCaseObserver so the entry service
// can report outcomes directly.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	useCases   *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timesheet",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "timesheet",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timesheet",
			Name:      "use_cases_total",
			Help:      "Service use cases by name and outcome.",
		}, []string{"use_case", "outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timesheet",
			Name:      "validation_rejections_total",
			Help:      "Entries rejected by a work-time rule, by rule kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.useCases, m.rejections,
	)
	return m
}

// Registry exposes the underlying registry so callers can gather or add
// collectors alongside the timesheet ones.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	outcome := "ok"
	if kind := event.Rejection(); kind != "" {
		outcome = "rejected"
		m.rejections.WithLabelValues(kind).Inc()
	} else if event.Err != nil {
		outcome = "error"
	}
	m.useCases.WithLabelValues(event.Name, outcome).Inc()
}

func (m *Metrics) observeRequest(route string, code int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(dur.Seconds())
}
