package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "trixie"

// Metrics is the Prometheus-backed recorder for pipeline and HTTP events.
// Each instance owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	generated         *prometheus.CounterVec
	legsBuilt         *prometheus.CounterVec
	injuryFailures    *prometheus.CounterVec
	ticketsLogged     prometheus.Counter
	ticketValidations *prometheus.CounterVec
	pipelineDuration  *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generated_total",
			Help:      "Trixies emitted per risk profile.",
		}, []string{"profile"}),
		legsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "legs_built_total",
			Help:      "Priced legs emitted per market and risk tier.",
		}, []string{"market", "tier"}),
		injuryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "injury_fetch_failures_total",
			Help:      "Per-team injury roster fetches that failed and were skipped.",
		}, []string{"team"}),
		ticketsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tickets_logged_total",
			Help:      "Audit tickets inserted.",
		}),
		ticketValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticket_validations_total",
			Help:      "Ticket validation outcomes by resulting status.",
		}, []string{"status"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.generated,
		m.legsBuilt,
		m.injuryFailures,
		m.ticketsLogged,
		m.ticketValidations,
		m.pipelineDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) TrixiesGenerated(profile string, count int) {
	m.generated.WithLabelValues(profile).Add(float64(count))
}

func (m *Metrics) LegBuilt(market, tier string) {
	m.legsBuilt.WithLabelValues(market, tier).Inc()
}

func (m *Metrics) InjuryFetchFailed(team string) {
	m.injuryFailures.WithLabelValues(team).Inc()
}

func (m *Metrics) TicketLogged() {
	m.ticketsLogged.Inc()
}

func (m *Metrics) TicketValidated(status string) {
	m.ticketValidations.WithLabelValues(status).Inc()
}

func (m *Metrics) ObservePipeline(stage string, elapsed time.Duration) {
	m.pipelineDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
