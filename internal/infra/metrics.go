package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/propcodes/platform/internal/domain"
)

// Metrics owns the Prometheus registry and every application collector.
type Metrics struct {
	registry        *prometheus.Registry
	votes           *prometheus.CounterVec
	analyticsEvents *prometheus.CounterVec
	adminLogins     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	outboxPublished *prometheus.CounterVec
}

// NewMetrics registers the application collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propcodes_votes_total",
			Help: "Accepted payout votes by vote type.",
		}, []string{"type"}),
		analyticsEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propcodes_analytics_events_total",
			Help: "Recorded analytics events by event type.",
		}, []string{"type"}),
		adminLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propcodes_admin_logins_total",
			Help: "Admin login attempts by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propcodes_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "propcodes_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propcodes_outbox_published_total",
			Help: "Outbox publish attempts by topic and result.",
		}, []string{"topic", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.votes, m.analyticsEvents, m.adminLogins,
		m.httpRequests, m.httpDuration, m.outboxPublished,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) VoteRecorded(vt domain.VoteType) {
	m.votes.WithLabelValues(string(vt)).Inc()
}

// AnalyticsRecorded counts an event. Event types are free-form, so anything
// outside the known set is folded into "other" to bound label cardinality.
func (m *Metrics) AnalyticsRecorded(eventType string) {
	switch eventType {
	case domain.EventCodeCopied, domain.EventLinkClicked, domain.EventPageViewed:
	default:
		eventType = "other"
	}
	m.analyticsEvents.WithLabelValues(eventType).Inc()
}

func (m *Metrics) LoginAttempt(result string) {
	m.adminLogins.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) OutboxPublished(topic string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.outboxPublished.WithLabelValues(topic, result).Inc()
}
