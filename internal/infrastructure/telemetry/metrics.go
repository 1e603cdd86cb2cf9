package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "fleet"

// Assignment outcome label values
const (
	OutcomeLinked          = "linked"
	OutcomeAlreadyAssigned = "already_assigned"
	OutcomeConflict        = "conflict"
	OutcomeMissing         = "missing"
)

// Metrics is the Prometheus collector set of the backend. It owns its own
// registry so tests can build as many as they like.
//
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	assignedItems     *prometheus.CounterVec
	unassignedItems   *prometheus.CounterVec
	detachedItems     *prometheus.CounterVec
	domainEvents      *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	auditInconsistent prometheus.Gauge
	auditRuns         *prometheus.CounterVec
	auditLastRun      prometheus.Gauge
}

// NewMetrics creates and registers all collectors, including the Go runtime
// and process collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assignedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assignment_items_total",
			Help:      "Items processed by assignment requests, by target type and outcome.",
		}, []string{"target_type", "outcome"}),
		unassignedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unassignment_items_total",
			Help:      "Item links cleared, by slot.",
		}, []string{"slot"}),
		detachedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "detached_items_total",
			Help:      "Item links cleared by deleting their purchase order or invoice.",
		}, []string{"resource"}),
		domainEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "domain_events_total",
			Help:      "Domain events published, by type.",
		}, []string{"event_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		auditInconsistent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "audit",
			Name:      "inconsistent_items",
			Help:      "Items whose invoice does not belong to their purchase order, as of the last audit.",
		}),
		auditRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "audit",
			Name:      "runs_total",
			Help:      "Integrity audit runs, by result.",
		}, []string{"result"}),
		auditLastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "audit",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed audit.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.assignedItems,
		m.unassignedItems,
		m.detachedItems,
		m.domainEvents,
		m.httpRequests,
		m.httpDuration,
		m.auditInconsistent,
		m.auditRuns,
		m.auditLastRun,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAssignment records one assignment batch
func (m *Metrics) ObserveAssignment(targetType string, linked, alreadyAssigned, conflicts, missing int) {
	add := func(outcome string, n int) {
		if n > 0 {
			m.assignedItems.WithLabelValues(targetType, outcome).Add(float64(n))
		}
	}
	add(OutcomeLinked, linked)
	add(OutcomeAlreadyAssigned, alreadyAssigned)
	add(OutcomeConflict, conflicts)
	add(OutcomeMissing, missing)
}

// ObserveUnassignment records one cleared link
func (m *Metrics) ObserveUnassignment(slot string) {
	m.unassignedItems.WithLabelValues(slot).Inc()
}

// ObserveDetach records links cleared by a cascading delete
func (m *Metrics) ObserveDetach(resource string, items int64) {
	if items > 0 {
		m.detachedItems.WithLabelValues(resource).Add(float64(items))
	}
}

// ObserveEvent counts a published domain event
func (m *Metrics) ObserveEvent(eventType string) {
	m.domainEvents.WithLabelValues(eventType).Inc()
}

// ObserveHTTP records one served request. route is the matched gin path, not the raw URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAudit records an audit run. found is ignored when err is non-nil.
func (m *Metrics) ObserveAudit(found int, err error, at time.Time) {
	if err != nil {
		m.auditRuns.WithLabelValues("error").Inc()
		return
	}
	m.auditRuns.WithLabelValues("ok").Inc()
	m.auditInconsistent.Set(float64(found))
	m.auditLastRun.Set(float64(at.Unix()))
}
