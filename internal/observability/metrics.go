package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	rosterLoads *prometheus.CounterVec
	rosterRows  prometheus.Gauge
	exports     *prometheus.CounterVec
	viewChanges *prometheus.CounterVec
}

// NewMetrics creates collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgchart_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"route", "method", "code"}),
		rosterLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_roster_loads_total",
			Help: "Roster loads by outcome.",
		}, []string{"outcome"}),
		rosterRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgchart_roster_rows",
			Help: "Rows in the most recently loaded roster.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_exports_total",
			Help: "PDF exports by outcome.",
		}, []string{"outcome"}),
		viewChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_view_changes_total",
			Help: "View state changes by action.",
		}, []string{"action"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency, m.errors, m.rosterLoads, m.rosterRows, m.exports, m.viewChanges)
	}
	return m
}

// RecordRequest observes a finished request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordRosterLoad counts a roster load; rows is ignored for failures.
func (m *Metrics) RecordRosterLoad(outcome string, rows int) {
	if m == nil {
		return
	}
	m.rosterLoads.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.rosterRows.Set(float64(rows))
	}
}

// RecordExport counts a PDF export attempt.
func (m *Metrics) RecordExport(outcome string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(outcome).Inc()
}

// RecordViewChange counts a view state mutation.
func (m *Metrics) RecordViewChange(action string) {
	if m == nil {
		return
	}
	m.viewChanges.WithLabelValues(action).Inc()
}
