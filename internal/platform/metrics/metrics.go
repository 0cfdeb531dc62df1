package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ConsentsSaved      *prometheus.CounterVec
	ConsentsRevoked    prometheus.Counter
	BlockedScripts     *prometheus.CounterVec
	BlockedEmbeds      *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter
	SaveLatency        prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ConsentsSaved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cookiegate_consents_saved_total",
			Help: "Total number of consent decisions saved, labeled by action type",
		}, []string{"action"}),
		ConsentsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cookiegate_consents_revoked_total",
			Help: "Total number of consent revocations",
		}),
		BlockedScripts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cookiegate_blocked_scripts_total",
			Help: "Total number of script tags rewritten to inert form, labeled by category",
		}, []string{"category"}),
		BlockedEmbeds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cookiegate_blocked_embeds_total",
			Help: "Total number of iframes replaced with placeholders, labeled by category",
		}, []string{"category"}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cookiegate_audit_write_failures_total",
			Help: "Total number of audit log writes that failed",
		}),
		SaveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cookiegate_consent_save_latency_seconds",
			Help:    "Latency of consent save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementConsentsSaved increments the saved counter with the action label.
func (m *Metrics) IncrementConsentsSaved(action string) {
	m.ConsentsSaved.WithLabelValues(action).Inc()
}

// IncrementConsentsRevoked increments the revocation counter.
func (m *Metrics) IncrementConsentsRevoked() {
	m.ConsentsRevoked.Inc()
}

// IncrementBlockedScripts increments the blocked script counter for a category.
func (m *Metrics) IncrementBlockedScripts(category string) {
	m.BlockedScripts.WithLabelValues(category).Inc()
}

// IncrementBlockedEmbeds increments the blocked embed counter for a category.
func (m *Metrics) IncrementBlockedEmbeds(category string) {
	m.BlockedEmbeds.WithLabelValues(category).Inc()
}

// IncrementAuditWriteFailures increments the audit failure counter.
func (m *Metrics) IncrementAuditWriteFailures() {
	m.AuditWriteFailures.Inc()
}

// ObserveSaveLatency records the latency of a consent save.
func (m *Metrics) ObserveSaveLatency(durationSeconds float64) {
	m.SaveLatency.Observe(durationSeconds)
}
