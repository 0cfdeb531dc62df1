// Package manager implements the consent state machine. A Manager lives for
// one request: it is constructed from the incoming cookie and an immutable
// policy snapshot, answers category queries, and orchestrates the store and
// audit logger on state transitions.
package manager

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cookiegate/internal/consent/models"
	"cookiegate/internal/platform/metrics"
	dErrors "cookiegate/pkg/domain-errors"
)

// Store persists the consent record. The cookie store is the production
// implementation; tests substitute fakes or mocks.
type Store interface {
	Save(record *models.Record, durationDays int) error
	Load() *models.Record
	Delete() error
}

// AuditLogger appends one anonymized row per consent action. Logging is
// best-effort: a failure is reported but never rolls back a save.
type AuditLogger interface {
	Log(ctx context.Context, record *models.Record, action models.ActionType) error
}

// Option configures the Manager.
type Option func(*Manager)

// WithAudit sets the audit logger.
func WithAudit(audit AuditLogger) Option {
	return func(m *Manager) {
		m.audit = audit
	}
}

// WithLogger sets the slog logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics instance.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mx
	}
}

// Manager owns the in-memory consent record for the current request.
type Manager struct {
	policy  models.Policy
	store   Store
	audit   AuditLogger
	logger  *slog.Logger
	metrics *metrics.Metrics
	record  *models.Record
	now     func() time.Time
}

// New loads the persisted record (if any) through the store and returns a
// manager bound to the given policy snapshot.
func New(policy models.Policy, store Store, opts ...Option) *Manager {
	m := &Manager{
		policy: policy,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.record = store.Load()
	return m
}

// HasConsent reports whether any decision is recorded, regardless of
// policy-version staleness.
func (m *Manager) HasConsent() bool {
	return m.record != nil && m.record.ID != ""
}

// IsValid reports whether the recorded decision was taken under the live
// policy version. A stale record drives the banner to reappear.
func (m *Manager) IsValid() bool {
	return m.HasConsent() && m.record.PolicyVersion == m.policy.Version
}

// State derives the lifecycle state from the loaded record.
func (m *Manager) State() models.State {
	switch {
	case !m.HasConsent():
		return models.StateUnknown
	case m.IsValid():
		return models.StateRecordedValid
	default:
		return models.StateRecordedStale
	}
}

// IsCategoryAllowed answers the gating question. Necessary is always allowed;
// every other category requires a valid (non-stale) record granting it.
// Absence or ambiguity of consent is denial — fail closed.
func (m *Manager) IsCategoryAllowed(category models.Category) bool {
	if category == models.CategoryNecessary {
		return true
	}
	if !m.IsValid() {
		return false
	}
	return m.record.Granted(category)
}

// AllowedCategories returns the full category map with missing keys
// defaulting to false and necessary forced true.
func (m *Manager) AllowedCategories() map[models.Category]bool {
	categories := models.OnlyNecessary()
	if m.IsValid() {
		for key := range categories {
			if m.record.Granted(key) {
				categories[key] = true
			}
		}
	}
	categories[models.CategoryNecessary] = true
	return categories
}

// ConsentID returns the current record's identifier, or empty.
func (m *Manager) ConsentID() string {
	if m.record == nil {
		return ""
	}
	return m.record.ID
}

// Record returns the current record; nil when state is Unknown.
func (m *Manager) Record() *models.Record {
	return m.record
}

// AcceptAll grants every category.
func (m *Manager) AcceptAll(ctx context.Context) error {
	return m.SaveConsent(ctx, models.AllGranted(), models.ActionAcceptAll)
}

// RejectAll grants only necessary.
func (m *Manager) RejectAll(ctx context.Context) error {
	return m.SaveConsent(ctx, models.OnlyNecessary(), models.ActionRejectAll)
}

// Customize saves an explicit category map; necessary is forced true and
// unknown keys are dropped.
func (m *Manager) Customize(ctx context.Context, categories map[models.Category]bool) error {
	return m.SaveConsent(ctx, categories, models.ActionCustomize)
}

// SaveConsent replaces the record wholesale: fresh UUID, live policy version,
// current timestamp. The in-memory record is committed only after the store
// write succeeds, so a rejected cookie never leaves phantom consent behind.
// The audit write is fire-and-forget: its failure is logged and counted but
// never surfaced to the caller.
func (m *Manager) SaveConsent(ctx context.Context, categories map[models.Category]bool, action models.ActionType) error {
	if !action.IsValid() || action == models.ActionRevoke {
		return dErrors.New(dErrors.CodeBadRequest, "invalid action type")
	}

	record := &models.Record{
		ID:            uuid.New().String(),
		PolicyVersion: m.policy.Version,
		Timestamp:     m.now().Unix(),
		Categories:    models.NormalizeCategories(categories),
	}

	if err := m.store.Save(record, m.policy.DurationDays); err != nil {
		return dErrors.Wrap(dErrors.CodeStorageFailure, "persist consent cookie", err)
	}
	m.record = record

	m.emitAudit(ctx, record, action)
	if m.metrics != nil {
		m.metrics.IncrementConsentsSaved(string(action))
	}
	return nil
}

// Revoke clears the in-memory record and deletes the cookie, returning the
// state machine to Unknown. The withdrawal itself is audit-logged with the
// revoked record's consent id.
func (m *Manager) Revoke(ctx context.Context) error {
	previous := m.record

	if err := m.store.Delete(); err != nil {
		return dErrors.Wrap(dErrors.CodeStorageFailure, "delete consent cookie", err)
	}
	m.record = nil

	if previous != nil && previous.ID != "" {
		m.emitAudit(ctx, &models.Record{
			ID:            previous.ID,
			PolicyVersion: previous.PolicyVersion,
			Timestamp:     m.now().Unix(),
			Categories:    models.OnlyNecessary(),
		}, models.ActionRevoke)
	}
	if m.metrics != nil {
		m.metrics.IncrementConsentsRevoked()
	}
	return nil
}

func (m *Manager) emitAudit(ctx context.Context, record *models.Record, action models.ActionType) {
	if m.audit == nil {
		return
	}
	if err := m.audit.Log(ctx, record, action); err != nil {
		if m.logger != nil {
			m.logger.WarnContext(ctx, "audit log write failed",
				"consent_id", record.ID,
				"action", action,
				"error", err,
			)
		}
		if m.metrics != nil {
			m.metrics.IncrementAuditWriteFailures()
		}
	}
}
