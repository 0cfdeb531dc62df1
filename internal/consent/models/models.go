package models

import "time"

// Category is the unit of consent granularity. The set is closed: the gating
// engine and the persisted cookie format both assume exactly these four.
type Category string

const (
	CategoryNecessary  Category = "necessary"
	CategoryFunctional Category = "functional"
	CategoryAnalytics  Category = "analytics"
	CategoryMarketing  Category = "marketing"
)

// ValidCategories is the single source of truth for the category enum.
var ValidCategories = map[Category]bool{
	CategoryNecessary:  true,
	CategoryFunctional: true,
	CategoryAnalytics:  true,
	CategoryMarketing:  true,
}

// IsValid checks if the category is one of the supported enum values.
func (c Category) IsValid() bool {
	return ValidCategories[c]
}

// ActionType describes how a consent decision was made.
type ActionType string

const (
	ActionAcceptAll ActionType = "accept_all"
	ActionRejectAll ActionType = "reject_all"
	ActionCustomize ActionType = "customize"
	// ActionRevoke is recorded when a user withdraws consent entirely.
	// GDPR wants evidence of withdrawal as much as of consent.
	ActionRevoke ActionType = "revoke"
)

// IsValid checks if the action type is one of the supported enum values.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionAcceptAll, ActionRejectAll, ActionCustomize, ActionRevoke:
		return true
	}
	return false
}

// Record is the canonical consent decision. It is replaced wholesale on every
// save (fresh ID included), never mutated in place. JSON field names are part
// of the cookie wire format shared with the client runtime.
type Record struct {
	ID            string            `json:"id"`
	PolicyVersion string            `json:"version"`
	Timestamp     int64             `json:"timestamp"`
	Categories    map[Category]bool `json:"categories"`
}

// Granted reports whether a category was granted in this record. It does not
// check policy-version freshness; that is the manager's job.
func (r *Record) Granted(category Category) bool {
	if r == nil {
		return false
	}
	return r.Categories[category]
}

// DecidedAt returns the decision time.
func (r *Record) DecidedAt() time.Time {
	return time.Unix(r.Timestamp, 0)
}

// State is the consent lifecycle state derived from the loaded record and the
// live policy version.
type State string

const (
	// StateUnknown means no record is loaded: fresh visitor, expired cookie,
	// or explicit revocation.
	StateUnknown State = "unknown"
	// StateRecordedValid means a record is present and its policy version
	// matches the live one.
	StateRecordedValid State = "recorded_valid"
	// StateRecordedStale means a record is present but was taken under a
	// different policy version. It counts as "has consented at some point"
	// but denies every non-necessary category until re-confirmed.
	StateRecordedStale State = "recorded_stale"
)

// NormalizeCategories drops unknown keys and forces necessary to true.
// Invalid keys in a customize request are ignored, never an error.
func NormalizeCategories(in map[Category]bool) map[Category]bool {
	out := make(map[Category]bool, len(ValidCategories))
	for key, value := range in {
		if key.IsValid() {
			out[key] = value
		}
	}
	out[CategoryNecessary] = true
	return out
}

// AllGranted is the category map produced by an accept-all action.
func AllGranted() map[Category]bool {
	return map[Category]bool{
		CategoryNecessary:  true,
		CategoryFunctional: true,
		CategoryAnalytics:  true,
		CategoryMarketing:  true,
	}
}

// OnlyNecessary is the category map produced by a reject-all action.
func OnlyNecessary() map[Category]bool {
	return map[Category]bool{
		CategoryNecessary:  true,
		CategoryFunctional: false,
		CategoryAnalytics:  false,
		CategoryMarketing:  false,
	}
}
