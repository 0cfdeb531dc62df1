// Package consentlog is the durable compliance record: one anonymized,
// immutable row per consent action. Rows outlive the consent cookie — that is
// the point. Only bulk deletion (GDPR erasure, retention pruning) ever mutates
// the table, never an in-place update.
package consentlog

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one audit row. IPHash is a salted SHA-256 of the policy-masked IP
// (last octet zeroed for IPv4, last 80 bits for IPv6) — a one-way
// pseudonymization computed before hashing, so the table never holds a
// reversible identifier.
type Entry struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ConsentID     string         `gorm:"type:varchar(36);not null;index:idx_consent_log_consent_id" json:"consent_id"`
	IPHash        string         `gorm:"type:varchar(64);not null;index:idx_consent_log_ip_hash" json:"ip_hash"`
	Categories    datatypes.JSON `gorm:"type:jsonb;not null" json:"categories"`
	PolicyVersion string         `gorm:"type:varchar(20);not null" json:"policy_version"`
	ActionType    string         `gorm:"type:varchar(20);not null" json:"action_type"`
	UserAgent     string         `gorm:"type:varchar(255);default:''" json:"user_agent"`
	Device        string         `gorm:"type:varchar(120);default:''" json:"device"`
	CreatedAt     time.Time      `gorm:"not null;index:idx_consent_log_created_at" json:"created_at"`
}

// TableName pins the table name independent of GORM pluralization.
func (Entry) TableName() string {
	return "consent_log"
}

// Stats aggregates row counts per action type.
type Stats struct {
	Total    int64            `json:"total"`
	ByAction map[string]int64 `json:"by_action"`
}
