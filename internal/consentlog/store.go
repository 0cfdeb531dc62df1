package consentlog

import (
	"context"
	"time"
)

// Store persists audit entries.
//
// Error contract:
// - Append returns nil on success or a wrapped error on infrastructure failure
// - Find/List return empty slices (never an error) when nothing matches
// - Delete methods return the number of rows removed
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	FindByConsentID(ctx context.Context, consentID string) ([]Entry, error)
	FindByIPHash(ctx context.Context, ipHash string) ([]Entry, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]Entry, error)
	DeleteByConsentID(ctx context.Context, consentID string) (int64, error)
	DeleteByIPHash(ctx context.Context, ipHash string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	CountByAction(ctx context.Context) (map[string]int64, error)
}
