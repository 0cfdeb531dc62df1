package consentlog

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps audit entries in memory. It backs tests and
// database-less deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  uint
}

// NewInMemoryStore constructs an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	copied.ID = s.nextID
	s.nextID++
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.entries = append(s.entries, copied)
	entry.ID = copied.ID
	return nil
}

func (s *InMemoryStore) FindByConsentID(_ context.Context, consentID string) ([]Entry, error) {
	return s.filter(func(e Entry) bool { return e.ConsentID == consentID }), nil
}

func (s *InMemoryStore) FindByIPHash(_ context.Context, ipHash string) ([]Entry, error) {
	return s.filter(func(e Entry) bool { return e.IPHash == ipHash }), nil
}

func (s *InMemoryStore) ListSince(_ context.Context, since time.Time, limit int) ([]Entry, error) {
	matched := s.filter(func(e Entry) bool { return !e.CreatedAt.Before(since) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryStore) DeleteByConsentID(_ context.Context, consentID string) (int64, error) {
	return s.remove(func(e Entry) bool { return e.ConsentID == consentID }), nil
}

func (s *InMemoryStore) DeleteByIPHash(_ context.Context, ipHash string) (int64, error) {
	return s.remove(func(e Entry) bool { return e.IPHash == ipHash }), nil
}

func (s *InMemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	return s.remove(func(e Entry) bool { return e.CreatedAt.Before(cutoff) }), nil
}

func (s *InMemoryStore) CountByAction(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, e := range s.entries {
		counts[e.ActionType]++
	}
	return counts, nil
}

// All returns a copy of every entry, newest last. Test helper.
func (s *InMemoryStore) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries...)
}

func (s *InMemoryStore) filter(keep func(Entry) bool) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := []Entry{}
	for _, e := range s.entries {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

func (s *InMemoryStore) remove(drop func(Entry) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var removed int64
	for _, e := range s.entries {
		if drop(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed
}
