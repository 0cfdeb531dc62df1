package consentlog

import (
	"context"
	"time"

	"gorm.io/gorm"

	dErrors "cookiegate/pkg/domain-errors"
)

// PostgresStore persists audit entries through GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps an open GORM handle.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry *Entry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return dErrors.Wrap(dErrors.CodeStorageFailure, "insert consent log entry", err)
	}
	return nil
}

func (s *PostgresStore) FindByConsentID(ctx context.Context, consentID string) ([]Entry, error) {
	entries := []Entry{}
	err := s.db.WithContext(ctx).
		Where("consent_id = ?", consentID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "query consent log by consent id", err)
	}
	return entries, nil
}

func (s *PostgresStore) FindByIPHash(ctx context.Context, ipHash string) ([]Entry, error) {
	entries := []Entry{}
	err := s.db.WithContext(ctx).
		Where("ip_hash = ?", ipHash).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "query consent log by ip hash", err)
	}
	return entries, nil
}

func (s *PostgresStore) ListSince(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	entries := []Entry{}
	query := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "list consent log entries", err)
	}
	return entries, nil
}

func (s *PostgresStore) DeleteByConsentID(ctx context.Context, consentID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("consent_id = ?", consentID).Delete(&Entry{})
	if result.Error != nil {
		return 0, dErrors.Wrap(dErrors.CodeStorageFailure, "delete consent log by consent id", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *PostgresStore) DeleteByIPHash(ctx context.Context, ipHash string) (int64, error) {
	result := s.db.WithContext(ctx).Where("ip_hash = ?", ipHash).Delete(&Entry{})
	if result.Error != nil {
		return 0, dErrors.Wrap(dErrors.CodeStorageFailure, "delete consent log by ip hash", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *PostgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Entry{})
	if result.Error != nil {
		return 0, dErrors.Wrap(dErrors.CodeStorageFailure, "prune consent log", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *PostgresStore) CountByAction(ctx context.Context) (map[string]int64, error) {
	rows := []struct {
		ActionType string
		Count      int64
	}{}
	err := s.db.WithContext(ctx).
		Model(&Entry{}).
		Select("action_type, COUNT(*) AS count").
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "count consent log actions", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ActionType] = row.Count
	}
	return counts, nil
}
