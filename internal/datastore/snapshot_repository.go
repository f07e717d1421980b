package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/models"
)

// SnapshotRepository is the append-only document history.
type SnapshotRepository struct {
	db DBTX
}

func NewSnapshotRepository(db DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Insert appends a snapshot. Snapshots are never updated or deduplicated.
func (r *SnapshotRepository) Insert(ctx context.Context, s *models.Snapshot) error {
	if s.ID == "" {
		s.ID = newID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, service_id, url, content_hash, content, word_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ServiceID, s.URL, s.ContentHash, s.Content, s.WordCount, models.TimeToUnixNano(s.FetchedAt))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot for %s: %w", s.URL, err)
	}
	return nil
}

// Latest returns the most recent snapshot of (serviceID, url), or
// common.ErrNotFound when none exists.
func (r *SnapshotRepository) Latest(ctx context.Context, serviceID, url string) (*models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, service_id, url, content_hash, content, word_count, fetched_at
		FROM snapshots WHERE service_id = ? AND url = ?
		ORDER BY fetched_at DESC, id DESC LIMIT 1`,
		serviceID, url)

	var (
		s         models.Snapshot
		fetchedAt int64
	)
	err := row.Scan(&s.ID, &s.ServiceID, &s.URL, &s.ContentHash, &s.Content, &s.WordCount, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select latest snapshot for %s: %w", url, err)
	}
	s.FetchedAt = models.UnixNanoToTime(fetchedAt)
	return &s, nil
}

// Count returns how many snapshots exist for (serviceID, url).
func (r *SnapshotRepository) Count(ctx context.Context, serviceID, url string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE service_id = ? AND url = ?`, serviceID, url).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}
