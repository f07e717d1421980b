package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/models"
)

const changeColumns = `id, service_id, snapshot_old_id, snapshot_new_id, change_type, severity, title, summary,
	diff_html, sections_changed, words_added, words_removed, detected_at`

// ChangeRepository persists detected changes. Rows are never updated.
type ChangeRepository struct {
	db DBTX
}

func NewChangeRepository(db DBTX) *ChangeRepository {
	return &ChangeRepository{db: db}
}

func (r *ChangeRepository) Insert(ctx context.Context, c *models.Change) error {
	if c.ID == "" {
		c.ID = newID()
	}
	var diffHTML sql.NullString
	if c.DiffHTML != "" {
		diffHTML = sql.NullString{String: c.DiffHTML, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO changes (`+changeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ServiceID, c.SnapshotOldID, c.SnapshotNewID, string(c.ChangeType), string(c.Severity),
		c.Title, c.Summary, diffHTML, c.SectionsChanged, c.WordsAdded, c.WordsRemoved,
		models.TimeToUnixNano(c.DetectedAt))
	if err != nil {
		return fmt.Errorf("failed to insert change: %w", err)
	}
	return nil
}

// GetByID returns the change or common.ErrNotFound.
func (r *ChangeRepository) GetByID(ctx context.Context, id string) (*models.Change, error) {
	c, err := scanChange(r.db.QueryRowContext(ctx, `SELECT `+changeColumns+` FROM changes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.WrapErrorf(common.ErrNotFound, "change %s", id)
	}
	return c, err
}

// ListByService returns a service's changes, newest first.
func (r *ChangeRepository) ListByService(ctx context.Context, serviceID string) ([]models.Change, error) {
	return r.list(ctx, `SELECT `+changeColumns+` FROM changes WHERE service_id = ? ORDER BY detected_at DESC, id DESC`, serviceID)
}

// ListRecent returns up to limit changes, newest first.
func (r *ChangeRepository) ListRecent(ctx context.Context, limit int) ([]models.Change, error) {
	return r.list(ctx, `SELECT `+changeColumns+` FROM changes ORDER BY detected_at DESC, id DESC LIMIT ?`, limit)
}

func (r *ChangeRepository) list(ctx context.Context, query string, args ...any) ([]models.Change, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select changes: %w", err)
	}
	defer rows.Close()

	var result []models.Change
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanChange(row rowScanner) (*models.Change, error) {
	var (
		c          models.Change
		changeType string
		severity   string
		diffHTML   sql.NullString
		detectedAt int64
	)
	err := row.Scan(&c.ID, &c.ServiceID, &c.SnapshotOldID, &c.SnapshotNewID, &changeType, &severity,
		&c.Title, &c.Summary, &diffHTML, &c.SectionsChanged, &c.WordsAdded, &c.WordsRemoved, &detectedAt)
	if err != nil {
		return nil, err
	}
	c.ChangeType = models.ChangeType(changeType)
	c.Severity = models.Severity(severity)
	c.DiffHTML = diffHTML.String
	c.DetectedAt = models.UnixNanoToTime(detectedAt)
	return &c, nil
}
