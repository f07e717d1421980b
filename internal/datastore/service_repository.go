package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/models"
)

const serviceColumns = `id, name, slug, category, tos_url, privacy_url, is_active, last_checked_at, created_at`

// ServiceRepository persists monitored services.
type ServiceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Upsert inserts s or, when its slug already exists, updates the catalogue
// fields in place. s.ID is set to the stored row's ID.
func (r *ServiceRepository) Upsert(ctx context.Context, s *models.Service) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO services (id, name, slug, category, tos_url, privacy_url, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			tos_url = excluded.tos_url,
			privacy_url = excluded.privacy_url,
			is_active = excluded.is_active
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.Slug, s.Category, s.TermsURL, s.PrivacyURL,
		boolToInt(s.IsActive), models.TimeToUnixNano(s.CreatedAt),
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert service %s: %w", s.Slug, err)
	}
	return nil
}

// ListActive returns active services ordered by name.
func (r *ServiceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE is_active = 1 ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select active services: %w", err)
	}
	defer rows.Close()

	var result []models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the service or common.ErrNotFound.
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.WrapErrorf(common.ErrNotFound, "service %s", id)
	}
	return s, err
}

// TouchLastChecked records when a service was last scanned.
func (r *ServiceRepository) TouchLastChecked(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE services SET last_checked_at = ? WHERE id = ?`, models.TimeToUnixNano(at), id)
	if err != nil {
		return fmt.Errorf("failed to update last_checked_at for %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (*models.Service, error) {
	var (
		s           models.Service
		active      int
		lastChecked sql.NullInt64
		createdAt   int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Category, &s.TermsURL, &s.PrivacyURL, &active, &lastChecked, &createdAt); err != nil {
		return nil, err
	}
	s.IsActive = active == 1
	if lastChecked.Valid {
		s.LastCheckedAt = models.UnixNanoToTimeOptional(&lastChecked.Int64)
	}
	s.CreatedAt = models.UnixNanoToTime(createdAt)
	return &s, nil
}
