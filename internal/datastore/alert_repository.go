package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/models"
)

// AlertRepository records delivery attempts.
type AlertRepository struct {
	db DBTX
}

func NewAlertRepository(db DBTX) *AlertRepository {
	return &AlertRepository{db: db}
}

// CreatePending inserts a pending attempt for (change, user, channel).
func (r *AlertRepository) CreatePending(ctx context.Context, changeID, userID string, channel models.AlertChannel) (*models.AlertAttempt, error) {
	a := &models.AlertAttempt{
		ID:        newID(),
		ChangeID:  changeID,
		UserID:    userID,
		Channel:   channel,
		Status:    models.AlertStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, change_id, user_id, channel, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ChangeID, a.UserID, string(a.Channel), string(a.Status), models.TimeToUnixNano(a.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert alert attempt: %w", err)
	}
	return a, nil
}

// MarkSent moves a pending attempt to sent.
func (r *AlertRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	return r.transition(ctx, id,
		`UPDATE alerts SET status = ?, sent_at = ? WHERE id = ? AND status = ?`,
		string(models.AlertStatusSent), models.TimeToUnixNano(at), id, string(models.AlertStatusPending))
}

// MarkFailed moves a pending attempt to failed with reason.
func (r *AlertRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.transition(ctx, id,
		`UPDATE alerts SET status = ?, error_message = ? WHERE id = ? AND status = ?`,
		string(models.AlertStatusFailed), reason, id, string(models.AlertStatusPending))
}

func (r *AlertRepository) transition(ctx context.Context, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update alert %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("alert %s is not pending", id)
	}
	return nil
}

// ListByChange returns attempts for changeID in creation order.
func (r *AlertRepository) ListByChange(ctx context.Context, changeID string) ([]models.AlertAttempt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, change_id, user_id, channel, status, error_message, sent_at, created_at
		FROM alerts WHERE change_id = ? ORDER BY created_at, id`, changeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select alerts: %w", err)
	}
	defer rows.Close()

	var result []models.AlertAttempt
	for rows.Next() {
		var (
			a         models.AlertAttempt
			channel   string
			status    string
			sentAt    sql.NullInt64
			createdAt int64
		)
		if err := rows.Scan(&a.ID, &a.ChangeID, &a.UserID, &channel, &status, &a.ErrorMessage, &sentAt, &createdAt); err != nil {
			return nil, err
		}
		a.Channel = models.AlertChannel(channel)
		a.Status = models.AlertStatus(status)
		if sentAt.Valid {
			a.SentAt = models.UnixNanoToTimeOptional(&sentAt.Int64)
		}
		a.CreatedAt = models.UnixNanoToTime(createdAt)
		result = append(result, a)
	}
	return result, rows.Err()
}
