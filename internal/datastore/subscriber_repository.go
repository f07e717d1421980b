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

// UserRepository reads and creates subscriber accounts.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Plan == "" {
		u.Plan = models.PlanFree
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, plan, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, string(u.Plan), boolToInt(u.IsActive), models.TimeToUnixNano(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
	}
	return nil
}

// GetByID returns the user or common.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		u         models.User
		plan      string
		active    int
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, plan, is_active, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &plan, &active, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.WrapErrorf(common.ErrNotFound, "user %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user %s: %w", id, err)
	}
	u.Plan = models.Plan(plan)
	u.IsActive = active == 1
	u.CreatedAt = models.UnixNanoToTime(createdAt)
	return &u, nil
}

// SubscriptionRepository links users to services.
type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a subscription. A second subscription of the same user to
// the same service violates the unique constraint.
func (r *SubscriptionRepository) Create(ctx context.Context, s *models.Subscription) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, user_id, service_id, notify_email, notify_webhook, webhook_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.ServiceID, boolToInt(s.NotifyEmail), boolToInt(s.NotifyWebhook), s.WebhookURL,
		models.TimeToUnixNano(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// ListByService returns subscriptions to serviceID in creation order.
func (r *SubscriptionRepository) ListByService(ctx context.Context, serviceID string) ([]models.Subscription, error) {
	return r.list(ctx, `WHERE service_id = ?`, serviceID)
}

// CountByUser returns how many services userID follows.
func (r *SubscriptionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}

func (r *SubscriptionRepository) list(ctx context.Context, where string, args ...any) ([]models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, service_id, notify_email, notify_webhook, webhook_url, created_at
		FROM subscriptions `+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select subscriptions: %w", err)
	}
	defer rows.Close()

	var result []models.Subscription
	for rows.Next() {
		var (
			s             models.Subscription
			notifyEmail   int
			notifyWebhook int
			createdAt     int64
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.ServiceID, &notifyEmail, &notifyWebhook, &s.WebhookURL, &createdAt); err != nil {
			return nil, err
		}
		s.NotifyEmail = notifyEmail == 1
		s.NotifyWebhook = notifyWebhook == 1
		s.CreatedAt = models.UnixNanoToTime(createdAt)
		result = append(result, s)
	}
	return result, rows.Err()
}
