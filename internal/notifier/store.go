package notifier

import (
	"context"
	"time"

	"github.com/aleister1102/tosmonitor/internal/datastore"
	"github.com/aleister1102/tosmonitor/internal/models"
)

// DispatchStore is the persistence the dispatcher needs.
type DispatchStore interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListSubscriptions(ctx context.Context, serviceID string) ([]models.Subscription, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreatePendingAlert(ctx context.Context, changeID, userID string, channel models.AlertChannel) (*models.AlertAttempt, error)
	MarkAlertSent(ctx context.Context, id string, at time.Time) error
	MarkAlertFailed(ctx context.Context, id, reason string) error
}

// RepositoryStore adapts datastore repositories to DispatchStore.
type RepositoryStore struct {
	repos *datastore.Repositories
}

func NewRepositoryStore(repos *datastore.Repositories) *RepositoryStore {
	return &RepositoryStore{repos: repos}
}

func (s *RepositoryStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	return s.repos.Services.GetByID(ctx, id)
}

func (s *RepositoryStore) ListSubscriptions(ctx context.Context, serviceID string) ([]models.Subscription, error) {
	return s.repos.Subscriptions.ListByService(ctx, serviceID)
}

func (s *RepositoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repos.Users.GetByID(ctx, id)
}

func (s *RepositoryStore) CreatePendingAlert(ctx context.Context, changeID, userID string, channel models.AlertChannel) (*models.AlertAttempt, error) {
	return s.repos.Alerts.CreatePending(ctx, changeID, userID, channel)
}

func (s *RepositoryStore) MarkAlertSent(ctx context.Context, id string, at time.Time) error {
	return s.repos.Alerts.MarkSent(ctx, id, at)
}

func (s *RepositoryStore) MarkAlertFailed(ctx context.Context, id, reason string) error {
	return s.repos.Alerts.MarkFailed(ctx, id, reason)
}
