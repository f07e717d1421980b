package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

// DispatchSummary counts what one Dispatch call did.
type DispatchSummary struct {
	Sent    int
	Failed  int
	Skipped int
}

// Dispatcher fans changes out to subscribers over email and webhook. Every
// attempt is recorded; channels and subscribers fail independently and
// nothing is retried.
type Dispatcher struct {
	store   DispatchStore
	email   EmailSender
	webhook WebhookSender
	appURL  string
	logger  zerolog.Logger
	now     func() time.Time
}

func NewDispatcher(store DispatchStore, email EmailSender, webhook WebhookSender, appURL string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		email:   email,
		webhook: webhook,
		appURL:  appURL,
		logger:  logger.With().Str("component", "Dispatcher").Logger(),
		now:     time.Now,
	}
}

// Dispatch delivers alerts for changes. Lookup failures skip the affected
// change or subscriber; only context cancellation stops the loop early.
func (d *Dispatcher) Dispatch(ctx context.Context, changes []models.Change) DispatchSummary {
	var summary DispatchSummary

	for _, change := range changes {
		if ctx.Err() != nil {
			d.logger.Warn().Err(ctx.Err()).Msg("Dispatch interrupted")
			return summary
		}

		service, err := d.store.GetService(ctx, change.ServiceID)
		if err != nil {
			d.logLookupError(err, "service", change.ServiceID)
			continue
		}

		subs, err := d.store.ListSubscriptions(ctx, change.ServiceID)
		if err != nil {
			d.logger.Error().Err(err).Str("service", service.Name).Msg("Failed to list subscriptions")
			continue
		}

		d.logger.Info().
			Str("service", service.Name).
			Str("change_id", change.ID).
			Int("subscribers", len(subs)).
			Msg("Sending alerts for change")

		for _, sub := range subs {
			d.dispatchToSubscriber(ctx, *service, change, sub, &summary)
		}
	}
	return summary
}

func (d *Dispatcher) dispatchToSubscriber(ctx context.Context, service models.Service, change models.Change, sub models.Subscription, summary *DispatchSummary) {
	user, err := d.store.GetUser(ctx, sub.UserID)
	if err != nil {
		d.logLookupError(err, "user", sub.UserID)
		summary.Skipped++
		return
	}

	limits := models.LimitsFor(user.Plan)
	if !limits.RealtimeAlerts {
		d.logger.Debug().Str("user", user.Email).Str("plan", string(user.Plan)).Msg("Skipping real-time alert for plan")
		summary.Skipped++
		return
	}

	if sub.NotifyEmail {
		d.attempt(ctx, change, user.ID, models.AlertChannelEmail, summary, func() error {
			body, err := RenderEmailBody(service, change, d.appURL)
			if err != nil {
				return err
			}
			return d.email.Send(ctx, user.Email, EmailSubject(service, change), body)
		})
	}

	if sub.NotifyWebhook && sub.WebhookURL != "" && limits.Webhooks {
		d.attempt(ctx, change, user.ID, models.AlertChannelWebhook, summary, func() error {
			return d.webhook.Send(ctx, sub.WebhookURL, models.NewWebhookPayload(service, change, d.appURL))
		})
	}
}

// attempt records a pending attempt, runs send, and stores the outcome.
func (d *Dispatcher) attempt(ctx context.Context, change models.Change, userID string, channel models.AlertChannel, summary *DispatchSummary, send func() error) {
	alert, err := d.store.CreatePendingAlert(ctx, change.ID, userID, channel)
	if err != nil {
		d.logger.Error().Err(err).Str("channel", string(channel)).Msg("Failed to record alert attempt")
		summary.Failed++
		return
	}

	if sendErr := send(); sendErr != nil {
		summary.Failed++
		d.logger.Error().Err(sendErr).
			Str("channel", string(channel)).
			Str("change_id", change.ID).
			Str("user_id", userID).
			Msg("Alert delivery failed")
		if err := d.store.MarkAlertFailed(ctx, alert.ID, sendErr.Error()); err != nil {
			d.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("Failed to mark alert failed")
		}
		return
	}

	summary.Sent++
	if err := d.store.MarkAlertSent(ctx, alert.ID, d.now().UTC()); err != nil {
		d.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("Failed to mark alert sent")
	}
}

func (d *Dispatcher) logLookupError(err error, kind, id string) {
	if errors.Is(err, common.ErrNotFound) {
		d.logger.Warn().Str(kind+"_id", id).Msgf("%s not found, skipping", kind)
		return
	}
	d.logger.Error().Err(err).Str(kind+"_id", id).Msgf("Failed to load %s", kind)
}
