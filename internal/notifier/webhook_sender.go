package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/httpclient"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/aleister1102/tosmonitor/internal/urlhandler"
	"github.com/rs/zerolog"
)

// HTTPWebhookSender posts change payloads to subscriber webhooks.
type HTTPWebhookSender struct {
	client  *httpclient.HTTPClient
	timeout time.Duration
	logger  zerolog.Logger
}

func NewHTTPWebhookSender(client *httpclient.HTTPClient, timeout time.Duration, logger zerolog.Logger) *HTTPWebhookSender {
	return &HTTPWebhookSender{
		client:  client,
		timeout: timeout,
		logger:  logger.With().Str("component", "WebhookSender").Logger(),
	}
}

// Send posts payload as JSON. Any non-2xx status is an error.
func (w *HTTPWebhookSender) Send(ctx context.Context, webhookURL string, payload models.WebhookPayload) error {
	if err := urlhandler.ValidateURLFormat(webhookURL); err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if err := w.client.PostJSON(ctx, webhookURL, nil, payload, nil); err != nil {
		return fmt.Errorf("webhook to %s failed: %w", webhookURL, err)
	}
	w.logger.Info().Str("webhook_url", webhookURL).Str("change_id", payload.Change.ID).Msg("Webhook alert sent")
	return nil
}
