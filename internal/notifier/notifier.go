package notifier

import (
	"context"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/models"
)

// ErrChannelDisabled is returned by senders whose channel is not configured.
var ErrChannelDisabled = common.ErrChannelDisabled

// EmailSender delivers one HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// WebhookSender posts one JSON payload.
type WebhookSender interface {
	Send(ctx context.Context, webhookURL string, payload models.WebhookPayload) error
}
