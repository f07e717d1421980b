package models

import "time"

// AlertChannel is a delivery medium.
type AlertChannel string

const (
	AlertChannelEmail   AlertChannel = "email"
	AlertChannelWebhook AlertChannel = "webhook"
)

// AlertStatus is the lifecycle state of an attempt.
type AlertStatus string

const (
	AlertStatusPending AlertStatus = "pending"
	AlertStatusSent    AlertStatus = "sent"
	AlertStatusFailed  AlertStatus = "failed"
)

// AlertAttempt is one delivery of one change to one user over one channel.
// It is created pending and moves to sent or failed exactly once.
type AlertAttempt struct {
	ID           string       `json:"id"`
	ChangeID     string       `json:"change_id"`
	UserID       string       `json:"user_id"`
	Channel      AlertChannel `json:"channel"`
	Status       AlertStatus  `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	SentAt       *time.Time   `json:"sent_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// WebhookPayload is the JSON body posted to subscriber webhooks.
type WebhookPayload struct {
	Event   string         `json:"event"`
	Service WebhookService `json:"service"`
	Change  WebhookChange  `json:"change"`
}

// WebhookService identifies the service in a webhook payload.
type WebhookService struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// WebhookChange describes the change in a webhook payload.
type WebhookChange struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	Severity        string `json:"severity"`
	ChangeType      string `json:"change_type"`
	SectionsChanged int    `json:"sections_changed"`
	WordsAdded      int    `json:"words_added"`
	WordsRemoved    int    `json:"words_removed"`
	DetectedAt      string `json:"detected_at"`
	URL             string `json:"url"`
}

// WebhookEventPolicyChange is the event name of change notifications.
const WebhookEventPolicyChange = "policy_change"

// NewWebhookPayload builds the payload for change on service.
func NewWebhookPayload(service Service, change Change, appURL string) WebhookPayload {
	return WebhookPayload{
		Event:   WebhookEventPolicyChange,
		Service: WebhookService{Name: service.Name, Slug: service.Slug},
		Change: WebhookChange{
			ID:              change.ID,
			Title:           change.Title,
			Summary:         change.Summary,
			Severity:        string(change.Severity),
			ChangeType:      string(change.ChangeType),
			SectionsChanged: change.SectionsChanged,
			WordsAdded:      change.WordsAdded,
			WordsRemoved:    change.WordsRemoved,
			DetectedAt:      change.DetectedAt.UTC().Format(time.RFC3339),
			URL:             ChangeURL(appURL, change.ID),
		},
	}
}
