package models

import "time"

// Plan names a subscriber entitlement tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// User is the slice of a subscriber account the pipeline needs.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Plan      Plan      `json:"plan"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription links a user to a service with channel preferences.
type Subscription struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ServiceID     string    `json:"service_id"`
	NotifyEmail   bool      `json:"notify_email"`
	NotifyWebhook bool      `json:"notify_webhook"`
	WebhookURL    string    `json:"webhook_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
