package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServiceDocuments(t *testing.T) {
	svc := Service{TermsURL: "https://a/terms", PrivacyURL: "https://a/privacy"}
	docs := svc.Documents()

	assert.Equal(t, []Document{
		{URL: "https://a/terms", ChangeType: ChangeTypeToSUpdate},
		{URL: "https://a/privacy", ChangeType: ChangeTypePrivacyUpdate},
	}, docs)

	assert.Len(t, Service{PrivacyURL: "https://a/privacy"}.Documents(), 1)
	assert.Empty(t, Service{}.Documents())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in    string
		want  Severity
		known bool
	}{
		{"critical", SeverityCritical, true},
		{" MAJOR ", SeverityMajor, true},
		{"Patch", SeverityPatch, true},
		{"severe", SeverityMinor, false},
		{"", SeverityMinor, false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.known, ok, tt.in)
	}
}

func TestLimitsFor(t *testing.T) {
	free := LimitsFor(PlanFree)
	assert.False(t, free.RealtimeAlerts)
	assert.False(t, free.Webhooks)
	assert.Equal(t, 2, free.MaxServices)

	pro := LimitsFor(PlanPro)
	assert.True(t, pro.RealtimeAlerts)
	assert.False(t, pro.Webhooks)

	business := LimitsFor(PlanBusiness)
	assert.True(t, business.Webhooks)
	assert.Equal(t, 5, business.Seats)

	assert.Equal(t, free, LimitsFor("enterprise"))
}

func TestCanSubscribeMore(t *testing.T) {
	assert.True(t, CanSubscribeMore(PlanFree, 1))
	assert.False(t, CanSubscribeMore(PlanFree, 2))
	assert.True(t, CanSubscribeMore(PlanPro, 14))
	assert.False(t, CanSubscribeMore("unknown", 2))
}

func TestNewWebhookPayload(t *testing.T) {
	detected := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := NewWebhookPayload(
		Service{Name: "Stripe", Slug: "stripe"},
		Change{ID: "c1", Title: "New arbitration clause", Severity: SeverityMajor, ChangeType: ChangeTypeToSUpdate, WordsAdded: 4, DetectedAt: detected},
		"https://tos.example.com/",
	)

	assert.Equal(t, "policy_change", payload.Event)
	assert.Equal(t, "stripe", payload.Service.Slug)
	assert.Equal(t, "major", payload.Change.Severity)
	assert.Equal(t, "tos_update", payload.Change.ChangeType)
	assert.Equal(t, "2026-03-01T12:00:00Z", payload.Change.DetectedAt)
	assert.Equal(t, "https://tos.example.com/changes/c1", payload.Change.URL)
}

func TestSeverityEmoji(t *testing.T) {
	assert.Equal(t, "🔴", SeverityCritical.Emoji())
	assert.Equal(t, "⚪", SeverityPatch.Emoji())
	assert.Equal(t, "📋", Severity("other").Emoji())
}

func TestUnixNanoRoundTripKeepsOrdering(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 0, 0, 1, time.UTC)
	b := a.Add(time.Nanosecond)

	assert.True(t, UnixNanoToTime(TimeToUnixNano(a)).Before(UnixNanoToTime(TimeToUnixNano(b))))
	assert.True(t, UnixNanoToTime(0).IsZero())
	assert.Nil(t, UnixNanoToTimeOptional(nil))
}
