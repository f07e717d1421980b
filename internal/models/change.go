package models

import (
	"strings"
	"time"
)

// ChangeType identifies which document of a service changed.
type ChangeType string

const (
	ChangeTypeToSUpdate     ChangeType = "tos_update"
	ChangeTypePrivacyUpdate ChangeType = "privacy_update"
)

// Severity grades how much a change matters to subscribers.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityPatch    Severity = "patch"
)

// ParseSeverity normalizes s against the severity vocabulary. Unknown values
// map to minor and report false.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical, true
	case SeverityMajor:
		return SeverityMajor, true
	case SeverityMinor:
		return SeverityMinor, true
	case SeverityPatch:
		return SeverityPatch, true
	}
	return SeverityMinor, false
}

// Emoji returns the marker used in alert subjects.
func (s Severity) Emoji() string {
	switch s {
	case SeverityCritical:
		return "🔴"
	case SeverityMajor:
		return "🟠"
	case SeverityMinor:
		return "🟡"
	case SeverityPatch:
		return "⚪"
	default:
		return "📋"
	}
}

// Change is a detected, non-trivial difference between two adjacent
// snapshots of the same service document.
type Change struct {
	ID              string     `json:"id"`
	ServiceID       string     `json:"service_id"`
	SnapshotOldID   string     `json:"snapshot_old_id"`
	SnapshotNewID   string     `json:"snapshot_new_id"`
	ChangeType      ChangeType `json:"change_type"`
	Severity        Severity   `json:"severity"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	DiffHTML        string     `json:"diff_html,omitempty"`
	SectionsChanged int        `json:"sections_changed"`
	WordsAdded      int        `json:"words_added"`
	WordsRemoved    int        `json:"words_removed"`
	DetectedAt      time.Time  `json:"detected_at"`
}

// ChangeEvent pairs a change with its service for downstream sinks.
type ChangeEvent struct {
	Service Service
	Change  Change
}

// ChangeURL is the public page of a change under appURL.
func ChangeURL(appURL, changeID string) string {
	return strings.TrimRight(appURL, "/") + "/changes/" + changeID
}
