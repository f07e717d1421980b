package models

import "time"

// ScanStatus is the outcome of a scan run.
type ScanStatus string

const (
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// ScanRun records one execution of the full scan.
type ScanRun struct {
	ID            string     `json:"id"`
	Trigger       string     `json:"trigger"`
	Status        ScanStatus `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ChangesFound  int        `json:"changes_found"`
	ServicesTotal int        `json:"services_total"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}
