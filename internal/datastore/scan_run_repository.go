package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/models"
)

// ScanRunRepository keeps the history of full scans.
type ScanRunRepository struct {
	db DBTX
}

func NewScanRunRepository(db DBTX) *ScanRunRepository {
	return &ScanRunRepository{db: db}
}

// RecordScanStart inserts a running scan and returns its ID.
func (r *ScanRunRepository) RecordScanStart(ctx context.Context, trigger string, startedAt time.Time) (string, error) {
	id := newID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scan_runs (id, trigger_source, status, started_at) VALUES (?, ?, ?, ?)`,
		id, trigger, string(models.ScanStatusRunning), models.TimeToUnixNano(startedAt))
	if err != nil {
		return "", fmt.Errorf("failed to insert scan start record: %w", err)
	}
	return id, nil
}

// UpdateScanCompletion closes a scan with its outcome.
func (r *ScanRunRepository) UpdateScanCompletion(ctx context.Context, run models.ScanRun) error {
	completedAt := time.Now().UTC()
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_runs SET status = ?, completed_at = ?, changes_found = ?, services_total = ?, error_message = ?
		WHERE id = ?`,
		string(run.Status), models.TimeToUnixNano(completedAt), run.ChangesFound, run.ServicesTotal, run.ErrorMessage, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update scan completion for %s: %w", run.ID, err)
	}
	return nil
}

// GetLastScanTime returns the start time of the latest completed scan, or
// nil when there is none.
func (r *ScanRunRepository) GetLastScanTime(ctx context.Context) (*time.Time, error) {
	var startedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT started_at FROM scan_runs WHERE status = ? ORDER BY started_at DESC LIMIT 1`,
		string(models.ScanStatusCompleted)).Scan(&startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last scan start time: %w", err)
	}
	t := models.UnixNanoToTime(startedAt)
	return &t, nil
}

// GetByID returns a scan run.
func (r *ScanRunRepository) GetByID(ctx context.Context, id string) (*models.ScanRun, error) {
	var (
		run         models.ScanRun
		status      string
		startedAt   int64
		completedAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, trigger_source, status, started_at, completed_at, changes_found, services_total, error_message
		FROM scan_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Trigger, &status, &startedAt, &completedAt, &run.ChangesFound, &run.ServicesTotal, &run.ErrorMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to select scan run %s: %w", id, err)
	}
	run.Status = models.ScanStatus(status)
	run.StartedAt = models.UnixNanoToTime(startedAt)
	if completedAt.Valid {
		run.CompletedAt = models.UnixNanoToTimeOptional(&completedAt.Int64)
	}
	return &run, nil
}
