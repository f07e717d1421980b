package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// ScanRunner runs one full scan.
type ScanRunner interface {
	RunFullScan(ctx context.Context) ([]models.Change, error)
}

// ScanHistory persists scan runs. *datastore.ScanRunRepository satisfies it.
type ScanHistory interface {
	RecordScanStart(ctx context.Context, trigger string, startedAt time.Time) (string, error)
	UpdateScanCompletion(ctx context.Context, run models.ScanRun) error
	GetLastScanTime(ctx context.Context) (*time.Time, error)
}

// ResourceGuard refuses a scheduled scan when the host is overloaded.
type ResourceGuard interface {
	Check(ctx context.Context) error
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running      bool       `json:"running"`
	Scanning     bool       `json:"scanning"`
	LastScanAt   *time.Time `json:"last_scan_at,omitempty"`
	LastChanges  int        `json:"last_changes"`
	LastError    string     `json:"last_error,omitempty"`
	NextScanAt   *time.Time `json:"next_scan_at,omitempty"`
	ScansRun     int        `json:"scans_run"`
	ScansSkipped int        `json:"scans_skipped"`
}

// Scheduler runs a full scan on a fixed interval and on demand. Scans never
// overlap: a timer tick that finds a scan in progress is skipped, while a
// manual trigger waits for it.
type Scheduler struct {
	runner     ScanRunner
	history    ScanHistory
	guard      ResourceGuard
	interval   time.Duration
	retryDelay time.Duration
	runOnStart bool
	logger     zerolog.Logger
	now        func() time.Time

	scanMu sync.Mutex

	mu         sync.Mutex
	running    bool
	scanning   bool
	lastFailed bool
	status     Status
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewScheduler creates a scheduler. history and guard may be nil.
func NewScheduler(cfg config.SchedulerConfig, runner ScanRunner, history ScanHistory, guard ResourceGuard, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		history:    history,
		guard:      guard,
		interval:   cfg.Interval(),
		retryDelay: time.Duration(cfg.RetryDelayMinutes) * time.Minute,
		runOnStart: cfg.RunOnStart,
		logger:     logger.With().Str("component", "Scheduler").Logger(),
		now:        time.Now,
	}
}

// Start runs the scheduling loop until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.status.NextScanAt = nil
		s.mu.Unlock()
		close(doneCh)
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")

	first := true
	for {
		next, err := s.nextScanTime(ctx, first)
		first = false
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to calculate next scan time")
			next = s.now().Add(s.retryDelay)
		}
		s.setNextScan(next)
		s.logger.Info().Time("next_scan_time", next).Msg("Next scan scheduled")

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Context cancelled, scheduler exiting")
			return nil
		case <-stopCh:
			timer.Stop()
			s.logger.Info().Msg("Stop requested, scheduler exiting")
			return nil
		case <-timer.C:
			s.tick(ctx)
		}
	}
}

// Stop ends the loop started by Start and waits for it to return. A scan in
// progress keeps the context it was started with.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running || s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	s.logger.Info().Msg("Scheduler stopped")
}

// Status reports the current scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Running = s.running
	st.Scanning = s.scanning
	return st
}

// TriggerNow runs a scan immediately, waiting for any scan already in
// progress. It returns the number of changes detected; an internal failure
// yields the count of changes committed before it, usually zero.
func (s *Scheduler) TriggerNow(ctx context.Context) int {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.runScan(ctx, TriggerManual)
}

// tick runs a scheduled scan unless one is already running or the host is
// short on resources.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.scanMu.TryLock() {
		s.logger.Warn().Msg("Scan already in progress, skipping scheduled run")
		s.markSkipped()
		return
	}
	defer s.scanMu.Unlock()

	if s.guard != nil {
		if err := s.guard.Check(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Resource guard refused scheduled scan")
			s.markSkipped()
			s.mu.Lock()
			s.lastFailed = true
			s.mu.Unlock()
			return
		}
	}

	s.runScan(ctx, TriggerScheduled)
}

func (s *Scheduler) runScan(ctx context.Context, trigger string) int {
	log := s.logger.With().Str("trigger", trigger).Logger()
	startedAt := s.now().UTC()

	s.mu.Lock()
	s.scanning = true
	s.mu.Unlock()

	runID := s.recordStart(ctx, trigger, startedAt, log)

	log.Info().Msg("Starting scan")
	changes, err := s.runner.RunFullScan(ctx)

	completedAt := s.now().UTC()
	run := models.ScanRun{
		ID:           runID,
		Trigger:      trigger,
		Status:       models.ScanStatusCompleted,
		StartedAt:    startedAt,
		CompletedAt:  &completedAt,
		ChangesFound: len(changes),
	}
	if err != nil {
		run.Status = models.ScanStatusFailed
		run.ErrorMessage = err.Error()
		log.Error().Err(err).Int("changes", len(changes)).Msg("Scan failed")
	} else {
		log.Info().
			Int("changes", len(changes)).
			Dur("duration", completedAt.Sub(startedAt)).
			Msg("Scan completed")
	}
	s.recordCompletion(context.WithoutCancel(ctx), run, log)

	s.mu.Lock()
	s.scanning = false
	s.lastFailed = err != nil
	s.status.LastScanAt = &startedAt
	s.status.LastChanges = len(changes)
	s.status.LastError = run.ErrorMessage
	s.status.ScansRun++
	s.mu.Unlock()

	return len(changes)
}

func (s *Scheduler) recordStart(ctx context.Context, trigger string, startedAt time.Time, log zerolog.Logger) string {
	if s.history == nil {
		return ""
	}
	id, err := s.history.RecordScanStart(ctx, trigger, startedAt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to record scan start")
		return ""
	}
	return id
}

func (s *Scheduler) recordCompletion(ctx context.Context, run models.ScanRun, log zerolog.Logger) {
	if s.history == nil || run.ID == "" {
		return
	}
	if err := s.history.UpdateScanCompletion(ctx, run); err != nil {
		log.Error().Err(err).Str("scan_run_id", run.ID).Msg("Failed to record scan completion")
	}
}

// nextScanTime is now for the first run when runOnStart is set or no scan has
// completed yet, retryDelay after a failed scheduled run, and otherwise one
// interval after the last completed scan, never in the past.
func (s *Scheduler) nextScanTime(ctx context.Context, first bool) (time.Time, error) {
	now := s.now()
	if first && s.runOnStart {
		return now, nil
	}

	s.mu.Lock()
	failed := s.lastFailed
	s.mu.Unlock()
	if failed {
		return now.Add(s.retryDelay), nil
	}

	var last *time.Time
	if s.history != nil {
		var err error
		last, err = s.history.GetLastScanTime(ctx)
		if err != nil {
			return time.Time{}, err
		}
	}
	if last == nil {
		if first {
			return now, nil
		}
		return now.Add(s.interval), nil
	}

	next := last.Add(s.interval)
	if next.Before(now) {
		return now, nil
	}
	return next, nil
}

func (s *Scheduler) setNextScan(t time.Time) {
	s.mu.Lock()
	s.status.NextScanAt = &t
	s.mu.Unlock()
}

func (s *Scheduler) markSkipped() {
	s.mu.Lock()
	s.status.ScansSkipped++
	s.mu.Unlock()
}
