package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/datastore"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls   atomic.Int32
	active  atomic.Int32
	maxSeen atomic.Int32
	block   chan struct{}
	changes int
	err     error
}

func (r *fakeRunner) RunFullScan(ctx context.Context) ([]models.Change, error) {
	r.calls.Add(1)
	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if r.block != nil {
		<-r.block
	}
	if r.err != nil {
		return nil, r.err
	}
	return make([]models.Change, r.changes), nil
}

type fakeGuard struct{ err error }

func (g fakeGuard) Check(context.Context) error { return g.err }

type fakeHistory struct {
	mu    sync.Mutex
	runs  []models.ScanRun
	last  *time.Time
	err   error
	calls int
}

func (h *fakeHistory) RecordScanStart(_ context.Context, trigger string, startedAt time.Time) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, models.ScanRun{ID: trigger + "-run", Trigger: trigger, StartedAt: startedAt})
	return trigger + "-run", nil
}

func (h *fakeHistory) UpdateScanCompletion(_ context.Context, run models.ScanRun) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[len(h.runs)-1] = run
	return nil
}

func (h *fakeHistory) GetLastScanTime(context.Context) (*time.Time, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return h.last, h.err
}

func testConfig() config.SchedulerConfig {
	cfg := config.NewDefaultSchedulerConfig()
	cfg.CycleMinutes = 60
	cfg.RetryDelayMinutes = 5
	cfg.RunOnStart = false
	return cfg
}

func TestTriggerNow_ReturnsChangeCountAndRecordsRun(t *testing.T) {
	runner := &fakeRunner{changes: 3}
	history := &fakeHistory{}
	s := NewScheduler(testConfig(), runner, history, nil, zerolog.Nop())

	count := s.TriggerNow(context.Background())

	assert.Equal(t, 3, count)
	require.Len(t, history.runs, 1)
	run := history.runs[0]
	assert.Equal(t, TriggerManual, run.Trigger)
	assert.Equal(t, models.ScanStatusCompleted, run.Status)
	assert.Equal(t, 3, run.ChangesFound)
	require.NotNil(t, run.CompletedAt)

	st := s.Status()
	assert.Equal(t, 3, st.LastChanges)
	assert.Equal(t, 1, st.ScansRun)
	assert.False(t, st.Scanning)
}

func TestTriggerNow_InternalErrorYieldsZero(t *testing.T) {
	runner := &fakeRunner{err: errors.New("database is locked")}
	history := &fakeHistory{}
	s := NewScheduler(testConfig(), runner, history, nil, zerolog.Nop())

	assert.Equal(t, 0, s.TriggerNow(context.Background()))
	require.Len(t, history.runs, 1)
	assert.Equal(t, models.ScanStatusFailed, history.runs[0].Status)
	assert.Equal(t, "database is locked", history.runs[0].ErrorMessage)
	assert.Equal(t, "database is locked", s.Status().LastError)
}

func TestTriggerNow_WaitsForRunningScan(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := NewScheduler(testConfig(), runner, nil, nil, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.TriggerNow(context.Background())
		}()
	}

	assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(runner.block)
	wg.Wait()

	assert.Equal(t, int32(3), runner.calls.Load(), "every manual trigger eventually runs")
	assert.Equal(t, int32(1), runner.maxSeen.Load(), "scans never overlap")
}

func TestTick_SkippedWhileScanInProgress(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(testConfig(), runner, nil, nil, zerolog.Nop())

	s.scanMu.Lock()
	s.tick(context.Background())
	s.scanMu.Unlock()

	assert.Zero(t, runner.calls.Load())
	assert.Equal(t, 1, s.Status().ScansSkipped)
}

func TestTick_ResourceGuardOnlyAppliesToScheduledScans(t *testing.T) {
	runner := &fakeRunner{changes: 1}
	s := NewScheduler(testConfig(), runner, nil, fakeGuard{err: errors.New("memory at 97%")}, zerolog.Nop())

	s.tick(context.Background())
	assert.Zero(t, runner.calls.Load())

	assert.Equal(t, 1, s.TriggerNow(context.Background()))
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestNextScanTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Minute)
	stale := now.Add(-3 * time.Hour)

	tests := []struct {
		name       string
		runOnStart bool
		first      bool
		lastFailed bool
		last       *time.Time
		want       time.Time
	}{
		{name: "run on start", runOnStart: true, first: true, last: &recent, want: now},
		{name: "no history on first run", first: true, want: now},
		{name: "no history afterwards", want: now.Add(time.Hour)},
		{name: "recent scan", first: true, last: &recent, want: recent.Add(time.Hour)},
		{name: "overdue scan", last: &stale, want: now},
		{name: "retry after failure", lastFailed: true, last: &recent, want: now.Add(5 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RunOnStart = tt.runOnStart
			s := NewScheduler(cfg, &fakeRunner{}, &fakeHistory{last: tt.last}, nil, zerolog.Nop())
			s.now = func() time.Time { return now }
			s.lastFailed = tt.lastFailed

			got, err := s.nextScanTime(context.Background(), tt.first)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextScanTime_HistoryError(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeRunner{}, &fakeHistory{err: errors.New("no such table")}, nil, zerolog.Nop())
	_, err := s.nextScanTime(context.Background(), false)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	cfg := testConfig()
	cfg.RunOnStart = true
	runner := &fakeRunner{changes: 2}
	s := NewScheduler(cfg, runner, nil, nil, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Status().NextScanAt != nil && !s.Status().Scanning }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Status().Running)
	assert.Error(t, s.Start(context.Background()), "second Start is rejected")

	s.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	assert.False(t, s.Status().Running)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestStart_ContextCancel(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeRunner{}, &fakeHistory{last: ptrTime(time.Now())}, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	assert.Eventually(t, func() bool { return s.Status().Running }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestScheduler_WithDatastoreHistory(t *testing.T) {
	db, err := datastore.Open(context.Background(), filepath.Join(t.TempDir(), "sched.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	history := db.Repos().ScanRuns
	s := NewScheduler(testConfig(), &fakeRunner{changes: 4}, history, nil, zerolog.Nop())

	assert.Equal(t, 4, s.TriggerNow(context.Background()))

	last, err := history.GetLastScanTime(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.WithinDuration(t, time.Now(), *last, time.Minute)
}

func ptrTime(t time.Time) *time.Time { return &t }
