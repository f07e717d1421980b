package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

// Orchestrator runs a full scan: every active service is fetched, compared
// with its latest snapshot, and any meaningful change is classified, stored,
// dispatched and exported.
type Orchestrator struct {
	store      ScanStore
	fetcher    PageFetcher
	differ     DocumentDiffer
	classifier ChangeClassifier
	dispatcher AlertDispatcher
	sinks      []ChangeSink
	threshold  float64
	pacing     time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSinks registers downstream change sinks, published in order.
func WithSinks(sinks ...ChangeSink) Option {
	return func(o *Orchestrator) { o.sinks = append(o.sinks, sinks...) }
}

// WithServicePacing sets the pause between services.
func WithServicePacing(d time.Duration) Option {
	return func(o *Orchestrator) { o.pacing = d }
}

// WithTrivialityThreshold sets the similarity above which a diff is ignored.
func WithTrivialityThreshold(t float64) Option {
	return func(o *Orchestrator) { o.threshold = t }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(store ScanStore, f PageFetcher, d DocumentDiffer, c ChangeClassifier, dispatcher AlertDispatcher, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		fetcher:    f,
		differ:     d,
		classifier: c,
		dispatcher: dispatcher,
		threshold:  0.995,
		pacing:     2 * time.Second,
		logger:     logger.With().Str("component", "Orchestrator").Logger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunFullScan checks every active service once. Only a failure to list the
// services is returned as an error; per-service failures are logged and the
// scan moves on. If ctx is cancelled the remaining services are skipped,
// changes already committed are still dispatched and exported, and ctx's
// error is returned with them.
func (o *Orchestrator) RunFullScan(ctx context.Context) ([]models.Change, error) {
	services, err := o.store.Repos().Services.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active services: %w", err)
	}

	start := o.now()
	o.logger.Info().Int("services", len(services)).Msg("Starting full scan")

	var (
		changes []models.Change
		events  []models.ChangeEvent
		failed  int
	)

	for i, svc := range services {
		if i > 0 && !o.pause(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		found, err := o.processService(ctx, svc)
		if err != nil {
			failed++
			o.logger.Error().Err(err).Str("service", svc.Name).Msg("Service check failed, rolled back")
			continue
		}
		for _, c := range found {
			changes = append(changes, c)
			events = append(events, models.ChangeEvent{Service: svc, Change: c})
		}
	}

	scanErr := ctx.Err()
	if scanErr != nil {
		o.logger.Warn().Err(scanErr).Msg("Scan interrupted, remaining services skipped")
	}

	o.publish(context.WithoutCancel(ctx), changes, events)

	o.logger.Info().
		Int("services", len(services)).
		Int("failed_services", failed).
		Int("changes", len(changes)).
		Dur("duration", o.now().Sub(start)).
		Msg("Full scan finished")

	return changes, scanErr
}

// pause waits between services and reports false if ctx ended first.
func (o *Orchestrator) pause(ctx context.Context) bool {
	if o.pacing <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(o.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (o *Orchestrator) publish(ctx context.Context, changes []models.Change, events []models.ChangeEvent) {
	if len(changes) == 0 {
		return
	}

	if o.dispatcher != nil {
		summary := o.dispatcher.Dispatch(ctx, changes)
		o.logger.Info().
			Int("sent", summary.Sent).
			Int("failed", summary.Failed).
			Int("skipped", summary.Skipped).
			Msg("Alerts dispatched")
	}

	for _, sink := range o.sinks {
		if err := sink.Publish(ctx, events); err != nil {
			o.logger.Error().Err(err).Str("sink", sink.Name()).Msg("Change sink failed")
		}
	}
}
