package main

import (
	"context"
	"fmt"

	"github.com/aleister1102/tosmonitor/internal/classifier"
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/datastore"
	"github.com/aleister1102/tosmonitor/internal/differ"
	"github.com/aleister1102/tosmonitor/internal/feed"
	"github.com/aleister1102/tosmonitor/internal/fetcher"
	"github.com/aleister1102/tosmonitor/internal/httpclient"
	"github.com/aleister1102/tosmonitor/internal/notifier"
	"github.com/aleister1102/tosmonitor/internal/orchestrator"
	"github.com/aleister1102/tosmonitor/internal/renderer"
	"github.com/aleister1102/tosmonitor/internal/rslimiter"
	"github.com/aleister1102/tosmonitor/internal/scheduler"
	"github.com/rs/zerolog"
)

// app holds the wired components of one process.
type app struct {
	cfg          *config.GlobalConfig
	logger       zerolog.Logger
	db           *datastore.DB
	renderer     *renderer.HeadlessRenderer
	fetcher      *fetcher.Fetcher
	orchestrator *orchestrator.Orchestrator
	scheduler    *scheduler.Scheduler
}

func newApp(ctx context.Context, cfg *config.GlobalConfig, logger zerolog.Logger) (*app, error) {
	db, err := datastore.Open(ctx, cfg.StorageConfig.SQLiteDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open datastore: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, db: db}

	pageClient, err := httpclient.NewHTTPClient(httpclient.ConfigFromFetcher(cfg.FetcherConfig), logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create page HTTP client: %w", err)
	}
	apiClient, err := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(cfg.ClassifierConfig.Timeout()).
		WithUserAgent(cfg.FetcherConfig.UserAgent).
		Build()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create API HTTP client: %w", err)
	}

	a.fetcher = fetcher.NewFetcher(pageClient, cfg.FetcherConfig, logger)
	if cfg.FetcherConfig.Headless.Enabled {
		a.renderer = renderer.NewHeadlessRenderer(cfg.FetcherConfig.Headless, cfg.FetcherConfig.UserAgent, logger)
		if err := a.renderer.Start(); err != nil {
			logger.Warn().Err(err).Msg("Headless renderer unavailable, continuing with plain HTTP fetches")
			a.renderer = nil
		} else {
			a.fetcher.WithRenderer(a.renderer, cfg.FetcherConfig.Headless.MinWordsBeforeRender)
		}
	}

	dispatcher := notifier.NewDispatcher(
		notifier.NewRepositoryStore(db.Repos()),
		notifier.NewSMTPEmailSender(cfg.NotificationConfig, logger),
		notifier.NewHTTPWebhookSender(apiClient, cfg.NotificationConfig.WebhookTimeout(), logger),
		cfg.NotificationConfig.AppURL,
		logger,
	)

	sinks := []orchestrator.ChangeSink{feed.NewJSONFeedExporter(cfg.FeedConfig, cfg.NotificationConfig.AppURL, logger)}
	if cfg.StorageConfig.ArchiveDir != "" {
		archive, err := datastore.NewChangeArchive(cfg.StorageConfig, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Change archive disabled")
		} else {
			sinks = append(sinks, archive)
		}
	}

	a.orchestrator = orchestrator.NewOrchestrator(
		db,
		a.fetcher,
		differ.NewDiffer(cfg.DiffConfig),
		classifier.NewClassifier(cfg.ClassifierConfig, apiClient, logger),
		dispatcher,
		logger,
		orchestrator.WithSinks(sinks...),
		orchestrator.WithServicePacing(cfg.SchedulerConfig.ServicePacing()),
		orchestrator.WithTrivialityThreshold(cfg.DiffConfig.TrivialityThreshold),
	)

	a.scheduler = scheduler.NewScheduler(
		cfg.SchedulerConfig,
		a.orchestrator,
		db.Repos().ScanRuns,
		rslimiter.NewGuard(cfg.ResourceLimiterConfig, logger),
		logger,
	)
	return a, nil
}

// Close releases the browser pool and the database.
func (a *app) Close() {
	if a.renderer != nil {
		a.renderer.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close datastore")
		}
	}
}
