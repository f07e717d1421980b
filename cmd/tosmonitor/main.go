package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/datastore"
	"github.com/aleister1102/tosmonitor/internal/logger"
	"github.com/aleister1102/tosmonitor/internal/probing"
	"github.com/aleister1102/tosmonitor/internal/rslimiter"
	"github.com/rs/zerolog"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := config.LoadDotEnv(flags.DotEnvFile); err != nil {
		log.Fatalf("[FATAL] Main: %v", err)
	}

	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	if err := config.ApplyEnvOverrides(gCfg); err != nil {
		log.Fatalf("[FATAL] Main: Invalid environment override: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
		zLogger.Info().Str("mode", gCfg.Mode).Msg("Mode overridden by command line flag")
	}
	if flags.SeedFile != "" {
		gCfg.StorageConfig.SeedFile = flags.SeedFile
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, gCfg, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()

	if flags.Seed {
		n, err := datastore.SeedServices(ctx, a.db.Repos(), gCfg.StorageConfig.SeedFile)
		if err != nil {
			zLogger.Error().Err(err).Msg("Failed to seed service catalogue")
			return
		}
		zLogger.Info().Int("services", n).Msg("Service catalogue seeded")
	}

	switch {
	case flags.Probe:
		runProbe(ctx, a)
	case gCfg.Mode == config.ModeAutomated:
		runAutomated(ctx, a)
	default:
		runOnetime(ctx, a)
	}
}

func runOnetime(ctx context.Context, a *app) {
	rslimiter.LogUsage(ctx, a.logger)
	count := a.scheduler.TriggerNow(ctx)
	fmt.Printf("Scan complete: %d change(s) detected\n", count)
}

func runAutomated(ctx context.Context, a *app) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	manual := make(chan os.Signal, 1)
	signal.Notify(manual, syscall.SIGUSR1)
	defer signal.Stop(manual)

	var scans sync.WaitGroup
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case <-manual:
				a.logger.Info().Msg("SIGUSR1 received, triggering manual scan")
				scans.Add(1)
				go func() {
					defer scans.Done()
					count := a.scheduler.TriggerNow(ctx)
					a.logger.Info().Int("changes", count).Msg("Manual scan finished")
				}()
			}
		}
	}()

	if err := a.scheduler.Start(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Scheduler exited with error")
	}
	cancel()
	<-listenerDone
	scans.Wait()
	a.logger.Info().Msg("ToS monitor stopped")
}

func runProbe(ctx context.Context, a *app) {
	services, err := a.db.Repos().Services.ListActive(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to list services")
		return
	}
	reports := probing.NewService(a.fetcher, a.logger).Probe(ctx, services)
	if err := probing.WriteTable(os.Stdout, reports); err != nil {
		a.logger.Error().Err(err).Msg("Failed to print probe results")
	}
}
