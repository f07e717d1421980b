package rslimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ErrResourcesExhausted is returned by Check when a threshold is exceeded.
var ErrResourcesExhausted = errors.New("system resources exhausted")

const cpuSampleWindow = 500 * time.Millisecond

// Guard decides whether the host has headroom for a scheduled scan.
type Guard struct {
	config  config.ResourceLimiterConfig
	logger  zerolog.Logger
	memUsed func(ctx context.Context) (float64, error)
	cpuUsed func(ctx context.Context) (float64, error)
}

// NewGuard creates a guard reading live system stats through gopsutil.
func NewGuard(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *Guard {
	return &Guard{
		config:  cfg,
		logger:  logger.With().Str("component", "ResourceGuard").Logger(),
		memUsed: systemMemoryUsed,
		cpuUsed: cpuUsed,
	}
}

// Check returns ErrResourcesExhausted when system memory or CPU use is above
// the configured fraction. Probe failures are logged and do not block.
func (g *Guard) Check(ctx context.Context) error {
	if g == nil || !g.config.Enabled {
		return nil
	}

	if used, err := g.memUsed(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("Failed to read system memory usage")
	} else if used > g.config.SystemMemThreshold {
		g.logger.Warn().
			Float64("used_percent", used*100).
			Float64("threshold_percent", g.config.SystemMemThreshold*100).
			Msg("System memory usage exceeded threshold")
		return fmt.Errorf("%w: memory at %.1f%%", ErrResourcesExhausted, used*100)
	}

	if used, err := g.cpuUsed(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("Failed to read CPU usage")
	} else if used > g.config.CPUThreshold {
		g.logger.Warn().
			Float64("cpu_usage_percent", used*100).
			Float64("threshold_percent", g.config.CPUThreshold*100).
			Msg("CPU usage exceeded threshold")
		return fmt.Errorf("%w: cpu at %.1f%%", ErrResourcesExhausted, used*100)
	}

	return nil
}

func systemMemoryUsed(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get system memory stats: %w", err)
	}
	return vm.UsedPercent / 100.0, nil
}

func cpuUsed(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return 0, fmt.Errorf("failed to get CPU usage: %w", err)
	}
	if len(percents) == 0 {
		return 0, errors.New("no CPU usage data available")
	}
	return percents[0] / 100.0, nil
}
