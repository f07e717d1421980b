package rslimiter

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceUsage is a point-in-time view of process and host usage.
type ResourceUsage struct {
	AllocMB              int64
	Goroutines           int
	SystemMemUsedMB      int64
	SystemMemTotalMB     int64
	SystemMemUsedPercent float64
	CPUUsagePercent      float64
}

// GetResourceUsage samples runtime and host statistics. Host probes that
// fail leave their fields zero.
func GetResourceUsage(ctx context.Context) ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		usage.SystemMemUsedMB = int64(vm.Used / 1024 / 1024)
		usage.SystemMemTotalMB = int64(vm.Total / 1024 / 1024)
		usage.SystemMemUsedPercent = vm.UsedPercent
	}

	if percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		usage.CPUUsagePercent = percents[0]
	}

	return usage
}

// LogUsage writes the current usage at debug level.
func LogUsage(ctx context.Context, logger zerolog.Logger) {
	usage := GetResourceUsage(ctx)
	logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int("goroutines", usage.Goroutines).
		Int64("system_mem_used_mb", usage.SystemMemUsedMB).
		Int64("system_mem_total_mb", usage.SystemMemTotalMB).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Current resource usage")
}
