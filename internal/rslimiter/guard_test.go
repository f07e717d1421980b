package rslimiter

import (
	"context"
	"errors"
	"testing"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedProbe(v float64, err error) func(context.Context) (float64, error) {
	return func(context.Context) (float64, error) { return v, err }
}

func newTestGuard(mem, cpu float64) *Guard {
	g := NewGuard(config.NewDefaultResourceLimiterConfig(), zerolog.Nop())
	g.memUsed = fixedProbe(mem, nil)
	g.cpuUsed = fixedProbe(cpu, nil)
	return g
}

func TestGuard_AllowsWithinThresholds(t *testing.T) {
	g := newTestGuard(0.5, 0.5)
	assert.NoError(t, g.Check(context.Background()))
}

func TestGuard_RefusesOnMemory(t *testing.T) {
	g := newTestGuard(0.95, 0.1)
	err := g.Check(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourcesExhausted)
	assert.Contains(t, err.Error(), "memory")
}

func TestGuard_RefusesOnCPU(t *testing.T) {
	g := newTestGuard(0.1, 0.99)
	err := g.Check(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourcesExhausted)
	assert.Contains(t, err.Error(), "cpu")
}

func TestGuard_ProbeFailureDoesNotBlock(t *testing.T) {
	g := newTestGuard(0, 0)
	g.memUsed = fixedProbe(0, errors.New("no /proc"))
	g.cpuUsed = fixedProbe(0, errors.New("no /proc"))
	assert.NoError(t, g.Check(context.Background()))
}

func TestGuard_DisabledOrNil(t *testing.T) {
	g := newTestGuard(1, 1)
	g.config.Enabled = false
	assert.NoError(t, g.Check(context.Background()))

	var nilGuard *Guard
	assert.NoError(t, nilGuard.Check(context.Background()))
}

func TestGetResourceUsage(t *testing.T) {
	usage := GetResourceUsage(context.Background())
	assert.Positive(t, usage.Goroutines)
}
