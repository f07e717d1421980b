package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Aliases(t *testing.T) {
	flags, err := ParseFlags([]string{"-gc", "cfg.yaml", "-m", "automated", "-s"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "cfg.yaml", flags.GlobalConfigFile)
	assert.Equal(t, "automated", flags.Mode)
	assert.True(t, flags.Seed)
	assert.False(t, flags.Probe)
}

func TestParseFlags_LongFormWins(t *testing.T) {
	flags, err := ParseFlags([]string{"-globalconfig", "a.yaml", "-gc", "b.yaml", "-mode", "onetime", "-m", "automated"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", flags.GlobalConfigFile)
	assert.Equal(t, "onetime", flags.Mode)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := ParseFlags([]string{"-urlfile", "x"}, io.Discard)
	assert.Error(t, err)
}
