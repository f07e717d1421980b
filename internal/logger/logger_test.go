package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	_, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
}

func TestBuild_JSONToConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LogConfig{LogFormat: "json", LogLevel: "warn"}

	log, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	log.Info().Msg("suppressed")
	log.Warn().Str("service", "stripe").Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, `"service":"stripe"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestBuild_InvalidLevel(t *testing.T) {
	_, err := NewLoggerBuilder().WithConfig(config.LogConfig{LogLevel: "loud"}).Build()
	assert.Error(t, err)
}

func TestBuild_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "tosmonitor.log")
	cfg := config.LogConfig{LogFile: logFile, LogFormat: "json", LogLevel: "info"}

	log, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&bytes.Buffer{}).Build()
	require.NoError(t, err)

	log.Info().Msg("written to file")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatConsole, ParseFormat(""))
	assert.Equal(t, FormatConsole, ParseFormat("xml"))
}
