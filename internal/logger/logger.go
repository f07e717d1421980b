package logger

import (
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/rs/zerolog"
)

// New builds the process logger from the log section of the global config.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
