package logger

import (
	"github.com/aleister1102/tosmonitor/internal/config"
)

// ConvertConfig converts the application log section into a LoggerConfig.
// An unknown level is reported but still yields a usable info-level config.
func ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)

	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     positiveOr(cfg.MaxLogSizeMB, defaultMaxSizeMB),
		MaxBackups:    positiveOr(cfg.MaxLogBackups, defaultMaxBackups),
	}, err
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
