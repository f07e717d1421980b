package config

import (
	"os"
	"strconv"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path (".env" when empty) into the
// process environment. Variables already set are left untouched and a missing
// file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return common.WrapErrorf(err, "failed to load env file %s", path)
	}
	return nil
}

// ApplyEnvOverrides copies deployment settings from the environment onto cfg.
// Secrets such as API keys and SMTP credentials are expected to arrive this way.
func ApplyEnvOverrides(cfg *GlobalConfig) error {
	return applyEnvOverrides(cfg, os.LookupEnv)
}

func applyEnvOverrides(cfg *GlobalConfig, lookup func(string) (string, bool)) error {
	stringVars := map[string]*string{
		"APP_URL":              &cfg.NotificationConfig.AppURL,
		"EMAIL_FROM":           &cfg.NotificationConfig.EmailFrom,
		"SMTP_HOST":            &cfg.NotificationConfig.SMTPHost,
		"SMTP_USERNAME":        &cfg.NotificationConfig.SMTPUsername,
		"SMTP_PASSWORD":        &cfg.NotificationConfig.SMTPPassword,
		"LLM_PROVIDER":         &cfg.ClassifierConfig.Provider,
		"OPENAI_API_KEY":       &cfg.ClassifierConfig.OpenAIAPIKey,
		"OPENAI_MODEL":         &cfg.ClassifierConfig.OpenAIModel,
		"ANTHROPIC_API_KEY":    &cfg.ClassifierConfig.AnthropicAPIKey,
		"ANTHROPIC_MODEL":      &cfg.ClassifierConfig.AnthropicModel,
		"GROQ_API_KEY":         &cfg.ClassifierConfig.GroqAPIKey,
		"GROQ_MODEL":           &cfg.ClassifierConfig.GroqModel,
		"SCRAPE_USER_AGENT":    &cfg.FetcherConfig.UserAgent,
		"SALES_AGENT_DATA_DIR": &cfg.FeedConfig.DataDir,
		"DATABASE_PATH":        &cfg.StorageConfig.SQLiteDBPath,
		"ARCHIVE_DIR":          &cfg.StorageConfig.ArchiveDir,
	}
	intVars := map[string]*int{
		"SMTP_PORT":               &cfg.NotificationConfig.SMTPPort,
		"WEBHOOK_TIMEOUT_SECONDS": &cfg.NotificationConfig.WebhookTimeoutSecs,
		"SCRAPE_TIMEOUT_SECONDS":  &cfg.FetcherConfig.TimeoutSecs,
		"MAX_CONCURRENT_SCRAPES":  &cfg.FetcherConfig.MaxConcurrentFetches,
	}
	boolVars := map[string]*bool{
		"SALES_AGENT_ENABLED": &cfg.FeedConfig.Enabled,
		"EMAIL_ENABLED":       &cfg.NotificationConfig.EmailEnabled,
	}

	for key, target := range stringVars {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}

	var collector common.ErrorCollector
	for key, target := range intVars {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			collector.Add(common.NewValidationError(key, value, "must be an integer"))
			continue
		}
		*target = parsed
	}
	for key, target := range boolVars {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			collector.Add(common.NewValidationError(key, value, "must be a boolean"))
			continue
		}
		*target = parsed
	}

	// Scrape interval is expressed in hours by the deployment environment.
	if value, ok := lookup("SCRAPE_INTERVAL_HOURS"); ok && value != "" {
		hours, err := strconv.Atoi(value)
		if err != nil {
			collector.Add(common.NewValidationError("SCRAPE_INTERVAL_HOURS", value, "must be an integer"))
		} else {
			cfg.SchedulerConfig.CycleMinutes = hours * 60
		}
	}

	return collector.Error()
}
