package config

import "time"

// DiffConfig defines configuration for the differ and the triviality gate
type DiffConfig struct {
	TrivialityThreshold float64 `json:"triviality_threshold,omitempty" yaml:"triviality_threshold,omitempty" validate:"gt=0,lte=1"`
	MaxRenderedLines    int     `json:"max_rendered_lines,omitempty" yaml:"max_rendered_lines,omitempty" validate:"min=1"`
	ContextLines        int     `json:"context_lines,omitempty" yaml:"context_lines,omitempty" validate:"min=0"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{
		TrivialityThreshold: DefaultDiffTrivialityThreshold,
		MaxRenderedLines:    DefaultDiffMaxRenderedLines,
		ContextLines:        DefaultDiffContextLines,
	}
}

// ClassifierConfig defines the LLM provider used to title and grade changes
type ClassifierConfig struct {
	Provider         string  `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,llmprovider"`
	TimeoutSecs      int     `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1"`
	MaxTokens        int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"min=1"`
	Temperature      float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"min=0,max=2"`
	OpenAIAPIKey     string  `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	OpenAIModel      string  `json:"openai_model,omitempty" yaml:"openai_model,omitempty"`
	OpenAIBaseURL    string  `json:"openai_base_url,omitempty" yaml:"openai_base_url,omitempty" validate:"omitempty,url"`
	AnthropicAPIKey  string  `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`
	AnthropicModel   string  `json:"anthropic_model,omitempty" yaml:"anthropic_model,omitempty"`
	AnthropicBaseURL string  `json:"anthropic_base_url,omitempty" yaml:"anthropic_base_url,omitempty" validate:"omitempty,url"`
	GroqAPIKey       string  `json:"groq_api_key,omitempty" yaml:"groq_api_key,omitempty"`
	GroqModel        string  `json:"groq_model,omitempty" yaml:"groq_model,omitempty"`
	GroqBaseURL      string  `json:"groq_base_url,omitempty" yaml:"groq_base_url,omitempty" validate:"omitempty,url"`
}

// NewDefaultClassifierConfig creates default classifier configuration
func NewDefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Provider:         DefaultClassifierProvider,
		TimeoutSecs:      DefaultClassifierTimeoutSecs,
		MaxTokens:        DefaultClassifierMaxTokens,
		Temperature:      DefaultClassifierTemperature,
		OpenAIModel:      DefaultOpenAIModel,
		OpenAIBaseURL:    DefaultOpenAIBaseURL,
		AnthropicModel:   DefaultAnthropicModel,
		AnthropicBaseURL: DefaultAnthropicBaseURL,
		GroqModel:        DefaultGroqModel,
		GroqBaseURL:      DefaultGroqBaseURL,
	}
}

// Timeout returns the classifier call deadline.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// SchedulerConfig defines configuration for the recurring scan
type SchedulerConfig struct {
	CycleMinutes      int  `json:"cycle_minutes,omitempty" yaml:"cycle_minutes,omitempty" validate:"min=1"`
	ServicePacingMs   int  `json:"service_pacing_ms,omitempty" yaml:"service_pacing_ms,omitempty" validate:"min=0"`
	RetryDelayMinutes int  `json:"retry_delay_minutes,omitempty" yaml:"retry_delay_minutes,omitempty" validate:"min=1"`
	RunOnStart        bool `json:"run_on_start" yaml:"run_on_start"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CycleMinutes:      DefaultSchedulerCycleMinutes,
		ServicePacingMs:   DefaultSchedulerServicePacingMs,
		RetryDelayMinutes: DefaultSchedulerRetryDelayMinutes,
		RunOnStart:        true,
	}
}

// Interval returns the time between scans.
func (c SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.CycleMinutes) * time.Minute
}

// ServicePacing returns the pause inserted between services.
func (c SchedulerConfig) ServicePacing() time.Duration {
	return time.Duration(c.ServicePacingMs) * time.Millisecond
}

// StorageConfig defines configuration for the database and the change archive
type StorageConfig struct {
	SQLiteDBPath     string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
	ArchiveDir       string `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,compression"`
	SeedFile         string `json:"seed_file,omitempty" yaml:"seed_file,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath:     DefaultStorageSQLiteDBPath,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}

// NotificationConfig defines configuration for the email and webhook channels
type NotificationConfig struct {
	AppURL             string `json:"app_url,omitempty" yaml:"app_url,omitempty" validate:"required,url"`
	EmailEnabled       bool   `json:"email_enabled" yaml:"email_enabled"`
	EmailFrom          string `json:"email_from,omitempty" yaml:"email_from,omitempty" validate:"omitempty,email"`
	SMTPHost           string `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty"`
	SMTPPort           int    `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"min=0,max=65535"`
	SMTPUsername       string `json:"smtp_username,omitempty" yaml:"smtp_username,omitempty"`
	SMTPPassword       string `json:"smtp_password,omitempty" yaml:"smtp_password,omitempty"`
	WebhookTimeoutSecs int    `json:"webhook_timeout_secs,omitempty" yaml:"webhook_timeout_secs,omitempty" validate:"min=1"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		AppURL:             DefaultNotificationAppURL,
		EmailEnabled:       true,
		EmailFrom:          DefaultNotificationEmailFrom,
		SMTPPort:           DefaultNotificationSMTPPort,
		WebhookTimeoutSecs: DefaultNotificationWebhookTimeoutSecs,
	}
}

// WebhookTimeout returns the webhook POST deadline.
func (c NotificationConfig) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSecs) * time.Second
}

// FeedConfig defines the downstream JSON change feed
type FeedConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	DataDir    string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	FileName   string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	MaxEntries int    `json:"max_entries,omitempty" yaml:"max_entries,omitempty" validate:"min=1"`
}

// NewDefaultFeedConfig creates default feed configuration
func NewDefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Enabled:    true,
		FileName:   DefaultFeedFileName,
		MaxEntries: DefaultFeedMaxEntries,
	}
}

// ResourceLimiterConfig defines the pre-scan resource guard
type ResourceLimiterConfig struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"gt=0,lte=1"`
	CPUThreshold       float64 `json:"cpu_threshold,omitempty" yaml:"cpu_threshold,omitempty" validate:"gt=0,lte=1"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		Enabled:            true,
		SystemMemThreshold: DefaultResourceSystemMemThreshold,
		CPUThreshold:       DefaultResourceCPUThreshold,
	}
}
