package config

const (
	// Mode values
	ModeOnetime   = "onetime"
	ModeAutomated = "automated"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Fetcher Defaults
	DefaultFetcherUserAgent            = "ToSMonitor/1.0 (+https://tosmonitor.com)"
	DefaultFetcherTimeoutSecs          = 30
	DefaultFetcherMaxAttempts          = 3
	DefaultFetcherRateLimitBackoffSecs = 10
	DefaultFetcherNetworkBackoffSecs   = 5
	DefaultFetcherMaxConcurrentFetches = 5
	DefaultFetcherBatchPacingMillis    = 1000
	DefaultFetcherMaxRedirects         = 10
	DefaultFetcherMaxContentSizeMB     = 10

	// Headless Defaults
	DefaultHeadlessMinWordsBeforeRender = 50
	DefaultHeadlessPageLoadTimeoutSecs  = 30
	DefaultHeadlessWaitAfterLoadMillis  = 500
	DefaultHeadlessPoolSize             = 1

	// Diff Defaults
	DefaultDiffTrivialityThreshold = 0.995
	DefaultDiffMaxRenderedLines    = 500
	DefaultDiffContextLines        = 3

	// Classifier Defaults
	DefaultClassifierProvider    = "groq"
	DefaultClassifierTimeoutSecs = 30
	DefaultClassifierMaxTokens   = 500
	DefaultClassifierTemperature = 0.3
	DefaultOpenAIModel           = "gpt-4o-mini"
	DefaultAnthropicModel        = "claude-haiku-4-20250514"
	DefaultGroqModel             = "llama-3.1-70b-versatile"
	DefaultOpenAIBaseURL         = "https://api.openai.com/v1"
	DefaultAnthropicBaseURL      = "https://api.anthropic.com/v1"
	DefaultGroqBaseURL           = "https://api.groq.com/openai/v1"

	// Scheduler Defaults
	DefaultSchedulerCycleMinutes      = 360 // 6 hours
	DefaultSchedulerServicePacingMs   = 2000
	DefaultSchedulerRetryDelayMinutes = 5

	// Storage Defaults
	DefaultStorageSQLiteDBPath     = "data/tosmonitor.db"
	DefaultStorageCompressionCodec = "zstd"

	// Notification Defaults
	DefaultNotificationAppURL             = "http://localhost:3000"
	DefaultNotificationEmailFrom          = "alerts@tosmonitor.com"
	DefaultNotificationSMTPPort           = 587
	DefaultNotificationWebhookTimeoutSecs = 10

	// Feed Defaults
	DefaultFeedFileName   = "product_changes.json"
	DefaultFeedMaxEntries = 200

	// Resource Limiter Defaults
	DefaultResourceSystemMemThreshold = 0.9
	DefaultResourceCPUThreshold       = 0.95
)
