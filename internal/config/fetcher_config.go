package config

import "time"

// FetcherConfig defines configuration for fetching policy pages
type FetcherConfig struct {
	UserAgent            string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"required"`
	TimeoutSecs          int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1"`
	MaxAttempts          int    `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" validate:"min=1"`
	RateLimitBackoffSecs int    `json:"rate_limit_backoff_secs,omitempty" yaml:"rate_limit_backoff_secs,omitempty" validate:"min=0"`
	NetworkBackoffSecs   int    `json:"network_backoff_secs,omitempty" yaml:"network_backoff_secs,omitempty" validate:"min=0"`
	MaxConcurrentFetches int    `json:"max_concurrent_fetches,omitempty" yaml:"max_concurrent_fetches,omitempty" validate:"min=1"`
	BatchPacingMillis    int    `json:"batch_pacing_millis,omitempty" yaml:"batch_pacing_millis,omitempty" validate:"min=0"`
	MaxRedirects         int    `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"min=0"`
	MaxContentSizeMB     int    `json:"max_content_size_mb,omitempty" yaml:"max_content_size_mb,omitempty" validate:"min=0"`
	EnableHTTP2          bool   `json:"enable_http2" yaml:"enable_http2"`
	InsecureSkipVerify   bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
	Proxy                string `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`

	Headless HeadlessConfig `json:"headless,omitempty" yaml:"headless,omitempty"`
}

// NewDefaultFetcherConfig creates default fetcher configuration
func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		UserAgent:            DefaultFetcherUserAgent,
		TimeoutSecs:          DefaultFetcherTimeoutSecs,
		MaxAttempts:          DefaultFetcherMaxAttempts,
		RateLimitBackoffSecs: DefaultFetcherRateLimitBackoffSecs,
		NetworkBackoffSecs:   DefaultFetcherNetworkBackoffSecs,
		MaxConcurrentFetches: DefaultFetcherMaxConcurrentFetches,
		BatchPacingMillis:    DefaultFetcherBatchPacingMillis,
		MaxRedirects:         DefaultFetcherMaxRedirects,
		MaxContentSizeMB:     DefaultFetcherMaxContentSizeMB,
		EnableHTTP2:          true,
		Headless:             NewDefaultHeadlessConfig(),
	}
}

// Timeout returns the per-request timeout.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// HeadlessConfig controls re-rendering of script-only pages in a headless browser.
type HeadlessConfig struct {
	Enabled              bool   `json:"enabled" yaml:"enabled"`
	ChromePath           string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	PoolSize             int    `json:"pool_size,omitempty" yaml:"pool_size,omitempty" validate:"min=1"`
	MinWordsBeforeRender int    `json:"min_words_before_render,omitempty" yaml:"min_words_before_render,omitempty" validate:"min=0"`
	PageLoadTimeoutSecs  int    `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"min=1"`
	WaitAfterLoadMillis  int    `json:"wait_after_load_millis,omitempty" yaml:"wait_after_load_millis,omitempty" validate:"min=0"`
}

// NewDefaultHeadlessConfig creates default headless configuration
func NewDefaultHeadlessConfig() HeadlessConfig {
	return HeadlessConfig{
		Enabled:              false,
		PoolSize:             DefaultHeadlessPoolSize,
		MinWordsBeforeRender: DefaultHeadlessMinWordsBeforeRender,
		PageLoadTimeoutSecs:  DefaultHeadlessPageLoadTimeoutSecs,
		WaitAfterLoadMillis:  DefaultHeadlessWaitAfterLoadMillis,
	}
}
