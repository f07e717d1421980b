package httpclient

import (
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout               time.Duration     // Request timeout
	InsecureSkipVerify    bool              // Skip TLS verification
	FollowRedirects       bool              // Whether to follow redirects
	MaxRedirects          int               // Maximum number of redirects to follow
	Proxy                 string            // Proxy URL
	CustomHeaders         map[string]string // Headers added to every request
	UserAgent             string            // User-Agent header
	MaxContentSize        int64             // Response bodies are truncated beyond this many bytes (0 for no limit)
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration
	EnableHTTP2           bool
}

// DefaultHTTPClientConfig returns the default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               30 * time.Second,
		FollowRedirects:       true,
		MaxRedirects:          10,
		UserAgent:             config.DefaultFetcherUserAgent,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		EnableHTTP2:           true,
		CustomHeaders:         map[string]string{},
	}
}

// ConfigFromFetcher derives a client configuration from the fetcher section.
func ConfigFromFetcher(fc config.FetcherConfig) HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = fc.Timeout()
	cfg.UserAgent = fc.UserAgent
	cfg.MaxRedirects = fc.MaxRedirects
	cfg.InsecureSkipVerify = fc.InsecureSkipVerify
	cfg.EnableHTTP2 = fc.EnableHTTP2
	cfg.Proxy = fc.Proxy
	cfg.MaxContentSize = int64(fc.MaxContentSizeMB) * 1024 * 1024
	return cfg
}
