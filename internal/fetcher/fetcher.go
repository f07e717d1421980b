package fetcher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/httpclient"
	"github.com/rs/zerolog"
)

var documentHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// PageRenderer renders a URL in a browser and returns the resulting HTML.
type PageRenderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher downloads policy pages and turns them into fingerprinted text.
type Fetcher struct {
	client         *httpclient.HTTPClient
	retry          *httpclient.RetryHandler
	renderer       PageRenderer
	minRenderWords int
	maxConcurrent  int
	batchPacing    time.Duration
	logger         zerolog.Logger
}

// RetryPolicyFromConfig converts the fetcher section into a retry policy.
func RetryPolicyFromConfig(cfg config.FetcherConfig) httpclient.RetryPolicy {
	return httpclient.RetryPolicy{
		MaxAttempts:      cfg.MaxAttempts,
		RateLimitBackoff: time.Duration(cfg.RateLimitBackoffSecs) * time.Second,
		NetworkBackoff:   time.Duration(cfg.NetworkBackoffSecs) * time.Second,
	}
}

// NewFetcher creates a fetcher using client for transport.
func NewFetcher(client *httpclient.HTTPClient, cfg config.FetcherConfig, logger zerolog.Logger) *Fetcher {
	log := logger.With().Str("component", "Fetcher").Logger()
	maxConcurrent := cfg.MaxConcurrentFetches
	if maxConcurrent < 1 {
		maxConcurrent = config.DefaultFetcherMaxConcurrentFetches
	}
	return &Fetcher{
		client:        client,
		retry:         httpclient.NewRetryHandler(RetryPolicyFromConfig(cfg), log),
		maxConcurrent: maxConcurrent,
		batchPacing:   time.Duration(cfg.BatchPacingMillis) * time.Millisecond,
		logger:        log,
	}
}

// WithRetryPolicy replaces the retry policy.
func (f *Fetcher) WithRetryPolicy(policy httpclient.RetryPolicy) *Fetcher {
	f.retry = httpclient.NewRetryHandler(policy, f.logger)
	return f
}

// WithRenderer enables headless re-rendering of pages whose extracted text
// has fewer than minWords words.
func (f *Fetcher) WithRenderer(r PageRenderer, minWords int) *Fetcher {
	f.renderer = r
	f.minRenderWords = minWords
	return f
}

// WithBatchLimits sets the permit pool size and post-fetch pause of FetchMultiple.
func (f *Fetcher) WithBatchLimits(maxConcurrent int, pacing time.Duration) *Fetcher {
	if maxConcurrent > 0 {
		f.maxConcurrent = maxConcurrent
	}
	f.batchPacing = pacing
	return f
}

// Fetch retrieves url and extracts its text. It never returns an error;
// failures are described by the Result.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	resp, err := f.client.DoWithRetry(ctx, f.retry, &httpclient.HTTPRequest{
		URL:     url,
		Method:  http.MethodGet,
		Headers: documentHeaders,
	})
	if err != nil {
		kind := classifyError(err)
		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		f.logger.Error().Err(err).Str("url", url).Str("kind", string(kind)).Msg("Fetch failed")
		return newErrorResult(url, kind, statusCode, err)
	}

	if !resp.IsSuccess() {
		httpErr := common.NewHTTPErrorWithURL(resp.StatusCode, http.StatusText(resp.StatusCode), url)
		f.logger.Error().Int("status_code", resp.StatusCode).Str("url", url).Msg("Non-success HTTP status")
		return newErrorResult(url, ErrorKindHTTPStatus, resp.StatusCode, httpErr)
	}

	text, err := ExtractText(resp.Body)
	if err != nil {
		f.logger.Error().Err(err).Str("url", url).Msg("Failed to extract text")
		return newErrorResult(url, ErrorKindUnexpected, resp.StatusCode, common.WrapError(err, "failed to extract text"))
	}

	result := newOKResult(url, text, resp.StatusCode)
	if f.renderer != nil && result.WordCount < f.minRenderWords {
		if rendered, ok := f.render(ctx, url, resp.StatusCode); ok {
			return rendered
		}
	}
	return result
}

func (f *Fetcher) render(ctx context.Context, url string, statusCode int) (Result, bool) {
	page, err := f.renderer.Render(ctx, url)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("Headless render failed, keeping HTTP content")
		return Result{}, false
	}
	text, err := ExtractText([]byte(page))
	if err != nil || text == "" {
		return Result{}, false
	}

	result := newOKResult(url, text, statusCode)
	result.Rendered = true
	f.logger.Debug().Str("url", url).Int("word_count", result.WordCount).Msg("Using rendered content")
	return result, true
}

func classifyError(err error) ErrorKind {
	var exhausted *httpclient.RetriesExhaustedError
	if errors.As(err, &exhausted) {
		return ErrorKindRetriesExhausted
	}

	var netErr *common.NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout {
			return ErrorKindTimeout
		}
		return ErrorKindConnection
	}
	return ErrorKindUnexpected
}
