package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/rs/zerolog"
)

// RetryPolicy describes linear backoff per failure class: before attempt
// n+1 the handler waits (n+1) times the class delay.
type RetryPolicy struct {
	MaxAttempts      int
	RateLimitBackoff time.Duration
	NetworkBackoff   time.Duration
}

// RetriesExhaustedError reports that every attempt was rate limited.
type RetriesExhaustedError struct {
	URL        string
	Attempts   int
	LastStatus int
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted for %s after %d attempts (last status %d)", e.URL, e.Attempts, e.LastStatus)
}

// RetryHandler retries 429 responses and network failures.
type RetryHandler struct {
	policy RetryPolicy
	logger zerolog.Logger
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(policy RetryPolicy, logger zerolog.Logger) *RetryHandler {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryHandler{
		policy: policy,
		logger: logger.With().Str("component", "RetryHandler").Logger(),
	}
}

// Delay returns the wait before the attempt following attempt (zero based).
func (rh *RetryHandler) Delay(base time.Duration, attempt int) time.Duration {
	return time.Duration(attempt+1) * base
}

func (rh *RetryHandler) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DoWithRetry runs doFunc until it yields a non-429 response, a
// non-network error, or the attempts run out. A final 429 yields the last
// response together with *RetriesExhaustedError; a final network failure
// yields that failure. No wait follows the last attempt.
func (rh *RetryHandler) DoWithRetry(ctx context.Context, doFunc func(*HTTPRequest) (*HTTPResponse, error), req *HTTPRequest) (*HTTPResponse, error) {
	req.Context = ctx
	last := rh.policy.MaxAttempts - 1

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := doFunc(req)
		if err != nil {
			var netErr *common.NetworkError
			if !errors.As(err, &netErr) || attempt == last {
				return nil, err
			}
			delay := rh.Delay(rh.policy.NetworkBackoff, attempt)
			rh.logger.Warn().
				Str("url", req.URL).
				Int("attempt", attempt+1).
				Bool("timeout", netErr.Timeout).
				Dur("delay", delay).
				Msg("Network failure, waiting before retry")
			if err := rh.wait(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt == last {
			return resp, &RetriesExhaustedError{URL: req.URL, Attempts: attempt + 1, LastStatus: resp.StatusCode}
		}

		delay := rh.Delay(rh.policy.RateLimitBackoff, attempt)
		rh.logger.Warn().
			Str("url", req.URL).
			Int("attempt", attempt+1).
			Int("max_attempts", rh.policy.MaxAttempts).
			Dur("delay", delay).
			Msg("Rate limited, waiting before retry")
		if err := rh.wait(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// DoWithRetry is a convenience wrapper binding the handler to the client.
func (c *HTTPClient) DoWithRetry(ctx context.Context, rh *RetryHandler, req *HTTPRequest) (*HTTPResponse, error) {
	return rh.DoWithRetry(ctx, c.Do, req)
}
