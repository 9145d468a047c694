// Package retry provides bounded exponential backoff with jitter for
// transient failures.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxRetries is the number of attempts after the first failure.
	MaxRetries int

	// BaseDelay is the delay before the first retry; subsequent
	// delays double, plus jitter.
	BaseDelay time.Duration
}

// DefaultConfig returns a conservative retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
	}
}

// WithBackoff executes operation with exponential backoff.
// retryable decides whether a given failure is worth another attempt;
// a nil retryable retries everything. The context cancels waiting
// between attempts, never an attempt itself.
func WithBackoff(ctx context.Context, cfg Config, retryable func(error) bool, operation func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
		}

		delay := cfg.BaseDelay * time.Duration(1<<attempt)
		if cfg.BaseDelay > 0 {
			delay += time.Duration(rand.Int63n(int64(cfg.BaseDelay)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// HTTPStatusRetryable reports whether an HTTP status code is worth
// retrying: server errors and rate limiting only.
func HTTPStatusRetryable(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}
