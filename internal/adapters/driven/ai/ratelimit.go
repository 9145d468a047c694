package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure RateLimitedProvider implements the interfaces.
var (
	_ driven.Provider        = (*RateLimitedProvider)(nil)
	_ driven.ErrorClassifier = (*RateLimitedProvider)(nil)
)

// RateLimitConfig holds token bucket parameters for provider calls.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size.
	BurstSize int
}

// RateLimitedProvider wraps a provider with a token bucket so that
// concurrent batch workers collectively stay under the provider's
// rate limits. Waiting honours the call context, so cancellation is
// never delayed by the bucket.
type RateLimitedProvider struct {
	inner   driven.Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider wraps a provider with rate limiting.
func NewRateLimitedProvider(inner driven.Provider, cfg RateLimitConfig) *RateLimitedProvider {
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// Complete waits for a token, then delegates.
func (p *RateLimitedProvider) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.inner.Complete(ctx, prompt, opts)
}

// Transient delegates to the wrapped provider's classifier when it
// has one; otherwise errors are treated as retryable.
func (p *RateLimitedProvider) Transient(err error) bool {
	if c, ok := p.inner.(driven.ErrorClassifier); ok {
		return c.Transient(err)
	}
	return true
}

// ModelName delegates to the wrapped provider.
func (p *RateLimitedProvider) ModelName() string {
	return p.inner.ModelName()
}

// Ping delegates without consuming a token; connectivity checks are
// not inference calls.
func (p *RateLimitedProvider) Ping(ctx context.Context) error {
	return p.inner.Ping(ctx)
}

// Close delegates to the wrapped provider.
func (p *RateLimitedProvider) Close() error {
	return p.inner.Close()
}
