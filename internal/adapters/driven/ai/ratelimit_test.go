package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// fakeProvider counts calls.
type fakeProvider struct {
	calls     int
	transient bool
}

func (f *fakeProvider) Complete(context.Context, string, driven.CompleteOptions) (string, error) {
	f.calls++
	return "ok", nil
}

func (f *fakeProvider) ModelName() string { return "fake" }

func (f *fakeProvider) Ping(context.Context) error { return nil }

func (f *fakeProvider) Close() error { return nil }

func (f *fakeProvider) Transient(error) bool { return f.transient }

func TestRateLimitedProvider_Delegates(t *testing.T) {
	inner := &fakeProvider{transient: true}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})

	got, err := p.Complete(context.Background(), "prompt", driven.CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, inner.calls)

	assert.Equal(t, "fake", p.ModelName())
	assert.True(t, p.Transient(errors.New("any")))
	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close())
}

func TestRateLimitedProvider_ThrottlesBeyondBurst(t *testing.T) {
	inner := &fakeProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerSecond: 20, BurstSize: 1})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := p.Complete(context.Background(), "prompt", driven.CompleteOptions{})
		require.NoError(t, err)
	}

	// Burst of one: calls two and three each wait ~50ms for a token.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	assert.Equal(t, 3, inner.calls)
}

func TestRateLimitedProvider_WaitHonoursContext(t *testing.T) {
	inner := &fakeProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	// Drain the single burst token.
	_, err := p.Complete(context.Background(), "prompt", driven.CompleteOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = p.Complete(ctx, "prompt", driven.CompleteOptions{})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls, "the provider must not be called without a token")
}

func TestRateLimitedProvider_MinimumBurst(t *testing.T) {
	p := NewRateLimitedProvider(&fakeProvider{}, RateLimitConfig{RequestsPerSecond: 5})
	_, err := p.Complete(context.Background(), "prompt", driven.CompleteOptions{})
	assert.NoError(t, err)
}
