// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"
)

// Provider is the language model collaborator used by the
// summarisation engine. One call summarises one piece of text.
//
// Implementations may include:
//   - OpenAI (and OpenAI-compatible servers)
//   - Anthropic (Claude)
//   - Ollama (local models)
//   - Scripted replay (tests, dry runs)
//
// The provider set is closed and resolved once at batch start.
type Provider interface {
	// Complete performs a single blocking request/response call.
	// The context carries the per-call timeout; a timeout is treated
	// identically to a transient provider failure.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at batch start before any worker is launched.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a single completion call.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// System is an optional system prompt.
	System string
}

// ErrorClassifier reports whether a provider error is transient.
// Providers that can distinguish rate limits and server errors from
// permanent request errors implement this alongside Provider; errors
// from providers without it are treated as retryable.
type ErrorClassifier interface {
	// Transient reports whether the error is worth retrying.
	Transient(err error) bool
}

// ScriptedProvider is a Provider whose responses are an explicit,
// injectable queue. It replaces ambient simulation state with an
// object that is visible in signatures and resettable between tests.
type ScriptedProvider interface {
	Provider

	// Load replaces the queued responses.
	Load(responses []string)

	// Next returns the next queued response without a provider call.
	// Returns domain.ErrScriptExhausted when empty.
	Next() (string, error)

	// Reset rewinds the queue to its loaded state.
	Reset()
}
