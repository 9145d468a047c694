// Package scripted provides a replay provider: completions are served
// from an explicit queue instead of a model. Used for dry runs and
// deterministic tests.
package scripted

import (
	"context"
	"sync"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ScriptedProvider = (*Provider)(nil)

// Provider serves queued responses in order. Safe for concurrent use;
// the summarisation engine fans chunk calls out across goroutines.
type Provider struct {
	mu        sync.Mutex
	responses []string
	next      int
}

// New creates a scripted provider with an initial response queue.
func New(responses ...string) *Provider {
	return &Provider{responses: responses}
}

// Complete returns the next queued response. The prompt and options
// are ignored; the context is still honoured so cancellation tests
// behave like a real provider.
func (p *Provider) Complete(ctx context.Context, _ string, _ driven.CompleteOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Next()
}

// Load replaces the queued responses and rewinds.
func (p *Provider) Load(responses []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append([]string(nil), responses...)
	p.next = 0
}

// Next returns the next queued response.
func (p *Provider) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.next >= len(p.responses) {
		return "", domain.ErrScriptExhausted
	}
	resp := p.responses[p.next]
	p.next++
	return resp, nil
}

// Reset rewinds the queue to its loaded state.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next = 0
}

// Remaining reports how many responses are left in the queue.
func (p *Provider) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.responses) - p.next
}

// ModelName identifies the provider in logs and history.
func (p *Provider) ModelName() string {
	return "scripted"
}

// Ping always succeeds; there is nothing to reach.
func (p *Provider) Ping(context.Context) error {
	return nil
}

// Close releases nothing.
func (p *Provider) Close() error {
	return nil
}
