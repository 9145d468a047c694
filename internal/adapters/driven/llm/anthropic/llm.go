// Package anthropic provides a summarisation provider backed by the
// Anthropic API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interfaces.
var (
	_ driven.Provider        = (*Provider)(nil)
	_ driven.ErrorClassifier = (*Provider)(nil)
)

// Default configuration values.
const (
	DefaultModel = "claude-3-5-sonnet-latest"

	// defaultMaxTokens is used when the caller does not set a limit;
	// the API requires max_tokens on every request.
	defaultMaxTokens = 1024
)

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string
}

// Provider calls the Anthropic Messages API through the official SDK
// wire format.
type Provider struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &Provider{
		client: anthropic.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}, nil
}

// Complete produces a text completion for a prompt.
func (p *Provider) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	req := anthropic.MessagesRequest{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(prompt)},
			},
		},
		MaxTokens: maxTokens,
		System:    opts.System,
	}
	if opts.Temperature > 0 {
		temperature := float32(opts.Temperature)
		req.Temperature = &temperature
	}

	resp, err := p.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic: create messages: %w", err)
	}

	// Concatenate all text content blocks
	var result strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			result.WriteString(*block.Text)
		}
	}
	if result.Len() == 0 {
		return "", fmt.Errorf("anthropic: no response content returned")
	}

	return result.String(), nil
}

// Transient classifies SDK errors: rate limits, overload and server
// side failures are retryable, request and authentication errors are
// not. Transport errors with no API classification are retryable.
func (p *Provider) Transient(err error) bool {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRateLimitErr() || apiErr.IsOverloadedErr() || apiErr.IsApiErr()
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode >= 500 || reqErr.StatusCode == 429
	}
	return true
}

// ModelName returns the name of the model being used.
func (p *Provider) ModelName() string {
	return p.model
}

// Ping validates the API key with a minimal one-token request.
func (p *Provider) Ping(ctx context.Context) error {
	_, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent("ping")},
			},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
