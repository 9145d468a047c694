// Package openai provides a summarisation provider backed by the
// OpenAI chat completions API, or any server speaking the same
// protocol via a custom base URL.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/retry"
)

// Ensure Provider implements the interfaces.
var (
	_ driven.Provider        = (*Provider)(nil)
	_ driven.ErrorClassifier = (*Provider)(nil)
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds configuration for the OpenAI provider.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// BaseURL overrides the API endpoint, for OpenAI-compatible
	// servers. Empty uses the official endpoint.
	BaseURL string
}

// Provider calls the OpenAI chat completions API through the SDK.
type Provider struct {
	client *openai.Client
	model  string
}

// New creates a new OpenAI provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Complete produces a text completion for a prompt.
func (p *Provider) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	if opts.System != "" {
		messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: opts.System},
		}, messages...)
	}

	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		temperature := float32(opts.Temperature)
		req.Temperature = &temperature
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Transient classifies SDK errors by HTTP status; transport errors
// with no status are retryable.
func (p *Provider) Transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retry.HTTPStatusRetryable(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retry.HTTPStatusRetryable(reqErr.HTTPStatusCode)
	}
	return true
}

// ModelName returns the name of the model being used.
func (p *Provider) ModelName() string {
	return p.model
}

// Ping validates the API key by listing models.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
