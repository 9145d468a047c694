// Package ai provides factory functions for creating summarisation
// providers from settings.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	anthropicllm "github.com/custodia-labs/briefly-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/briefly-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/briefly-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for provider connectivity
// validation.
const pingTimeout = 5 * time.Second

// API key environment variables. Keys never live in the config file.
const (
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
)

// CreateAndValidateProvider creates a provider and validates
// connectivity before any batch worker starts. The returned provider
// is rate-limited according to the settings.
func CreateAndValidateProvider(ctx context.Context, settings domain.Settings) (driven.Provider, error) {
	provider, err := CreateProvider(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'briefly settings' to fix", domain.ErrProviderUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := provider.Ping(pingCtx); err != nil {
		provider.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'briefly settings' to fix",
			domain.ErrProviderUnavailable, err)
	}

	if settings.RequestsPerSecond > 0 {
		provider = NewRateLimitedProvider(provider, RateLimitConfig{
			RequestsPerSecond: settings.RequestsPerSecond,
			BurstSize:         settings.Burst,
		})
	}
	return provider, nil
}

// CreateProvider creates the appropriate provider based on settings.
func CreateProvider(settings domain.Settings) (driven.Provider, error) {
	switch settings.Provider {
	case domain.ProviderOllama:
		return createOllama(settings), nil

	case domain.ProviderOpenAI:
		return createOpenAI(settings)

	case domain.ProviderAnthropic:
		return createAnthropic(settings)

	default:
		return nil, fmt.Errorf("unsupported provider: %s", settings.Provider)
	}
}

// createOllama creates an Ollama provider.
func createOllama(settings domain.Settings) driven.Provider {
	return ollamallm.New(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: time.Duration(settings.CallTimeoutSeconds) * time.Second,
	})
}

// createOpenAI creates an OpenAI provider. The API key comes from the
// environment, never from the config file.
func createOpenAI(settings domain.Settings) (driven.Provider, error) {
	apiKey := os.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", EnvOpenAIAPIKey)
	}
	return openaillm.New(openaillm.Config{
		APIKey:  apiKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropic creates an Anthropic provider.
func createAnthropic(settings domain.Settings) (driven.Provider, error) {
	apiKey := os.Getenv(EnvAnthropicAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", EnvAnthropicAPIKey)
	}
	return anthropicllm.New(anthropicllm.Config{
		APIKey: apiKey,
		Model:  settings.Model,
	})
}
