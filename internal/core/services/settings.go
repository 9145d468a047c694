package services

import (
	"fmt"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Configuration keys in the backing store.
const (
	keyProvider          = "provider"
	keyModel             = "model"
	keyBaseURL           = "base_url"
	keyStrategy          = "chunk_strategy"
	keyChunkSize         = "chunk_size"
	keyOverlap           = "chunk_overlap"
	keyConcurrency       = "concurrency"
	keyFanOut            = "fan_out"
	keyReduceTarget      = "reduce_target_size"
	keyCallTimeout       = "call_timeout_seconds"
	keyRequestsPerSecond = "requests_per_second"
	keyBurst             = "burst"
	keyOutputDir         = "output_dir"
	keyOutputFormat      = "output_format"
)

// SettingsService maps the key-value config store to typed settings,
// applying defaults for absent keys. API keys never pass through
// here; they come from the environment.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a settings service.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the current settings with defaults applied.
func (s *SettingsService) Get() (domain.Settings, error) {
	out := domain.DefaultSettings()
	if s.store == nil {
		return out, nil
	}

	if v := s.store.GetString(keyProvider); v != "" {
		out.Provider = domain.AIProvider(v)
	}
	if v := s.store.GetString(keyModel); v != "" {
		out.Model = v
	}
	if v := s.store.GetString(keyBaseURL); v != "" {
		out.BaseURL = v
	}
	if v := s.store.GetString(keyStrategy); v != "" {
		out.Strategy = domain.ChunkStrategy(v)
	}
	if v := s.store.GetInt(keyChunkSize); v > 0 {
		out.ChunkSize = v
	}
	if _, ok := s.store.Get(keyOverlap); ok {
		out.Overlap = s.store.GetInt(keyOverlap)
	}
	if v := s.store.GetInt(keyConcurrency); v > 0 {
		out.Concurrency = v
	}
	if v := s.store.GetInt(keyFanOut); v > 0 {
		out.FanOut = v
	}
	if v := s.store.GetInt(keyReduceTarget); v > 0 {
		out.ReduceTargetSize = v
	}
	if v := s.store.GetInt(keyCallTimeout); v > 0 {
		out.CallTimeoutSeconds = v
	}
	if v := s.store.GetFloat(keyRequestsPerSecond); v > 0 {
		out.RequestsPerSecond = v
	}
	if v := s.store.GetInt(keyBurst); v > 0 {
		out.Burst = v
	}
	if v := s.store.GetString(keyOutputDir); v != "" {
		out.OutputDir = v
	}
	if v := s.store.GetString(keyOutputFormat); v != "" {
		out.OutputFormat = domain.OutputFormat(v)
	}

	if err := out.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("stored settings invalid: %w", err)
	}
	return out, nil
}

// Update validates and persists new settings.
func (s *SettingsService) Update(in domain.Settings) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if s.store == nil {
		return domain.ErrNotFound
	}

	pairs := map[string]any{
		keyProvider:          in.Provider.String(),
		keyModel:             in.Model,
		keyBaseURL:           in.BaseURL,
		keyStrategy:          in.Strategy.String(),
		keyChunkSize:         in.ChunkSize,
		keyOverlap:           in.Overlap,
		keyConcurrency:       in.Concurrency,
		keyFanOut:            in.FanOut,
		keyReduceTarget:      in.ReduceTargetSize,
		keyCallTimeout:       in.CallTimeoutSeconds,
		keyRequestsPerSecond: in.RequestsPerSecond,
		keyBurst:             in.Burst,
		keyOutputDir:         in.OutputDir,
		keyOutputFormat:      in.OutputFormat.String(),
	}
	for k, v := range pairs {
		if err := s.store.Set(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return s.store.Save()
}

// Reset restores default settings.
func (s *SettingsService) Reset() error {
	return s.Update(domain.DefaultSettings())
}
