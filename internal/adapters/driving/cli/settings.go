package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the model provider, chunking defaults and output
options. Settings live in ~/.briefly/config.toml; API keys are read
from the environment (ANTHROPIC_API_KEY, OPENAI_API_KEY) and are never
stored.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Available keys:
  provider              Model provider (ollama, openai, anthropic)
  model                 Model name
  base_url              Provider endpoint override
  chunk_strategy        Chunking strategy (sentence, paragraph, fixed, token)
  chunk_size            Maximum chunk size
  chunk_overlap         Chunk overlap
  concurrency           Concurrent documents
  fan_out               Concurrent provider calls per document
  reduce_target_size    Reduce target size in estimated tokens
  call_timeout_seconds  Per-call timeout in seconds
  requests_per_second   Provider call rate limit (0 disables)
  burst                 Rate limiter burst size
  output_dir            Output directory
  output_format         Output format (text, markdown, json)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Provider]")
	cmd.Printf("  Provider: %s\n", settings.Provider)
	if settings.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Model)
	} else {
		cmd.Printf("  Model: (provider default)\n")
	}
	if settings.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.BaseURL)
	}
	if settings.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f requests/s (burst %d)\n",
			settings.RequestsPerSecond, settings.Burst)
	} else {
		cmd.Printf("  Rate limit: disabled\n")
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Strategy: %s\n", settings.Strategy)
	cmd.Printf("  Chunk size: %d\n", settings.ChunkSize)
	cmd.Printf("  Overlap: %d\n", settings.Overlap)
	cmd.Printf("  Reduce target: %d\n", settings.ReduceTargetSize)
	cmd.Println()

	cmd.Println("[Batch]")
	cmd.Printf("  Concurrency: %d\n", settings.Concurrency)
	cmd.Printf("  Fan-out: %d\n", settings.FanOut)
	cmd.Printf("  Call timeout: %ds\n", settings.CallTimeoutSeconds)
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Format: %s\n", settings.OutputFormat)
	if settings.OutputDir != "" {
		cmd.Printf("  Directory: %s\n", settings.OutputDir)
	} else {
		cmd.Printf("  Directory: %s (default)\n", defaultOutputDir)
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := applySetting(&settings, key, value); err != nil {
		return err
	}

	if err := settingsService.Update(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s to %s.\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

// applySetting maps a key and its string value onto the typed
// settings. Validation happens in the settings service on Update.
func applySetting(s *domain.Settings, key, value string) error {
	switch key {
	case "provider":
		s.Provider = domain.AIProvider(value)
	case "model":
		s.Model = value
	case "base_url":
		s.BaseURL = value
	case "chunk_strategy":
		s.Strategy = domain.ChunkStrategy(value)
	case "chunk_size":
		return setInt(&s.ChunkSize, key, value)
	case "chunk_overlap":
		return setInt(&s.Overlap, key, value)
	case "concurrency":
		return setInt(&s.Concurrency, key, value)
	case "fan_out":
		return setInt(&s.FanOut, key, value)
	case "reduce_target_size":
		return setInt(&s.ReduceTargetSize, key, value)
	case "call_timeout_seconds":
		return setInt(&s.CallTimeoutSeconds, key, value)
	case "requests_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		s.RequestsPerSecond = f
	case "burst":
		return setInt(&s.Burst, key, value)
	case "output_dir":
		s.OutputDir = value
	case "output_format":
		s.OutputFormat = domain.OutputFormat(value)
	default:
		return fmt.Errorf("unknown setting: %s (see 'briefly settings set --help')", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", key, value)
	}
	*dst = v
	return nil
}
