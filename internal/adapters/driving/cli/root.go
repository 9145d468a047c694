// Package cli implements the briefly command-line interface.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/briefly-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/briefly-cli/internal/adapters/driven/parser"
	"github.com/custodia-labs/briefly-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/briefly-cli/internal/core/services"
	"github.com/custodia-labs/briefly-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services consumed by the commands. Execute wires the real
// implementations; tests swap them for mocks.
var (
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	historyStore    driven.HistoryStore
	parsers         driven.ParserRegistry
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "briefly",
	Short: "Summarise documents with local or cloud language models",
	Long: `briefly condenses text and Markdown documents into short summaries
using a local Ollama model or a cloud provider (OpenAI, Anthropic).

Documents are split into chunks, the chunks are summarised
concurrently, and the partial summaries are reduced into a final
summary with key points.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute wires the default dependencies and runs the root command.
func Execute() error {
	// Optional .env next to the working directory for provider API keys.
	_ = godotenv.Load()

	if err := initServices(); err != nil {
		return err
	}
	defer closeServices()

	return rootCmd.Execute()
}

func initServices() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService = services.NewSettingsService(cfg)
	parsers = parser.Default()

	// Run history is best effort: a broken database disables the
	// history command but never blocks summarisation.
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("run history unavailable: %v", err)
		return nil
	}
	historyStore = store
	historyService = services.NewHistoryService(store)
	return nil
}

func closeServices() {
	if historyStore != nil {
		_ = historyStore.Close() //nolint:errcheck // Best-effort shutdown
	}
}
