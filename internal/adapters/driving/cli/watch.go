package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/logger"
)

// watchDebounce is how long a changed file must stay quiet before it
// is summarised. Editors and downloads write in bursts.
var watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and summarise new documents",
	Long: `Watches a directory and summarises every supported document created
or modified in it. Summaries are written to the configured output
directory. Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if parsers == nil {
		return errors.New("parser registry not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort shutdown

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for documents. Press Ctrl-C to stop.\n", dir)

	pending := make(map[string]struct{})
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped watching.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if watchEligible(event) {
				pending[event.Name] = struct{}{}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			sort.Strings(paths)

			if err := summariseWatched(ctx, cmd, paths, settings); err != nil {
				if ctx.Err() != nil {
					cmd.Println("\nStopped watching.")
					return nil
				}
				logger.Warn("watch batch failed: %v", err)
				cmd.Printf("Batch failed: %v\n", err)
			}
		}
	}
}

// watchEligible reports whether a filesystem event should queue the
// file for summarisation.
func watchEligible(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	if parsers == nil {
		return false
	}
	_, err := parsers.For(event.Name)
	return err == nil
}

func summariseWatched(ctx context.Context, cmd *cobra.Command, paths []string, settings domain.Settings) error {
	sink := progressSink()

	var docs []domain.Document
	for _, p := range paths {
		pr, err := parsers.For(p)
		if err != nil {
			continue
		}
		doc, err := pr.Extract(ctx, p)
		if err != nil {
			// The file may have been renamed away before the
			// debounce fired.
			logger.Warn("skipping %s: %v", p, err)
			continue
		}
		docs = append(docs, *doc)
		sink.Update(doc.ID, domain.PhaseParsing, 1)
	}
	if len(docs) == 0 {
		return nil
	}

	return processDocuments(ctx, cmd, sink, docs, settings, false)
}
