package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

var (
	historyLimit   int
	historyBatchID string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past summarisation runs",
	Long: `Lists past summarisation runs, newest first. Use --batch to show
every document of one batch in processing order.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyBatchID, "batch", "", "Show all runs for one batch ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	ctx := context.Background()

	var (
		recs []driven.RunRecord
		err  error
	)
	if historyBatchID != "" {
		recs, err = historyService.Batch(ctx, historyBatchID)
	} else {
		recs, err = historyService.Recent(ctx, historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(recs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-17s %-9s %-28s %-9s %8s  %s\n",
		"WHEN", "BATCH", "DOCUMENT", "STATUS", "TOOK", "OUTPUT")
	for _, rec := range recs {
		cmd.Printf("%-17s %-9s %-28s %-9s %8s  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"),
			shortID(rec.BatchID),
			rec.DocumentName,
			rec.Status,
			rec.Duration.Round(time.Millisecond),
			rec.OutputPath)
	}

	cmd.Printf("\nTotal: %d run(s)\n", len(recs))
	return nil
}

// shortID abbreviates a UUID for display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
