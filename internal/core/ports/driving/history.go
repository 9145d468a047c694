package driving

import (
	"context"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// HistoryService exposes past run records to the CLI.
type HistoryService interface {
	// Recent returns the most recent run records, newest first.
	Recent(ctx context.Context, limit int) ([]driven.RunRecord, error)

	// Batch returns all records for one batch run.
	Batch(ctx context.Context, batchID string) ([]driven.RunRecord, error)
}
