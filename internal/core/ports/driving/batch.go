package driving

import (
	"context"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

// BatchOrchestrator runs summarisation for a set of documents under a
// bounded concurrency budget. The single entry point for the CLI and
// watch mode.
type BatchOrchestrator interface {
	// Process summarises every document and returns the aggregated
	// result. It always returns a BatchResult enumerating each
	// document's outcome; only configuration errors and
	// environment-fatal storage errors abort the batch.
	Process(ctx context.Context, docs []domain.Document, opts domain.BatchOptions) (*domain.BatchResult, error)

	// Cancel signals cooperative cancellation. Safe to call from a
	// different goroutine than the one running Process (e.g. a signal
	// handler) and idempotent: calling it twice has the same effect
	// as once.
	Cancel()

	// Status returns a snapshot of batch progress.
	Status() BatchStatus
}

// BatchStatus is a point-in-time snapshot of batch progress.
type BatchStatus struct {
	// Running indicates a batch is currently in progress.
	Running bool

	// DocumentsTotal is the number of documents in the batch.
	DocumentsTotal int

	// DocumentsDone is the number with a terminal status.
	DocumentsDone int

	// ChunksSummarised is the number of completed chunk-level
	// provider calls across all documents.
	ChunksSummarised int

	// Cancelled indicates cancellation has been requested.
	Cancelled bool
}
