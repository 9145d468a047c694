package domain

import (
	"fmt"
	"time"
)

// BatchStatus is the terminal status of a batch run.
type BatchStatus string

// Batch outcomes.
const (
	// BatchComplete means every document reached a terminal status.
	// Individual documents may still have failed; the batch itself
	// ran to the end.
	BatchComplete BatchStatus = "complete"

	// BatchCancelled means cooperative cancellation stopped the batch
	// before all documents were processed. Finished results are kept.
	BatchCancelled BatchStatus = "cancelled"

	// BatchAborted means a fatal configuration or environment error
	// stopped the batch.
	BatchAborted BatchStatus = "aborted"
)

// String returns the string representation.
func (s BatchStatus) String() string {
	return string(s)
}

// BatchResult aggregates per-document outcomes for one batch run.
// It is built incrementally by the orchestrator and exposed to callers
// only after the batch reaches a terminal state.
type BatchResult struct {
	// Documents maps document ID to its summarisation outcome.
	// Documents never started before cancellation are absent.
	Documents map[string]*DocumentSummaryResult

	// Status is the batch-level terminal status.
	Status BatchStatus

	// Err is the fatal error when Status is BatchAborted.
	Err error
}

// Counts returns the number of complete, partial and failed documents.
func (r *BatchResult) Counts() (complete, partial, failed int) {
	for _, res := range r.Documents {
		switch res.Status {
		case SummaryComplete:
			complete++
		case SummaryPartialFailure:
			partial++
		case SummaryFailed:
			failed++
		}
	}
	return complete, partial, failed
}

// Default batch option values.
const (
	DefaultChunkSize        = 2000
	DefaultChunkOverlap     = 200
	DefaultConcurrency      = 3
	DefaultFanOut           = 4
	DefaultReduceTargetSize = 1500
	DefaultCallTimeout      = 120 * time.Second
)

// BatchOptions configures a batch run.
type BatchOptions struct {
	// Strategy selects the chunking strategy.
	Strategy ChunkStrategy

	// ChunkSize is the upper bound on chunk length in the strategy's
	// unit. Must be positive.
	ChunkSize int

	// Overlap is the amount of trailing content from chunk N repeated
	// at the start of chunk N+1. Must be non-negative and strictly
	// less than ChunkSize.
	Overlap int

	// Concurrency is the document-level worker pool size.
	Concurrency int

	// FanOut caps concurrent chunk-level provider calls within one
	// document. Total concurrent provider calls are bounded by
	// Concurrency * FanOut.
	FanOut int

	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration

	// ReduceTargetSize is the size (estimated tokens) the combined
	// summary must fit within.
	ReduceTargetSize int

	// KeepChunkSummaries retains per-chunk summaries on results for
	// diagnostics.
	KeepChunkSummaries bool
}

// DefaultBatchOptions returns options with sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Strategy:         StrategySentence,
		ChunkSize:        DefaultChunkSize,
		Overlap:          DefaultChunkOverlap,
		Concurrency:      DefaultConcurrency,
		FanOut:           DefaultFanOut,
		CallTimeout:      DefaultCallTimeout,
		ReduceTargetSize: DefaultReduceTargetSize,
	}
}

// Validate checks option invariants. Configuration errors are detected
// here, before any worker starts, and abort the whole batch.
func (o BatchOptions) Validate() error {
	if !o.Strategy.IsValid() {
		return NewChunkingError(fmt.Sprintf("unknown chunk strategy %q", o.Strategy), nil)
	}
	if o.ChunkSize <= 0 {
		return NewChunkingError(fmt.Sprintf("chunk size must be positive, got %d", o.ChunkSize), nil)
	}
	if o.Overlap < 0 || o.Overlap >= o.ChunkSize {
		return NewChunkingError(fmt.Sprintf("overlap %d must be non-negative and less than chunk size %d", o.Overlap, o.ChunkSize), nil)
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidInput, o.Concurrency)
	}
	if o.FanOut <= 0 {
		return fmt.Errorf("%w: fan-out must be positive, got %d", ErrInvalidInput, o.FanOut)
	}
	if o.ReduceTargetSize <= 0 {
		return fmt.Errorf("%w: reduce target size must be positive, got %d", ErrInvalidInput, o.ReduceTargetSize)
	}
	return nil
}
