package domain

import "time"

// SummaryStatus is the terminal status of a document summarisation.
type SummaryStatus string

// Document summarisation outcomes.
const (
	// SummaryComplete means every chunk was summarised successfully.
	SummaryComplete SummaryStatus = "complete"

	// SummaryPartialFailure means some chunks failed permanently but
	// the reduce step proceeded with the chunks that succeeded.
	SummaryPartialFailure SummaryStatus = "partial_failure"

	// SummaryFailed means no usable summary could be produced.
	SummaryFailed SummaryStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s SummaryStatus) IsValid() bool {
	switch s {
	case SummaryComplete, SummaryPartialFailure, SummaryFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SummaryStatus) String() string {
	return string(s)
}

// DocumentSummaryResult is the outcome of summarising one document.
// It is created by the summarisation engine, mutated only by appending
// reduce rounds, and becomes immutable once Status is set.
type DocumentSummaryResult struct {
	// DocumentID identifies the owning document.
	DocumentID string

	// DocumentName is the human-readable document name.
	DocumentName string

	// SourcePath is the original document location.
	SourcePath string

	// Summary is the final summary text.
	Summary string

	// KeyPoints are the ordered key points extracted from the summary.
	KeyPoints []string

	// ReduceDepth is the number of reduce rounds that occurred.
	// Zero means the chunk summaries fitted the target on assembly.
	ReduceDepth int

	// ChunkSummaries holds the per-chunk summaries of the first map
	// pass. Populated only when diagnostics are requested.
	ChunkSummaries []ChunkSummary

	// FailedChunks lists indices of chunks whose summaries are missing
	// after retries were exhausted.
	FailedChunks []int

	// Duration is the total processing time for this document.
	Duration time.Duration

	// GeneratedAt is when the result was finalised.
	GeneratedAt time.Time

	// Status is the terminal status.
	Status SummaryStatus

	// Err carries the failure detail when Status is not complete.
	Err *ProcessingError
}
