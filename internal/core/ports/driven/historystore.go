package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

// RunRecord is one persisted history entry: the outcome of summarising
// one document during one batch run.
type RunRecord struct {
	// ID is the unique record identifier.
	ID string

	// BatchID groups records belonging to the same batch run.
	BatchID string

	// DocumentName is the human-readable document name.
	DocumentName string

	// SourcePath is the original document location.
	SourcePath string

	// Status is the document's terminal status.
	Status domain.SummaryStatus

	// OutputPath is where the summary was persisted, empty on failure.
	OutputPath string

	// Duration is the document processing time.
	Duration time.Duration

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}

// HistoryStore persists run records.
// Backed by SQLite; an in-memory mirror exists for tests.
type HistoryStore interface {
	// Save stores a run record.
	Save(ctx context.Context, rec RunRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]RunRecord, error)

	// ListByBatch returns all records for a batch run.
	ListByBatch(ctx context.Context, batchID string) ([]RunRecord, error)

	// Close releases resources.
	Close() error
}
