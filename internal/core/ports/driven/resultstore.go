package driven

import (
	"context"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

// ResultStore persists document summary results to durable storage.
//
// Implementations must be crash-safe: a reader must never observe a
// half-written result file. Writes for different documents target
// independent paths and need no cross-document locking.
type ResultStore interface {
	// Persist writes the result and returns the stored path.
	// If the target path already exists, the implementation picks a
	// collision-free name rather than overwriting.
	Persist(ctx context.Context, result *domain.DocumentSummaryResult) (string, error)
}

// Serialiser renders a result into bytes for persistence. The exact
// output schema is owned by the serialiser, not by the store.
type Serialiser interface {
	// Serialise renders the result.
	Serialise(result *domain.DocumentSummaryResult) ([]byte, error)

	// Extension returns the file extension including the dot.
	Extension() string
}
