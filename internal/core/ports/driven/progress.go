package driven

import "github.com/custodia-labs/briefly-cli/internal/core/domain"

// ProgressSink receives fire-and-forget progress notifications.
// Implementations must never block and must never fail the pipeline;
// the orchestrator does not inspect any return value.
type ProgressSink interface {
	// Update reports that a document entered a phase, with completion
	// fraction in [0, 1] within that phase.
	Update(documentID string, phase domain.Phase, fraction float64)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(documentID string, phase domain.Phase, fraction float64)

// Update implements ProgressSink.
func (f ProgressFunc) Update(documentID string, phase domain.Phase, fraction float64) {
	f(documentID, phase, fraction)
}
