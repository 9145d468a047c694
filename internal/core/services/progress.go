package services

import (
	"sync/atomic"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// ProgressTracker is the atomic progress sink shared across batch
// workers. It counts finished documents and chunk-level provider
// calls and fans phase updates out to an optional ProgressSink.
//
// Purely observational: no control flow depends on it, and a
// misbehaving sink can never block or fail the pipeline.
type ProgressTracker struct {
	sink driven.ProgressSink

	docsTotal  atomic.Int64
	docsDone   atomic.Int64
	chunksDone atomic.Int64
}

// NewProgressTracker creates a tracker. A nil sink disables fan-out
// but keeps the counters.
func NewProgressTracker(sink driven.ProgressSink) *ProgressTracker {
	return &ProgressTracker{sink: sink}
}

// Begin resets the counters for a batch of total documents.
func (t *ProgressTracker) Begin(total int) {
	t.docsTotal.Store(int64(total))
	t.docsDone.Store(0)
	t.chunksDone.Store(0)
}

// Update reports a phase change for a document. Fraction is clamped
// to [0, 1]. A panicking sink is swallowed.
func (t *ProgressTracker) Update(documentID string, phase domain.Phase, fraction float64) {
	if t == nil || t.sink == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	defer func() {
		_ = recover()
	}()
	t.sink.Update(documentID, phase, fraction)
}

// ChunkDone records one completed chunk-level provider call.
func (t *ProgressTracker) ChunkDone() {
	if t == nil {
		return
	}
	t.chunksDone.Add(1)
}

// DocumentDone records one document reaching a terminal status.
func (t *ProgressTracker) DocumentDone() {
	if t == nil {
		return
	}
	t.docsDone.Add(1)
}

// Snapshot returns the current counter values.
func (t *ProgressTracker) Snapshot() (total, done, chunks int) {
	if t == nil {
		return 0, 0, 0
	}
	return int(t.docsTotal.Load()), int(t.docsDone.Load()), int(t.chunksDone.Load())
}
