// Package memory provides in-memory store implementations, used when
// no durable history is wanted and as lightweight test doubles.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps run records in memory. Safe for concurrent use.
type HistoryStore struct {
	mu      sync.RWMutex
	records []driven.RunRecord
}

// NewHistoryStore creates an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Save appends a run record.
func (s *HistoryStore) Save(_ context.Context, rec driven.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List returns the most recent records, newest first.
func (s *HistoryStore) List(_ context.Context, limit int) ([]driven.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := append([]driven.RunRecord(nil), s.records...)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// ListByBatch returns all records for one batch in insertion order.
func (s *HistoryStore) ListByBatch(_ context.Context, batchID string) ([]driven.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []driven.RunRecord
	for _, rec := range s.records {
		if rec.BatchID == batchID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// Close releases nothing.
func (s *HistoryStore) Close() error {
	return nil
}
