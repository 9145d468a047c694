package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit bounds unpaginated history listings.
const defaultHistoryLimit = 20

// HistoryService exposes past run records to the CLI.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns the most recent run records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]driven.RunRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	recs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return recs, nil
}

// Batch returns all records for one batch run.
func (s *HistoryService) Batch(ctx context.Context, batchID string) ([]driven.RunRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	recs, err := s.store.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch history: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("batch %s: %w", batchID, domain.ErrNotFound)
	}
	return recs, nil
}
