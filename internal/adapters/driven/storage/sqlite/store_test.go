package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id, batchID string, at time.Time) driven.RunRecord {
	return driven.RunRecord{
		ID:           id,
		BatchID:      batchID,
		DocumentName: "doc.txt",
		SourcePath:   "/in/doc.txt",
		Status:       domain.SummaryComplete,
		OutputPath:   "/out/doc.md",
		Duration:     1200 * time.Millisecond,
		CreatedAt:    at,
	}
}

func TestStore_SaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, record("r1", "b1", base)))
	require.NoError(t, s.Save(ctx, record("r2", "b1", base.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, record("r3", "b2", base.Add(2*time.Minute))))

	recs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r3", recs[0].ID, "newest first")
	assert.Equal(t, "r2", recs[1].ID)

	got := recs[0]
	assert.Equal(t, "b2", got.BatchID)
	assert.Equal(t, "doc.txt", got.DocumentName)
	assert.Equal(t, domain.SummaryComplete, got.Status)
	assert.Equal(t, "/out/doc.md", got.OutputPath)
	assert.Equal(t, 1200*time.Millisecond, got.Duration)
	assert.True(t, got.CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestStore_ListByBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, record("r1", "b1", base.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, record("r2", "b1", base)))
	require.NoError(t, s.Save(ctx, record("r3", "b2", base)))

	recs, err := s.ListByBatch(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r2", recs[0].ID, "oldest first within a batch")
	assert.Equal(t, "r1", recs[1].ID)

	recs, err = s.ListByBatch(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, record("r1", "b1", time.Now().UTC())))
	require.NoError(t, s.Close())

	// Reopening runs migrations again; they must be idempotent.
	s, err = NewStore(dir)
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := record("r1", "b1", time.Now().UTC())

	require.NoError(t, s.Save(ctx, rec))
	assert.Error(t, s.Save(ctx, rec))
}
