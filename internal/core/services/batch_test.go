package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockResultStore records persisted results in order.
type mockResultStore struct {
	mu        sync.Mutex
	persisted []string // document IDs in persistence order
	failWith  error    // returned for every Persist when set
}

func (s *mockResultStore) Persist(ctx context.Context, res *domain.DocumentSummaryResult) (string, error) {
	// Mirrors the file store: a cancelled context refuses the write.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	s.persisted = append(s.persisted, res.DocumentID)
	return "/tmp/out/" + res.DocumentName + ".md", nil
}

func (s *mockResultStore) persistedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.persisted...)
}

// mockHistoryStore collects run records.
type mockHistoryStore struct {
	mu      sync.Mutex
	records []driven.RunRecord
	saveErr error
}

func (s *mockHistoryStore) Save(_ context.Context, rec driven.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *mockHistoryStore) List(_ context.Context, limit int) ([]driven.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := append([]driven.RunRecord(nil), s.records...)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *mockHistoryStore) ListByBatch(_ context.Context, batchID string) ([]driven.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var recs []driven.RunRecord
	for _, r := range s.records {
		if r.BatchID == batchID {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

func (s *mockHistoryStore) Close() error { return nil }

func (s *mockHistoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func testDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{
			ID:      fmt.Sprintf("doc-%d", i+1),
			Name:    fmt.Sprintf("doc-%d.txt", i+1),
			Path:    fmt.Sprintf("/in/doc-%d.txt", i+1),
			Content: fmt.Sprintf("Document %d body. It has a couple of sentences.", i+1),
		}
	}
	return docs
}

// --- Tests ---

func TestBatch_AllDocumentsSucceed(t *testing.T) {
	store := &mockResultStore{}
	history := &mockHistoryStore{}
	o := NewBatchOrchestrator(echoProvider("A summary."), store, history, nil)

	docs := testDocs(3)
	res, err := o.Process(context.Background(), docs, testOptions())

	require.NoError(t, err)
	assert.Equal(t, domain.BatchComplete, res.Status)
	assert.Len(t, res.Documents, 3)
	for _, doc := range docs {
		dr, ok := res.Documents[doc.ID]
		require.True(t, ok)
		assert.Equal(t, domain.SummaryComplete, dr.Status)
	}
	assert.Len(t, store.persistedIDs(), 3)
	assert.Equal(t, 3, history.count())
}

// TestBatch_FailureIsolation runs three documents where the second
// fails every provider call: the other two must still complete and
// the batch itself finishes complete.
func TestBatch_FailureIsolation(t *testing.T) {
	permanent := errors.New("model rejected input")
	p := &stubProvider{
		respond: func(_ int, prompt string) (string, error) {
			if strings.Contains(prompt, "Document 2") {
				return "", permanent
			}
			return "A summary.", nil
		},
		transient: func(error) bool { return false },
	}

	store := &mockResultStore{}
	o := NewBatchOrchestrator(p, store, nil, nil)

	opts := testOptions()
	opts.Concurrency = 2
	res, err := o.Process(context.Background(), testDocs(3), opts)

	require.NoError(t, err)
	assert.Equal(t, domain.BatchComplete, res.Status)

	assert.Equal(t, domain.SummaryComplete, res.Documents["doc-1"].Status)
	assert.Equal(t, domain.SummaryComplete, res.Documents["doc-3"].Status)

	failed := res.Documents["doc-2"]
	assert.Equal(t, domain.SummaryFailed, failed.Status)
	require.NotNil(t, failed.Err)
	assert.Equal(t, domain.ErrorProvider, failed.Err.Kind)

	// Failed documents are enumerated but never persisted.
	assert.ElementsMatch(t, []string{"doc-1", "doc-3"}, store.persistedIDs())

	complete, partial, failedCount := res.Counts()
	assert.Equal(t, 2, complete)
	assert.Zero(t, partial)
	assert.Equal(t, 1, failedCount)
}

func TestBatch_InvalidOptionsAbort(t *testing.T) {
	p := echoProvider("unused")
	store := &mockResultStore{}
	o := NewBatchOrchestrator(p, store, nil, nil)

	opts := testOptions()
	opts.Overlap = opts.ChunkSize // overlap must be strictly smaller

	res, err := o.Process(context.Background(), testDocs(2), opts)

	require.Error(t, err)
	assert.Equal(t, domain.BatchAborted, res.Status)
	assert.Empty(t, res.Documents, "no document may start under invalid options")
	assert.Zero(t, p.callCount())
	assert.Empty(t, store.persistedIDs())
}

func TestBatch_ZeroConcurrencyAborts(t *testing.T) {
	o := NewBatchOrchestrator(echoProvider("unused"), &mockResultStore{}, nil, nil)

	opts := testOptions()
	opts.Concurrency = 0

	res, err := o.Process(context.Background(), testDocs(1), opts)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.BatchAborted, res.Status)
}

func TestBatch_MissingStoreAborts(t *testing.T) {
	o := NewBatchOrchestrator(echoProvider("unused"), nil, nil, nil)

	res, err := o.Process(context.Background(), testDocs(1), testOptions())
	assert.ErrorIs(t, err, domain.ErrOutputUnavailable)
	assert.Equal(t, domain.BatchAborted, res.Status)
}

// TestBatch_CancellationPersistsFinishedDocuments drives a serial
// batch and cancels during the second document's only in-flight call.
// The first document stays persisted, the in-flight call completes
// (calls are never killed mid-request, so the second document also
// finishes), and the third is never dispatched.
func TestBatch_CancellationPersistsFinishedDocuments(t *testing.T) {
	store := &mockResultStore{}
	var o *BatchOrchestrator
	p := &stubProvider{respond: func(_ int, prompt string) (string, error) {
		if strings.Contains(prompt, "Document 2") {
			o.Cancel()
		}
		return "A summary.", nil
	}}
	o = NewBatchOrchestrator(p, store, nil, nil)

	opts := testOptions()
	opts.Concurrency = 1
	opts.FanOut = 1
	res, err := o.Process(context.Background(), testDocs(3), opts)

	require.NoError(t, err)
	assert.Equal(t, domain.BatchCancelled, res.Status)

	assert.Contains(t, res.Documents, "doc-1")
	assert.Contains(t, res.Documents, "doc-2")
	assert.NotContains(t, res.Documents, "doc-3", "documents never started are not enumerated")

	// The finished document is complete, not a storage failure: its
	// write is detached from the cancelled run context.
	require.NotNil(t, res.Documents["doc-2"])
	assert.Equal(t, domain.SummaryComplete, res.Documents["doc-2"].Status)
	assert.Nil(t, res.Documents["doc-2"].Err)

	// Exactly the finished documents are on disk.
	assert.ElementsMatch(t, []string{"doc-1", "doc-2"}, store.persistedIDs())
}

// TestBatch_CancellationSkipsUnfinishedDocument gives the second
// document two chunks and cancels during its first chunk call: the
// document cannot finish, is reported as cancelled, and is not
// persisted.
func TestBatch_CancellationSkipsUnfinishedDocument(t *testing.T) {
	docs := testDocs(3)
	var b strings.Builder
	for i := 0; b.Len() < 3000; i++ {
		fmt.Fprintf(&b, "Document 2 filler sentence number %d carries on. ", i)
	}
	docs[1].Content = b.String()

	store := &mockResultStore{}
	history := &mockHistoryStore{}
	var o *BatchOrchestrator
	p := &stubProvider{respond: func(_ int, prompt string) (string, error) {
		if strings.Contains(prompt, "Document 2") {
			o.Cancel()
		}
		return "A summary.", nil
	}}
	o = NewBatchOrchestrator(p, store, history, nil)

	opts := testOptions()
	opts.Concurrency = 1
	opts.FanOut = 1
	res, err := o.Process(context.Background(), docs, opts)

	require.NoError(t, err)
	assert.Equal(t, domain.BatchCancelled, res.Status)

	cancelledDoc := res.Documents["doc-2"]
	require.NotNil(t, cancelledDoc)
	assert.Equal(t, domain.SummaryFailed, cancelledDoc.Status)
	require.NotNil(t, cancelledDoc.Err)
	assert.Equal(t, domain.ErrorCancelled, cancelledDoc.Err.Kind)

	// Only the document that finished before cancellation is durable;
	// the interrupted one still gets a history row.
	assert.Equal(t, []string{"doc-1"}, store.persistedIDs())
	assert.GreaterOrEqual(t, history.count(), 2)
}

func TestBatch_EnvironmentFatalStorageAborts(t *testing.T) {
	store := &mockResultStore{
		failWith: fmt.Errorf("output directory gone: %w", domain.ErrOutputUnavailable),
	}
	o := NewBatchOrchestrator(echoProvider("A summary."), store, nil, nil)

	opts := testOptions()
	opts.Concurrency = 1
	res, err := o.Process(context.Background(), testDocs(3), opts)

	require.NoError(t, err, "fatal batches still return an enumerated result")
	assert.Equal(t, domain.BatchAborted, res.Status)
	assert.ErrorIs(t, res.Err, domain.ErrOutputUnavailable)
	assert.NotEmpty(t, res.Documents)
	assert.Less(t, len(res.Documents), 3, "remaining documents are abandoned")
}

func TestBatch_NonFatalStorageFailureIsPerDocument(t *testing.T) {
	store := &mockResultStore{failWith: errors.New("disk hiccup")}
	o := NewBatchOrchestrator(echoProvider("A summary."), store, nil, nil)

	res, err := o.Process(context.Background(), testDocs(2), testOptions())

	require.NoError(t, err)
	assert.Equal(t, domain.BatchComplete, res.Status)
	for _, dr := range res.Documents {
		assert.Equal(t, domain.SummaryFailed, dr.Status)
		require.NotNil(t, dr.Err)
		assert.Equal(t, domain.ErrorStorage, dr.Err.Kind)
	}
}

func TestBatch_RejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := &stubProvider{respond: func(call int, _ string) (string, error) {
		if call == 1 {
			close(started)
			<-release
		}
		return "A summary.", nil
	}}

	o := NewBatchOrchestrator(p, &mockResultStore{}, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = o.Process(context.Background(), testDocs(1), testOptions())
	}()

	<-started
	assert.True(t, o.Status().Running)

	_, err := o.Process(context.Background(), testDocs(1), testOptions())
	assert.ErrorIs(t, err, domain.ErrBatchRunning)

	close(release)
	wg.Wait()
	assert.False(t, o.Status().Running)
}

func TestBatch_CancelIsIdempotent(t *testing.T) {
	o := NewBatchOrchestrator(echoProvider("A summary."), &mockResultStore{}, nil, nil)

	// Before any run there is nothing to cancel.
	assert.NotPanics(t, o.Cancel)

	res, err := o.Process(context.Background(), testDocs(1), testOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.BatchComplete, res.Status)

	// After a finished run repeated cancels stay harmless.
	assert.NotPanics(t, o.Cancel)
	assert.NotPanics(t, o.Cancel)
}

func TestBatch_StatusCounters(t *testing.T) {
	o := NewBatchOrchestrator(echoProvider("A summary."), &mockResultStore{}, nil, nil)

	res, err := o.Process(context.Background(), testDocs(4), testOptions())
	require.NoError(t, err)
	require.Equal(t, domain.BatchComplete, res.Status)

	st := o.Status()
	assert.False(t, st.Running)
	assert.Equal(t, 4, st.DocumentsTotal)
	assert.Equal(t, 4, st.DocumentsDone)
	assert.Equal(t, 4, st.ChunksSummarised)
	assert.False(t, st.Cancelled)
}

func TestBatch_HistoryFailureDoesNotAffectOutcome(t *testing.T) {
	history := &mockHistoryStore{saveErr: errors.New("db locked")}
	store := &mockResultStore{}
	o := NewBatchOrchestrator(echoProvider("A summary."), store, history, nil)

	res, err := o.Process(context.Background(), testDocs(2), testOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.BatchComplete, res.Status)
	assert.Len(t, store.persistedIDs(), 2)
}
