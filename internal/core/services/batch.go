package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/briefly-cli/internal/logger"
)

// Ensure BatchOrchestrator implements the interface.
var _ driving.BatchOrchestrator = (*BatchOrchestrator)(nil)

// BatchOrchestrator runs one summarisation engine invocation per
// document under a fixed-size worker pool. Failures are isolated at
// the worker boundary, results are persisted the moment each document
// finishes, and cancellation is cooperative at chunk-call granularity.
//
// The only state shared across workers is the cancellation signal,
// the progress tracker and the result store; no chunk, summary or
// provider-call state crosses document boundaries.
type BatchOrchestrator struct {
	provider driven.Provider
	store    driven.ResultStore
	history  driven.HistoryStore // optional
	tracker  *ProgressTracker

	mu        sync.Mutex
	running   bool
	cancelRun context.CancelFunc
	cancelled atomic.Bool
}

// NewBatchOrchestrator creates an orchestrator. The history store and
// progress sink may be nil.
func NewBatchOrchestrator(
	provider driven.Provider,
	store driven.ResultStore,
	history driven.HistoryStore,
	sink driven.ProgressSink,
) *BatchOrchestrator {
	return &BatchOrchestrator{
		provider: provider,
		store:    store,
		history:  history,
		tracker:  NewProgressTracker(sink),
	}
}

// Process summarises every document and returns the aggregated batch
// result. Configuration errors abort before any worker starts; after
// that, the batch always runs to a terminal state and enumerates each
// document's outcome.
func (o *BatchOrchestrator) Process(ctx context.Context, docs []domain.Document, opts domain.BatchOptions) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		Documents: make(map[string]*domain.DocumentSummaryResult, len(docs)),
	}

	if err := opts.Validate(); err != nil {
		result.Status = domain.BatchAborted
		result.Err = err
		return result, err
	}
	if o.store == nil {
		err := fmt.Errorf("%w: no result store configured", domain.ErrOutputUnavailable)
		result.Status = domain.BatchAborted
		result.Err = err
		return result, err
	}

	engine, err := NewEngine(o.provider, opts, o.tracker)
	if err != nil {
		result.Status = domain.BatchAborted
		result.Err = err
		return result, err
	}

	runCtx, err := o.begin(ctx, len(docs))
	if err != nil {
		result.Status = domain.BatchAborted
		result.Err = err
		return result, err
	}
	defer o.end()

	batchID := uuid.New().String()
	logger.Info("batch %s: %d documents, concurrency %d, fan-out %d", batchID, len(docs), opts.Concurrency, opts.FanOut)

	var (
		resultMu sync.Mutex
		fatal    error
	)

	jobs := make(chan domain.Document)
	var wg sync.WaitGroup

	workers := opts.Concurrency
	if workers > len(docs) {
		workers = len(docs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				res := o.processOne(runCtx, engine, batchID, doc)

				envFatal := res.Err != nil && errors.Is(res.Err, domain.ErrOutputUnavailable)
				resultMu.Lock()
				result.Documents[doc.ID] = res
				if envFatal && fatal == nil {
					fatal = res.Err
				}
				resultMu.Unlock()

				if envFatal {
					// Environment-fatal: nothing further can be
					// persisted, stop handing out work.
					o.Cancel()
				}
				o.tracker.DocumentDone()
			}
		}()
	}

feed:
	for _, doc := range docs {
		select {
		case <-runCtx.Done():
			break feed
		case jobs <- doc:
		}
	}
	close(jobs)
	wg.Wait()

	switch {
	case fatal != nil:
		result.Status = domain.BatchAborted
		result.Err = fatal
	case o.cancelled.Load():
		result.Status = domain.BatchCancelled
	default:
		result.Status = domain.BatchComplete
	}

	complete, partial, failed := result.Counts()
	logger.Info("batch %s finished: status %s, %d complete, %d partial, %d failed", batchID, result.Status, complete, partial, failed)
	return result, nil
}

// processOne runs one document end-to-end: summarise, persist,
// record. Any failure, including a panic somewhere below the engine,
// is caught here and becomes this document's terminal result; it
// never propagates to other workers.
func (o *BatchOrchestrator) processOne(ctx context.Context, engine *Engine, batchID string, doc domain.Document) (res *domain.DocumentSummaryResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("document %s: panic: %v", doc.Name, r)
			res = &domain.DocumentSummaryResult{
				DocumentID:   doc.ID,
				DocumentName: doc.Name,
				SourcePath:   doc.Path,
				Status:       domain.SummaryFailed,
				GeneratedAt:  time.Now().UTC(),
				Err:          domain.NewProviderError(doc.ID, domain.NoChunk, fmt.Sprintf("panic: %v", r), false, nil),
			}
		}
	}()

	res = engine.Summarise(ctx, doc)

	// Results of documents cancelled mid-flight are enumerated in the
	// batch result but never persisted: durable storage holds exactly
	// the documents that finished before cancellation.
	if res.Err != nil && res.Err.Kind == domain.ErrorCancelled {
		o.record(ctx, batchID, doc, res, "")
		return res
	}

	outputPath := ""
	if res.Status != domain.SummaryFailed {
		// A document whose calls all finished before cancellation is a
		// finished document; its write must not be lost to the
		// now-cancelled run context.
		path, err := o.store.Persist(context.WithoutCancel(ctx), res)
		if err != nil {
			logger.Error("document %s: persist failed: %v", doc.Name, err)
			res.Status = domain.SummaryFailed
			res.Err = domain.NewStorageError(doc.ID, "persist failed", err)
		} else {
			outputPath = path
			logger.Debug("document %s: written to %s", doc.Name, path)
		}
	}

	o.record(ctx, batchID, doc, res, outputPath)
	return res
}

// record appends a run history entry. History is best-effort: a
// failing history store never affects the document outcome.
func (o *BatchOrchestrator) record(ctx context.Context, batchID string, doc domain.Document, res *domain.DocumentSummaryResult, outputPath string) {
	if o.history == nil {
		return
	}
	rec := driven.RunRecord{
		ID:           uuid.New().String(),
		BatchID:      batchID,
		DocumentName: doc.Name,
		SourcePath:   doc.Path,
		Status:       res.Status,
		OutputPath:   outputPath,
		Duration:     res.Duration,
		CreatedAt:    time.Now().UTC(),
	}
	if err := o.history.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("history: save failed: %v", err)
	}
}

// Cancel signals cooperative cancellation. Idempotent and safe to
// call from any goroutine; workers stop after their current provider
// call completes.
func (o *BatchOrchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelRun != nil {
		o.cancelled.Store(true)
		o.cancelRun()
	}
}

// Status returns a snapshot of batch progress.
func (o *BatchOrchestrator) Status() driving.BatchStatus {
	o.mu.Lock()
	running := o.running
	o.mu.Unlock()

	total, done, chunks := o.tracker.Snapshot()
	return driving.BatchStatus{
		Running:          running,
		DocumentsTotal:   total,
		DocumentsDone:    done,
		ChunksSummarised: chunks,
		Cancelled:        o.cancelled.Load(),
	}
}

// begin marks the orchestrator running and installs the cancellable
// run context. A second Process while one is running is rejected.
func (o *BatchOrchestrator) begin(ctx context.Context, total int) (context.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return nil, domain.ErrBatchRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.running = true
	o.cancelRun = cancel
	o.cancelled.Store(false)
	o.tracker.Begin(total)
	return runCtx, nil
}

func (o *BatchOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelRun != nil {
		o.cancelRun()
		o.cancelRun = nil
	}
	o.running = false
}
