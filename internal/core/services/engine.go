package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/briefly-cli/internal/chunker"
	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/logger"
	"github.com/custodia-labs/briefly-cli/internal/retry"
)

// MaxReduceRounds bounds the reduce loop. The source behaviour under
// a provider that never shrinks its input is unspecified; five rounds
// is enough for any realistic document while guaranteeing termination.
const MaxReduceRounds = 5

// Engine runs the map/reduce summarisation pipeline for a single
// document: split the text into chunks, summarise each chunk with one
// provider call, then combine the chunk summaries, re-chunking and
// re-summarising until the result fits the reduce target.
//
// An Engine holds no per-document state and is safe to share across
// batch workers.
type Engine struct {
	provider driven.Provider
	splitter *chunker.Chunker
	opts     domain.BatchOptions
	retryCfg retry.Config
	tracker  *ProgressTracker
}

// NewEngine creates an engine for one batch run. The options must
// already be validated; the chunking parameters are re-checked here
// because the chunker owns their invariants.
func NewEngine(provider driven.Provider, opts domain.BatchOptions, tracker *ProgressTracker) (*Engine, error) {
	if provider == nil {
		return nil, domain.ErrProviderUnavailable
	}
	splitter, err := chunker.New(chunker.Config{
		Strategy: opts.Strategy,
		MaxSize:  opts.ChunkSize,
		Overlap:  opts.Overlap,
	})
	if err != nil {
		return nil, err
	}
	return &Engine{
		provider: provider,
		splitter: splitter,
		opts:     opts,
		retryCfg: retry.DefaultConfig(),
		tracker:  tracker,
	}, nil
}

// Summarise runs the full pipeline for one document and returns its
// terminal result. The context is the batch's cancellable context:
// it is polled between chunk-level provider calls, never mid-call.
// Summarise itself never returns an error; failures are recorded on
// the result so one document can never take down its batch siblings.
func (e *Engine) Summarise(ctx context.Context, doc domain.Document) *domain.DocumentSummaryResult {
	started := time.Now()
	result := &domain.DocumentSummaryResult{
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		SourcePath:   doc.Path,
	}

	finish := func(status domain.SummaryStatus, perr *domain.ProcessingError) *domain.DocumentSummaryResult {
		result.Status = status
		result.Err = perr
		result.Duration = time.Since(started)
		result.GeneratedAt = time.Now().UTC()
		e.tracker.Update(doc.ID, domain.PhaseDone, 1)
		return result
	}

	e.tracker.Update(doc.ID, domain.PhaseChunking, 0)
	chunks := e.splitter.Split(doc.Content)
	logger.Debug("document %s: %d chunks (%s strategy)", doc.Name, len(chunks), e.opts.Strategy)

	if len(chunks) == 0 {
		// Nothing to summarise. An empty document completes with an
		// empty summary rather than failing the batch.
		return finish(domain.SummaryComplete, nil)
	}

	// Map step.
	e.tracker.Update(doc.ID, domain.PhaseSummarising, 0)
	summaries, mapErr := e.mapChunks(ctx, doc.ID, chunks, chunkPrompt)
	if mapErr != nil {
		return finish(domain.SummaryFailed, mapErr)
	}
	if e.opts.KeepChunkSummaries {
		result.ChunkSummaries = summaries
	}

	failed := missingIndices(chunks, summaries)
	result.FailedChunks = failed
	if len(summaries) == 0 {
		return finish(domain.SummaryFailed,
			domain.NewProviderError(doc.ID, domain.NoChunk, "no chunk could be summarised", false, nil))
	}

	// Reduce step: an explicit loop with a round counter, so the
	// termination bound holds even for a provider that never shrinks
	// its input.
	combined := joinSummaries(summaries)
	rounds := 0
	for chunker.EstimateTokens(combined) > e.opts.ReduceTargetSize {
		if rounds >= MaxReduceRounds {
			return finish(domain.SummaryFailed,
				domain.NewProviderError(doc.ID, domain.NoChunk,
					fmt.Sprintf("summary did not converge within %d reduce rounds", MaxReduceRounds),
					false, domain.ErrNotConverged))
		}
		rounds++
		e.tracker.Update(doc.ID, domain.PhaseReducing, float64(rounds)/float64(MaxReduceRounds))
		logger.Debug("document %s: reduce round %d, %d estimated tokens", doc.Name, rounds, chunker.EstimateTokens(combined))

		reduceChunks := e.splitter.Split(combined)
		reduced, reduceErr := e.mapChunks(ctx, doc.ID, reduceChunks, reducePrompt)
		if reduceErr != nil {
			return finish(domain.SummaryFailed, reduceErr)
		}
		if len(reduced) == 0 {
			return finish(domain.SummaryFailed,
				domain.NewProviderError(doc.ID, domain.NoChunk, "reduce round produced no summaries", false, nil))
		}
		combined = joinSummaries(reduced)
	}

	result.Summary = combined
	result.KeyPoints = extractKeyPoints(combined)
	result.ReduceDepth = rounds

	if len(failed) > 0 {
		return finish(domain.SummaryPartialFailure,
			domain.NewProviderError(doc.ID, domain.NoChunk,
				fmt.Sprintf("%d of %d chunks failed", len(failed), len(chunks)), false, nil))
	}
	return finish(domain.SummaryComplete, nil)
}

// mapChunks summarises chunks concurrently up to the fan-out cap and
// returns the successful summaries in strict index order, regardless
// of completion order. A non-nil error is returned only for
// cancellation; per-chunk failures just leave gaps.
func (e *Engine) mapChunks(ctx context.Context, docID string, chunks []domain.Chunk, prompt func(string) string) ([]domain.ChunkSummary, *domain.ProcessingError) {
	results := make([]*domain.ChunkSummary, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.opts.FanOut)
	cancelled := false

	for i, ch := range chunks {
		sem <- struct{}{}

		// Cancellation is polled at chunk-call granularity, after a
		// fan-out slot frees up: chunks already dispatched run to
		// completion, no new ones are started.
		if ctx.Err() != nil {
			<-sem
			cancelled = true
			break
		}

		wg.Add(1)
		go func(idx int, ch domain.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := e.summariseOne(ctx, docID, ch, prompt)
			if err != nil {
				logger.Warn("document %s chunk %d: %v", docID, ch.Index, err)
				return
			}
			results[idx] = summary
			e.tracker.ChunkDone()
			e.tracker.Update(docID, domain.PhaseSummarising, float64(idx+1)/float64(len(chunks)))
		}(i, ch)
	}

	wg.Wait()

	if cancelled {
		return nil, domain.NewCancelledError(docID)
	}

	summaries := make([]domain.ChunkSummary, 0, len(chunks))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Index < summaries[j].Index })
	return summaries, nil
}

// summariseOne performs one provider call with bounded exponential
// backoff. The per-call timeout is detached from the batch's
// cancellation so an in-flight call is never killed mid-request.
func (e *Engine) summariseOne(ctx context.Context, docID string, ch domain.Chunk, prompt func(string) string) (*domain.ChunkSummary, error) {
	var text string

	err := retry.WithBackoff(ctx, e.retryCfg, domain.IsRetryable, func(context.Context) error {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.CallTimeout)
		defer cancel()

		out, err := e.provider.Complete(callCtx, prompt(ch.Text), driven.CompleteOptions{System: systemPrompt})
		if err != nil {
			return domain.NewProviderError(docID, ch.Index, "completion failed", e.transient(err), err)
		}
		text = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.ChunkSummary{
		Index:  ch.Index,
		Text:   text,
		Tokens: chunker.EstimateTokens(text),
	}, nil
}

// transient asks the provider to classify its own error when it can;
// unknown errors are assumed transient, matching the retry policy for
// network-bound calls.
func (e *Engine) transient(err error) bool {
	if c, ok := e.provider.(driven.ErrorClassifier); ok {
		return c.Transient(err)
	}
	return true
}

func joinSummaries(summaries []domain.ChunkSummary) string {
	parts := make([]string, len(summaries))
	for i, s := range summaries {
		parts[i] = strings.TrimSpace(s.Text)
	}
	return strings.Join(parts, "\n\n")
}

// missingIndices returns the indices of chunks with no summary.
func missingIndices(chunks []domain.Chunk, summaries []domain.ChunkSummary) []int {
	got := make(map[int]bool, len(summaries))
	for _, s := range summaries {
		got[s.Index] = true
	}
	var missing []int
	for _, ch := range chunks {
		if !got[ch.Index] {
			missing = append(missing, ch.Index)
		}
	}
	return missing
}
