package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/briefly-cli/internal/adapters/driven/ai"
	filestore "github.com/custodia-labs/briefly-cli/internal/adapters/driven/store/file"
	"github.com/custodia-labs/briefly-cli/internal/chunker"
	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/briefly-cli/internal/core/services"
	"github.com/custodia-labs/briefly-cli/internal/logger"
)

// defaultOutputDir is used when no output directory is configured.
const defaultOutputDir = "summaries"

// Factory hooks so tests can run the command without a live provider.
var (
	newProvider = func(ctx context.Context, settings domain.Settings) (driven.Provider, error) {
		return ai.CreateAndValidateProvider(ctx, settings)
	}
	newOrchestrator = func(p driven.Provider, s driven.ResultStore, h driven.HistoryStore, sink driven.ProgressSink) driving.BatchOrchestrator {
		return services.NewBatchOrchestrator(p, s, h, sink)
	}
)

var (
	summariseProvider     string
	summariseModel        string
	summariseStrategy     string
	summariseChunkSize    int
	summariseOverlap      int
	summariseConcurrency  int
	summariseFanOut       int
	summariseTimeout      int
	summariseReduceTarget int
	summariseFormat       string
	summariseOutputDir    string
	summariseKeepChunks   bool
	summariseDryRun       bool
)

var summariseCmd = &cobra.Command{
	Use:     "summarise [path...]",
	Aliases: []string{"summarize"},
	Short:   "Summarise documents",
	Long: `Summarises the given files, or every supported document found in the
given directories. Supported formats are plain text (.txt, .text, .log,
.eml) and Markdown (.md, .markdown, .mdown).

Summaries are written to the output directory; existing files are never
overwritten. Press Ctrl-C to cancel: documents already summarised are
kept, unfinished ones are not written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarise,
}

func init() {
	flags := summariseCmd.Flags()
	flags.StringVar(&summariseProvider, "provider", "", "Model provider (ollama, openai, anthropic)")
	flags.StringVar(&summariseModel, "model", "", "Model name (provider default when empty)")
	flags.StringVar(&summariseStrategy, "strategy", "", "Chunking strategy (sentence, paragraph, fixed, token)")
	flags.IntVar(&summariseChunkSize, "chunk-size", 0, "Maximum chunk size")
	flags.IntVar(&summariseOverlap, "overlap", -1, "Chunk overlap")
	flags.IntVarP(&summariseConcurrency, "concurrency", "c", 0, "Concurrent documents")
	flags.IntVar(&summariseFanOut, "fan-out", 0, "Concurrent provider calls per document")
	flags.IntVar(&summariseTimeout, "timeout", 0, "Per-call timeout in seconds")
	flags.IntVar(&summariseReduceTarget, "reduce-target", 0, "Reduce target size in estimated tokens")
	flags.StringVarP(&summariseFormat, "format", "f", "", "Output format (text, markdown, json)")
	flags.StringVarP(&summariseOutputDir, "output", "o", "", "Output directory")
	flags.BoolVar(&summariseKeepChunks, "keep-chunk-summaries", false, "Retain per-chunk summaries in the output")
	flags.BoolVar(&summariseDryRun, "dry-run", false, "Show the chunking plan without calling the provider")

	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if parsers == nil {
		return errors.New("parser registry not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	applySummariseFlags(cmd, &settings)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := progressSink()
	docs, err := collectDocuments(ctx, cmd, sink, args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No supported documents found.")
		return nil
	}

	if summariseDryRun {
		return printPlan(cmd, docs, settings)
	}

	return processDocuments(ctx, cmd, sink, docs, settings, summariseKeepChunks)
}

// applySummariseFlags overrides stored settings with flags the user
// set explicitly.
func applySummariseFlags(cmd *cobra.Command, s *domain.Settings) {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		s.Provider = domain.AIProvider(summariseProvider)
	}
	if flags.Changed("model") {
		s.Model = summariseModel
	}
	if flags.Changed("strategy") {
		s.Strategy = domain.ChunkStrategy(summariseStrategy)
	}
	if flags.Changed("chunk-size") {
		s.ChunkSize = summariseChunkSize
	}
	if flags.Changed("overlap") {
		s.Overlap = summariseOverlap
	}
	if flags.Changed("concurrency") {
		s.Concurrency = summariseConcurrency
	}
	if flags.Changed("fan-out") {
		s.FanOut = summariseFanOut
	}
	if flags.Changed("timeout") {
		s.CallTimeoutSeconds = summariseTimeout
	}
	if flags.Changed("reduce-target") {
		s.ReduceTargetSize = summariseReduceTarget
	}
	if flags.Changed("format") {
		s.OutputFormat = domain.OutputFormat(summariseFormat)
	}
	if flags.Changed("output") {
		s.OutputDir = summariseOutputDir
	}
}

// collectDocuments parses every named file and every supported file
// found under named directories, reporting each parsed document to the
// progress sink. A parse failure for an explicitly named file is
// fatal; failures during a directory scan are reported and skipped.
func collectDocuments(ctx context.Context, cmd *cobra.Command, sink driven.ProgressSink, paths []string) ([]domain.Document, error) {
	var docs []domain.Document
	parsed := func(doc *domain.Document) {
		docs = append(docs, *doc)
		if sink != nil {
			sink.Update(doc.ID, domain.PhaseParsing, 1)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", p, err)
		}

		if !info.IsDir() {
			pr, err := parsers.For(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			doc, err := pr.Extract(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", p, err)
			}
			parsed(doc)
			continue
		}

		root := p
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && isHidden(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isHidden(d.Name()) {
				return nil
			}
			pr, err := parsers.For(path)
			if err != nil {
				return nil
			}
			doc, err := pr.Extract(ctx, path)
			if err != nil {
				cmd.Printf("Skipping %s: %v\n", path, err)
				return nil
			}
			parsed(doc)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// processDocuments runs the batch pipeline and reports the outcome.
// Shared by the summarise command and watch mode.
func processDocuments(ctx context.Context, cmd *cobra.Command, sink driven.ProgressSink, docs []domain.Document, settings domain.Settings, keepChunks bool) error {
	serialiser, err := filestore.ForFormat(settings.OutputFormat)
	if err != nil {
		return fmt.Errorf("output format: %w", err)
	}
	outDir := settings.OutputDir
	if outDir == "" {
		outDir = defaultOutputDir
	}
	store, err := filestore.New(outDir, serialiser)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	provider, err := newProvider(ctx, settings)
	if err != nil {
		return err
	}
	defer provider.Close() //nolint:errcheck // Best-effort shutdown

	orch := newOrchestrator(provider, store, historyStore, sink)

	// Relay Ctrl-C to cooperative cancellation. Cancel is idempotent,
	// so firing after the batch finished is harmless.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			orch.Cancel()
		case <-done:
		}
	}()

	cmd.Printf("Summarising %d document(s) with %s...\n", len(docs), provider.ModelName())

	result, err := orch.Process(ctx, docs, batchOptions(settings, keepChunks))
	reportBatch(cmd, result, outDir)
	if result.Status == domain.BatchAborted {
		return err
	}
	return nil
}

func batchOptions(s domain.Settings, keepChunks bool) domain.BatchOptions {
	return domain.BatchOptions{
		Strategy:           s.Strategy,
		ChunkSize:          s.ChunkSize,
		Overlap:            s.Overlap,
		Concurrency:        s.Concurrency,
		FanOut:             s.FanOut,
		CallTimeout:        time.Duration(s.CallTimeoutSeconds) * time.Second,
		ReduceTargetSize:   s.ReduceTargetSize,
		KeepChunkSummaries: keepChunks,
	}
}

// progressSink is a hook so tests can observe progress updates.
var progressSink = func() driven.ProgressSink {
	return driven.ProgressFunc(func(documentID string, phase domain.Phase, fraction float64) {
		logger.Debug("document %s: %s %3.0f%%", documentID, phase, fraction*100)
	})
}

func reportBatch(cmd *cobra.Command, result *domain.BatchResult, outDir string) {
	if result == nil {
		return
	}

	results := make([]*domain.DocumentSummaryResult, 0, len(result.Documents))
	for _, res := range result.Documents {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].DocumentName < results[j].DocumentName
	})

	cmd.Println()
	for _, res := range results {
		cmd.Printf("  %-32s %-16s %s\n",
			res.DocumentName, res.Status, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			cmd.Printf("    %v\n", res.Err)
		}
	}

	complete, partial, failed := result.Counts()
	cmd.Printf("\n%d complete, %d partial, %d failed. Output in %s\n",
		complete, partial, failed, outDir)

	switch result.Status {
	case domain.BatchCancelled:
		cmd.Println("Batch cancelled.")
	case domain.BatchAborted:
		cmd.Printf("Batch aborted: %v\n", result.Err)
	}
}

// printPlan shows what a run would do without calling the provider.
func printPlan(cmd *cobra.Command, docs []domain.Document, settings domain.Settings) error {
	ck, err := chunker.New(chunker.Config{
		Strategy: settings.Strategy,
		MaxSize:  settings.ChunkSize,
		Overlap:  settings.Overlap,
	})
	if err != nil {
		return fmt.Errorf("invalid chunking options: %w", err)
	}

	cmd.Printf("Provider: %s", settings.Provider)
	if settings.Model != "" {
		cmd.Printf(" (%s)", settings.Model)
	}
	cmd.Printf("\nStrategy: %s, chunk size %d, overlap %d\n\n",
		settings.Strategy, settings.ChunkSize, settings.Overlap)

	total := 0
	for _, doc := range docs {
		n := len(ck.Split(doc.Content))
		total += n
		cmd.Printf("  %-32s %8d bytes  %4d chunk(s)\n", doc.Name, doc.Size, n)
	}
	cmd.Printf("\n%d document(s), %d chunk summarisation call(s), plus reduce rounds as needed.\n",
		len(docs), total)
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
