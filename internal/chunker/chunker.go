// Package chunker splits document text into an ordered sequence of
// bounded, optionally overlapping chunks.
//
// Four strategies are supported: sentence and paragraph splitting
// (which never break a semantic unit), fixed byte-offset splitting,
// and token-budget splitting backed by a local token estimator.
// Chunks always cover the full text exactly once except for declared
// overlaps, so concatenating them while dropping each chunk's overlap
// prefix reconstructs the original text byte for byte.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

// Config holds chunking parameters.
type Config struct {
	// Strategy selects how boundaries are chosen.
	Strategy domain.ChunkStrategy

	// MaxSize is the upper bound on chunk size in the strategy's
	// unit: bytes for sentence, paragraph and fixed, estimated tokens
	// for token. Must be positive.
	MaxSize int

	// Overlap is the amount of trailing content of chunk N repeated
	// at the start of chunk N+1, in the strategy's unit. Must be
	// non-negative and strictly less than MaxSize.
	Overlap int
}

// Chunker splits text according to a validated configuration.
// Safe for concurrent use: it holds no mutable state.
type Chunker struct {
	cfg Config
}

// New validates the configuration and creates a chunker.
// Invalid parameters are the only failure mode of this package;
// Split never fails on the input text itself.
func New(cfg Config) (*Chunker, error) {
	if !cfg.Strategy.IsValid() {
		return nil, domain.NewChunkingError(fmt.Sprintf("unknown strategy %q", cfg.Strategy), nil)
	}
	if cfg.MaxSize <= 0 {
		return nil, domain.NewChunkingError(fmt.Sprintf("max size must be positive, got %d", cfg.MaxSize), nil)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.MaxSize {
		return nil, domain.NewChunkingError(fmt.Sprintf("overlap %d must be non-negative and less than max size %d", cfg.Overlap, cfg.MaxSize), nil)
	}
	return &Chunker{cfg: cfg}, nil
}

// Config returns the chunker's configuration.
func (c *Chunker) Config() Config {
	return c.cfg
}

// Split splits text into ordered chunks. Empty text yields no chunks;
// text within the size bound yields exactly one chunk with no overlap.
// A single semantic unit longer than the bound is emitted as its own
// oversized chunk rather than truncated - callers must tolerate this.
func (c *Chunker) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	switch c.cfg.Strategy {
	case domain.StrategyFixed:
		return c.splitFixed(text)
	case domain.StrategySentence:
		return c.group(text, splitSentences(text), byteCost, c.cfg.MaxSize, c.cfg.Overlap)
	case domain.StrategyParagraph:
		return c.group(text, c.paragraphUnits(text), byteCost, c.cfg.MaxSize, c.cfg.Overlap)
	case domain.StrategyToken:
		// Budget is in estimated tokens; the overlap is converted to
		// bytes with the estimator's density so it stays an exact
		// substring of the previous chunk's tail.
		return c.group(text, splitSentences(text), tokenCost, c.cfg.MaxSize, c.cfg.Overlap*bytesPerToken)
	default:
		// Unreachable: New rejects unknown strategies.
		return nil
	}
}

// unit is a half-open byte range of one semantic unit in the text.
type unit struct {
	start, end int
}

// costFunc measures a unit in the strategy's size unit.
type costFunc func(s string) int

func byteCost(s string) int {
	return len(s)
}

func tokenCost(s string) int {
	return EstimateTokens(s)
}

// splitFixed splits at raw byte offsets with a fixed stride.
func (c *Chunker) splitFixed(text string) []domain.Chunk {
	size, overlap := c.cfg.MaxSize, c.cfg.Overlap
	if len(text) <= size {
		return []domain.Chunk{{Index: 0, Start: 0, End: len(text), Text: text}}
	}

	stride := size - overlap
	chunks := make([]domain.Chunk, 0, len(text)/stride+1)
	newStart := 0
	for newStart < len(text) {
		start := newStart
		ov := 0
		if len(chunks) > 0 {
			ov = overlap
			start = newStart - ov
		}
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, domain.Chunk{
			Index:   len(chunks),
			Start:   start,
			End:     end,
			Text:    text[start:end],
			Overlap: ov,
		})
		newStart = end
	}
	return chunks
}

// group accumulates whole units into chunks: a chunk takes units until
// adding the next would exceed maxSize, then the next chunk starts
// with an overlap-sized tail of the previous one. overlapBytes is
// always expressed in bytes regardless of the cost unit.
func (c *Chunker) group(text string, units []unit, cost costFunc, maxSize, overlapBytes int) []domain.Chunk {
	if len(units) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	i := 0
	for i < len(units) {
		newStart := units[i].start

		// Overlap prefix: an exact tail substring of the previous
		// chunk, capped so it never swallows the whole chunk.
		ov := 0
		if len(chunks) > 0 && overlapBytes > 0 {
			prev := &chunks[len(chunks)-1]
			ov = overlapBytes
			if max := len(prev.Text) - 1; ov > max {
				ov = max
			}
		}

		// Take units while they fit alongside the overlap prefix.
		// The first unit is always taken, even when oversized.
		used := cost(text[newStart:units[i].end])
		if ov > 0 {
			used += cost(text[newStart-ov : newStart])
		}
		j := i + 1
		for j < len(units) {
			next := cost(text[units[j].start:units[j].end])
			if used+next > maxSize {
				break
			}
			used += next
			j++
		}

		start := newStart - ov
		end := units[j-1].end
		chunks = append(chunks, domain.Chunk{
			Index:   len(chunks),
			Start:   start,
			End:     end,
			Text:    text[start:end],
			Overlap: ov,
		})
		i = j
	}
	return chunks
}

// paragraphUnits returns paragraph units, splitting any single
// paragraph that exceeds the size bound into sentence units.
func (c *Chunker) paragraphUnits(text string) []unit {
	paras := splitParagraphs(text)
	units := make([]unit, 0, len(paras))
	for _, p := range paras {
		if p.end-p.start > c.cfg.MaxSize {
			for _, s := range splitSentences(text[p.start:p.end]) {
				units = append(units, unit{start: p.start + s.start, end: p.start + s.end})
			}
			continue
		}
		units = append(units, p)
	}
	return units
}
