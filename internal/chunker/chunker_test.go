package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

func mustNew(t *testing.T, cfg Config) *Chunker {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

// reconstruct concatenates chunks while removing declared overlaps.
func reconstruct(chunks []domain.Chunk) string {
	var b strings.Builder
	for _, ch := range chunks {
		b.WriteString(ch.Text[ch.Overlap:])
	}
	return b.String()
}

// checkInvariants verifies coverage, ordering and the overlap
// tail-identity for any chunk sequence.
func checkInvariants(t *testing.T, text string, chunks []domain.Chunk) {
	t.Helper()

	if got := reconstruct(chunks); got != text {
		t.Errorf("reconstruction mismatch: got %d bytes, want %d", len(got), len(text))
	}

	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
		if ch.Text != text[ch.Start:ch.End] {
			t.Errorf("chunk %d text does not match its offsets", i)
		}
		if ch.Overlap >= len(ch.Text) {
			t.Errorf("chunk %d overlap %d not below chunk length %d", i, ch.Overlap, len(ch.Text))
		}
		if i == 0 {
			if ch.Overlap != 0 {
				t.Errorf("first chunk has overlap %d", ch.Overlap)
			}
			continue
		}
		prev := chunks[i-1]
		if ch.Overlap > 0 {
			prefix := ch.Text[:ch.Overlap]
			suffix := prev.Text[len(prev.Text)-ch.Overlap:]
			if prefix != suffix {
				t.Errorf("chunk %d overlap prefix differs from previous chunk tail", i)
			}
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero max size", Config{Strategy: domain.StrategyFixed, MaxSize: 0}},
		{"negative max size", Config{Strategy: domain.StrategyFixed, MaxSize: -5}},
		{"overlap equals max size", Config{Strategy: domain.StrategyFixed, MaxSize: 100, Overlap: 100}},
		{"overlap above max size", Config{Strategy: domain.StrategySentence, MaxSize: 100, Overlap: 150}},
		{"negative overlap", Config{Strategy: domain.StrategySentence, MaxSize: 100, Overlap: -1}},
		{"unknown strategy", Config{Strategy: "semantic", MaxSize: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			kind, ok := domain.KindOf(err)
			if !ok || kind != domain.ErrorChunking {
				t.Errorf("expected chunking error, got %v", err)
			}
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	for _, s := range []domain.ChunkStrategy{domain.StrategySentence, domain.StrategyParagraph, domain.StrategyFixed, domain.StrategyToken} {
		c := mustNew(t, Config{Strategy: s, MaxSize: 100, Overlap: 10})
		if chunks := c.Split(""); len(chunks) != 0 {
			t.Errorf("%s: expected 0 chunks for empty text, got %d", s, len(chunks))
		}
	}
}

func TestSplit_ShortText(t *testing.T) {
	text := "One short sentence. And another one."
	for _, s := range []domain.ChunkStrategy{domain.StrategySentence, domain.StrategyParagraph, domain.StrategyFixed} {
		c := mustNew(t, Config{Strategy: s, MaxSize: 1000, Overlap: 100})
		chunks := c.Split(text)
		if len(chunks) != 1 {
			t.Fatalf("%s: expected 1 chunk, got %d", s, len(chunks))
		}
		if chunks[0].Text != text {
			t.Errorf("%s: single chunk should be the whole text", s)
		}
		if chunks[0].Overlap != 0 {
			t.Errorf("%s: single chunk should have no overlap", s)
		}
	}
}

func TestSplit_Fixed(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100) // 1000 bytes
	c := mustNew(t, Config{Strategy: domain.StrategyFixed, MaxSize: 300, Overlap: 50})

	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	// 1000 bytes at a 250-byte stride: 4 chunks.
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks[:3] {
		if len(ch.Text) != 300 {
			t.Errorf("chunk %d: expected 300 bytes, got %d", i, len(ch.Text))
		}
	}
}

func TestSplit_Sentence_NeverSplitsMidSentence(t *testing.T) {
	var sentences []string
	for i := 0; i < 30; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %02d is here. ", i))
	}
	text := strings.Join(sentences, "")

	c := mustNew(t, Config{Strategy: domain.StrategySentence, MaxSize: 120, Overlap: 0})
	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	for i, ch := range chunks {
		trimmed := strings.TrimRight(ch.Text, " ")
		if !strings.HasSuffix(trimmed, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", i, ch.Text)
		}
	}
}

func TestSplit_Sentence_OversizedSentenceEmittedWhole(t *testing.T) {
	huge := "word " + strings.Repeat("x", 500) + " end. "
	text := "Short intro. " + huge + "Short outro."

	c := mustNew(t, Config{Strategy: domain.StrategySentence, MaxSize: 100, Overlap: 10})
	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	found := false
	for _, ch := range chunks {
		if len(ch.Text) > 100 {
			found = true
		}
	}
	if !found {
		t.Error("expected the oversized sentence to be emitted as an oversized chunk")
	}
}

func TestSplit_Paragraph(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph follows on.\n\nThird one closes the file.\n"
	c := mustNew(t, Config{Strategy: domain.StrategyParagraph, MaxSize: 60, Overlap: 0})

	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
}

func TestSplit_Paragraph_OversizedFallsBackToSentences(t *testing.T) {
	// One paragraph, many sentences, larger than the bound.
	var sentences []string
	for i := 0; i < 20; i++ {
		sentences = append(sentences, fmt.Sprintf("Inner sentence %02d goes on. ", i))
	}
	text := strings.Join(sentences, "")

	c := mustNew(t, Config{Strategy: domain.StrategyParagraph, MaxSize: 150, Overlap: 0})
	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	if len(chunks) < 3 {
		t.Fatalf("oversized paragraph should split at sentence boundaries, got %d chunks", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch.Text) > 150 {
			t.Errorf("chunk %d exceeds the bound after sentence fallback: %d bytes", i, len(ch.Text))
		}
	}
}

func TestSplit_Token(t *testing.T) {
	var sentences []string
	for i := 0; i < 40; i++ {
		sentences = append(sentences, fmt.Sprintf("Token budget test sentence %02d with several words. ", i))
	}
	text := strings.Join(sentences, "")

	c := mustNew(t, Config{Strategy: domain.StrategyToken, MaxSize: 100, Overlap: 10})
	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		// Allow one oversized trailing sentence over the budget.
		if got := EstimateTokens(ch.Text); got > 100+EstimateTokens(sentences[0]) {
			t.Errorf("chunk %d far exceeds the token budget: %d", i, got)
		}
	}
}

func TestSplit_Idempotent(t *testing.T) {
	var sentences []string
	for i := 0; i < 50; i++ {
		sentences = append(sentences, fmt.Sprintf("Deterministic sentence %02d for the repeat run. ", i))
	}
	text := strings.Join(sentences, "")

	c := mustNew(t, Config{Strategy: domain.StrategySentence, MaxSize: 300, Overlap: 40})
	first := c.Split(text)
	second := c.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

// TestSplit_TenThousandCharacterDocument covers the reference scenario:
// a 10,000-character document with maxSize=2000 and overlap=200 under
// the sentence strategy splits into 5-6 chunks of roughly 1800-2000
// characters of fresh content each.
func TestSplit_TenThousandCharacterDocument(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 10000; i++ {
		fmt.Fprintf(&b, "This is meeting note sentence number %04d with enough padding words to reach length. ", i)
	}
	text := b.String()[:10000]

	c := mustNew(t, Config{Strategy: domain.StrategySentence, MaxSize: 2000, Overlap: 200})
	chunks := c.Split(text)
	checkInvariants(t, text, chunks)

	if len(chunks) < 5 || len(chunks) > 6 {
		t.Fatalf("expected 5-6 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks[:len(chunks)-1] {
		if len(ch.Text) < 1600 || len(ch.Text) > 2000 {
			t.Errorf("chunk %d: unexpected size %d", i, len(ch.Text))
		}
	}
	for i, ch := range chunks[1:] {
		if ch.Overlap != 200 {
			t.Errorf("chunk %d: expected 200-byte overlap, got %d", i+1, ch.Overlap)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text: expected 0 tokens, got %d", got)
	}
	if got := EstimateTokens("hi"); got != 1 {
		t.Errorf("tiny text: expected minimum of 1 token, got %d", got)
	}
	short := EstimateTokens("A short sentence.")
	long := EstimateTokens(strings.Repeat("A much longer body of text. ", 50))
	if long <= short {
		t.Errorf("estimate not monotonic: %d <= %d", long, short)
	}
}
