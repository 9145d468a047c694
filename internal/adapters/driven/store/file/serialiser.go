package file

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure serialisers implement the interface.
var (
	_ driven.Serialiser = (*TextSerialiser)(nil)
	_ driven.Serialiser = (*MarkdownSerialiser)(nil)
	_ driven.Serialiser = (*JSONSerialiser)(nil)
)

// ForFormat returns the serialiser for an output format.
func ForFormat(format domain.OutputFormat) (driven.Serialiser, error) {
	switch format {
	case domain.OutputText:
		return &TextSerialiser{}, nil
	case domain.OutputMarkdown:
		return &MarkdownSerialiser{}, nil
	case domain.OutputJSON:
		return &JSONSerialiser{}, nil
	default:
		return nil, fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, format)
	}
}

// TextSerialiser renders a plain text report.
type TextSerialiser struct{}

// Serialise renders the result.
func (s *TextSerialiser) Serialise(result *domain.DocumentSummaryResult) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %s\n", result.DocumentName)
	fmt.Fprintf(&b, "Generated: %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Status: %s\n\n", result.Status)
	b.WriteString(result.Summary)
	b.WriteString("\n")

	if len(result.FailedChunks) > 0 {
		fmt.Fprintf(&b, "\nNote: %d section(s) could not be summarised.\n", len(result.FailedChunks))
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension.
func (s *TextSerialiser) Extension() string { return ".txt" }

// MarkdownSerialiser renders a Markdown report with a key points
// section.
type MarkdownSerialiser struct{}

// Serialise renders the result.
func (s *MarkdownSerialiser) Serialise(result *domain.DocumentSummaryResult) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary: %s\n\n", result.DocumentName)
	fmt.Fprintf(&b, "- Source: `%s`\n", result.SourcePath)
	fmt.Fprintf(&b, "- Generated: %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Status: %s\n\n", result.Status)

	b.WriteString(result.Summary)
	b.WriteString("\n")

	if len(result.KeyPoints) > 0 {
		b.WriteString("\n## Key points\n\n")
		for _, p := range result.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if len(result.FailedChunks) > 0 {
		fmt.Fprintf(&b, "\n> %d section(s) could not be summarised.\n", len(result.FailedChunks))
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension.
func (s *MarkdownSerialiser) Extension() string { return ".md" }

// JSONSerialiser renders the full result for machine consumption.
type JSONSerialiser struct{}

// jsonResult is the stable output schema; the domain struct is not
// serialised directly so internal renames never break consumers.
type jsonResult struct {
	Document    string    `json:"document"`
	SourcePath  string    `json:"source_path"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"key_points,omitempty"`
	ReduceDepth int       `json:"reduce_depth"`
	FailedParts []int     `json:"failed_chunks,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Serialise renders the result.
func (s *JSONSerialiser) Serialise(result *domain.DocumentSummaryResult) ([]byte, error) {
	out := jsonResult{
		Document:    result.DocumentName,
		SourcePath:  result.SourcePath,
		Status:      string(result.Status),
		Summary:     result.Summary,
		KeyPoints:   result.KeyPoints,
		ReduceDepth: result.ReduceDepth,
		FailedParts: result.FailedChunks,
		DurationMS:  result.Duration.Milliseconds(),
		GeneratedAt: result.GeneratedAt,
	}
	return json.MarshalIndent(out, "", "  ")
}

// Extension returns the file extension.
func (s *JSONSerialiser) Extension() string { return ".json" }
