package driven

import (
	"context"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
)

// Parser extracts plain text from a source file. Format-specific
// extraction is a collaborator concern: the core only consumes the
// already-extracted text. A parsing failure surfaces to the batch as a
// parse error for that document only.
type Parser interface {
	// Extensions returns the file extensions this parser handles,
	// lower-case with leading dot (".txt", ".md").
	Extensions() []string

	// Extract reads the file and returns a parsed document with
	// Content populated.
	Extract(ctx context.Context, path string) (*domain.Document, error)
}

// ParserRegistry resolves a parser for a given path.
type ParserRegistry interface {
	// For returns the parser for the path's extension.
	// Returns domain.ErrUnsupportedFormat when none is registered.
	For(path string) (Parser, error)

	// Register adds a parser for its declared extensions.
	Register(p Parser)
}
