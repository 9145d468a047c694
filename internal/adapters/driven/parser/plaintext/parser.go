// Package plaintext provides a parser for plain text documents.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles plain text documents.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".txt", ".text", ".log", ".eml"}
}

// Extract reads the file content as-is.
func (p *Parser) Extract(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewParseError("", fmt.Sprintf("read %s", path), err)
	}

	return &domain.Document{
		ID:      uuid.New().String(),
		Path:    path,
		Name:    filepath.Base(path),
		Size:    int64(len(content)),
		Format:  domain.FormatPlainText,
		Content: string(content),
	}, nil
}
