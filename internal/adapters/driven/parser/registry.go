// Package parser resolves file paths to format-specific text
// extractors.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/briefly-cli/internal/adapters/driven/parser/markdown"
	"github.com/custodia-labs/briefly-cli/internal/adapters/driven/parser/plaintext"
	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps file extensions to parsers. Not safe for concurrent
// registration; register everything at startup.
type Registry struct {
	byExt map[string]driven.Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.Parser)}
}

// Default creates a registry with the built-in parsers registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	return r
}

// Register adds a parser for its declared extensions. A later
// registration for the same extension wins.
func (r *Registry) Register(p driven.Parser) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// For returns the parser for the path's extension.
func (r *Registry) For(path string) (driven.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	return p, nil
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
