// Package file persists summary results to the local filesystem.
//
// Writes are crash-safe: content goes to a temporary file in the
// target directory and is renamed into place, so a reader never
// observes a half-written result.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/briefly-cli/internal/core/domain"
	"github.com/custodia-labs/briefly-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ResultStore = (*Store)(nil)

// Store writes one file per document summary into a fixed directory.
type Store struct {
	dir        string
	serialiser driven.Serialiser
}

// New creates a result store rooted at dir, creating it if needed.
// An uncreatable directory is an environment failure: no batch can
// persist anything.
func New(dir string, serialiser driven.Serialiser) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: output directory not set", domain.ErrOutputUnavailable)
	}
	if serialiser == nil {
		return nil, fmt.Errorf("%w: no serialiser configured", domain.ErrOutputUnavailable)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", domain.ErrOutputUnavailable, dir, err)
	}
	return &Store{dir: dir, serialiser: serialiser}, nil
}

// Persist writes the result and returns the stored path. An existing
// file with the same name is never overwritten; the new file gets a
// timestamp suffix instead.
func (s *Store) Persist(ctx context.Context, result *domain.DocumentSummaryResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := s.serialiser.Serialise(result)
	if err != nil {
		return "", fmt.Errorf("serialise %s: %w", result.DocumentName, err)
	}

	dest := s.targetPath(result.DocumentName)
	if err := s.writeAtomic(dest, data); err != nil {
		return "", err
	}
	return dest, nil
}

// targetPath derives a collision-free output path from the source
// document name.
func (s *Store) targetPath(docName string) string {
	stem := strings.TrimSuffix(docName, filepath.Ext(docName))
	if stem == "" {
		stem = "summary"
	}
	ext := s.serialiser.Extension()

	dest := filepath.Join(s.dir, stem+ext)
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	dest = filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
	for n := 1; ; n++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
		dest = filepath.Join(s.dir, fmt.Sprintf("%s_%s_%d%s", stem, stamp, n, ext))
	}
}

// writeAtomic writes to a temporary file in the target directory and
// renames it into place. A vanished or unwritable directory is an
// environment failure for the whole batch.
func (s *Store) writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".briefly-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", domain.ErrOutputUnavailable, s.dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %w", domain.ErrOutputUnavailable, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename to %s: %w", domain.ErrOutputUnavailable, dest, err)
	}
	return nil
}
