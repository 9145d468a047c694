package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a processing failure.
type ErrorKind string

// Processing error kinds.
const (
	// ErrorParse is a collaborator-reported extraction failure.
	// Fatal for the affected document only.
	ErrorParse ErrorKind = "parse"

	// ErrorChunking is an invalid chunking configuration. Detected
	// before any worker starts and fatal for the whole batch.
	ErrorChunking ErrorKind = "chunking"

	// ErrorProvider is a language model call failure. Transient
	// provider errors are retried; permanent ones are chunk-fatal.
	ErrorProvider ErrorKind = "provider"

	// ErrorStorage is a persistence failure. Fatal for the document
	// unless classified as environment-fatal.
	ErrorStorage ErrorKind = "storage"

	// ErrorCancelled marks work stopped by cooperative cancellation.
	// A terminal condition rather than a fault.
	ErrorCancelled ErrorKind = "cancelled"
)

// NoChunk is the ChunkIndex value for errors not scoped to a chunk.
const NoChunk = -1

// ProcessingError is a classified pipeline failure. It records what
// kind of failure occurred, which document or chunk it relates to, and
// whether retrying could help.
type ProcessingError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// DocumentID is the affected document, empty for batch-level errors.
	DocumentID string

	// ChunkIndex is the affected chunk, NoChunk when not chunk-scoped.
	ChunkIndex int

	// Message is a human-readable description.
	Message string

	// Retryable reports whether the operation may succeed if retried.
	Retryable bool

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.DocumentID != "" {
		msg = fmt.Sprintf("%s (document %s)", msg, e.DocumentID)
	}
	if e.ChunkIndex != NoChunk {
		msg = fmt.Sprintf("%s (chunk %d)", msg, e.ChunkIndex)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a document-fatal extraction error.
func NewParseError(documentID, message string, cause error) *ProcessingError {
	return &ProcessingError{
		Kind:       ErrorParse,
		DocumentID: documentID,
		ChunkIndex: NoChunk,
		Message:    message,
		Cause:      cause,
	}
}

// NewChunkingError creates a configuration error for invalid chunk
// parameters. Never retryable.
func NewChunkingError(message string, cause error) *ProcessingError {
	return &ProcessingError{
		Kind:       ErrorChunking,
		ChunkIndex: NoChunk,
		Message:    message,
		Cause:      cause,
	}
}

// NewProviderError creates a provider call error. Retryable marks
// transient failures (timeouts, rate limits, 5xx responses).
func NewProviderError(documentID string, chunkIndex int, message string, retryable bool, cause error) *ProcessingError {
	return &ProcessingError{
		Kind:       ErrorProvider,
		DocumentID: documentID,
		ChunkIndex: chunkIndex,
		Message:    message,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// NewStorageError creates a persistence error.
func NewStorageError(documentID, message string, cause error) *ProcessingError {
	return &ProcessingError{
		Kind:       ErrorStorage,
		DocumentID: documentID,
		ChunkIndex: NoChunk,
		Message:    message,
		Cause:      cause,
	}
}

// NewCancelledError marks work stopped by cancellation.
func NewCancelledError(documentID string) *ProcessingError {
	return &ProcessingError{
		Kind:       ErrorCancelled,
		DocumentID: documentID,
		ChunkIndex: NoChunk,
		Message:    "processing cancelled",
	}
}

// KindOf returns the ErrorKind of err if it is (or wraps) a
// ProcessingError, and a boolean indicating success.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsRetryable reports whether err is a retryable ProcessingError.
// Errors of unknown shape are not retried.
func IsRetryable(err error) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
