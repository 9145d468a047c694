package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, strategy or
	// output format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrProviderUnavailable indicates the language model service is
	// not configured or unreachable.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUnsupportedFormat indicates no parser handles the document.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNotConverged indicates the reduce step hit its round bound
	// without the combined summary fitting the target size.
	ErrNotConverged = errors.New("reduction did not converge")

	// ErrOutputUnavailable indicates the output destination cannot be
	// used at all (e.g. the directory cannot be created). Storage
	// errors wrapping it are environment-fatal and abort the batch.
	ErrOutputUnavailable = errors.New("output destination unavailable")

	// ErrBatchRunning indicates a batch is already in progress.
	ErrBatchRunning = errors.New("batch already running")

	// ErrScriptExhausted indicates a scripted provider ran out of
	// queued responses.
	ErrScriptExhausted = errors.New("scripted responses exhausted")
)
