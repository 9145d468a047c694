// Package domain defines the core business entities for Briefly.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed document ready for summarisation
//   - Chunk: A bounded contiguous segment of a document's text
//   - DocumentSummaryResult: The outcome of summarising one document
//   - BatchResult: The aggregated outcome of a batch run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
