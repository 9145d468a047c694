package domain

// DocumentFormat identifies the detected source format of a document.
type DocumentFormat string

// Supported document formats.
const (
	// FormatPlainText is unstructured plain text.
	FormatPlainText DocumentFormat = "text"

	// FormatMarkdown is Markdown text.
	FormatMarkdown DocumentFormat = "markdown"

	// FormatUnknown is used when the format could not be detected.
	// Unknown documents are treated as plain text.
	FormatUnknown DocumentFormat = "unknown"
)

// String returns the string representation.
func (f DocumentFormat) String() string {
	return string(f)
}

// Document represents a parsed document ready for summarisation.
// It is produced by a Parser adapter and consumed read-only by the
// chunker and the summarisation engine.
type Document struct {
	// ID is the unique identifier for the document within a batch.
	ID string

	// Path is the original source location (file path).
	Path string

	// Name is the human-readable name, usually the base file name.
	Name string

	// Size is the source size in bytes.
	Size int64

	// Format is the detected source format.
	Format DocumentFormat

	// Content is the full extracted text. It is immutable once parsed.
	Content string
}

// Chunk is a bounded contiguous segment of a document's text.
// Chunks for a document, sorted by Index, cover the full text exactly
// once except for declared overlaps.
type Chunk struct {
	// Index is the ordinal position within the document.
	Index int

	// Start is the byte offset of the chunk in the original text,
	// including the overlap prefix.
	Start int

	// End is the byte offset one past the last byte of the chunk.
	End int

	// Text is the chunk content, overlap prefix included.
	Text string

	// Overlap is the number of leading bytes shared with the tail of
	// the previous chunk. Always zero for the first chunk and always
	// strictly less than the chunk length.
	Overlap int
}

// ChunkSummary is the summary of a single chunk, produced by one
// provider call. Immutable once produced.
type ChunkSummary struct {
	// Index is the index of the chunk this summarises.
	Index int

	// Text is the summary text.
	Text string

	// Tokens is the estimated token count of Text.
	Tokens int
}
