package domain

const unknownDescription = "Unknown"

// ChunkStrategy selects how document text is split into chunks.
type ChunkStrategy string

// Available chunking strategies.
const (
	// StrategySentence accumulates whole sentences up to the size
	// bound; never splits mid-sentence.
	StrategySentence ChunkStrategy = "sentence"

	// StrategyParagraph accumulates whole paragraphs, falling back to
	// sentence splitting for a single oversized paragraph.
	StrategyParagraph ChunkStrategy = "paragraph"

	// StrategyFixed splits at raw byte offsets. The fallback for
	// unstructured text.
	StrategyFixed ChunkStrategy = "fixed"

	// StrategyToken bounds chunks by estimated token count instead of
	// raw length.
	StrategyToken ChunkStrategy = "token"
)

// IsValid returns true if the strategy is recognised.
func (s ChunkStrategy) IsValid() bool {
	switch s {
	case StrategySentence, StrategyParagraph, StrategyFixed, StrategyToken:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ChunkStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ChunkStrategy) Description() string {
	switch s {
	case StrategySentence:
		return "Sentence (whole sentences up to the size bound)"
	case StrategyParagraph:
		return "Paragraph (whole paragraphs, sentence fallback)"
	case StrategyFixed:
		return "Fixed (raw character offsets)"
	case StrategyToken:
		return "Token (estimated token budget)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies a language model provider.
type AIProvider string

// Available providers. The set is closed: a provider is resolved once
// at batch start, never re-dispatched per call.
const (
	// ProviderOllama is a local Ollama instance.
	ProviderOllama AIProvider = "ollama"

	// ProviderOpenAI is the OpenAI cloud API, or any server speaking
	// the OpenAI-compatible protocol via a custom base URL.
	ProviderOpenAI AIProvider = "openai"

	// ProviderAnthropic is the Anthropic cloud API.
	ProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// OutputFormat selects the persisted result serialisation.
type OutputFormat string

// Available output formats.
const (
	// OutputText is plain text.
	OutputText OutputFormat = "text"

	// OutputMarkdown is Markdown with a key-point list.
	OutputMarkdown OutputFormat = "markdown"

	// OutputJSON is a structured record with summary, ordered key
	// points, generation timestamp and source identity.
	OutputJSON OutputFormat = "json"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputText, OutputMarkdown, OutputJSON:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format.
func (f OutputFormat) Extension() string {
	switch f {
	case OutputMarkdown:
		return ".md"
	case OutputJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// Phase identifies a stage of the per-document pipeline, reported to
// progress sinks. Purely observational: no control flow depends on it.
type Phase string

// Pipeline phases in order.
const (
	PhaseParsing     Phase = "parsing"
	PhaseChunking    Phase = "chunking"
	PhaseSummarising Phase = "summarising"
	PhaseReducing    Phase = "reducing"
	PhaseDone        Phase = "done"
)

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// Settings holds the user-facing configuration for Briefly.
// Persisted via the config store; API keys come from the environment,
// never from the config file.
type Settings struct {
	// Provider selects the language model provider.
	Provider AIProvider

	// Model is the model name; empty selects the adapter default.
	Model string

	// BaseURL overrides the provider endpoint (OpenAI-compatible
	// servers, self-hosted Ollama).
	BaseURL string

	// Strategy is the default chunking strategy.
	Strategy ChunkStrategy

	// ChunkSize is the default chunk size bound.
	ChunkSize int

	// Overlap is the default chunk overlap.
	Overlap int

	// Concurrency is the default document worker pool size.
	Concurrency int

	// FanOut is the default per-document provider call fan-out.
	FanOut int

	// ReduceTargetSize is the default reduce target in estimated tokens.
	ReduceTargetSize int

	// CallTimeoutSeconds bounds each provider call.
	CallTimeoutSeconds int

	// RequestsPerSecond rate-limits provider calls. Zero disables.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// OutputDir is where summaries are written.
	OutputDir string

	// OutputFormat selects the persisted serialisation.
	OutputFormat OutputFormat
}

// DefaultSettings returns settings with conservative defaults:
// a local provider, sentence chunking and Markdown output.
func DefaultSettings() Settings {
	return Settings{
		Provider:           ProviderOllama,
		Strategy:           StrategySentence,
		ChunkSize:          DefaultChunkSize,
		Overlap:            DefaultChunkOverlap,
		Concurrency:        DefaultConcurrency,
		FanOut:             DefaultFanOut,
		ReduceTargetSize:   DefaultReduceTargetSize,
		CallTimeoutSeconds: int(DefaultCallTimeout.Seconds()),
		RequestsPerSecond:  5.0,
		Burst:              10,
		OutputFormat:       OutputMarkdown,
	}
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if !s.Provider.IsValid() {
		return ErrUnsupportedType
	}
	if !s.Strategy.IsValid() {
		return ErrUnsupportedType
	}
	if !s.OutputFormat.IsValid() {
		return ErrUnsupportedType
	}
	if s.ChunkSize <= 0 || s.Overlap < 0 || s.Overlap >= s.ChunkSize {
		return ErrInvalidInput
	}
	if s.Concurrency <= 0 || s.FanOut <= 0 || s.ReduceTargetSize <= 0 {
		return ErrInvalidInput
	}
	return nil
}
