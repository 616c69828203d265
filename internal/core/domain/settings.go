package domain

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGroq:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGroq
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGroq:
		return "Groq (cloud, OpenAI-compatible)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// RequestsPerMinute throttles extraction calls. Zero disables throttling.
	RequestsPerMinute int

	// MaxRetries is the number of retries on transient LLM failures.
	MaxRetries int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PipelineSettings holds chunking configuration.
type PipelineSettings struct {
	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int

	// Overlap is the number of bytes repeated at the start of the next chunk.
	Overlap int
}

// IngestSettings holds batch ingest configuration.
type IngestSettings struct {
	// Concurrency bounds how many documents are processed at once.
	Concurrency int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Pipeline holds chunking settings.
	Pipeline PipelineSettings

	// Ingest holds batch ingest settings.
	Ingest IngestSettings

	// DataDir is where the document database lives. Empty means ~/.brdify.
	DataDir string
}

// Defaults for settings that are not configured.
const (
	DefaultChunkSize         = 12000
	DefaultOverlap           = 0
	DefaultRequestsPerMinute = 30
	DefaultMaxRetries        = 3
	DefaultIngestConcurrency = 2
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; users set it with `brdify config set`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			RequestsPerMinute: DefaultRequestsPerMinute,
			MaxRetries:        DefaultMaxRetries,
		},
		Pipeline: PipelineSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultOverlap,
		},
		Ingest: IngestSettings{
			Concurrency: DefaultIngestConcurrency,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGroq,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGroq:      "llama-3.3-70b-versatile",
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration:
// clean the text, then chunk it.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"cleaner", "chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultChunkSize,
				"overlap":    DefaultOverlap,
			},
		},
	}
}

// PipelineConfigFor builds a pipeline configuration from user settings.
func PipelineConfigFor(s PipelineSettings) PipelineConfig {
	cfg := DefaultPipelineConfig()
	if s.ChunkSize > 0 {
		cfg.ProcessorConfigs["chunker"]["chunk_size"] = s.ChunkSize
	}
	if s.Overlap >= 0 {
		cfg.ProcessorConfigs["chunker"]["overlap"] = s.Overlap
	}
	return cfg
}
