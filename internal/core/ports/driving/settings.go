package driving

import "github.com/custodia-labs/brdify/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetPipeline configures chunking.
	SetPipeline(chunkSize, overlap int) error

	// Validate checks if current settings are usable for document creation.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// Keys returns the settable config keys.
	Keys() []string

	// GetValue returns one stored config value as text.
	GetValue(key string) (string, error)

	// SetValue parses and stores one config value.
	SetValue(key, value string) error
}
