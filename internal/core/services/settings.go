package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMRequestsPerMin = "llm.requests_per_minute"
	keyLLMMaxRetries     = "llm.max_retries"
	keyChunkSize         = "pipeline.chunk_size"
	keyOverlap           = "pipeline.overlap"
	keyDataDir           = "storage.data_dir"
	keyIngestConcurrency = "ingest.concurrency"
)

// EnvLLMAPIKey overrides llm.api_key when set.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvLLMAPIKey = "BRDIFY_LLM_API_KEY"

// keyKinds lists every settable key and how its value is parsed.
var keyKinds = map[string]string{
	keyLLMProvider:       "provider",
	keyLLMModel:          "string",
	keyLLMBaseURL:        "string",
	keyLLMAPIKey:         "string",
	keyLLMRequestsPerMin: "int",
	keyLLMMaxRetries:     "int",
	keyChunkSize:         "int",
	keyOverlap:           "int",
	keyDataDir:           "string",
	keyIngestConcurrency: "int",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	apiKey := s.configStore.GetString(keyLLMAPIKey)
	if env := strings.TrimSpace(s.getenv(EnvLLMAPIKey)); env != "" {
		apiKey = env
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:             s.configStore.GetString(keyLLMModel),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:            apiKey,
			RequestsPerMinute: s.getInt(keyLLMRequestsPerMin, defaults.LLM.RequestsPerMinute),
			MaxRetries:        s.getInt(keyLLMMaxRetries, defaults.LLM.MaxRetries),
		},
		Pipeline: domain.PipelineSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Pipeline.ChunkSize),
			Overlap:   s.getInt(keyOverlap, defaults.Pipeline.Overlap),
		},
		Ingest: domain.IngestSettings{
			Concurrency: s.getInt(keyIngestConcurrency, defaults.Ingest.Concurrency),
		},
		DataDir: s.configStore.GetString(keyDataDir),
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Save persists application settings. An empty API key leaves the stored
// key untouched.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	type kv struct {
		key string
		val any
	}
	values := []kv{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMRequestsPerMin, settings.LLM.RequestsPerMinute},
		{keyLLMMaxRetries, settings.LLM.MaxRetries},
		{keyChunkSize, settings.Pipeline.ChunkSize},
		{keyOverlap, settings.Pipeline.Overlap},
		{keyIngestConcurrency, settings.Ingest.Concurrency},
		{keyDataDir, settings.DataDir},
	}
	if settings.LLM.APIKey != "" {
		values = append(values, kv{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.val); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Validate API key if required
	if apiKey == "" {
		apiKey = settings.LLM.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s (or set %s)", domain.ErrInvalidInput, provider, EnvLLMAPIKey)
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers use their own endpoint
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetPipeline configures chunking.
func (s *SettingsService) SetPipeline(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidInput, chunkSize, overlap)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Pipeline.ChunkSize = chunkSize
	settings.Pipeline.Overlap = overlap
	return s.Save(settings)
}

// Validate checks that settings allow creating documents.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		if settings.LLM.Provider.IsValid() {
			return fmt.Errorf("%w: %s requires an API key (llm.api_key or %s)",
				domain.ErrLLMUnavailable, settings.LLM.Provider, EnvLLMAPIKey)
		}
		return fmt.Errorf("%w: llm.provider is not set", domain.ErrLLMUnavailable)
	}

	p := settings.Pipeline
	if p.ChunkSize <= 0 || p.Overlap < 0 || p.Overlap >= p.ChunkSize {
		return fmt.Errorf("%w: pipeline chunk_size %d overlap %d", domain.ErrInvalidInput, p.ChunkSize, p.Overlap)
	}
	if settings.Ingest.Concurrency <= 0 {
		return fmt.Errorf("%w: ingest.concurrency must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Keys returns the settable config keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetValue returns the stored value of a key as text. The API key is
// masked.
func (s *SettingsService) GetValue(key string) (string, error) {
	if _, ok := keyKinds[key]; !ok {
		return "", fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	val, ok := s.configStore.Get(key)
	if !ok {
		return "", nil
	}
	text := fmt.Sprint(val)
	if key == keyLLMAPIKey && text != "" {
		return mask(text), nil
	}
	return text, nil
}

// SetValue parses value for key and stores it.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case "provider":
		p := domain.AIProvider(strings.ToLower(value))
		if !p.IsValid() {
			return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, value)
		}
		parsed = p.String()
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Helper methods for reading config with defaults.

// getInt treats a stored zero as a value, not as unset.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
