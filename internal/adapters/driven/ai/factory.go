// Package ai builds the LLM service and extractor from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/brdify/internal/adapters/driven/extractor"
	anthropicllm "github.com/custodia-labs/brdify/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/brdify/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/brdify/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/brdify/internal/adapters/driven/llm/resilient"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	Extractor   *extractor.Extractor
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues, e.g. no provider configured.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds the extractor for settings. An unconfigured provider is not
// an error: the extractor is still returned and fails each call with
// domain.ErrLLMUnavailable, so stored documents stay readable.
func Init(settings *domain.LLMSettings, prompts driven.PromptStore) (*InitResult, error) {
	res := &InitResult{PromptStore: prompts}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'brdify config set llm.provider <name>' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		res.Warnings = append(res.Warnings,
			"no LLM provider configured; document creation is disabled until llm.provider is set")
	} else {
		res.LLMService = svc
	}

	opts := []extractor.Option{}
	if prompts != nil {
		opts = append(opts, extractor.WithPromptStore(prompts))
	}
	res.Extractor = extractor.New(res.LLMService, opts...)
	return res, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'brdify config set' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'brdify config set' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig checks that settings reach their provider. An
// unconfigured provider is nothing to validate.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(settings)
	if err != nil {
		return err
	}
	if svc != nil {
		svc.Close()
	}
	return nil
}

// CreateLLMService creates the provider service for settings, wrapped with
// rate limiting and retries. Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.LLMService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaLLM(settings)

	case domain.AIProviderOpenAI:
		svc, err = createOpenAILLM(settings, "", "openai")

	case domain.AIProviderGroq:
		svc, err = createOpenAILLM(settings, openaillm.GroqBaseURL, "groq")

	case domain.AIProviderAnthropic:
		svc, err = createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return resilient.New(svc, resilienceConfig(settings)), nil
}

// resilienceConfig maps settings onto the decorator. Settings use zero to
// turn throttling off; the decorator uses a negative rate for that.
func resilienceConfig(settings *domain.LLMSettings) resilient.Config {
	rpm := settings.RequestsPerMinute
	if rpm <= 0 {
		rpm = -1
	}
	return resilient.Config{
		RequestsPerMinute: rpm,
		MaxRetries:        settings.MaxRetries,
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates a service for OpenAI or an OpenAI-compatible API.
func createOpenAILLM(settings *domain.LLMSettings, defaultURL, provider string) (driven.LLMService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}
	model := settings.Model
	if model == "" {
		model = domain.DefaultLLMModels()[settings.Provider]
	}
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:   settings.APIKey,
		BaseURL:  baseURL,
		Model:    model,
		Provider: provider,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
