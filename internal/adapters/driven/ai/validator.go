package ai

import (
	"fmt"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks that the configured provider can serve
// extraction calls before any document is created with it.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateLLM rejects unknown providers and cloud providers without an API
// key, then pings the provider. No provider at all is not an error: stored
// BRDs stay readable without one.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, config.Provider)
	}
	if config.Provider.RequiresAPIKey() && config.APIKey == "" {
		return fmt.Errorf("%w: %s needs an API key; set llm.api_key",
			domain.ErrLLMUnavailable, config.Provider.Description())
	}
	return ValidateLLMConfig(config)
}
