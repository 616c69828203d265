package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func TestConfigValidator_ValidateLLM_NothingConfigured(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateLLM(nil))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Model: "llama-3.3-70b-versatile"}))
}

func TestConfigValidator_ValidateLLM_UnknownProvider(t *testing.T) {
	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{Provider: "mistral", APIKey: "k"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "mistral")
}

func TestConfigValidator_ValidateLLM_GroqWithoutKey(t *testing.T) {
	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderGroq})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "Groq")
	assert.Contains(t, err.Error(), "llm.api_key")
}

func TestConfigValidator_ValidateLLM_GroqReachable(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"llama-3.3-70b-versatile"}]}`))
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderGroq,
		APIKey:   "gsk-test",
		BaseURL:  server.URL,
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer gsk-test", auth)
}

func TestConfigValidator_ValidateLLM_GroqRejectsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderGroq,
		APIKey:   "revoked",
		BaseURL:  server.URL,
	})

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
