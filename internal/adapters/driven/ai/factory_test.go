package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/adapters/driven/llm/resilient"
	"github.com/custodia-labs/brdify/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	// Should not panic
	result.Close()
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		model    string
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "unconfigured", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name:     "cloud provider without key",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name:     "unknown provider",
			settings: &domain.LLMSettings{Provider: "unknown", APIKey: "k"},
			wantNil:  true,
		},
		{
			name:     "ollama",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			model:    "llama3.2",
		},
		{
			name:     "openai",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o"},
			model:    "gpt-4o",
		},
		{
			name:     "groq default model",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGroq, APIKey: "k"},
			model:    domain.DefaultLLMModels()[domain.AIProviderGroq],
		},
		{
			name:     "anthropic",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k", Model: "claude-3-5-haiku-latest"},
			model:    "claude-3-5-haiku-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()

			_, wrapped := svc.(*resilient.LLMService)
			assert.True(t, wrapped, "provider services are rate limited and retried")
			assert.Equal(t, tt.model, svc.ModelName())
		})
	}
}

func TestResilienceConfig(t *testing.T) {
	cfg := resilienceConfig(&domain.LLMSettings{RequestsPerMinute: 0, MaxRetries: 2})
	assert.Equal(t, -1, cfg.RequestsPerMinute, "zero turns throttling off")
	assert.Equal(t, 2, cfg.MaxRetries)

	cfg = resilienceConfig(&domain.LLMSettings{RequestsPerMinute: 12})
	assert.Equal(t, 12, cfg.RequestsPerMinute)
}

func TestValidateLLMConfig(t *testing.T) {
	t.Run("unconfigured is nothing to validate", func(t *testing.T) {
		assert.NoError(t, ValidateLLMConfig(nil))
		assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
	})

	t.Run("reachable provider", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		err := ValidateLLMConfig(&domain.LLMSettings{
			Provider: domain.AIProviderGroq,
			APIKey:   "k",
			BaseURL:  server.URL,
		})
		assert.NoError(t, err)
	})

	t.Run("rejected key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		err := ValidateLLMConfig(&domain.LLMSettings{
			Provider:   domain.AIProviderOpenAI,
			APIKey:     "bad",
			BaseURL:    server.URL,
			MaxRetries: 0,
		})
		assert.Error(t, err)
	})
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc, err := CreateAndValidateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "bad",
		BaseURL:  server.URL,
	})

	assert.Nil(t, svc)
	assert.True(t, errors.Is(err, domain.ErrLLMUnavailable))
}

func TestInit(t *testing.T) {
	t.Run("unconfigured warns", func(t *testing.T) {
		res, err := Init(&domain.LLMSettings{}, nil)
		require.NoError(t, err)
		defer res.Close()

		assert.Nil(t, res.LLMService)
		require.NotNil(t, res.Extractor)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("configured", func(t *testing.T) {
		res, err := Init(&domain.LLMSettings{Provider: domain.AIProviderOllama}, nil)
		require.NoError(t, err)
		defer res.Close()

		assert.NotNil(t, res.LLMService)
		assert.NotNil(t, res.Extractor)
		assert.Empty(t, res.Warnings)
	})
}
