package extractor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

type fakeLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	deadline bool
}

func (f *fakeLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.messages = messages
	f.opts = opts
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string          { return "fake" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

type mapPrompts map[string]string

func (m mapPrompts) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", errors.New("missing")
	}
	return p, nil
}

func (m mapPrompts) Reload() {}

func TestExtract_Requirements(t *testing.T) {
	llm := &fakeLLM{reply: "  {\"requirements\": []}\n"}
	e := New(llm)

	out, err := e.Extract(context.Background(), "We need SSO.", domain.ProfileRequirements)

	require.NoError(t, err)
	assert.Equal(t, `{"requirements": []}`, out)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Equal(t, defaultRequirementsPrompt, llm.messages[0].Content)
	assert.Equal(t, "user", llm.messages[1].Role)
	assert.Contains(t, llm.messages[1].Content, "We need SSO.")
	assert.True(t, llm.opts.JSON)
	assert.True(t, llm.deadline)
}

func TestExtract_Summary(t *testing.T) {
	llm := &fakeLLM{reply: "A short summary."}
	e := New(llm)

	out, err := e.Extract(context.Background(), "text", domain.ProfileSummary)

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", out)
	assert.False(t, llm.opts.JSON)
	assert.Equal(t, defaultSummaryPrompt, llm.messages[0].Content)
}

func TestExtract_UsesPromptStore(t *testing.T) {
	llm := &fakeLLM{reply: "{}"}
	e := New(llm, WithPromptStore(mapPrompts{
		driven.PromptExtractRequirements: "custom extraction prompt",
	}))

	_, err := e.Extract(context.Background(), "x", domain.ProfileRequirements)
	require.NoError(t, err)
	assert.Equal(t, "custom extraction prompt", llm.messages[0].Content)

	// Missing prompt falls back to the built-in one.
	_, err = e.Extract(context.Background(), "x", domain.ProfileSummary)
	require.NoError(t, err)
	assert.Equal(t, defaultSummaryPrompt, llm.messages[0].Content)
}

func TestExtract_SetPromptStore(t *testing.T) {
	llm := &fakeLLM{reply: "{}"}
	e := New(llm)
	e.SetPromptStore(mapPrompts{driven.PromptExecutiveSummary: "be brief"})

	_, err := e.Extract(context.Background(), "x", domain.ProfileSummary)
	require.NoError(t, err)
	assert.Equal(t, "be brief", llm.messages[0].Content)
}

func TestExtract_LLMFailure(t *testing.T) {
	cause := errors.New("connection refused")
	e := New(&fakeLLM{err: cause})

	_, err := e.Extract(context.Background(), "x", domain.ProfileRequirements)

	assert.True(t, errors.Is(err, domain.ErrExtractorUnavailable))
	assert.True(t, errors.Is(err, cause))
}

func TestExtract_NoLLM(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), "x", domain.ProfileRequirements)

	assert.True(t, errors.Is(err, domain.ErrExtractorUnavailable))
	assert.True(t, errors.Is(err, domain.ErrLLMUnavailable))
}

func TestExtract_UnknownProfile(t *testing.T) {
	_, err := New(&fakeLLM{}).Extract(context.Background(), "x", domain.TaskProfile("poem"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestExtract_NoTimeout(t *testing.T) {
	llm := &fakeLLM{reply: "{}"}
	e := New(llm, WithTimeout(0))

	_, err := e.Extract(context.Background(), "x", domain.ProfileRequirements)
	require.NoError(t, err)
	assert.False(t, llm.deadline)

	e = New(llm, WithTimeout(time.Second))
	_, err = e.Extract(context.Background(), "x", domain.ProfileRequirements)
	require.NoError(t, err)
	assert.True(t, llm.deadline)
}
