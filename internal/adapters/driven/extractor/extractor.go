// Package extractor implements driven.Extractor on top of an LLM.
//
// Each call is one chat exchange: the task's system prompt, then the text
// as the user message. Requirement extraction asks the provider for a JSON
// object; the summary is plain prose. Decoding happens in the caller.
package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
	"github.com/custodia-labs/brdify/internal/logger"
)

// Ensure Extractor implements the interfaces.
var (
	_ driven.Extractor        = (*Extractor)(nil)
	_ driven.PromptStoreAware = (*Extractor)(nil)
)

// Fallback prompts, used when no prompt store is set or it cannot load.
const (
	defaultRequirementsPrompt = `You are a specialised business analyst. Extract structured business requirements from the text the user sends.
Return ONLY a JSON object with the keys "requirements", "decisions", "stakeholders", "risks" and "timeline".
Requirements are objects with "description", "type", "priority", "sourceQuote" and optional "relatedDecisionIndex", "relatedRiskIndex", "relatedTimelineIndex" (zero-based positions in this response's lists).
Decisions are strings. Stakeholders are strings formatted "Name: Role".
Risks are objects with "description", "probability", "impact", "mitigation".
Timeline entries are objects with "milestone", "expectedDate", "description".`

	defaultSummaryPrompt = `You are a business analyst. Write a short executive summary, in plain prose, of the text the user sends.`
)

const (
	requirementsLead = "Analyze the following text and extract requirements:\n\n"
	summaryLead      = "Write the executive summary of the following text:\n\n"
)

// DefaultTimeout bounds one extraction call, retries included.
const DefaultTimeout = 5 * time.Minute

// task is the per-profile shape of a call.
type task struct {
	prompt   string
	fallback string
	lead     string
	opts     driven.ChatOptions
}

var tasks = map[domain.TaskProfile]task{
	domain.ProfileRequirements: {
		prompt:   driven.PromptExtractRequirements,
		fallback: defaultRequirementsPrompt,
		lead:     requirementsLead,
		opts:     driven.ChatOptions{Temperature: 0.1, JSON: true},
	},
	domain.ProfileSummary: {
		prompt:   driven.PromptExecutiveSummary,
		fallback: defaultSummaryPrompt,
		lead:     summaryLead,
		opts:     driven.ChatOptions{Temperature: 0.3, MaxTokens: 1024},
	},
}

// Extractor runs extraction tasks through an LLMService.
type Extractor struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	timeout     time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the per-call deadline. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// WithPromptStore sets where system prompts are loaded from.
func WithPromptStore(store driven.PromptStore) Option {
	return func(e *Extractor) {
		e.promptStore = store
	}
}

// New creates an Extractor. llm may be nil, in which case every call
// fails with domain.ErrLLMUnavailable.
func New(llm driven.LLMService, opts ...Option) *Extractor {
	e := &Extractor{
		llm:     llm,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *Extractor) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// Extract runs the task selected by profile over text.
func (e *Extractor) Extract(ctx context.Context, text string, profile domain.TaskProfile) (string, error) {
	t, ok := tasks[profile]
	if !ok {
		return "", fmt.Errorf("%w: unknown task profile %q", domain.ErrInvalidInput, profile)
	}
	if e.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, domain.ErrLLMUnavailable)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: e.loadPrompt(t.prompt, t.fallback)},
		{Role: "user", Content: t.lead + text},
	}

	logger.Debug("extract %s: %d chars via %s", profile, len(text), e.llm.ModelName())
	out, err := e.llm.Chat(ctx, messages, t.opts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractorUnavailable, profile, err)
	}
	return strings.TrimSpace(out), nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (e *Extractor) loadPrompt(name, fallback string) string {
	if e.promptStore == nil {
		return fallback
	}
	prompt, err := e.promptStore.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}
