// Package resilient decorates an LLMService with client-side rate
// limiting and retry of transient provider failures.
package resilient

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/brdify/internal/adapters/driven/llm"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
	"github.com/custodia-labs/brdify/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultRequestsPerMinute = 30
	DefaultMaxRetries        = 3
	DefaultBackoffBase       = 500 * time.Millisecond
	DefaultBackoffMax        = 30 * time.Second
)

// Config controls throttling and retries.
type Config struct {
	// RequestsPerMinute caps sustained call rate; <= 0 disables throttling.
	RequestsPerMinute int

	// MaxRetries is how many times a transient failure is retried.
	MaxRetries int

	// BackoffBase is the first retry delay, doubled per attempt.
	BackoffBase time.Duration

	// BackoffMax caps the total time spent backing off.
	BackoffMax time.Duration
}

// LLMService wraps another LLMService.
type LLMService struct {
	next    driven.LLMService
	limiter *rate.Limiter
	cfg     Config
}

// New wraps next. Zero config fields take defaults, except
// RequestsPerMinute < 0 which disables throttling.
func New(next driven.LLMService, cfg Config) *LLMService {
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultBackoffMax
	}

	s := &LLMService{next: next, cfg: cfg}
	if cfg.RequestsPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return s
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.call(ctx, func(ctx context.Context) (string, error) {
		return s.next.Generate(ctx, prompt, opts)
	})
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return s.call(ctx, func(ctx context.Context) (string, error) {
		return s.next.Chat(ctx, messages, opts)
	})
}

func (s *LLMService) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	backoff := retry.NewExponential(s.cfg.BackoffBase)
	backoff = retry.WithMaxDuration(s.cfg.BackoffMax, backoff)
	backoff = retry.WithMaxRetries(uint64(s.cfg.MaxRetries), backoff) //nolint:gosec // clamped to >= 0

	var out string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		result, err := fn(ctx)
		if err != nil {
			if llm.IsTransient(err) {
				logger.Warn("llm call attempt %d failed, retrying: %v", attempt, err)
				return retry.RetryableError(err)
			}
			return err
		}
		out = result
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.next.ModelName()
}

// Ping checks the wrapped service without throttling.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.next.Close()
}
