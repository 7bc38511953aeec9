// internal/app/assistant/responder/responder.go

// Package responder sends assembled prompts to a text-completion backend.
package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"go.uber.org/zap"
)

// FailureReply is returned whenever the completion backend fails.
const FailureReply = "Lỗi khi gọi mô hình AI."

// Completer performs one blocking completion with a single user message.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderError represents a completion provider failure.
type ProviderError struct {
	Message    string
	StatusCode int
	Provider   string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return e.Provider + ": " + e.Message
}

// Config selects and configures a completion provider.
type Config struct {
	Provider    string // openai | anthropic | gemini
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Providers lists the accepted Config.Provider values.
var Providers = []string{"openai", "anthropic", "gemini"}

// NewCompleter builds the provider named by cfg.Provider.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAI(cfg), nil
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "gemini":
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// Responder wraps a Completer so that callers always get a reply.
type Responder struct {
	c       Completer
	timeout time.Duration
	log     *zap.Logger
}

// New creates a Responder. A zero timeout leaves the caller's deadline in
// charge.
func New(c Completer, timeout time.Duration, logger *zap.Logger) *Responder {
	return &Responder{c: c, timeout: timeout, log: logger}
}

// Respond returns the completion for prompt, or FailureReply when the
// backend fails. Failures are logged and counted, never returned. There is
// no retry and no streaming.
func (r *Responder) Respond(ctx context.Context, prompt string) string {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.c.Complete(ctx, prompt)
	metrics.CompletionLatency.WithLabelValues(r.c.Name()).Observe(time.Since(start).Seconds())
	if err == nil && strings.TrimSpace(text) == "" {
		err = &ProviderError{Provider: r.c.Name(), Message: "empty completion"}
	}
	if err != nil {
		metrics.CompletionErrors.WithLabelValues(r.c.Name()).Inc()
		r.log.Error("completion failed",
			zap.String("provider", r.c.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return FailureReply
	}
	return strings.TrimSpace(text)
}
