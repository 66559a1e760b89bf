package model

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default request pacing.
const (
	DefaultRequestsPerSecond = 1.0
	DefaultBurst             = 2
)

// Designer turns design requests into chat calls and validates replies.
// Calls are paced by a token bucket shared by all callers.
type Designer struct {
	chat    Chat
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Compile-time interface check.
var _ Completer = (*Designer)(nil)

// DesignerOption configures a Designer.
type DesignerOption func(*Designer)

// WithRateLimit sets the pacing. Panics if rps <= 0 or burst < 1.
func WithRateLimit(rps float64, burst int) DesignerOption {
	if rps <= 0 || burst < 1 {
		panic("model: rate limit needs rps > 0 and burst >= 1")
	}
	return func(d *Designer) {
		d.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) DesignerOption {
	return func(d *Designer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDesigner wraps chat.
func NewDesigner(chat Chat, opts ...DesignerOption) *Designer {
	d := &Designer{
		chat:    chat,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurst),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Complete requests a design. Backend failures wrap ErrModelUnavailable
// (or ErrUnauthorized); unusable replies wrap ErrMalformedResponse.
func (d *Designer) Complete(ctx context.Context, req Request) (*Response, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	start := time.Now()
	content, err := d.chat.Chat(ctx, SystemPrompt(req), UserPrompt(req))
	if err != nil {
		return nil, err
	}
	d.logger.Debug("model replied", "chars", len(content), "elapsed", time.Since(start))

	resp, err := ParseResponse(content)
	if err != nil {
		d.logger.Warn("rejecting model reply", "error", err)
		return nil, err
	}
	resp.Message = confirmation(req.Revising())
	return resp, nil
}
