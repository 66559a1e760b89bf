package designstudio

import (
	"log/slog"

	"github.com/alnah/go-designstudio/internal/model"
)

// Model boundary types, re-exported so callers can supply their own model.
type (
	// Completer turns a prompt and the current design into a new design.
	Completer = model.Completer
	// CompletionRequest is what a Completer receives.
	CompletionRequest = model.Request
	// CompletionResponse is a design returned by a Completer.
	CompletionResponse = model.Response
	// FormatInfo describes the target format to a Completer.
	FormatInfo = model.FormatInfo
	// OpenAIConfig configures the OpenAI-backed Completer.
	OpenAIConfig = model.OpenAIConfig
)

// NewOpenAICompleter returns a rate-limited Completer backed by the OpenAI
// chat completions API. rps <= 0 keeps the default limit.
func NewOpenAICompleter(cfg OpenAIConfig, rps float64, burst int, logger *slog.Logger) (Completer, error) {
	chat, err := model.NewOpenAIChat(cfg)
	if err != nil {
		return nil, err
	}
	opts := []model.DesignerOption{model.WithLogger(logger)}
	if rps > 0 && burst > 0 {
		opts = append(opts, model.WithRateLimit(rps, burst))
	}
	return model.NewDesigner(chat, opts...), nil
}
