// Package model is the boundary to the design-generating language model.
// It builds the prompt, calls a chat-completion backend and accepts only
// replies that parse as the exact {html, css, explanation} object.
package model

import (
	"context"
	"errors"
)

// Sentinel errors for model requests.
var (
	ErrEmptyPrompt       = errors.New("prompt is required")
	ErrMalformedResponse = errors.New("model returned a malformed design")
	ErrModelUnavailable  = errors.New("model request failed")
	ErrUnauthorized      = errors.New("model rejected the API key")
	ErrMissingAPIKey     = errors.New("model API key is not set")
)

// FormatInfo describes the output format the design targets.
type FormatInfo struct {
	Name   string
	Width  int
	Height int
}

// Portrait reports whether the format is taller than wide.
func (f FormatInfo) Portrait() bool {
	return f.Height > f.Width
}

// Request asks for a new or revised design.
type Request struct {
	Prompt            string
	CurrentMarkup     string
	CurrentStylesheet string
	Format            *FormatInfo
}

// Revising reports whether an existing design is sent along.
func (r Request) Revising() bool {
	return r.CurrentMarkup != "" && r.CurrentStylesheet != ""
}

// Response is an accepted design.
type Response struct {
	Markup      string
	Stylesheet  string
	Explanation string
	// Message is a short chat-style confirmation for the user.
	Message string
}

// Completer produces designs.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Chat is a raw chat-completion backend: one system and one user message
// in, the assistant's text out.
type Chat interface {
	Chat(ctx context.Context, system, user string) (string, error)
}
