package model_test

import (
	"strings"
	"testing"

	"github.com/alnah/go-designstudio/internal/model"
)

var story = &model.FormatInfo{Name: "Instagram Story", Width: 1080, Height: 1920}

func TestSystemPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      model.Request
		contains []string
		excludes []string
	}{
		{
			name:     "portrait format, new design",
			req:      model.Request{Prompt: "a poster", Format: story},
			contains: []string{"Instagram Story", "1080×1920 px", "portrait", "Create a new design", `"explanation"`},
			excludes: []string{"already has a design"},
		},
		{
			name:     "square format",
			req:      model.Request{Prompt: "x", Format: &model.FormatInfo{Name: "Square", Width: 1080, Height: 1080}},
			contains: []string{"square"},
		},
		{
			name:     "revision",
			req:      model.Request{Prompt: "x", CurrentMarkup: "<p>a</p>", CurrentStylesheet: "p{}"},
			contains: []string{"already has a design"},
			excludes: []string{"TARGET FORMAT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := model.SystemPrompt(tt.req)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("system prompt missing %q", want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("system prompt should not contain %q", bad)
				}
			}
		})
	}
}

func TestUserPrompt(t *testing.T) {
	t.Parallel()

	t.Run("new design", func(t *testing.T) {
		t.Parallel()
		got := model.UserPrompt(model.Request{Prompt: "a red circle", Format: story})
		if got != "Format: Instagram Story (1080×1920 px)\n\na red circle" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("revision carries the current design", func(t *testing.T) {
		t.Parallel()
		got := model.UserPrompt(model.Request{
			Prompt:            "make it blue",
			CurrentMarkup:     "<div>x</div>",
			CurrentStylesheet: "div{color:red}",
		})
		for _, want := range []string{"```html\n<div>x</div>\n```", "```css\ndiv{color:red}\n```", "No specific format selected", "make it blue"} {
			if !strings.Contains(got, want) {
				t.Errorf("user prompt missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("markup without stylesheet is not a revision", func(t *testing.T) {
		t.Parallel()
		got := model.UserPrompt(model.Request{Prompt: "p", CurrentMarkup: "<div>x</div>"})
		if strings.Contains(got, "<div>x</div>") {
			t.Errorf("partial design should not be sent: %q", got)
		}
	})
}
