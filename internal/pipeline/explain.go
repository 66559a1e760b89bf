package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrExplanationRender indicates the explanation could not be converted.
var ErrExplanationRender = errors.New("explanation rendering failed")

// ExplanationRenderer converts the model's Markdown explanation into an
// HTML fragment safe to embed in a host page.
type ExplanationRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewExplanationRenderer creates a renderer with GFM and class-based code
// highlighting. Output passes through a UGC sanitizer that keeps the
// highlighting classes.
func NewExplanationRenderer() *ExplanationRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("pre", "code", "span", "div")

	return &ExplanationRenderer{md: md, policy: policy}
}

// Render converts Markdown to a sanitized HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting when ctx ends.
func (r *ExplanationRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrExplanationRender, err)}
			return
		}
		done <- result{html: r.policy.Sanitize(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
