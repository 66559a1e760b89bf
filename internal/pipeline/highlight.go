package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Source kinds shown by the code view.
const (
	SourceMarkup     = "html"
	SourceStylesheet = "css"
)

// DefaultHighlightStyle is the chroma style used when none is given.
const DefaultHighlightStyle = "github"

// ErrUnknownSourceKind indicates a code view for something other than
// markup or stylesheet.
var ErrUnknownSourceKind = errors.New("unknown source kind")

// Highlighter renders design source as highlighted HTML.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a class-based highlighter for the named chroma
// style, falling back to DefaultHighlightStyle for unknown names.
func NewHighlighter(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil || (styleName != "" && style == styles.Fallback) {
		style = styles.Get(DefaultHighlightStyle)
	}
	return &Highlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(true),
			chromahtml.TabWidth(2),
		),
	}
}

// Highlight renders code of the given kind ("html" or "css").
func (h *Highlighter) Highlight(kind, code string) (string, error) {
	var lexer chroma.Lexer
	switch kind {
	case SourceMarkup:
		lexer = lexers.Get("html")
	case SourceStylesheet:
		lexer = lexers.Get("css")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSourceKind, kind)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", kind, err)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s: %w", kind, err)
	}
	return b.String(), nil
}

// Stylesheet returns the CSS classes the highlighted output relies on.
func (h *Highlighter) Stylesheet() (string, error) {
	var b strings.Builder
	if err := h.formatter.WriteCSS(&b, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return b.String(), nil
}
