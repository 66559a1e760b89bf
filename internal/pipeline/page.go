package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates a wrapper template failed to parse or execute.
var ErrPageRender = errors.New("page template rendering failed")

// PageData fills a wrapper document template.
type PageData struct {
	Title  string
	Nonce  string
	Width  int
	Height int
	Style  string // sanitized before insertion
	Markup string // inserted verbatim
}

// PageTemplate renders full HTML documents around a design.
type PageTemplate struct {
	tmpl *template.Template
}

// NewPageTemplate parses tmplContent as an html/template.
func NewPageTemplate(name, tmplContent string) (*PageTemplate, error) {
	tmpl, err := template.New(name).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrPageRender, name, err)
	}
	return &PageTemplate{tmpl: tmpl}, nil
}

// Render executes the template. Style is trusted after sanitizing and
// Markup is trusted as-is: both come from the design being rendered.
func (p *PageTemplate) Render(data PageData) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, struct {
		Title  string
		Nonce  string
		Width  int
		Height int
		Style  template.CSS
		Markup template.HTML
	}{
		Title:  data.Title,
		Nonce:  data.Nonce,
		Width:  data.Width,
		Height: data.Height,
		Style:  template.CSS(SanitizeCSS(data.Style)), // #nosec G203 -- sanitized above
		Markup: template.HTML(data.Markup),           // #nosec G203 -- design markup is the payload
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// SanitizeCSS escapes sequences that could break out of a <style> block.
func SanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// JoinStyles concatenates non-empty stylesheets, base first, so later
// sheets override earlier ones.
func JoinStyles(sheets ...string) string {
	var parts []string
	for _, s := range sheets {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
