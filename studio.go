package designstudio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/model"
	"github.com/alnah/go-designstudio/internal/pipeline"
	"github.com/alnah/go-designstudio/internal/surface"
)

// Source kinds accepted by Studio.Source.
const (
	SourceMarkup     = pipeline.SourceMarkup
	SourceStylesheet = pipeline.SourceStylesheet
)

// Studio edits one design: it owns the session, the live preview and the
// exporters, and asks the model for new designs.
type Studio struct {
	cfg         config
	formats     []Format
	session     *Session
	renderer    *Renderer
	explainer   *pipeline.ExplanationRenderer
	highlighter *pipeline.Highlighter

	previewMu   sync.Mutex
	preview     *surface.Surface
	unsubscribe func()
}

// NewStudio creates a Studio with no format selected.
func NewStudio(opts ...Option) (*Studio, error) {
	cfg := newConfig(opts)
	loader, err := resolveLoader(cfg.assetPath)
	if err != nil {
		return nil, err
	}
	formats, err := loadFormats(loader)
	if err != nil {
		return nil, err
	}
	placeholder, err := placeholderDocument(loader)
	if err != nil {
		return nil, err
	}

	if cfg.catalog == nil {
		cfg.catalog, err = catalog.Open(context.Background(), catalog.NewMemoryStore(), catalog.DataBlobStore{},
			catalog.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
	}

	renderer, err := newRenderer(cfg, loader)
	if err != nil {
		return nil, err
	}

	return &Studio{
		cfg:         cfg,
		formats:     formats,
		session:     NewSession(cfg.catalog, placeholder),
		renderer:    renderer,
		explainer:   pipeline.NewExplanationRenderer(),
		highlighter: pipeline.NewHighlighter(cfg.highlightStyle),
	}, nil
}

// Formats returns the format catalog.
func (s *Studio) Formats() []Format {
	return append([]Format(nil), s.formats...)
}

// Format looks up a format by id.
func (s *Studio) Format(id string) (Format, error) {
	return FindFormat(s.formats, id)
}

// SelectFormat starts a new design in the given format. Any live preview
// is closed because its size no longer matches.
func (s *Studio) SelectFormat(id string) (Format, error) {
	f, err := s.Format(id)
	if err != nil {
		return Format{}, err
	}
	if err := s.ClosePreview(); err != nil {
		s.cfg.logger.Debug("closing preview", "error", err)
	}
	if err := s.session.SelectFormat(f); err != nil {
		return Format{}, err
	}
	s.cfg.logger.Info("format selected", "format", f.ID, "width", f.Width, "height", f.Height)
	return f, nil
}

// Session returns the design session.
func (s *Studio) Session() *Session {
	return s.session
}

// Catalog returns the asset catalog.
func (s *Studio) Catalog() *catalog.Catalog {
	return s.cfg.catalog
}

// Renderer returns the exporter backing the Studio.
func (s *Studio) Renderer() *Renderer {
	return s.renderer
}

// SetDocument replaces the design with hand-edited content.
func (s *Studio) SetDocument(doc Document) error {
	if _, err := s.session.requireFormat(); err != nil {
		return err
	}
	s.session.Apply(doc.Markup, doc.Stylesheet)
	return nil
}

// Generate asks the model for a design and applies it. On any failure the
// current document is left unchanged.
func (s *Studio) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	format, err := s.session.requireFormat()
	if err != nil {
		return nil, err
	}
	if s.cfg.completer == nil {
		return nil, ErrNoCompleter
	}

	token, done, err := s.session.beginGeneration()
	if err != nil {
		return nil, err
	}
	defer done()

	req := model.Request{Prompt: prompt, Format: format.modelInfo()}
	if !s.session.Pristine() {
		cur := s.session.Document()
		req.CurrentMarkup = cur.Markup
		req.CurrentStylesheet = cur.Stylesheet
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	s.cfg.logger.Info("generating design", "format", format.ID, "revising", req.Revising())
	resp, err := s.cfg.completer.Complete(ctx, req)
	if err != nil {
		s.cfg.logger.Warn("generation failed", "error", err)
		if errors.Is(err, model.ErrEmptyPrompt) {
			return nil, ErrEmptyPrompt
		}
		return nil, fmt.Errorf("%w: %w", ErrModelResponse, err)
	}

	doc := Document{Markup: resp.Markup, Stylesheet: resp.Stylesheet}
	if !s.session.applyGenerated(token, doc) {
		return nil, ErrGenerationSuperseded
	}

	result := &GenerateResult{Document: doc, Explanation: resp.Explanation, Message: resp.Message}
	if explained, err := s.explainer.Render(ctx, resp.Explanation); err != nil {
		s.cfg.logger.Warn("explanation not rendered", "error", err)
	} else {
		result.ExplanationHTML = explained
	}
	return result, nil
}

// Preview returns the live surface for the session, mounting it on first
// use. Later document changes flow into it automatically.
func (s *Studio) Preview(ctx context.Context) (*surface.Surface, error) {
	format, err := s.session.requireFormat()
	if err != nil {
		return nil, err
	}

	s.previewMu.Lock()
	defer s.previewMu.Unlock()
	if s.preview != nil && s.preview.State() != surface.StateClosed {
		return s.preview, nil
	}

	sf, err := s.renderer.NewSurface(0)
	if err != nil {
		return nil, err
	}
	unsubscribe := s.session.OnApply(func(doc Document) {
		doc = s.renderer.Resolve(doc)
		sf.Update(doc.Markup, doc.Stylesheet)
	})

	mounted := s.session.Document()
	resolved := s.renderer.Resolve(mounted)
	err = sf.Mount(ctx, surface.Mount{
		Markup:     resolved.Markup,
		Stylesheet: resolved.Stylesheet,
		Width:      format.Width,
		Height:     format.Height,
	})
	if err != nil {
		unsubscribe()
		_ = sf.Close()
		return nil, err
	}
	// A change that landed before Mount switched the surface to loading
	// was dropped by Update.
	if cur := s.session.Document(); cur != mounted {
		cur = s.renderer.Resolve(cur)
		sf.Update(cur.Markup, cur.Stylesheet)
	}

	s.preview = sf
	s.unsubscribe = unsubscribe
	return sf, nil
}

// ClosePreview closes the live surface, if any.
func (s *Studio) ClosePreview() error {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()
	if s.preview == nil {
		return nil
	}
	s.unsubscribe()
	err := s.preview.Close()
	s.preview, s.unsubscribe = nil, nil
	return err
}

// CapturePreview rasterizes the live preview as it currently stands.
func (s *Studio) CapturePreview(ctx context.Context, opts ImageOptions) ([]byte, error) {
	sf, err := s.Preview(ctx)
	if err != nil {
		return nil, exportError("image", ErrCapture, "the preview could not be shown", err)
	}
	return CaptureSurface(ctx, sf, opts)
}

// ExportHTML exports the current design as a self-contained HTML file.
func (s *Studio) ExportHTML(ctx context.Context) ([]byte, error) {
	format, err := s.session.requireFormat()
	if err != nil {
		return nil, exportError("html", ErrExport, "no format selected", err)
	}
	return s.renderer.ExportHTML(ctx, s.session.Document(), format)
}

// ExportImage renders the current design offscreen and rasterizes it.
func (s *Studio) ExportImage(ctx context.Context, opts ImageOptions) ([]byte, error) {
	format, err := s.session.requireFormat()
	if err != nil {
		return nil, exportError("image", ErrCapture, "no format selected", err)
	}
	return s.renderer.RenderImage(ctx, s.session.Document(), format, opts)
}

// ExportPDF renders the current design offscreen as a one-page PDF.
func (s *Studio) ExportPDF(ctx context.Context) ([]byte, error) {
	format, err := s.session.requireFormat()
	if err != nil {
		return nil, exportError("pdf", ErrCapture, "no format selected", err)
	}
	return s.renderer.RenderPDF(ctx, s.session.Document(), format)
}

// Source returns the current markup or stylesheet as highlighted HTML.
func (s *Studio) Source(kind string) (string, error) {
	doc := s.session.Document()
	code := doc.Markup
	if kind == SourceStylesheet {
		code = doc.Stylesheet
	}
	return s.highlighter.Highlight(kind, code)
}

// SourceStyles returns the stylesheet for highlighted source.
func (s *Studio) SourceStyles() (string, error) {
	return s.highlighter.Stylesheet()
}

// Close closes the preview and releases the browser.
func (s *Studio) Close() error {
	return errors.Join(s.ClosePreview(), s.renderer.Close())
}
