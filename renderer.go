package designstudio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alnah/go-designstudio/internal/assets"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/pipeline"
	"github.com/alnah/go-designstudio/internal/surface"
)

// Renderer turns documents into images, PDFs and portable HTML. Each
// image or PDF export renders on a fresh offscreen surface.
// A Renderer is safe for concurrent use.
type Renderer struct {
	cfg        config
	catalog    *catalog.Catalog
	baseStyle  string
	page       surface.PageConfig
	portable   *pipeline.PageTemplate
	browser    *surface.Browser
	ownBrowser bool

	mu     sync.Mutex
	closed bool
}

// NewRenderer creates a Renderer. The browser starts on first use.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := newConfig(opts)
	loader, err := resolveLoader(cfg.assetPath)
	if err != nil {
		return nil, err
	}
	return newRenderer(cfg, loader)
}

func newRenderer(cfg config, loader assets.AssetLoader) (*Renderer, error) {
	baseStyle, err := loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading base style: %w", err)
	}
	wrapper, err := loadPageTemplate(loader, assets.SandboxTemplateName)
	if err != nil {
		return nil, err
	}
	portable, err := loadPageTemplate(loader, assets.PortableTemplateName)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:       cfg,
		catalog:   cfg.catalog,
		baseStyle: baseStyle,
		portable:  portable,
		page: surface.PageConfig{
			Wrapper:   wrapper,
			BaseStyle: baseStyle,
			Scale:     cfg.scale,
			Timeout:   cfg.timeout,
			Logger:    cfg.logger,
		},
	}
	if cfg.newTransport == nil {
		r.browser = cfg.browser
		if r.browser == nil {
			r.browser = surface.NewBrowser(surface.WithBrowserLogger(cfg.logger))
			r.ownBrowser = true
		}
	}
	return r, nil
}

func loadPageTemplate(loader assets.AssetLoader, name string) (*pipeline.PageTemplate, error) {
	content, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s template: %w", name, err)
	}
	return pipeline.NewPageTemplate(name, content)
}

// NewSurface creates an unmounted surface rendering at scale. Zero uses
// the configured scale.
func (r *Renderer) NewSurface(scale float64) (*surface.Surface, error) {
	if r.isClosed() {
		return nil, ErrRendererUnavailable
	}
	if scale == 0 {
		scale = r.cfg.scale
	}
	if scale < surface.MinScale || scale > surface.MaxScale {
		return nil, fmt.Errorf("%w: %.2f (must be %.0f-%.0f)", ErrInvalidScale, scale, surface.MinScale, surface.MaxScale)
	}

	var (
		t   surface.Transport
		err error
	)
	if r.cfg.newTransport != nil {
		t, err = r.cfg.newTransport(scale)
	} else {
		pc := r.page
		pc.Scale = scale
		t, err = r.browser.NewTransport(pc)
	}
	if err != nil {
		return nil, err
	}
	return surface.New(t,
		surface.WithReadyTimeout(r.cfg.readyTimeout),
		surface.WithSettleDelay(r.cfg.settleDelay),
		surface.WithLogger(r.cfg.logger),
	), nil
}

// Resolve rewrites image references that name catalog assets to their
// locators. Without a catalog the document is returned as-is.
func (r *Renderer) Resolve(doc Document) Document {
	if r.catalog == nil {
		return doc
	}
	doc.Markup = pipeline.RewriteImageSources(doc.Markup, r.catalog.Resolve)
	return doc
}

// RenderImage rasterizes doc at format's size.
func (r *Renderer) RenderImage(ctx context.Context, doc Document, format Format, opts ImageOptions) ([]byte, error) {
	if _, err := opts.capture(); err != nil {
		return nil, exportError("image", ErrCapture, "invalid image options", err)
	}
	return r.offscreen(ctx, "image", doc, format, opts.Scale, func(ctx context.Context, s *surface.Surface) ([]byte, error) {
		return CaptureSurface(ctx, s, opts)
	})
}

// RenderPDF prints doc as a single page of format's size.
func (r *Renderer) RenderPDF(ctx context.Context, doc Document, format Format) ([]byte, error) {
	return r.offscreen(ctx, "pdf", doc, format, 0, func(ctx context.Context, s *surface.Surface) ([]byte, error) {
		return PrintSurface(ctx, s)
	})
}

func (r *Renderer) offscreen(ctx context.Context, op string, doc Document, format Format, scale float64,
	fn func(context.Context, *surface.Surface) ([]byte, error)) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, exportError(op, ErrCapture, "invalid format", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	s, err := r.NewSurface(scale)
	if err != nil {
		return nil, exportError(op, ErrCapture, "could not open a render surface", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			r.cfg.logger.Debug("closing render surface", "error", err)
		}
	}()

	doc = r.Resolve(doc)
	err = s.Mount(ctx, surface.Mount{
		Markup:     doc.Markup,
		Stylesheet: doc.Stylesheet,
		Width:      format.Width,
		Height:     format.Height,
	})
	if err != nil {
		return nil, exportError(op, ErrCapture, "could not load the design", err)
	}
	return fn(ctx, s)
}

// CaptureSurface rasterizes a mounted surface once it is ready. The
// surface keeps the scale it was created with; opts.Scale is ignored.
func CaptureSurface(ctx context.Context, s *surface.Surface, opts ImageOptions) ([]byte, error) {
	co, err := opts.capture()
	if err != nil {
		return nil, exportError("image", ErrCapture, "invalid image options", err)
	}
	data, err := s.Capture(ctx, co)
	if err != nil {
		return nil, exportError("image", ErrCapture, captureReason(err), err)
	}
	return data, nil
}

// PrintSurface prints a mounted surface once it is ready.
func PrintSurface(ctx context.Context, s *surface.Surface) ([]byte, error) {
	data, err := s.PrintPDF(ctx)
	if err != nil {
		return nil, exportError("pdf", ErrCapture, captureReason(err), err)
	}
	return data, nil
}

func captureReason(err error) string {
	switch {
	case errors.Is(err, surface.ErrNotMounted):
		return "the preview is not showing a design yet"
	case errors.Is(err, surface.ErrClosed):
		return "the preview was closed"
	case errors.Is(err, context.DeadlineExceeded):
		return "rendering timed out"
	case errors.Is(err, context.Canceled):
		return "rendering was canceled"
	default:
		return "the browser could not render the design"
	}
}

// Close releases the browser if the Renderer started it.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if r.ownBrowser && r.browser != nil {
		return r.browser.Close()
	}
	return nil
}

func (r *Renderer) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
