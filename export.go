package designstudio

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-designstudio/internal/assets"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/pipeline"
)

// embedConcurrency bounds simultaneous blob reads while embedding assets.
const embedConcurrency = 8

// ExportHTML builds a self-contained HTML document from doc using the
// built-in portable template. Image references naming catalog assets are
// embedded as data: URIs. cat may be nil.
func ExportHTML(ctx context.Context, doc Document, format Format, cat *catalog.Catalog) ([]byte, error) {
	loader := assets.NewEmbeddedLoader()
	base, err := loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return nil, exportError("html", ErrExport, "could not load the base style", err)
	}
	tmpl, err := loadPageTemplate(loader, assets.PortableTemplateName)
	if err != nil {
		return nil, exportError("html", ErrExport, "could not load the page template", err)
	}
	return exportPortable(ctx, tmpl, base, doc, format, cat, slog.New(slog.DiscardHandler))
}

// ExportHTML builds a self-contained HTML document using the Renderer's
// templates and catalog.
func (r *Renderer) ExportHTML(ctx context.Context, doc Document, format Format) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()
	return exportPortable(ctx, r.portable, r.baseStyle, doc, format, r.catalog, r.cfg.logger)
}

func exportPortable(ctx context.Context, tmpl *pipeline.PageTemplate, baseStyle string,
	doc Document, format Format, cat *catalog.Catalog, logger *slog.Logger) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, exportError("html", ErrExport, "invalid format", err)
	}

	markup := doc.Markup
	if cat != nil {
		embedded, err := embedAssets(ctx, markup, cat, logger)
		if err != nil {
			return nil, exportError("html", ErrExport, "embedding images was interrupted", err)
		}
		markup = embedded
	}

	out, err := tmpl.Render(pipeline.PageData{
		Title:  format.Name,
		Width:  format.Width,
		Height: format.Height,
		Style:  pipeline.JoinStyles(baseStyle, doc.Stylesheet),
		Markup: markup,
	})
	if err != nil {
		return nil, exportError("html", ErrExport, "could not build the document", err)
	}
	return []byte(out), nil
}

// embedAssets replaces image references that resolve to catalog assets
// with data: URIs. A reference whose bytes cannot be read is left as-is.
func embedAssets(ctx context.Context, markup string, cat *catalog.Catalog, logger *slog.Logger) (string, error) {
	refs := slices.Compact(slices.Sorted(slices.Values(pipeline.ImageSources(markup))))

	var (
		mu     sync.Mutex
		inline = make(map[string]string, len(refs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for _, ref := range refs {
		if catalog.IsDataURI(ref) || !known(cat, ref) {
			continue
		}
		g.Go(func() error {
			data, mediaType, err := cat.ReadBlob(gctx, ref)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("asset not embedded", "ref", ref, "error", err)
				return nil
			}
			mu.Lock()
			inline[ref] = catalog.DataURI(mediaType, data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("embedding assets: %w", err)
	}
	return pipeline.RewriteImageSources(markup, pipeline.MapResolver(inline)), nil
}

func known(cat *catalog.Catalog, ref string) bool {
	if _, ok := cat.Lookup(ref); ok {
		return true
	}
	_, ok := cat.ByLocator(ref)
	return ok
}
