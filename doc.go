// Package designstudio previews and exports model-generated HTML/CSS
// designs using headless Chrome.
//
// # Quick Start
//
// Create a studio, pick a format, and generate a design:
//
//	completer, err := designstudio.NewOpenAICompleter(
//	    designstudio.OpenAIConfig{APIKey: key}, 0, 0, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	studio, err := designstudio.NewStudio(designstudio.WithCompleter(completer))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer studio.Close()
//
//	if _, err := studio.SelectFormat("instagram-square"); err != nil {
//	    log.Fatal(err)
//	}
//	res, err := studio.Generate(ctx, "a launch announcement with a dark gradient")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png, err := studio.ExportImage(ctx, designstudio.ImageOptions{})
//
// Any Completer can stand in for OpenAI. Without one, set the document
// directly with Studio.SetDocument.
//
// # Render Pipeline
//
// A design travels through these stages:
//
//  1. Image references naming uploaded assets are rewritten to locators
//  2. The design is delivered to an isolated page sized to the format
//  3. The page acknowledges the update once fonts and images settle
//  4. The page is captured as PNG/JPEG/WebP or printed as a one-page PDF
//
// The live preview (Studio.Preview) follows every document change. Image
// and PDF exports render on a fresh offscreen page so they never disturb
// the preview. HTML export embeds every referenced asset as a data: URI.
//
// # Parallel Processing
//
// For batch exports, use RendererPool to manage multiple browser instances:
//
//	pool := designstudio.NewRendererPool(designstudio.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//	pdf, err := r.RenderPDF(ctx, doc, format)
//
// # Custom Assets
//
// Override the built-in formats, templates and styles with WithAssetPath:
//
//	assets/
//	├── formats.yaml
//	├── styles/
//	│   └── base.css
//	└── templates/
//	    └── placeholder.html
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package designstudio
