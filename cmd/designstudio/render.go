package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	designstudio "github.com/alnah/go-designstudio"
)

// errBatchFailed marks a run where at least one design failed.
var errBatchFailed = errors.New("some designs failed")

// Renderer is the part of *designstudio.Renderer a batch uses.
type Renderer interface {
	ExportHTML(ctx context.Context, doc designstudio.Document, format designstudio.Format) ([]byte, error)
	RenderImage(ctx context.Context, doc designstudio.Document, format designstudio.Format, opts designstudio.ImageOptions) ([]byte, error)
	RenderPDF(ctx context.Context, doc designstudio.Document, format designstudio.Format) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*designstudio.Renderer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() (Renderer, error)
	Release(Renderer)
	Size() int
}

// poolAdapter exposes a *designstudio.RendererPool as a Pool.
type poolAdapter struct {
	pool *designstudio.RendererPool
}

func (a *poolAdapter) Acquire() (Renderer, error) {
	r, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (a *poolAdapter) Release(r Renderer) {
	dr, ok := r.(*designstudio.Renderer)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(dr)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// DesignFile is one design to render.
type DesignFile struct {
	InputPath  string
	StylePath  string // empty = no stylesheet
	OutputPath string
}

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderJob groups parameters shared across the batch.
type renderJob struct {
	format designstudio.Format
	kind   outputType
	image  designstudio.ImageOptions
}

// runRender renders design files to the selected output type.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseRenderFlags(args, env.Stderr)
	if errors.Is(err, errHelpShown) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: pass one or more .html files or directories", ErrNoInput)
	}
	if err := validateWorkers(f.workers); err != nil {
		return err
	}

	cfg, logger, err := setup(env, f.common)
	if err != nil {
		return err
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if err := applyTimeoutFlag(cfg, f.timeout); err != nil {
		return err
	}

	kindName := f.out.kind
	if kindName == "" {
		kindName = cfg.Export.Encoding
	}
	kind, err := parseOutputType(kindName)
	if err != nil {
		return err
	}
	image, err := imageOptionsFor(kind, f.out, cfg)
	if err != nil {
		return err
	}

	formats, err := designstudio.Formats(cfg.Assets.BasePath)
	if err != nil {
		return err
	}
	format, err := resolveFormat(f.format, cfg, formats)
	if err != nil {
		return err
	}

	outputDir := f.out.output
	if outputDir == "" {
		outputDir = cfg.Export.OutputDir
	}
	files, err := discoverDesigns(positional, outputDir, f.css, kind)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .html files found", ErrNoInput)
	}

	cat, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	size := min(designstudio.ResolvePoolSize(cfg.Render.Workers), len(files))
	logger.Debug("rendering", "designs", len(files), "format", format.ID, "type", kind, "workers", size)
	pool := designstudio.NewRendererPool(size, studioOptions(cfg, logger, cat)...)
	defer func() { _ = pool.Close() }()

	job := renderJob{format: format, kind: kind, image: image}
	results := renderBatch(ctx, &poolAdapter{pool: pool}, files, job)
	return printResults(results, f.common, env)
}

// discoverDesigns expands inputs into design files. Directories are walked
// for .html/.htm files; outputs mirror their layout under outputDir.
func discoverDesigns(inputs []string, outputDir, css string, kind outputType) ([]DesignFile, error) {
	single := len(inputs) == 1
	var files []DesignFile
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		if !info.IsDir() {
			if err := validateDesignExtension(input); err != nil {
				return nil, err
			}
			files = append(files, designFile(input, "", outputDir, css, kind, single))
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || validateDesignExtension(path) != nil {
				return nil
			}
			files = append(files, designFile(path, input, outputDir, css, kind, false))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// designFile pairs an input with its stylesheet and output path.
func designFile(path, baseDir, outputDir, css string, kind outputType, single bool) DesignFile {
	style := css
	if style == "" {
		style = siblingStylesheet(path)
	}
	return DesignFile{
		InputPath:  path,
		StylePath:  style,
		OutputPath: resolveOutputPath(path, baseDir, outputDir, kind, single),
	}
}

// resolveOutputPath determines where an export is written.
// A single input with an -o that carries an extension writes there;
// otherwise outputDir (or the input's directory) receives <base><ext>.
func resolveOutputPath(inputPath, baseDir, outputDir string, kind outputType, single bool) string {
	if single && outputDir != "" && filepath.Ext(outputDir) != "" {
		return outputDir
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := filepath.Dir(inputPath)
	if outputDir != "" {
		dir = outputDir
		if baseDir != "" {
			if rel, err := filepath.Rel(baseDir, filepath.Dir(inputPath)); err == nil {
				dir = filepath.Join(outputDir, rel)
			}
		}
	}

	out := filepath.Join(dir, base+kind.ext())
	if filepath.Clean(out) == filepath.Clean(inputPath) {
		// Never overwrite the source design.
		out = filepath.Join(dir, base+".portable"+kind.ext())
	}
	return out
}

// renderBatch processes files concurrently using the renderer pool.
func renderBatch(ctx context.Context, pool Pool, files []DesignFile, job renderJob) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], job)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders one design and writes it.
func renderFile(ctx context.Context, r Renderer, f DesignFile, job renderJob) (result RenderResult) {
	start := time.Now()
	result = RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { result.Duration = time.Since(start) }()

	doc, err := readDesign(f.InputPath, f.StylePath)
	if err != nil {
		result.Err = err
		return result
	}

	data, err := export(ctx, r, doc, job)
	if err != nil {
		result.Err = err
		return result
	}
	result.Err = writeOutput(f.OutputPath, data)
	return result
}

// export produces the bytes for one document.
func export(ctx context.Context, r Renderer, doc designstudio.Document, job renderJob) ([]byte, error) {
	switch {
	case job.kind == outputHTML:
		return r.ExportHTML(ctx, doc, job.format)
	case job.kind == outputPDF:
		return r.RenderPDF(ctx, doc, job.format)
	case job.kind.raster():
		return r.RenderImage(ctx, doc, job.format, job.image)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, job.kind)
	}
}

// printResults reports each render and returns an error wrapping the first
// failure when any design failed.
func printResults(results []RenderResult, f commonFlags, env *Environment) error {
	var failed int
	var first error
	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		if f.quiet {
			continue
		}
		if f.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !f.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d: %w", errBatchFailed, failed, len(results), first)
	}
	return nil
}
