package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	designstudio "github.com/alnah/go-designstudio"
)

// sourceSuffix names the editable copy written by --source.
const sourceSuffix = ".source"

// runGenerate asks the model for a design and exports it.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseGenerateFlags(args, env.Stderr)
	if errors.Is(err, errHelpShown) {
		return nil
	}
	if err != nil {
		return err
	}
	prompt := strings.TrimSpace(strings.Join(positional, " "))
	if prompt == "" {
		return fmt.Errorf("%w: describe the design as arguments", designstudio.ErrEmptyPrompt)
	}

	cfg, logger, err := setup(env, f.common)
	if err != nil {
		return err
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.model != "" {
		cfg.Model.Name = f.model
	}
	if err := applyTimeoutFlag(cfg, f.timeout); err != nil {
		return err
	}

	kind, err := parseOutputType(f.out.kind)
	if err != nil {
		return err
	}
	image, err := imageOptionsFor(kind, f.out, cfg)
	if err != nil {
		return err
	}

	formatID := f.format
	if formatID == "" {
		formatID = cfg.Format
	}
	if formatID == "" {
		return fmt.Errorf("%w: pass --format or set format in the config", designstudio.ErrNoFormat)
	}

	completer, err := env.NewCompleter(cfg, logger)
	if err != nil {
		return err
	}
	cat, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	opts := append(studioOptions(cfg, logger, cat), designstudio.WithCompleter(completer))
	studio, err := designstudio.NewStudio(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = studio.Close() }()

	format, err := studio.SelectFormat(formatID)
	if err != nil {
		return err
	}
	if f.from != "" {
		if err := validateDesignExtension(f.from); err != nil {
			return err
		}
		doc, err := readDesign(f.from, siblingStylesheet(f.from))
		if err != nil {
			return err
		}
		if err := studio.SetDocument(doc); err != nil {
			return err
		}
	}

	start := env.Now()
	result, err := studio.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	data, err := exportStudio(ctx, studio, kind, image)
	if err != nil {
		return err
	}

	outputDir := f.out.output
	if outputDir == "" {
		outputDir = cfg.Export.OutputDir
	}
	out := generatedOutputPath(outputDir, format, kind, start)
	if err := writeOutput(out, data); err != nil {
		return err
	}

	var sources []string
	if f.source {
		sources, err = writeSource(out, result.Document)
		if err != nil {
			return err
		}
	}

	if !f.common.quiet {
		printGenerated(env.Stdout, result, append([]string{out}, sources...), f.common.verbose, env.Now().Sub(start))
	}
	return nil
}

// exportStudio exports the session's current design.
func exportStudio(ctx context.Context, s *designstudio.Studio, kind outputType, image designstudio.ImageOptions) ([]byte, error) {
	switch {
	case kind == outputHTML:
		return s.ExportHTML(ctx)
	case kind == outputPDF:
		return s.ExportPDF(ctx)
	case kind.raster():
		return s.ExportImage(ctx, image)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, kind)
	}
}

// generatedOutputPath returns -o when it names a file, otherwise
// design-<format>-<timestamp><ext> inside it.
func generatedOutputPath(output string, format designstudio.Format, kind outputType, at time.Time) string {
	if output != "" && filepath.Ext(output) != "" {
		return output
	}
	name := fmt.Sprintf("design-%s-%s%s", format.ID, at.Format("20060102-150405"), kind.ext())
	return filepath.Join(output, name)
}

// writeSource writes the design beside out as <base>.source.html and
// <base>.source.css, a pair the render command picks up together.
func writeSource(out string, doc designstudio.Document) ([]string, error) {
	base := strings.TrimSuffix(out, filepath.Ext(out)) + sourceSuffix
	paths := []string{base + ".html", base + ".css"}
	if err := writeOutput(paths[0], []byte(doc.Markup)); err != nil {
		return nil, err
	}
	if err := writeOutput(paths[1], []byte(doc.Stylesheet)); err != nil {
		return nil, err
	}
	return paths, nil
}

// printGenerated shows the created files and the model's explanation.
func printGenerated(w io.Writer, result *designstudio.GenerateResult, paths []string, verbose bool, took time.Duration) {
	for _, p := range paths {
		fmt.Fprintf(w, "Created %s\n", p)
	}
	if verbose {
		fmt.Fprintf(w, "Generated in %v\n", took.Round(time.Millisecond))
	}
	if result.Message != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, result.Message)
	}
	if result.Explanation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, result.Explanation)
	}
}
