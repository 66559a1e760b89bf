package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/config"
	"github.com/alnah/go-designstudio/internal/fileutil"
	"github.com/alnah/go-designstudio/internal/surface"
)

// Sentinel errors for file operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read design file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrUnknownOutputType  = errors.New("unknown output type")
	ErrInvalidExtension   = errors.New("design file must have .html or .htm extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxWorkers bounds --workers; each renderer drives a browser.
const maxWorkers = designstudio.MaxPoolSize

// outputType is what an export produces.
type outputType string

// Supported output types.
const (
	outputHTML outputType = "html"
	outputPNG  outputType = "png"
	outputJPEG outputType = "jpeg"
	outputWebP outputType = "webp"
	outputPDF  outputType = "pdf"
)

// parseOutputType accepts the type names and "jpg".
func parseOutputType(s string) (outputType, error) {
	switch t := outputType(strings.ToLower(strings.TrimSpace(s))); t {
	case outputHTML, outputPNG, outputJPEG, outputWebP, outputPDF:
		return t, nil
	case "jpg":
		return outputJPEG, nil
	default:
		return "", fmt.Errorf("%w: %q (must be html, png, jpeg, webp, or pdf)", ErrUnknownOutputType, s)
	}
}

// ext returns the file extension, including the dot.
func (t outputType) ext() string {
	if t == outputJPEG {
		return ".jpg"
	}
	return "." + string(t)
}

// raster reports whether the type is an image capture.
func (t outputType) raster() bool {
	return t == outputPNG || t == outputJPEG || t == outputWebP
}

// imageOptionsFor merges output flags with the export defaults.
func imageOptionsFor(t outputType, f outputFlags, cfg *config.Config) (designstudio.ImageOptions, error) {
	if f.scale != 0 && (f.scale < surface.MinScale || f.scale > surface.MaxScale) {
		return designstudio.ImageOptions{}, fmt.Errorf("%w: --scale %.2f (must be between 1 and 4)", designstudio.ErrInvalidScale, f.scale)
	}
	opts := designstudio.ImageOptions{Encoding: surface.Encoding(t), Scale: f.scale}
	if t == outputJPEG || t == outputWebP {
		opts.Quality = cfg.Export.Quality
		if f.quality != 0 {
			opts.Quality = f.quality
		}
		if opts.Quality < 1 || opts.Quality > 100 {
			return opts, fmt.Errorf("%w: --quality %d (must be between 1 and 100)", designstudio.ErrInvalidImageOptions, opts.Quality)
		}
	}
	return opts, nil
}

// validateWorkers checks the --workers range.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// validateDesignExtension accepts .html and .htm files.
func validateDesignExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}
}

// siblingStylesheet returns <base>.css next to path when it exists.
func siblingStylesheet(path string) string {
	css := strings.TrimSuffix(path, filepath.Ext(path)) + ".css"
	if fileutil.FileExists(css) {
		return css
	}
	return ""
}

// readDesign loads markup and its stylesheet. An empty stylePath means
// no stylesheet.
func readDesign(markupPath, stylePath string) (designstudio.Document, error) {
	markup, err := os.ReadFile(markupPath) // #nosec G304 -- user-provided path
	if err != nil {
		return designstudio.Document{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	doc := designstudio.Document{Markup: string(markup)}
	if stylePath != "" {
		css, err := os.ReadFile(stylePath) // #nosec G304 -- user-provided path
		if err != nil {
			return designstudio.Document{}, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		doc.Stylesheet = string(css)
	}
	return doc, nil
}

// writeOutput writes data atomically, creating the parent directory, so a
// failed run never leaves a partial file behind.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
