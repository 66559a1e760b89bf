package main

import (
	"errors"
	"os"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/config"
	"github.com/alnah/go-designstudio/internal/model"
	"github.com/alnah/go-designstudio/internal/surface"
)

// Exit codes for the designstudio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, catalog storage
	ExitBrowser = 4 // Browser/Chrome errors
	ExitModel   = 5 // Model request or response errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, surface.ErrBrowserConnect) ||
		errors.Is(err, surface.ErrPageCreate) ||
		errors.Is(err, surface.ErrPageLoad) ||
		errors.Is(err, surface.ErrCapture) ||
		errors.Is(err, surface.ErrPrint) ||
		errors.Is(err, designstudio.ErrCapture) ||
		errors.Is(err, designstudio.ErrRendererUnavailable) {
		return ExitBrowser
	}

	// Model errors (exit 5)
	if errors.Is(err, designstudio.ErrModelResponse) ||
		errors.Is(err, designstudio.ErrNoCompleter) ||
		errors.Is(err, model.ErrMissingAPIKey) ||
		errors.Is(err, model.ErrUnauthorized) ||
		errors.Is(err, model.ErrMalformedResponse) ||
		errors.Is(err, model.ErrModelUnavailable) {
		return ExitModel
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, catalog.ErrStoreLoad) ||
		errors.Is(err, catalog.ErrStoreSave) ||
		errors.Is(err, catalog.ErrBlobWrite) ||
		errors.Is(err, catalog.ErrBlobRead) ||
		errors.Is(err, catalog.ErrAssetNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, errUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, designstudio.ErrNoFormat) ||
		errors.Is(err, designstudio.ErrFormatNotFound) ||
		errors.Is(err, designstudio.ErrInvalidFormat) ||
		errors.Is(err, designstudio.ErrInvalidScale) ||
		errors.Is(err, designstudio.ErrInvalidImageOptions) ||
		errors.Is(err, designstudio.ErrInvalidAssetPath) ||
		errors.Is(err, designstudio.ErrEmptyPrompt) ||
		errors.Is(err, catalog.ErrEmptyAsset) ||
		errors.Is(err, catalog.ErrNotImage) ||
		errors.Is(err, catalog.ErrAssetTooLarge) ||
		errors.Is(err, ErrUnknownOutputType) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
