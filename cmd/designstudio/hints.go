package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/config"
	"github.com/alnah/go-designstudio/internal/hints"
	"github.com/alnah/go-designstudio/internal/model"
)

// hintFor returns an actionable suggestion for err, or "".
func hintFor(err error) string {
	switch exitCodeFor(err) {
	case ExitBrowser:
		return hints.ForBrowserConnect()
	case ExitModel:
		if errors.Is(err, model.ErrMissingAPIKey) || errors.Is(err, model.ErrUnauthorized) {
			return hints.ForAPIKey()
		}
		if errors.Is(err, model.ErrMalformedResponse) {
			return hints.ForModelResponse()
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, designstudio.ErrFormatNotFound), errors.Is(err, designstudio.ErrNoFormat):
		formats, ferr := designstudio.Formats("")
		if ferr != nil {
			return ""
		}
		return hints.ForFormatNotFound(designstudio.FormatIDs(formats))
	case errors.Is(err, catalog.ErrNotImage):
		return hints.ForAssetType()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// userConfigPaths lists where a named config is looked up outside the
// working directory.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-designstudio", "designstudio.yaml")}
}
