package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/config"
	"github.com/alnah/go-designstudio/internal/model"
	"github.com/alnah/go-designstudio/internal/surface"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error classification
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"browser connect", surface.ErrBrowserConnect, ExitBrowser},
		{"page load", fmt.Errorf("exporting: %w", surface.ErrPageLoad), ExitBrowser},
		{"capture", designstudio.ErrCapture, ExitBrowser},
		{"pool closed", designstudio.ErrRendererUnavailable, ExitBrowser},
		{"model response", fmt.Errorf("%w: %w", designstudio.ErrModelResponse, model.ErrModelUnavailable), ExitModel},
		{"no completer", designstudio.ErrNoCompleter, ExitModel},
		{"missing key", model.ErrMissingAPIKey, ExitModel},
		{"file missing", fmt.Errorf("open: %w", os.ErrNotExist), ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"catalog save", catalog.ErrStoreSave, ExitIO},
		{"asset not found", catalog.ErrAssetNotFound, ExitIO},
		{"usage", errUsage, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"format not found", designstudio.ErrFormatNotFound, ExitUsage},
		{"empty prompt", designstudio.ErrEmptyPrompt, ExitUsage},
		{"not an image", catalog.ErrNotImage, ExitUsage},
		{"bad extension", ErrInvalidExtension, ExitUsage},
		{"shell", ErrUnsupportedShell, ExitUsage},
		{"cancelled", context.Canceled, ExitGeneral},
		{"batch", fmt.Errorf("%w: 1 of 1: %w", errBatchFailed, surface.ErrCapture), ExitBrowser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable suggestions
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string // substring; empty means no hint
	}{
		{"api key", model.ErrUnauthorized, "OPENAI_API_KEY"},
		{"malformed", fmt.Errorf("%w: %w", designstudio.ErrModelResponse, model.ErrMalformedResponse), "unchanged"},
		{"timeout", fmt.Errorf("render: %w", context.DeadlineExceeded), "--timeout"},
		{"format", designstudio.ErrFormatNotFound, "instagram-square"},
		{"asset type", catalog.ErrNotImage, "PNG"},
		{"output", ErrWriteOutput, "writable"},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
