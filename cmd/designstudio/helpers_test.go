package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/config"
)

// fakeCompleter returns a fixed design or error and records requests.
type fakeCompleter struct {
	resp *designstudio.CompletionResponse
	err  error

	mu   sync.Mutex
	reqs []designstudio.CompletionRequest
}

func (c *fakeCompleter) Complete(_ context.Context, req designstudio.CompletionRequest) (*designstudio.CompletionResponse, error) {
	c.mu.Lock()
	c.reqs = append(c.reqs, req)
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	r := *c.resp
	return &r, nil
}

func (c *fakeCompleter) requests() []designstudio.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]designstudio.CompletionRequest(nil), c.reqs...)
}

// testEnv captures output and uses completer for model calls.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(completer designstudio.Completer, completerErr error) *testEnv {
	var stdout, stderr bytes.Buffer
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) },
			Stdout: &stdout,
			Stderr: &stderr,
			NewCompleter: func(*config.Config, *slog.Logger) (designstudio.Completer, error) {
				if completerErr != nil {
					return nil, completerErr
				}
				return completer, nil
			},
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// writeConfig writes a config that keeps the catalog inside dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "designstudio.yaml", `catalog:
  store: file
  path: `+filepath.Join(dir, "data", "catalog.yaml")+`
  blobDir: `+filepath.Join(dir, "data", "blobs")+`
render:
  timeout: 5s
`)
}

// writePNG writes a w x h PNG and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}
