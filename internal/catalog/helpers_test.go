package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/alnah/go-designstudio/internal/catalog"
)

// pngBytes encodes a w x h opaque PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

const svgBytes = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

// failingStore fails Save once armed.
type failingStore struct {
	catalog.MemoryStore
	mu      sync.Mutex
	failing bool
}

var errSaveFailed = errors.New("disk full")

func (f *failingStore) arm() {
	f.mu.Lock()
	f.failing = true
	f.mu.Unlock()
}

func (f *failingStore) Save(ctx context.Context, assets []catalog.Asset) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errSaveFailed
	}
	return f.MemoryStore.Save(ctx, assets)
}

// recordingBlobs wraps DataBlobStore and records deletions.
type recordingBlobs struct {
	catalog.DataBlobStore
	mu        sync.Mutex
	deleted   []string
	emptyPut  bool
	deleteErr error
}

func (r *recordingBlobs) Put(ctx context.Context, id string, data []byte, ext string) (string, error) {
	if r.emptyPut {
		return "", nil
	}
	return r.DataBlobStore.Put(ctx, id, data, ext)
}

func (r *recordingBlobs) Delete(_ context.Context, locator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, locator)
	return r.deleteErr
}

func (r *recordingBlobs) deletions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}
