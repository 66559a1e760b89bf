package designstudio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/model"
	"github.com/alnah/go-designstudio/internal/surface"
)

// fakePage stands in for a browser tab. It acknowledges every update and
// captures the markup it last received, so tests can see what got rendered.
type fakePage struct {
	mu      sync.Mutex
	scale   float64
	mount   *surface.Mount
	updates []surface.Message
	settled uint64
	closed  bool
	loadErr error
	signals chan surface.Message
}

func (p *fakePage) Load(ctx context.Context, m surface.Mount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return p.loadErr
	}
	p.mount = &m
	return nil
}

func (p *fakePage) Deliver(_ context.Context, msg surface.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("page closed")
	}
	switch msg.Kind {
	case surface.KindUpdate:
		p.updates = append(p.updates, msg)
		if msg.Seq > p.settled {
			p.settled = msg.Seq
			p.signals <- surface.Message{Kind: surface.KindReady, Seq: msg.Seq}
		}
	case surface.KindCheckReady:
		p.signals <- surface.Message{Kind: surface.KindReadyStatus, Seq: p.settled}
	}
	return nil
}

func (p *fakePage) Signals() <-chan surface.Message { return p.signals }

func (p *fakePage) Capture(ctx context.Context, opts surface.CaptureOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(string(opts.Encoding) + ":" + p.lastMarkup()), nil
}

func (p *fakePage) PrintPDF(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte("%PDF-1.7 " + p.lastMarkup()), nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePage) lastMarkup() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.updates) == 0 {
		return ""
	}
	return p.updates[len(p.updates)-1].Markup
}

func (p *fakePage) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fakeBrowser hands out fakePages and remembers them.
type fakeBrowser struct {
	mu      sync.Mutex
	pages   []*fakePage
	loadErr error
	openErr error
}

func (b *fakeBrowser) open(scale float64) (surface.Transport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	p := &fakePage{scale: scale, loadErr: b.loadErr, signals: make(chan surface.Message, 64)}
	b.pages = append(b.pages, p)
	return p, nil
}

func (b *fakeBrowser) opened() []*fakePage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*fakePage(nil), b.pages...)
}

// withFakeBrowser routes every surface to fb instead of Chrome.
func withFakeBrowser(fb *fakeBrowser) Option {
	return func(c *config) {
		c.newTransport = fb.open
	}
}

// fakeCompleter returns a canned response and records requests.
type fakeCompleter struct {
	mu      sync.Mutex
	resp    *model.Response
	err     error
	release chan struct{} // when set, Complete waits on it
	started chan struct{} // when set, closed on first call
	reqs    []model.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	return &resp, nil
}

func (f *fakeCompleter) requests() []model.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Request(nil), f.reqs...)
}

// newTestStudio builds a Studio backed by fake pages with short timings.
func newTestStudio(t *testing.T, opts ...Option) (*Studio, *fakeBrowser) {
	t.Helper()
	fb := &fakeBrowser{}
	base := []Option{
		withFakeBrowser(fb),
		WithReadyTimeout(200 * time.Millisecond),
		WithSettleDelay(0),
		WithTimeout(5 * time.Second),
	}
	s, err := NewStudio(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewStudio() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, fb
}

// newTestCatalog opens a catalog keeping blobs under a temp dir.
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	blobs, err := catalog.NewFileBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBlobStore() error = %v", err)
	}
	cat, err := catalog.Open(context.Background(), catalog.NewMemoryStore(), blobs)
	if err != nil {
		t.Fatalf("catalog.Open() error = %v", err)
	}
	return cat
}

// pngBytes encodes a w x h PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 20, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
