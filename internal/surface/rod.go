package surface

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"github.com/alnah/go-designstudio/internal/fileutil"
	"github.com/alnah/go-designstudio/internal/pipeline"
)

// SignalBinding is the page function the bootstrap script calls to talk
// back to the host. It is the only outbound path.
const SignalBinding = "__designstudioSignal"

// Scale bounds and default for device-pixel supersampling.
const (
	DefaultScale = 2.0
	MinScale     = 1.0
	MaxScale     = 4.0
)

// cssPixelsPerInch converts the design box to PDF paper inches.
const cssPixelsPerInch = 96.0

// signalBuffer holds acknowledgements until the Surface reads them.
const signalBuffer = 32

const (
	applyScript  = `(seq, markup, css) => window.__designstudio.apply(seq, markup, css)`
	statusScript = `() => window.__designstudio.status()`
)

// PageConfig supplies the wrapper document a RodTransport loads.
type PageConfig struct {
	Wrapper   *pipeline.PageTemplate
	BaseStyle string
	Scale     float64       // device scale factor; 0 means DefaultScale
	Timeout   time.Duration // page load bound; 0 means 30s
	Logger    *slog.Logger
}

// Compile-time interface check.
var _ Transport = (*RodTransport)(nil)

// RodTransport renders a surface in its own Chrome tab.
type RodTransport struct {
	browser *Browser
	cfg     PageConfig
	logger  *slog.Logger

	mu      sync.Mutex
	page    *rod.Page
	box     Mount
	stop    context.CancelFunc
	evDone  chan struct{}
	once    sync.Once

	sigMu   sync.Mutex
	signals chan Message
	closed  bool
}

// NewTransport creates a tab-backed Transport. The tab opens on Load.
func (b *Browser) NewTransport(cfg PageConfig) (*RodTransport, error) {
	if cfg.Wrapper == nil {
		return nil, fmt.Errorf("%w: missing wrapper template", ErrPageCreate)
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.Scale < MinScale || cfg.Scale > MaxScale {
		return nil, fmt.Errorf("%w: scale %.2f out of range %.0f-%.0f", ErrInvalidDimensions, cfg.Scale, MinScale, MaxScale)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = b.logger
	}
	return &RodTransport{
		browser: b,
		cfg:     cfg,
		logger:  logger,
		signals: make(chan Message, signalBuffer),
	}, nil
}

// Signals yields ready and readyStatus messages from the page.
func (t *RodTransport) Signals() <-chan Message {
	return t.signals
}

// Load opens a tab, wires the signal binding and navigates to an empty
// wrapper document sized to m.
func (t *RodTransport) Load(ctx context.Context, m Mount) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.page != nil {
		return ErrAlreadyMounted
	}

	b, err := t.browser.ensure()
	if err != nil {
		return err
	}

	doc, err := t.cfg.Wrapper.Render(pipeline.PageData{
		Title:  "designstudio surface",
		Nonce:  strings.ReplaceAll(uuid.NewString(), "-", ""),
		Width:  m.Width,
		Height: m.Height,
		Style:  t.cfg.BaseStyle,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	path, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer cleanup()

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := (proto.RuntimeAddBinding{Name: SignalBinding}).Call(page); err != nil {
		_ = page.Close()
		return fmt.Errorf("%w: binding: %v", ErrPageCreate, err)
	}

	evCtx, stop := context.WithCancel(context.Background())
	evDone := make(chan struct{})
	wait := page.Context(evCtx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != SignalBinding {
			return
		}
		msg, err := DecodeSignal(e.Payload)
		if err != nil {
			t.logger.Debug("dropping malformed signal", "error", err)
			return
		}
		t.push(msg)
	})
	go func() {
		defer close(evDone)
		wait()
	}()

	fail := func(err error) error {
		stop()
		_ = page.Close()
		<-evDone
		return err
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             m.Width,
		Height:            m.Height,
		DeviceScaleFactor: t.cfg.Scale,
	})
	if err != nil {
		return fail(fmt.Errorf("%w: viewport: %v", ErrPageLoad, err))
	}

	nav := page.Context(ctx).Timeout(t.cfg.Timeout)
	if err := nav.Navigate(fileutil.FileURL(path)); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrPageLoad, err))
	}
	if err := nav.WaitLoad(); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrPageLoad, err))
	}

	t.page = page
	t.box = Mount{Width: m.Width, Height: m.Height}
	t.stop = stop
	t.evDone = evDone
	t.logger.Debug("surface page loaded", "width", m.Width, "height", m.Height, "scale", t.cfg.Scale)
	return nil
}

// push forwards a signal without blocking the CDP event loop. A full
// buffer drops the signal; the next checkReady recovers it.
func (t *RodTransport) push(msg Message) {
	t.sigMu.Lock()
	defer t.sigMu.Unlock()
	if t.closed {
		return
	}
	select {
	case t.signals <- msg:
	default:
		t.logger.Debug("signal buffer full, dropping", "kind", msg.Kind, "seq", msg.Seq)
	}
}

func (t *RodTransport) loadedPage() (*rod.Page, Mount, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.page == nil {
		return nil, Mount{}, ErrNotMounted
	}
	return t.page, t.box, nil
}

// Deliver evaluates the bootstrap entry point for msg.
func (t *RodTransport) Deliver(ctx context.Context, msg Message) error {
	page, _, err := t.loadedPage()
	if err != nil {
		return err
	}

	switch msg.Kind {
	case KindUpdate:
		_, err := page.Context(ctx).Eval(applyScript, msg.Seq, msg.Markup, msg.Stylesheet)
		return err
	case KindCheckReady:
		res, err := page.Context(ctx).Eval(statusScript)
		if err != nil {
			return err
		}
		t.push(Message{Kind: KindReadyStatus, Seq: uint64(res.Value.Int())})
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMessage, msg.Kind)
	}
}

// Capture screenshots the design box at the configured device scale.
func (t *RodTransport) Capture(ctx context.Context, opts CaptureOptions) ([]byte, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	page, box, err := t.loadedPage()
	if err != nil {
		return nil, err
	}

	req := &proto.PageCaptureScreenshot{
		Format: screenshotFormat(opts.Encoding),
		Clip: &proto.PageViewport{
			X:      0,
			Y:      0,
			Width:  float64(box.Width),
			Height: float64(box.Height),
			Scale:  1,
		},
	}
	if opts.Lossy() {
		q := opts.Quality
		req.Quality = &q
	}
	return page.Context(ctx).Screenshot(false, req)
}

func screenshotFormat(e Encoding) proto.PageCaptureScreenshotFormat {
	switch e {
	case EncodingJPEG:
		return proto.PageCaptureScreenshotFormatJpeg
	case EncodingWebP:
		return proto.PageCaptureScreenshotFormatWebp
	default:
		return proto.PageCaptureScreenshotFormatPng
	}
}

// PrintPDF prints one page exactly the size of the design box.
func (t *RodTransport) PrintPDF(ctx context.Context) ([]byte, error) {
	page, box, err := t.loadedPage()
	if err != nil {
		return nil, err
	}

	zero := 0.0
	width := float64(box.Width) / cssPixelsPerInch
	height := float64(box.Height) / cssPixelsPerInch
	reader, err := page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &zero,
		MarginBottom:    &zero,
		MarginLeft:      &zero,
		MarginRight:     &zero,
		PrintBackground: true,
		PageRanges:      "1",
	})
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return data, nil
}

// Close closes the tab and ends the signal stream. The Browser stays up.
func (t *RodTransport) Close() error {
	var err error
	t.once.Do(func() {
		t.mu.Lock()
		page, stop, evDone := t.page, t.stop, t.evDone
		t.page = nil
		t.mu.Unlock()

		if stop != nil {
			stop()
		}
		if page != nil {
			err = page.Close()
		}
		if evDone != nil {
			<-evDone
		}

		t.sigMu.Lock()
		t.closed = true
		close(t.signals)
		t.sigMu.Unlock()
	})
	return err
}
