package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-designstudio/internal/process"
)

// Browser lazily launches (or connects to) one headless Chrome shared by
// every transport created from it.
type Browser struct {
	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	controlURL string
	logger     *slog.Logger
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithControlURL connects to an already running browser instead of
// launching one.
func WithControlURL(u string) BrowserOption {
	return func(b *Browser) {
		b.controlURL = u
	}
}

// WithBrowserLogger sets the logger. Nil is ignored.
func WithBrowserLogger(logger *slog.Logger) BrowserOption {
	return func(b *Browser) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBrowser creates a Browser. Nothing starts until the first page.
func NewBrowser(opts ...BrowserOption) *Browser {
	b := &Browser{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ensure returns the connected browser, launching it on first use.
func (b *Browser) ensure() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	u := b.controlURL
	if u == "" {
		l := launcher.New()

		// Pre-installed browser (Docker/containerized environments).
		if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
			l = l.Bin(bin)
		}
		if noSandbox() {
			l = l.NoSandbox(true)
		}

		launched, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		b.launcher = l
		u = launched
		b.logger.Debug("browser launched", "pid", l.PID())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		b.killLocked()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.browser = browser
	return browser, nil
}

// noSandbox reports whether Chrome's sandbox must be disabled, which CI
// runners and containers require.
func noSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("CI") == "true" ||
		os.Getenv("ROD_BROWSER_BIN") != ""
}

// Close disconnects and, for a launched browser, kills its process tree.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		b.browser = nil
	}
	b.killLocked()
	return errors.Join(errs...)
}

func (b *Browser) killLocked() {
	if b.launcher == nil {
		return
	}
	process.KillTree(b.launcher.PID())
	b.launcher.Kill()
	b.launcher.Cleanup()
	b.launcher = nil
}

// LookPath reports the browser binary a launch would use, if any.
func LookPath() (string, bool) {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		return bin, true
	}
	return launcher.LookPath()
}
