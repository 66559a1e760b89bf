package designstudio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-designstudio/internal/assets"
	"github.com/alnah/go-designstudio/internal/catalog"
	"github.com/alnah/go-designstudio/internal/model"
	"github.com/alnah/go-designstudio/internal/pipeline"
	"github.com/alnah/go-designstudio/internal/surface"
)

// Document is a design: markup plus its stylesheet. It is replaced
// wholesale, never merged.
type Document struct {
	Markup     string `json:"markup"`
	Stylesheet string `json:"stylesheet"`
}

// Format is an output size in CSS pixels.
type Format struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Description string `json:"description,omitempty"`
}

// Validate checks the identifier and dimensions.
func (f Format) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidFormat)
	}
	if f.Width < 1 || f.Width > assets.MaxFormatDimension || f.Height < 1 || f.Height > assets.MaxFormatDimension {
		return fmt.Errorf("%w: %s is %dx%d (each side must be 1-%d)", ErrInvalidFormat, f.ID, f.Width, f.Height, assets.MaxFormatDimension)
	}
	return nil
}

// Portrait reports whether the format is taller than wide.
func (f Format) Portrait() bool {
	return f.Height > f.Width
}

func (f Format) modelInfo() *model.FormatInfo {
	return &model.FormatInfo{Name: f.Name, Width: f.Width, Height: f.Height}
}

// ImageOptions selects raster output.
type ImageOptions struct {
	Encoding surface.Encoding // png (default), jpeg or webp
	Quality  int              // 1-100 for lossy encodings; 0 means 92
	Scale    float64          // supersampling factor 1-4; 0 uses the configured scale
}

func (o ImageOptions) capture() (surface.CaptureOptions, error) {
	opts, err := surface.CaptureOptions{Encoding: o.Encoding, Quality: o.Quality}.Normalize()
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidImageOptions, err)
	}
	return opts, nil
}

// GenerateResult is a design accepted from the model.
type GenerateResult struct {
	Document        Document
	Explanation     string // Markdown as returned
	ExplanationHTML string // sanitized HTML rendering of Explanation
	Message         string
}

// Option configures a Studio or Renderer.
type Option func(*config)

// config holds settings shared by Studio and Renderer.
type config struct {
	timeout        time.Duration
	readyTimeout   time.Duration
	settleDelay    time.Duration
	scale          float64
	logger         *slog.Logger
	completer      model.Completer
	catalog        *catalog.Catalog
	assetPath      string
	browser        *surface.Browser
	highlightStyle string

	// newTransport replaces the browser-backed transport in tests.
	newTransport func(scale float64) (surface.Transport, error)
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

func defaultConfig() config {
	return config{
		timeout:        defaultTimeout,
		readyTimeout:   surface.DefaultReadyTimeout,
		settleDelay:    surface.DefaultSettleDelay,
		scale:          surface.DefaultScale,
		logger:         slog.New(slog.DiscardHandler),
		highlightStyle: pipeline.DefaultHighlightStyle,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTimeout bounds page loads, model calls and exports.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("designstudio: WithTimeout duration must be positive")
	}
	return func(c *config) {
		c.timeout = d
	}
}

// WithReadyTimeout bounds how long a capture waits for the surface to
// acknowledge the latest update. Panics unless 0 < d < 1s.
func WithReadyTimeout(d time.Duration) Option {
	if d <= 0 || d >= surface.MaxReadyTimeout {
		panic("designstudio: WithReadyTimeout must be in (0, 1s)")
	}
	return func(c *config) {
		c.readyTimeout = d
	}
}

// WithSettleDelay sets the pause between acknowledgement and capture.
// Panics if d < 0.
func WithSettleDelay(d time.Duration) Option {
	if d < 0 {
		panic("designstudio: WithSettleDelay must not be negative")
	}
	return func(c *config) {
		c.settleDelay = d
	}
}

// WithScale sets the default supersampling factor.
// Panics outside 1-4.
func WithScale(scale float64) Option {
	if scale < surface.MinScale || scale > surface.MaxScale {
		panic("designstudio: WithScale must be between 1 and 4")
	}
	return func(c *config) {
		c.scale = scale
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCompleter sets the model used by Generate.
func WithCompleter(m model.Completer) Option {
	return func(c *config) {
		c.completer = m
	}
}

// WithCatalog sets the asset catalog. Without one, a Studio keeps assets
// in memory as data: URIs.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *config) {
		c.catalog = cat
	}
}

// WithAssetPath overrides built-in templates, styles and formats from a
// directory, falling back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *config) {
		c.assetPath = path
	}
}

// WithBrowser shares a browser between instances. The caller closes it.
func WithBrowser(b *surface.Browser) Option {
	return func(c *config) {
		c.browser = b
	}
}

// WithHighlightStyle selects the chroma style for source views.
func WithHighlightStyle(name string) Option {
	return func(c *config) {
		if name != "" {
			c.highlightStyle = name
		}
	}
}
