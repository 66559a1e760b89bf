package surface

import (
	"context"
	"fmt"
)

// MaxDimension bounds surface width and height in CSS pixels.
const MaxDimension = 10000

// Mount describes the document a surface renders.
type Mount struct {
	Markup     string
	Stylesheet string
	Width      int // CSS px
	Height     int // CSS px
}

// Validate checks the box dimensions.
func (m Mount) Validate() error {
	if m.Width < 1 || m.Width > MaxDimension || m.Height < 1 || m.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d (each side must be 1-%d)", ErrInvalidDimensions, m.Width, m.Height, MaxDimension)
	}
	return nil
}

// Encoding selects the raster format of a capture.
type Encoding string

// Supported capture encodings.
const (
	EncodingPNG  Encoding = "png"
	EncodingJPEG Encoding = "jpeg"
	EncodingWebP Encoding = "webp"
)

// DefaultQuality applies to lossy encodings when none is set.
const DefaultQuality = 92

// CaptureOptions configures a raster capture.
type CaptureOptions struct {
	Encoding Encoding // default png
	Quality  int      // 1-100, lossy encodings only; 0 means DefaultQuality
}

// Normalize fills defaults and validates the options.
func (o CaptureOptions) Normalize() (CaptureOptions, error) {
	if o.Encoding == "" {
		o.Encoding = EncodingPNG
	}
	switch o.Encoding {
	case EncodingPNG, EncodingJPEG, EncodingWebP:
	default:
		return o, fmt.Errorf("%w: %q (want png, jpeg or webp)", ErrInvalidEncoding, o.Encoding)
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality < 1 || o.Quality > 100 {
		return o, fmt.Errorf("%w: quality %d out of range 1-100", ErrInvalidEncoding, o.Quality)
	}
	return o, nil
}

// Lossy reports whether quality applies.
func (o CaptureOptions) Lossy() bool {
	return o.Encoding == EncodingJPEG || o.Encoding == EncodingWebP
}

// Transport is the isolated rendering context behind a Surface.
type Transport interface {
	// Load prepares an empty document sized to m. Content arrives later
	// through Deliver.
	Load(ctx context.Context, m Mount) error
	// Deliver hands one inbound message to the document.
	Deliver(ctx context.Context, msg Message) error
	// Signals yields outbound messages. It is closed by Close.
	Signals() <-chan Message
	// Capture rasterizes the design box only.
	Capture(ctx context.Context, opts CaptureOptions) ([]byte, error)
	// PrintPDF prints the design box as a single page.
	PrintPDF(ctx context.Context) ([]byte, error)
	Close() error
}
