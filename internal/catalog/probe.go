package catalog

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// probe describes uploaded bytes.
type probe struct {
	mediaType string
	extension string
	width     int
	height    int
}

// probeImage detects the media type from content and decodes the image
// header for dimensions. Dimensions stay zero when decoding fails, which
// is always the case for SVG.
func probeImage(data []byte) (probe, error) {
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return probe{}, ErrNotImage
	}

	p := probe{mediaType: baseMediaType(mt.String()), extension: mt.Extension()}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		p.width, p.height = cfg.Width, cfg.Height
	}
	return p, nil
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

// baseMediaType strips parameters such as "; charset=utf-8".
func baseMediaType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		return strings.TrimSpace(mt[:i])
	}
	return mt
}

// DetectMediaType returns the content-detected media type without parameters.
func DetectMediaType(data []byte) string {
	return baseMediaType(mimetype.Detect(data).String())
}
