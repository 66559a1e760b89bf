package catalog

import (
	"time"
)

// Asset is one uploaded image. Width and Height are zero when the image
// header could not be decoded.
type Asset struct {
	ID          string    `json:"id" yaml:"id"`
	DisplayName string    `json:"displayName" yaml:"displayName"`
	Locator     string    `json:"locator" yaml:"locator"`
	MediaType   string    `json:"mediaType" yaml:"mediaType"`
	Size        int64     `json:"size" yaml:"size"`
	UploadedAt  time.Time `json:"uploadedAt" yaml:"uploadedAt"`
	Width       int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int       `json:"height,omitempty" yaml:"height,omitempty"`
}

// HasDimensions reports whether both dimensions were recorded.
func (a Asset) HasDimensions() bool {
	return a.Width > 0 && a.Height > 0
}
