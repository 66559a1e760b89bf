package assets

import (
	"fmt"

	"github.com/alnah/go-designstudio/internal/yamlutil"
)

// MaxFormatDimension bounds format width and height in CSS pixels.
const MaxFormatDimension = 10000

// FormatSpec is one entry of a format catalog file.
type FormatSpec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Description string `yaml:"description"`
}

// ParseFormats decodes and validates a YAML format catalog.
func ParseFormats(data []byte) ([]FormatSpec, error) {
	var specs []FormatSpec
	if err := yamlutil.UnmarshalStrict(data, &specs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := ValidateFormats(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// ValidateFormats checks ids are present and unique and dimensions are in range.
func ValidateFormats(specs []FormatSpec) error {
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		if s.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidFormat, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidFormat, s.ID)
		}
		seen[s.ID] = true
		if s.Width < 1 || s.Width > MaxFormatDimension || s.Height < 1 || s.Height > MaxFormatDimension {
			return fmt.Errorf("%w: %q has dimensions %dx%d (must be 1-%d)",
				ErrInvalidFormat, s.ID, s.Width, s.Height, MaxFormatDimension)
		}
	}
	return nil
}

// mergeFormats returns base with overrides applied: entries sharing an id
// are replaced in place, new ids are appended in override order.
func mergeFormats(base, overrides []FormatSpec) []FormatSpec {
	merged := make([]FormatSpec, len(base))
	copy(merged, base)

	index := make(map[string]int, len(merged))
	for i, s := range merged {
		index[s.ID] = i
	}
	for _, o := range overrides {
		if i, ok := index[o.ID]; ok {
			merged[i] = o
			continue
		}
		index[o.ID] = len(merged)
		merged = append(merged, o)
	}
	return merged
}
