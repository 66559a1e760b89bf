package assets

import (
	"fmt"
	"strings"
)

// Names of the built-in assets.
const (
	SandboxTemplateName     = "sandbox"
	PortableTemplateName    = "portable"
	PlaceholderTemplateName = "placeholder"

	BaseStyleName        = "base"
	PlaceholderStyleName = "placeholder"
)

// AssetLoader defines the contract for loading styles, templates and formats.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadFormats loads the format catalog.
	// Returns ErrFormatsNotFound if the loader has no catalog.
	LoadFormats() ([]FormatSpec, error)
}

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
