package assets

import (
	"embed"
	"fmt"
	"path"
)

// builtin holds the stylesheets, page wrappers and format catalog that
// ship with the binary.
//
//go:embed styles/*.css templates/*.html formats.yaml
var builtin embed.FS

// EmbeddedLoader serves the built-in assets. It never touches the disk.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle returns styles/<name>.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readBuiltin("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate returns templates/<name>.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readBuiltin("templates", name, ".html", ErrTemplateNotFound)
}

// LoadFormats parses the built-in format catalog.
func (e *EmbeddedLoader) LoadFormats() ([]FormatSpec, error) {
	data, err := builtin.ReadFile("formats.yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: built-in catalog", ErrFormatsNotFound)
	}
	return ParseFormats(data)
}

func readBuiltin(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := builtin.ReadFile(path.Join(dir, name+ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
