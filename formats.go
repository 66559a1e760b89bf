package designstudio

import (
	"fmt"
	"slices"

	"github.com/alnah/go-designstudio/internal/assets"
)

// Formats returns the output format catalog: the built-in formats, merged
// with a formats.yaml under assetPath when one is given.
func Formats(assetPath string) ([]Format, error) {
	loader, err := resolveLoader(assetPath)
	if err != nil {
		return nil, err
	}
	return loadFormats(loader)
}

func loadFormats(loader assets.AssetLoader) ([]Format, error) {
	specs, err := loader.LoadFormats()
	if err != nil {
		return nil, fmt.Errorf("loading formats: %w", err)
	}
	formats := make([]Format, len(specs))
	for i, s := range specs {
		formats[i] = Format{ID: s.ID, Name: s.Name, Width: s.Width, Height: s.Height, Description: s.Description}
	}
	return formats, nil
}

// FindFormat returns the format with the given id.
func FindFormat(formats []Format, id string) (Format, error) {
	i := slices.IndexFunc(formats, func(f Format) bool { return f.ID == id })
	if i < 0 {
		return Format{}, fmt.Errorf("%w: %q", ErrFormatNotFound, id)
	}
	return formats[i], nil
}

// FormatIDs lists the ids of formats, in catalog order.
func FormatIDs(formats []Format) []string {
	ids := make([]string, len(formats))
	for i, f := range formats {
		ids[i] = f.ID
	}
	return ids
}

// resolveLoader picks the embedded assets, or a directory override with
// embedded fallback.
func resolveLoader(assetPath string) (assets.AssetLoader, error) {
	if assetPath == "" {
		return assets.NewEmbeddedLoader(), nil
	}
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return resolver, nil
}

// placeholderDocument is the design shown right after a format is chosen.
func placeholderDocument(loader assets.AssetLoader) (Document, error) {
	markup, err := loader.LoadTemplate(assets.PlaceholderTemplateName)
	if err != nil {
		return Document{}, fmt.Errorf("loading placeholder markup: %w", err)
	}
	style, err := loader.LoadStyle(assets.PlaceholderStyleName)
	if err != nil {
		return Document{}, fmt.Errorf("loading placeholder style: %w", err)
	}
	return Document{Markup: markup, Stylesheet: style}, nil
}
