package assets

import (
	"errors"
	"testing"
)

func TestAssetResolver_EmbeddedOnly(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	if r.HasCustomLoader() {
		t.Error("expected no custom loader")
	}
	if _, err := r.LoadTemplate(SandboxTemplateName); err != nil {
		t.Errorf("LoadTemplate() error = %v", err)
	}
}

func TestAssetResolver_InvalidCustomPath(t *testing.T) {
	t.Parallel()

	if _, err := NewAssetResolver("/nonexistent/abc123"); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
	}
}

func TestAssetResolver_CustomOverridesWithFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles/base.css", "/* custom */")

	r, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	got, err := r.LoadStyle(BaseStyleName)
	if err != nil || got != "/* custom */" {
		t.Errorf("LoadStyle(base) = %q, %v; want custom", got, err)
	}

	// Not overridden: falls back to embedded.
	if _, err := r.LoadStyle(PlaceholderStyleName); err != nil {
		t.Errorf("LoadStyle(placeholder) error = %v", err)
	}
	if _, err := r.LoadTemplate(PortableTemplateName); err != nil {
		t.Errorf("LoadTemplate(portable) error = %v", err)
	}
}

func TestAssetResolver_ValidationErrorsNotFallenBack(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadStyle("../base"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
	}
}

func TestAssetResolver_LoadFormats(t *testing.T) {
	t.Parallel()

	t.Run("no custom catalog", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		formats, err := r.LoadFormats()
		if err != nil {
			t.Fatalf("LoadFormats() error = %v", err)
		}
		if len(formats) == 0 {
			t.Error("expected built-in formats")
		}
	})

	t.Run("custom catalog merged", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, "formats.yaml",
			"- {id: instagram-square, name: Square, width: 1200, height: 1200}\n"+
				"- {id: banner, name: Banner, width: 728, height: 90}\n")

		r, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		formats, err := r.LoadFormats()
		if err != nil {
			t.Fatalf("LoadFormats() error = %v", err)
		}

		byID := make(map[string]FormatSpec)
		for _, f := range formats {
			byID[f.ID] = f
		}
		if byID["instagram-square"].Width != 1200 {
			t.Errorf("override not applied: %+v", byID["instagram-square"])
		}
		if _, ok := byID["banner"]; !ok {
			t.Error("custom format not appended")
		}
		if _, ok := byID["poster-a4"]; !ok {
			t.Error("built-in format lost")
		}
	})

	t.Run("invalid custom catalog reported", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, "formats.yaml", "- {id: x, width: 0, height: 0}\n")

		r, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.LoadFormats(); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("LoadFormats() error = %v, want ErrInvalidFormat", err)
		}
	})
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{ErrStyleNotFound, true},
		{ErrTemplateNotFound, true},
		{ErrFormatsNotFound, true},
		{ErrInvalidAssetName, false},
		{errors.New("other"), false},
	}
	for _, tt := range tests {
		if got := isNotFoundError(tt.err); got != tt.want {
			t.Errorf("isNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
