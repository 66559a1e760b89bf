package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple name", "sandbox", nil},
		{"name with hyphen", "my-template", nil},
		{"name with underscore", "my_template", nil},
		{"mixed case with numbers", "Portable2", nil},
		{"empty", "", ErrInvalidAssetName},
		{"forward slash", "a/b", ErrInvalidAssetName},
		{"backslash", `a\b`, ErrInvalidAssetName},
		{"traversal", "../evil", ErrInvalidAssetName},
		{"extension", "base.css", ErrInvalidAssetName},
		{"null byte", "base\x00", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
