package assets

import (
	"errors"
	"testing"
)

func TestParseFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
		wantLen int
	}{
		{
			name:    "valid catalog",
			data:    "- id: banner\n  name: Banner\n  width: 728\n  height: 90\n",
			wantLen: 1,
		},
		{
			name:    "missing id",
			data:    "- name: Banner\n  width: 728\n  height: 90\n",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "duplicate id",
			data:    "- {id: a, width: 1, height: 1}\n- {id: a, width: 2, height: 2}\n",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "zero width",
			data:    "- {id: a, width: 0, height: 10}\n",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "too large",
			data:    "- {id: a, width: 10001, height: 10}\n",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "unknown field",
			data:    "- {id: a, width: 10, height: 10, depth: 3}\n",
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormats([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFormats() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormats() unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestMergeFormats(t *testing.T) {
	t.Parallel()

	base := []FormatSpec{
		{ID: "a", Width: 1, Height: 1},
		{ID: "b", Width: 2, Height: 2},
	}
	overrides := []FormatSpec{
		{ID: "b", Width: 20, Height: 20},
		{ID: "c", Width: 3, Height: 3},
	}

	got := mergeFormats(base, overrides)

	wantIDs := []string{"a", "b", "c"}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[1].Width != 20 {
		t.Errorf("override not applied: width = %d", got[1].Width)
	}
	if base[1].Width != 2 {
		t.Error("base slice was mutated")
	}
}
