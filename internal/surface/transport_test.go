package surface_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-designstudio/internal/surface"
)

func TestNewTransport_Validation(t *testing.T) {
	t.Parallel()

	b := surface.NewBrowser()
	t.Cleanup(func() { _ = b.Close() })

	if _, err := b.NewTransport(surface.PageConfig{}); !errors.Is(err, surface.ErrPageCreate) {
		t.Errorf("missing wrapper = %v, want ErrPageCreate", err)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := map[surface.State]string{
		surface.StateUnmounted: "unmounted",
		surface.StateLoading:   "loading",
		surface.StateReady:     "ready",
		surface.StateClosed:    "closed",
		surface.State(42):      "State(42)",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
