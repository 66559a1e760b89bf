package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-designstudio/internal/model"
)

// ---------------------------------------------------------------------------
// TestRunServe - Startup and shutdown
// ---------------------------------------------------------------------------

func TestRunServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "designstudio.yaml", "catalog:\n  store: memory\n")
	env := newTestEnv(nil, model.ErrMissingAPIKey)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := runServe(ctx, []string{"-a", "127.0.0.1:0", "-f", "instagram-square", "-c", cfgPath}, env.Environment)
	if err != nil {
		t.Fatalf("runServe() error = %v", err)
	}
	if !strings.Contains(env.stderr.String(), "design generation disabled") {
		t.Errorf("stderr = %q, want the generation warning", env.stderr.String())
	}
}

func TestRunServe_UnknownFormat(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "designstudio.yaml", "catalog:\n  store: memory\n")
	env := newTestEnv(&fakeCompleter{}, nil)

	err := runServe(context.Background(), []string{"-f", "billboard", "-c", cfgPath}, env.Environment)
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("runServe() error = %v, want a usage error", err)
	}
	if errors.Is(err, errUsage) {
		t.Errorf("runServe() error = %v, want the format error itself", err)
	}
}
