package designstudio

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Renderer, error)
	Release(*Renderer)
	Size() int
	Close() error
} = (*RendererPool)(nil)

func newTestPool(t *testing.T, n int) *RendererPool {
	t.Helper()
	pool := NewRendererPool(n, withFakeBrowser(&fakeBrowser{}), WithSettleDelay(0))
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func mustAcquire(t *testing.T, pool *RendererPool) *Renderer {
	t.Helper()
	r, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	return r
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "explicit can exceed max", workers: 16, want: 16},
		{name: "zero uses auto calculation", workers: 0, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{name: "negative uses auto calculation", workers: -5, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestRendererPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	r1 := mustAcquire(t, pool)
	r2 := mustAcquire(t, pool)
	if r1 == r2 {
		t.Error("expected different renderer instances")
	}

	pool.Release(r1)
	r3 := mustAcquire(t, pool)
	if r3 != r1 {
		t.Error("expected to get back released renderer")
	}

	pool.Release(r2)
	pool.Release(r3)
}

func TestRendererPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newTestPool(t, tt.size)
			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRendererPool_ParallelExports(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pool.Acquire()
			if err != nil {
				errs <- err
				return
			}
			defer pool.Release(r)
			if _, err := r.RenderPDF(context.Background(), Document{Markup: "<p>x</p>"}, testFormat); err != nil {
				errs <- err
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(10 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("parallel exports timed out - possible deadlock")
	}
	close(errs)
	for err := range errs {
		t.Errorf("export error = %v", err)
	}
}

func TestRendererPool_Close(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(2, withFakeBrowser(&fakeBrowser{}))
	r := mustAcquire(t, pool)

	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Release after close is a no-op.
	pool.Release(r)

	if _, err := pool.Acquire(); !errors.Is(err, ErrRendererUnavailable) {
		t.Errorf("Acquire() after Close error = %v, want ErrRendererUnavailable", err)
	}
	if _, err := r.RenderPDF(context.Background(), Document{}, testFormat); !errors.Is(err, ErrRendererUnavailable) {
		t.Errorf("renderer still usable after pool Close: %v", err)
	}
}

func TestRendererPool_CreationFailureFreesSlot(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1, WithAssetPath("/does/not/exist"))
	defer pool.Close()

	for range 2 {
		if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidAssetPath) {
			t.Fatalf("Acquire() error = %v, want ErrInvalidAssetPath", err)
		}
	}
}
