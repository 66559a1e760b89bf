package designstudio

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one renderer is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// RendererPool hands out Renderers for parallel batch exports. Each
// Renderer drives its own browser. Renderers are created lazily on first
// acquire to avoid startup delay.
type RendererPool struct {
	size      int
	opts      []Option
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewRendererPool creates a pool with capacity for n Renderers built
// with opts.
func NewRendererPool(n int, opts ...Option) *RendererPool {
	if n < 1 {
		n = 1
	}

	return &RendererPool{
		size:      n,
		opts:      opts,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
	}
}

// Acquire gets a renderer from the pool, creating one if needed.
// Blocks if all renderers are in use.
func (p *RendererPool) Acquire() (*Renderer, error) {
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrRendererUnavailable
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrRendererUnavailable
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock
		r, err := NewRenderer(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()

		return r, nil
	}
	p.mu.Unlock()

	r, ok := <-p.sem
	if !ok {
		return nil, ErrRendererUnavailable
	}
	return r, nil
}

// Release returns a renderer to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *RendererPool) Release(r *Renderer) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- r
}

// Close releases all browser resources.
// Returns an aggregated error if multiple renderers fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
