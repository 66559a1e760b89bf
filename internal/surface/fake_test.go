package surface_test

import (
	"context"
	"errors"
	"sync"

	"github.com/alnah/go-designstudio/internal/surface"
)

// fakeTransport stands in for a browser tab. With autoAck it answers
// every update with a ready signal, like the bootstrap script does.
type fakeTransport struct {
	mu        sync.Mutex
	autoAck   bool
	loadErr   error
	captureFn func() ([]byte, error)
	loaded    *surface.Mount
	delivered []surface.Message
	settled   uint64
	closed    bool

	// block, when set, holds Deliver of updates until released.
	block chan struct{}

	signals chan surface.Message
}

func newFakeTransport(autoAck bool) *fakeTransport {
	return &fakeTransport{autoAck: autoAck, signals: make(chan surface.Message, 64)}
}

func (f *fakeTransport) Load(ctx context.Context, m surface.Mount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = &m
	return nil
}

func (f *fakeTransport) Deliver(ctx context.Context, msg surface.Message) error {
	if msg.Kind == surface.KindUpdate && f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("transport closed")
	}
	f.delivered = append(f.delivered, msg)

	switch msg.Kind {
	case surface.KindUpdate:
		if f.autoAck && msg.Seq > f.settled {
			f.settled = msg.Seq
			f.signals <- surface.Message{Kind: surface.KindReady, Seq: msg.Seq}
		}
	case surface.KindCheckReady:
		if f.autoAck {
			f.signals <- surface.Message{Kind: surface.KindReadyStatus, Seq: f.settled}
		}
	}
	return nil
}

func (f *fakeTransport) Signals() <-chan surface.Message { return f.signals }

func (f *fakeTransport) Capture(ctx context.Context, _ surface.CaptureOptions) ([]byte, error) {
	if f.captureFn != nil {
		return f.captureFn()
	}
	return []byte("pixels"), ctx.Err()
}

func (f *fakeTransport) PrintPDF(ctx context.Context) ([]byte, error) {
	return []byte("%PDF-1.7"), ctx.Err()
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// signal injects an outbound message as if the page raised it.
func (f *fakeTransport) signal(msg surface.Message) {
	f.signals <- msg
}

func (f *fakeTransport) updates() []surface.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []surface.Message
	for _, m := range f.delivered {
		if m.Kind == surface.KindUpdate {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) checks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.delivered {
		if m.Kind == surface.KindCheckReady {
			n++
		}
	}
	return n
}
