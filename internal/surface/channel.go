package surface

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Channel carries host messages into a Transport. While nothing is
// attached, messages are dropped rather than queued; the host re-sends
// after mounting.
type Channel struct {
	mu     sync.RWMutex
	target Transport

	// sendMu keeps one sender's messages in order.
	sendMu sync.Mutex

	dropped atomic.Uint64
	logger  *slog.Logger
}

// NewChannel creates a detached channel. A nil logger discards output.
func NewChannel(logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Channel{logger: logger}
}

// Attach connects the channel to t.
func (c *Channel) Attach(t Transport) {
	c.mu.Lock()
	c.target = t
	c.mu.Unlock()
}

// Detach disconnects the channel. Later sends are dropped.
func (c *Channel) Detach() {
	c.mu.Lock()
	c.target = nil
	c.mu.Unlock()
}

// Attached reports whether a transport is connected.
func (c *Channel) Attached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target != nil
}

// Dropped returns how many messages were discarded while detached.
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}

// Send delivers msg. Only inbound kinds are accepted. A detached channel
// drops the message and returns nil.
func (c *Channel) Send(ctx context.Context, msg Message) error {
	if !msg.Kind.Inbound() {
		return fmt.Errorf("%w: host cannot send %q", ErrInvalidMessage, msg.Kind)
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.RLock()
	target := c.target
	c.mu.RUnlock()

	if target == nil {
		c.dropped.Add(1)
		c.logger.Debug("surface message dropped", "kind", msg.Kind, "seq", msg.Seq)
		return nil
	}
	if err := target.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliver, err)
	}
	return nil
}
