package surface

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Default timings. ReadyTimeout plus SettleDelay stays under a second.
const (
	DefaultReadyTimeout   = 750 * time.Millisecond
	DefaultSettleDelay    = 50 * time.Millisecond
	DefaultDeliverTimeout = 10 * time.Second
	MaxReadyTimeout       = time.Second
)

// State is the lifecycle position of a Surface.
type State int

// Surface states.
const (
	StateUnmounted State = iota
	StateLoading
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Readiness is the outcome of WhenReady. Optimistic means the surface did
// not acknowledge the latest update in time and the caller proceeds anyway.
type Readiness struct {
	Seq        uint64 // highest acknowledged sequence
	Optimistic bool
	Waited     time.Duration
}

// Option configures a Surface.
type Option func(*Surface)

// WithReadyTimeout bounds WhenReady.
// Panics if d <= 0 or d >= MaxReadyTimeout.
func WithReadyTimeout(d time.Duration) Option {
	if d <= 0 || d >= MaxReadyTimeout {
		panic("surface: ready timeout must be in (0, 1s)")
	}
	return func(s *Surface) {
		s.readyTimeout = d
	}
}

// WithSettleDelay sets the pause after acknowledgement before WhenReady
// returns. Panics if d < 0.
func WithSettleDelay(d time.Duration) Option {
	if d < 0 {
		panic("surface: settle delay must not be negative")
	}
	return func(s *Surface) {
		s.settleDelay = d
	}
}

// WithDeliverTimeout bounds a single message delivery.
// Panics if d <= 0.
func WithDeliverTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("surface: deliver timeout must be positive")
	}
	return func(s *Surface) {
		s.deliverTimeout = d
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Surface is one isolated render of a design.
type Surface struct {
	transport Transport
	channel   *Channel
	logger    *slog.Logger

	readyTimeout   time.Duration
	settleDelay    time.Duration
	deliverTimeout time.Duration

	mu      sync.Mutex
	state   State
	box     Mount // dimensions of the mounted document
	latest  uint64
	acked   uint64
	pending *Message // latest-wins slot, drained by sender
	probe   bool     // checkReady requested
	changed chan struct{}

	wake      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates an unmounted Surface over t and starts its background
// sender and signal reader.
func New(t Transport, opts ...Option) *Surface {
	s := &Surface{
		transport:      t,
		logger:         slog.New(slog.DiscardHandler),
		readyTimeout:   DefaultReadyTimeout,
		settleDelay:    DefaultSettleDelay,
		deliverTimeout: DefaultDeliverTimeout,
		changed:        make(chan struct{}),
		wake:           make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.channel = NewChannel(s.logger)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(2)
	go s.sendLoop()
	go s.signalLoop()
	return s
}

// State returns the current lifecycle state.
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Size returns the mounted box, or zeros before Mount.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.box.Width, s.box.Height
}

// Channel exposes the host-to-surface channel.
func (s *Surface) Channel() *Channel {
	return s.channel
}

// Mount loads the surface document and delivers m's content as the first
// update. It returns once the document is loaded; the surface stays
// Loading until the content acknowledges.
func (s *Surface) Mount(ctx context.Context, m Mount) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	case StateUnmounted:
	default:
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.state = StateLoading
	s.box = Mount{Width: m.Width, Height: m.Height}
	s.broadcastLocked()
	s.mu.Unlock()

	if err := s.transport.Load(ctx, m); err != nil {
		s.mu.Lock()
		if s.state == StateLoading {
			s.state = StateUnmounted
			s.box = Mount{}
			s.broadcastLocked()
		}
		s.mu.Unlock()
		return err
	}

	s.channel.Attach(s.transport)
	s.logger.Debug("surface mounted", "width", m.Width, "height", m.Height)

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	// An Update that raced with Load already holds newer content.
	if s.pending == nil {
		s.enqueueLocked(m.Markup, m.Stylesheet)
	}
	s.notify()
	s.mu.Unlock()
	return nil
}

// Update replaces the rendered design. It never blocks: the content goes
// into a single slot that the sender drains, so a burst of updates
// collapses to the last one. Before Mount the update is dropped.
func (s *Surface) Update(markup, stylesheet string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnmounted || s.state == StateClosed {
		s.channel.dropped.Add(1)
		s.logger.Debug("update dropped", "state", s.state)
		return
	}
	s.enqueueLocked(markup, stylesheet)
}

func (s *Surface) enqueueLocked(markup, stylesheet string) {
	s.latest++
	if s.pending != nil {
		s.logger.Debug("update superseded", "seq", s.pending.Seq, "by", s.latest)
	}
	s.pending = &Message{Kind: KindUpdate, Seq: s.latest, Markup: markup, Stylesheet: stylesheet}
	s.state = StateLoading
	s.broadcastLocked()
	s.notify()
}

func (s *Surface) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// broadcastLocked wakes every WhenReady waiter.
func (s *Surface) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// WhenReady waits until the latest update is acknowledged and the settle
// delay has passed. If that does not happen within the ready timeout, it
// returns an optimistic Readiness instead of an error. Only ctx ending
// first produces an error.
func (s *Surface) WhenReady(ctx context.Context) (Readiness, error) {
	start := time.Now()
	deadline := time.NewTimer(s.readyTimeout)
	defer deadline.Stop()

	probed := false
	for {
		s.mu.Lock()
		state, latest, acked, changed := s.state, s.latest, s.acked, s.changed
		if state == StateLoading && !probed && s.channel.Attached() {
			s.probe = true
			probed = true
			s.notify()
		}
		s.mu.Unlock()

		if state == StateClosed {
			return Readiness{Seq: acked, Optimistic: true, Waited: time.Since(start)}, nil
		}

		if state == StateReady && acked >= latest {
			if err := sleepCtx(ctx, s.settleDelay); err != nil {
				return Readiness{}, err
			}
			s.mu.Lock()
			stable := s.state == StateReady && s.latest == latest
			s.mu.Unlock()
			if stable {
				return Readiness{Seq: acked, Waited: time.Since(start)}, nil
			}
			continue
		}

		select {
		case <-changed:
		case <-deadline.C:
			s.logger.Warn("surface not ready in time, proceeding",
				"state", state, "latest", latest, "acked", acked, "timeout", s.readyTimeout)
			return Readiness{Seq: acked, Optimistic: true, Waited: time.Since(start)}, nil
		case <-ctx.Done():
			return Readiness{}, ctx.Err()
		}
	}
}

// Capture waits for readiness and rasterizes the design box.
func (s *Surface) Capture(ctx context.Context, opts CaptureOptions) ([]byte, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	if err := s.requireMounted(); err != nil {
		return nil, err
	}
	if _, err := s.WhenReady(ctx); err != nil {
		return nil, err
	}
	data, err := s.transport.Capture(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	return data, nil
}

// PrintPDF waits for readiness and prints the design box as one page.
func (s *Surface) PrintPDF(ctx context.Context) ([]byte, error) {
	if err := s.requireMounted(); err != nil {
		return nil, err
	}
	if _, err := s.WhenReady(ctx); err != nil {
		return nil, err
	}
	data, err := s.transport.PrintPDF(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrint, err)
	}
	return data, nil
}

func (s *Surface) requireMounted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateUnmounted:
		return ErrNotMounted
	}
	return nil
}

// Close tears the surface down and releases the transport. Safe to call
// more than once.
func (s *Surface) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.channel.Detach()

		s.mu.Lock()
		s.state = StateClosed
		s.pending = nil
		s.broadcastLocked()
		s.mu.Unlock()

		s.cancel()
		err = s.transport.Close()
		s.wg.Wait()
	})
	return err
}

// sendLoop drains the latest-wins slot and pending probes.
func (s *Surface) sendLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
		}
		// Mount notifies again once attached.
		if !s.channel.Attached() {
			continue
		}

		s.mu.Lock()
		msg, probe := s.pending, s.probe
		s.pending, s.probe = nil, false
		s.mu.Unlock()

		if msg != nil {
			s.deliver(*msg)
		}
		if probe {
			s.deliver(Message{Kind: KindCheckReady})
		}
	}
}

func (s *Surface) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(s.ctx, s.deliverTimeout)
	defer cancel()
	if err := s.channel.Send(ctx, msg); err != nil && s.ctx.Err() == nil {
		s.logger.Warn("surface delivery failed", "kind", msg.Kind, "seq", msg.Seq, "error", err)
	}
}

// signalLoop applies acknowledgements from the surface.
func (s *Surface) signalLoop() {
	defer s.wg.Done()
	signals := s.transport.Signals()
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-signals:
			if !ok {
				return
			}
			s.acknowledge(msg)
		}
	}
}

func (s *Surface) acknowledge(msg Message) {
	if !msg.Kind.Outbound() {
		s.logger.Debug("ignoring surface message", "kind", msg.Kind)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Seq > s.latest {
		s.logger.Debug("ignoring acknowledgement from the future", "seq", msg.Seq, "latest", s.latest)
		return
	}
	if msg.Seq > s.acked {
		s.acked = msg.Seq
	}
	if s.state == StateLoading && s.acked == s.latest && s.latest > 0 && s.pending == nil {
		s.state = StateReady
		s.logger.Debug("surface ready", "seq", s.acked)
	}
	s.broadcastLocked()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
