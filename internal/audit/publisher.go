package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrBufferFull is returned by Emit in async mode when the buffer has no room.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher records audit events in the trail store. By default events are
// written synchronously; WithAsyncBuffer switches to a background writer fed
// through a bounded channel.
type Publisher struct {
	store  Store
	logger *slog.Logger

	buffer chan Event
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous writes through a buffer of the given
// size. A size of zero or less keeps the publisher synchronous.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan Event, size)
		}
	}
}

// WithLogger sets the logger used for background write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher creates a publisher backed by the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. A zero ID and timestamp are filled in. In async mode
// the event is queued; if the buffer is full the event is dropped and
// ErrBufferFull returned, so a slow audit sink never blocks allocation.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}

	// The flag and the channel close happen under the same mutex, so a
	// late Emit never sends on the closed buffer. It writes directly.
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.store.Append(ctx, event)
	}
	defer p.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.buffer <- event:
		return nil
	default:
		p.logger.Warn("audit event dropped", "action", event.Action, "organ_id", event.OrganID)
		return ErrBufferFull
	}
}

// ListByOrgan returns the trail for an organ in append order.
func (p *Publisher) ListByOrgan(ctx context.Context, organID string) ([]Event, error) {
	return p.store.ListByOrgan(ctx, organID)
}

// ListByDonor returns the trail for a donor in append order.
func (p *Publisher) ListByDonor(ctx context.Context, donor string) ([]Event, error) {
	return p.store.ListByDonor(ctx, donor)
}

// Close drains any buffered events and stops the background writer. Safe to
// call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	if p.buffer != nil {
		close(p.buffer)
		p.wg.Wait()
	}
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit event write failed", "action", event.Action, "error", err)
		}
	}
}
