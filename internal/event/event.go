package event

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultWorkers        = 1024
	DefaultHandlerTimeout = 10 * time.Second
)

type Event interface {
	Name() string
}

type Handler func(ctx context.Context, e Event) error

type Option func(*Bus)

// WithWorkers bounds how many handlers may run at once.
func WithWorkers(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.slots = make(chan struct{}, n)
		}
	}
}

func WithHandlerTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// Bus runs every subscriber on its own goroutine. Publish never blocks: when
// all worker slots are taken the delivery is dropped and counted.
type Bus struct {
	slots   chan struct{}
	timeout time.Duration
	dropped atomic.Uint64
	running sync.WaitGroup

	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{
		slots:    make(chan struct{}, DefaultWorkers),
		timeout:  DefaultHandlerTimeout,
		handlers: make(map[string][]Handler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[name] = append(b.handlers[name], h)
}

// Publish is safe on a nil bus.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := b.handlers[e.Name()]
	b.mu.RUnlock()

	for _, h := range handlers {
		select {
		case b.slots <- struct{}{}:
		default:
			b.dropped.Add(1)
			slog.WarnContext(ctx, "event: all workers busy, delivery dropped", "event", e.Name())
			continue
		}

		b.running.Add(1)
		go b.run(context.WithoutCancel(ctx), h, e)
	}
}

func (b *Bus) run(ctx context.Context, h Handler, e Event) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "event: handler panic",
				"event", e.Name(),
				"error", fmt.Errorf("%v, stack: %s", r, debug.Stack()),
			)
		}
		cancel()
		<-b.slots
		b.running.Done()
	}()

	if err := h(ctx, e); err != nil {
		slog.ErrorContext(ctx, "event: handler failed", "event", e.Name(), "error", err)
	}
}

// Dropped reports deliveries skipped because every worker was busy.
func (b *Bus) Dropped() uint64 {
	if b == nil {
		return 0
	}
	return b.dropped.Load()
}

// Stop waits for running handlers to finish.
func (b *Bus) Stop() {
	if b == nil {
		return
	}
	b.running.Wait()
}
