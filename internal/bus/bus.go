package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ctx = context.Background()

func SetContext(ctx context.Context) {
	_ctx = ctx
}

var (
	subsMu sync.RWMutex
	subs   = make(map[string][]func(ctx context.Context, T any))
)

func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	topic := fmt.Sprintf("%T", *new(T))
	subsMu.Lock()
	subs[topic] = append(subs[topic], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
	subsMu.Unlock()
}

func Publish[T any](event T) {
	subsMu.RLock()
	fns := subs[fmt.Sprintf("%T", event)]
	subsMu.RUnlock()

	for _, fn := range fns {
		fn(_ctx, event)
	}
}

// HubBuffer is how many events a subscriber may fall behind before events
// are dropped for it.
const HubBuffer = 64

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		mu:   sync.Mutex{},
		subs: make(map[*chan T]struct{}),
	}
}

// Hub fans events out to subscribers. Broadcast never blocks on a slow
// subscriber.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case *sub <- event:
		default:
			slog.Warn("Dropping event for slow subscriber", "package", "bus", "event", fmt.Sprintf("%T", event))
		}
	}

	return nil
}

func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

// Subscribe returns a channel of events and a function that unsubscribes.
// The channel is not closed when ctx is done.
func (h *Hub[T]) Subscribe(ctx context.Context) (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, HubBuffer)

	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
