package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/togglebot/internal/model"
)

// ErrReentrantDispatch is returned when a handler calls Dispatch.
var ErrReentrantDispatch = errors.New("reentrant dispatch")

// Kind identifies a host lifecycle event.
type Kind int32

const (
	// KindUpdate - per-frame update (one per tick)
	KindUpdate Kind = iota
	// KindDraw - render pass, after Update in the same tick
	KindDraw
	// KindEntityCreated - host spawned an entity
	KindEntityCreated
	// KindEntityDestroyed - host removed an entity
	KindEntityDestroyed
	// KindKeyPress - operator pressed a key
	KindKeyPress
	// KindGameEnd - session boundary
	KindGameEnd
)

// String returns human-readable event kind
func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "UPDATE"
	case KindDraw:
		return "DRAW"
	case KindEntityCreated:
		return "ENTITY_CREATED"
	case KindEntityDestroyed:
		return "ENTITY_DESTROYED"
	case KindKeyPress:
		return "KEY_PRESS"
	case KindGameEnd:
		return "GAME_END"
	default:
		return "UNKNOWN"
	}
}

// Event is the payload delivered to handlers. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind      Kind
	SessionID string
	Tick      uint64
	Time      time.Time
	Entity    *model.Entity // EntityCreated, EntityDestroyed
	Key       string        // KeyPress
}

// Handler handles one event. Errors are collected by Dispatch; they never
// stop the remaining handlers.
type Handler func(ctx context.Context, ev Event) error

// Interceptor decides whether an order may be issued. Interceptors are the
// prepare-order hook; they run outside Dispatch so handlers may issue orders.
type Interceptor func(ctx context.Context, order *model.Order) bool

type subscription struct {
	name    string
	handler Handler
}

type interception struct {
	name string
	fn   Interceptor
}

// Bus is an ordered subscription table. Delivery is synchronous and in
// subscription order. Bus is not safe for concurrent use.
type Bus struct {
	subs         map[Kind][]subscription
	interceptors []interception
	dispatching  bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Kind][]subscription),
	}
}

// Subscribe appends handler to the table for kind.
func (b *Bus) Subscribe(kind Kind, name string, handler Handler) {
	b.subs[kind] = append(b.subs[kind], subscription{name: name, handler: handler})

	slog.Debug("event handler subscribed", "kind", kind, "handler", name)
}

// Intercept registers an order interceptor. Interceptors run in
// registration order on every Allow call.
func (b *Bus) Intercept(name string, fn Interceptor) {
	b.interceptors = append(b.interceptors, interception{name: name, fn: fn})

	slog.Debug("order interceptor registered", "interceptor", name)
}

// Handlers returns number of handlers subscribed to kind.
func (b *Bus) Handlers(kind Kind) int {
	return len(b.subs[kind])
}

// Dispatch delivers ev to every handler subscribed to ev.Kind.
// Handler errors are joined and returned after all handlers ran.
func (b *Bus) Dispatch(ctx context.Context, ev Event) error {
	if b.dispatching {
		return fmt.Errorf("dispatching %s: %w", ev.Kind, ErrReentrantDispatch)
	}
	b.dispatching = true
	defer func() { b.dispatching = false }()

	var errs []error
	for _, sub := range b.subs[ev.Kind] {
		if err := sub.handler(ctx, ev); err != nil {
			slog.Warn("event handler failed",
				"kind", ev.Kind,
				"handler", sub.name,
				"tick", ev.Tick,
				"err", err)
			errs = append(errs, fmt.Errorf("handler %s: %w", sub.name, err))
		}
	}
	return errors.Join(errs...)
}

// Allow runs the interceptors for order. Returns false and the name of the
// interceptor that vetoed it; the first veto stops the chain.
func (b *Bus) Allow(ctx context.Context, order *model.Order) (bool, string) {
	for _, ic := range b.interceptors {
		if !ic.fn(ctx, order) {
			slog.Debug("order vetoed",
				"interceptor", ic.name,
				"order", order.Kind,
				"issuer", order.IssuerID)
			return false, ic.name
		}
	}
	return true, ""
}
