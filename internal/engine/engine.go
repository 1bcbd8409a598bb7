package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/xid"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
	"github.com/udisondev/togglebot/internal/model"
)

// ErrOrderVetoed is returned by PrepareOrder when an interceptor drops the order.
var ErrOrderVetoed = errors.New("order vetoed")

// SessionStore persists session boundaries.
type SessionStore interface {
	Start(ctx context.Context, id string, at time.Time) error
	End(ctx context.Context, id string, at time.Time, ticks uint64) error
}

// Engine drives one bus from a host feed. Every tick is one synchronous pass:
// lifecycle events, key presses, Update, then Draw. Only the goroutine running
// Start (or calling Tick) touches the bus.
type Engine struct {
	bus      *event.Bus
	feed     host.Feed
	orders   host.OrderIssuer
	interval time.Duration
	sessions SessionStore
	now      func() time.Time

	sessionID string
	started   time.Time
	ticks     uint64

	stopCh   chan struct{}
	stopOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithSessionStore persists session start/end.
func WithSessionStore(s SessionStore) Option {
	return func(e *Engine) { e.sessions = s }
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine ticking every interval.
func New(bus *event.Bus, feed host.Feed, orders host.OrderIssuer, interval time.Duration, opts ...Option) *Engine {
	e := &Engine{
		bus:      bus,
		feed:     feed,
		orders:   orders,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionID returns the current session ID, empty between sessions.
func (e *Engine) SessionID() string { return e.sessionID }

// Ticks returns ticks performed in the current session.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Start runs the tick loop until ctx is canceled, Stop is called, or the host
// ends the session. The session is always closed with a GameEnd dispatch.
func (e *Engine) Start(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	slog.Info("engine started", "interval", e.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopping")
			e.finish(ctx)
			return ctx.Err()

		case <-e.stopCh:
			slog.Info("engine stopped")
			e.finish(ctx)
			return nil

		case <-ticker.C:
			ended, _ := e.Tick(ctx)
			if ended {
				return nil
			}
		}
	}
}

// Stop stops the tick loop. Safe to call more than once and from any goroutine.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// Tick performs one pass. Handler errors are logged by the bus and returned
// joined; they never stop the engine. ended is true when the host closed the
// session during this tick (GameEnd has already been dispatched).
func (e *Engine) Tick(ctx context.Context) (ended bool, err error) {
	if e.sessionID == "" {
		e.begin(ctx)
	}

	now := e.now()
	frame := e.feed.Step(now)
	e.ticks++

	base := event.Event{SessionID: e.sessionID, Tick: e.ticks, Time: now}
	var errs []error
	dispatch := func(ev event.Event) {
		if err := e.bus.Dispatch(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	for _, ent := range frame.Created {
		ev := base
		ev.Kind, ev.Entity = event.KindEntityCreated, ent
		dispatch(ev)
	}
	for _, ent := range frame.Destroyed {
		ev := base
		ev.Kind, ev.Entity = event.KindEntityDestroyed, ent
		dispatch(ev)
	}
	for _, key := range frame.Keys {
		ev := base
		ev.Kind, ev.Key = event.KindKeyPress, key
		dispatch(ev)
	}

	ev := base
	ev.Kind = event.KindUpdate
	dispatch(ev)
	ev.Kind = event.KindDraw
	dispatch(ev)

	if frame.Ended {
		e.finish(ctx)
		return true, errors.Join(errs...)
	}
	return false, errors.Join(errs...)
}

// PrepareOrder runs the bus interceptors and forwards the order to the host.
func (e *Engine) PrepareOrder(ctx context.Context, order *model.Order) error {
	if ok, by := e.bus.Allow(ctx, order); !ok {
		return fmt.Errorf("%s order by %s: %w", order.Kind, by, ErrOrderVetoed)
	}
	if err := e.orders.PrepareOrder(ctx, order); err != nil {
		return fmt.Errorf("issuing %s order: %w", order.Kind, err)
	}
	return nil
}

func (e *Engine) begin(ctx context.Context) {
	e.sessionID = xid.New().String()
	e.started = e.now()
	e.ticks = 0

	if e.sessions != nil {
		if err := e.sessions.Start(ctx, e.sessionID, e.started); err != nil {
			slog.Error("failed to persist session start", "session", e.sessionID, "err", err)
		}
	}
	slog.Info("session started", "session", e.sessionID)
}

// finish dispatches GameEnd and closes the session. Safe to call between sessions.
func (e *Engine) finish(ctx context.Context) {
	if e.sessionID == "" {
		return
	}

	// ctx may already be canceled; the session still has to be closed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	now := e.now()
	if err := e.bus.Dispatch(ctx, event.Event{
		Kind:      event.KindGameEnd,
		SessionID: e.sessionID,
		Tick:      e.ticks,
		Time:      now,
	}); err != nil {
		slog.Warn("game end handlers failed", "session", e.sessionID, "err", err)
	}

	if e.sessions != nil {
		if err := e.sessions.End(ctx, e.sessionID, now, e.ticks); err != nil {
			slog.Error("failed to persist session end", "session", e.sessionID, "err", err)
		}
	}

	slog.Info("session ended",
		"session", e.sessionID,
		"ticks", e.ticks,
		"duration", durafmt.Parse(now.Sub(e.started)).LimitFirstN(2).String())

	e.sessionID = ""
}
