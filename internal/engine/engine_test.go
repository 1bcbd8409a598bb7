package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
	"github.com/udisondev/togglebot/internal/model"
)

// scriptedFeed отдаёт заранее заданные кадры, затем пустые.
type scriptedFeed struct {
	mu     sync.Mutex
	frames []host.Frame
	steps  int
}

func (f *scriptedFeed) Step(time.Time) host.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps++
	if len(f.frames) == 0 {
		return host.Frame{}
	}
	fr := f.frames[0]
	f.frames = f.frames[1:]
	return fr
}

type nopIssuer struct {
	orders []model.Order
}

func (n *nopIssuer) PrepareOrder(_ context.Context, o *model.Order) error {
	n.orders = append(n.orders, *o)
	return nil
}

type memSessions struct {
	mu     sync.Mutex
	starts []string
	ends   map[string]uint64
}

func (m *memSessions) Start(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, id)
	return nil
}

func (m *memSessions) End(ctx context.Context, id string, _ time.Time, ticks uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ends == nil {
		m.ends = make(map[string]uint64)
	}
	m.ends[id] = ticks
	return nil
}

func recordKinds(bus *event.Bus, out *[]string) {
	for _, k := range []event.Kind{
		event.KindEntityCreated, event.KindEntityDestroyed, event.KindKeyPress,
		event.KindUpdate, event.KindDraw, event.KindGameEnd,
	} {
		bus.Subscribe(k, "recorder", func(_ context.Context, ev event.Event) error {
			s := ev.Kind.String()
			if ev.Key != "" {
				s += ":" + ev.Key
			}
			*out = append(*out, s)
			return nil
		})
	}
}

func fixedClock() func() time.Time {
	t := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		t = t.Add(100 * time.Millisecond)
		return t
	}
}

func TestEngine_TickOrder(t *testing.T) {
	hero := model.NewEntity(1, "Huskar", model.KindHero, 2, 1000, 100)
	feed := &scriptedFeed{frames: []host.Frame{
		{Created: []*model.Entity{hero}, Keys: []string{"F"}},
		{Destroyed: []*model.Entity{hero}},
	}}
	bus := event.NewBus()
	var got []string
	recordKinds(bus, &got)

	e := New(bus, feed, &nopIssuer{}, time.Millisecond, WithClock(fixedClock()))
	ctx := context.Background()

	ended, err := e.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, ended)
	ended, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, ended)

	assert.Equal(t, []string{
		"ENTITY_CREATED", "KEY_PRESS:F", "UPDATE", "DRAW",
		"ENTITY_DESTROYED", "UPDATE", "DRAW",
	}, got)
	assert.Equal(t, uint64(2), e.Ticks())
	assert.NotEmpty(t, e.SessionID())
}

func TestEngine_SessionEnd(t *testing.T) {
	feed := &scriptedFeed{frames: []host.Frame{{}, {Ended: true}}}
	bus := event.NewBus()
	var got []string
	recordKinds(bus, &got)
	sessions := &memSessions{}

	e := New(bus, feed, &nopIssuer{}, time.Millisecond, WithClock(fixedClock()), WithSessionStore(sessions))
	ctx := context.Background()

	_, err := e.Tick(ctx)
	require.NoError(t, err)
	first := e.SessionID()

	ended, err := e.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Empty(t, e.SessionID())
	assert.Equal(t, []string{"UPDATE", "DRAW", "UPDATE", "DRAW", "GAME_END"}, got)
	assert.Equal(t, uint64(2), sessions.ends[first])

	// Next tick opens a fresh session.
	_, err = e.Tick(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, e.SessionID())
	assert.Len(t, sessions.starts, 2)
	assert.Equal(t, uint64(1), e.Ticks())
}

func TestEngine_HandlerErrorsDoNotStopTick(t *testing.T) {
	errBoom := errors.New("boom")
	bus := event.NewBus()
	draws := 0
	bus.Subscribe(event.KindUpdate, "failing", func(context.Context, event.Event) error { return errBoom })
	bus.Subscribe(event.KindDraw, "draw", func(context.Context, event.Event) error {
		draws++
		return nil
	})

	e := New(bus, &scriptedFeed{}, &nopIssuer{}, time.Millisecond)
	_, err := e.Tick(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, draws)
}

func TestEngine_PrepareOrder(t *testing.T) {
	bus := event.NewBus()
	issuer := &nopIssuer{}
	e := New(bus, &scriptedFeed{}, issuer, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, e.PrepareOrder(ctx, &model.Order{Kind: model.OrderMove}))
	assert.Len(t, issuer.orders, 1)

	bus.Intercept("deny-cast", func(_ context.Context, o *model.Order) bool {
		return o.Kind != model.OrderCast
	})
	err := e.PrepareOrder(ctx, &model.Order{Kind: model.OrderCast, Ability: "blink"})
	assert.ErrorIs(t, err, ErrOrderVetoed)
	assert.Contains(t, err.Error(), "deny-cast")
	assert.Len(t, issuer.orders, 1, "vetoed order never reaches the host")
}

func TestEngine_StartCancel(t *testing.T) {
	bus := event.NewBus()
	var mu sync.Mutex
	updates, ends := 0, 0
	bus.Subscribe(event.KindUpdate, "count", func(context.Context, event.Event) error {
		mu.Lock()
		updates++
		mu.Unlock()
		return nil
	})
	bus.Subscribe(event.KindGameEnd, "count", func(context.Context, event.Event) error {
		mu.Lock()
		ends++
		mu.Unlock()
		return nil
	})
	sessions := &memSessions{}

	e := New(bus, &scriptedFeed{}, &nopIssuer{}, 5*time.Millisecond, WithSessionStore(sessions))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- e.Start(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, updates, 0)
	assert.Equal(t, 1, ends, "game end dispatched on shutdown")

	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	assert.Len(t, sessions.ends, 1, "session closed with a live context")
}

func TestEngine_StartStop(t *testing.T) {
	e := New(event.NewBus(), &scriptedFeed{}, &nopIssuer{}, 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- e.Start(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	e.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestEngine_StartReturnsOnHostEnd(t *testing.T) {
	feed := &scriptedFeed{frames: []host.Frame{{}, {}, {Ended: true}}}
	e := New(event.NewBus(), feed, &nopIssuer{}, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- e.Start(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not return after host ended the session")
	}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	assert.Equal(t, 3, feed.steps)
}

func TestEngine_StopTwice(t *testing.T) {
	e := New(event.NewBus(), &scriptedFeed{}, &nopIssuer{}, 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- e.Start(context.Background()) }()

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Stop()
		}()
	}
	wg.Wait()
	assert.NotPanics(t, e.Stop)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
}
