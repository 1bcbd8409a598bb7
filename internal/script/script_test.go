package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
	"github.com/udisondev/togglebot/internal/model"
)

func TestSlider(t *testing.T) {
	s := NewSlider(500, 0, 1000)
	assert.Equal(t, 500.0, s.Value())

	s.Set(-10)
	assert.Equal(t, 0.0, s.Value())
	s.Set(5000)
	assert.Equal(t, 1000.0, s.Value())

	swapped := NewSlider(50, 100, 10)
	assert.Equal(t, 50.0, swapped.Value(), "bounds are reordered")
}

// recordingRenderer считает вызовы отрисовки.
type recordingRenderer struct {
	calls []string
	rect  host.Rect
	point host.Point
	r     float32
}

func (r *recordingRenderer) FilledRect(rect host.Rect, _ host.Color) {
	r.calls = append(r.calls, "filled")
	r.rect = rect
}

func (r *recordingRenderer) OutlinedRect(rect host.Rect, _ host.Color, _ float32) {
	r.calls = append(r.calls, "outlined")
	r.rect = rect
}

func (r *recordingRenderer) Circle(center host.Point, radius float32, _ host.Color, _ bool) {
	r.calls = append(r.calls, "circle")
	r.point = center
	r.r = radius
}

func draw(t *testing.T, bus *event.Bus) error {
	t.Helper()
	return bus.Dispatch(context.Background(), event.Event{Kind: event.KindDraw})
}

func TestOverlay_Shapes(t *testing.T) {
	bounds := host.Rect{X: 10, Y: 20, W: 100, H: 40}

	tests := []struct {
		shape Shape
		want  string
	}{
		{ShapeFilledRect, "filled"},
		{ShapeOutlinedRect, "outlined"},
		{ShapeCircle, "circle"},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			r := &recordingRenderer{}
			bus := event.NewBus()
			NewOverlay(OverlayConfig{Enabled: true, Shape: tt.shape, Bounds: bounds}, r).Register(bus)

			require.NoError(t, draw(t, bus))
			require.NoError(t, draw(t, bus))
			assert.Equal(t, []string{tt.want, tt.want}, r.calls)
		})
	}
}

func TestOverlay_CircleGeometry(t *testing.T) {
	r := &recordingRenderer{}
	bus := event.NewBus()
	NewOverlay(OverlayConfig{Enabled: true, Shape: ShapeCircle, Bounds: host.Rect{X: 10, Y: 20, W: 100, H: 40}}, r).Register(bus)

	require.NoError(t, draw(t, bus))
	assert.Equal(t, host.Point{X: 60, Y: 40}, r.point)
	assert.Equal(t, float32(20), r.r)
}

func TestOverlay_Disabled(t *testing.T) {
	r := &recordingRenderer{}
	bus := event.NewBus()
	NewOverlay(OverlayConfig{Enabled: false}, r).Register(bus)

	require.NoError(t, draw(t, bus))
	assert.Empty(t, r.calls)
}

func TestOverlay_UnknownShape(t *testing.T) {
	bus := event.NewBus()
	NewOverlay(OverlayConfig{Enabled: true, Shape: Shape(42)}, &recordingRenderer{}).Register(bus)
	assert.Error(t, draw(t, bus))
}

func TestParseShape(t *testing.T) {
	for name, want := range map[string]Shape{
		"filled_rect":   ShapeFilledRect,
		"rect":          ShapeFilledRect,
		"OUTLINED_RECT": ShapeOutlinedRect,
		"outline":       ShapeOutlinedRect,
		"circle":        ShapeCircle,
	} {
		got, err := ParseShape(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseShape("triangle")
	assert.Error(t, err)
}

// recordingIssuer запоминает приказы и может возвращать ошибку.
type recordingIssuer struct {
	orders []model.Order
	err    error
}

func (r *recordingIssuer) PrepareOrder(_ context.Context, order *model.Order) error {
	r.orders = append(r.orders, *order)
	return r.err
}

func press(t *testing.T, bus *event.Bus, key string) error {
	t.Helper()
	return bus.Dispatch(context.Background(), event.Event{Kind: event.KindKeyPress, Key: key, Time: time.Unix(5, 0)})
}

func TestHotkey(t *testing.T) {
	hero := newHero(3)
	hero.SetLocation(model.NewLocation(10, -4, 0))
	issuer := &recordingIssuer{}
	bus := event.NewBus()
	NewHotkey("F", "berserkers_blood", &fakeWorld{hero: hero}, issuer).Register(bus)

	require.NoError(t, press(t, bus, "Q"))
	assert.Empty(t, issuer.orders, "other keys ignored")

	require.NoError(t, press(t, bus, "f"))
	require.Len(t, issuer.orders, 1)
	o := issuer.orders[0]
	assert.Equal(t, model.OrderCast, o.Kind)
	assert.Equal(t, uint32(3), o.IssuerID)
	assert.Equal(t, "berserkers_blood", o.Ability)
	assert.Equal(t, uint32(3), o.TargetID, "self-cast")
	assert.Equal(t, model.Location{X: 10, Y: -4}, o.Position)
	assert.Equal(t, time.Unix(5, 0), o.IssuedAt)
}

func TestHotkey_NoHero(t *testing.T) {
	issuer := &recordingIssuer{}
	bus := event.NewBus()
	NewHotkey("F", "berserkers_blood", &fakeWorld{}, issuer).Register(bus)

	require.NoError(t, press(t, bus, "F"))
	assert.Empty(t, issuer.orders)
}

func TestHotkey_Rejected(t *testing.T) {
	issuer := &recordingIssuer{err: host.ErrNotEnoughMana}
	bus := event.NewBus()
	NewHotkey("F", "berserkers_blood", &fakeWorld{hero: newHero(1)}, issuer).Register(bus)

	err := press(t, bus, "F")
	assert.True(t, errors.Is(err, host.ErrNotEnoughMana))
}

func TestOrderGuard_Budget(t *testing.T) {
	guard := NewOrderGuard(2, 2)
	bus := event.NewBus()
	guard.Register(bus)
	ctx := context.Background()
	at := time.Unix(1000, 0)

	order := func(kind model.OrderKind, ts time.Time) *model.Order {
		return &model.Order{Kind: kind, IssuerID: 1, Ability: "blink", IssuedAt: ts}
	}

	ok, _ := bus.Allow(ctx, order(model.OrderCast, at))
	assert.True(t, ok)
	ok, _ = bus.Allow(ctx, order(model.OrderMove, at))
	assert.True(t, ok)
	ok, by := bus.Allow(ctx, order(model.OrderCast, at))
	assert.False(t, ok, "burst exhausted")
	assert.Equal(t, "orderguard", by)

	ok, _ = bus.Allow(ctx, order(model.OrderStop, at))
	assert.True(t, ok, "stop is never throttled")

	ok, _ = bus.Allow(ctx, order(model.OrderCast, at.Add(time.Second)))
	assert.True(t, ok, "budget refills")

	allowed, vetoed := guard.Stats()
	assert.Equal(t, int64(3), allowed)
	assert.Equal(t, int64(1), vetoed)
}

func TestScriptNames(t *testing.T) {
	scripts := []Script{
		NewArmlet("item_armlet", &fakeWorld{}, nil, NewSlider(0, 0, 1), nil),
		NewOverlay(OverlayConfig{}, &recordingRenderer{}),
		NewHotkey("F", "x", &fakeWorld{}, &recordingIssuer{}),
		NewOrderGuard(1, 1),
	}
	names := make([]string, 0, len(scripts))
	for _, s := range scripts {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"armlet", "overlay", "hotkey", "orderguard"}, names)
}
