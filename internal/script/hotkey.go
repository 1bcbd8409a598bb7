package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
	"github.com/udisondev/togglebot/internal/model"
)

// Hotkey casts an ability on the local hero when its key is pressed.
type Hotkey struct {
	key     string
	ability string
	world   host.World
	orders  host.OrderIssuer
}

// NewHotkey creates a hotkey script. Key matching is case-insensitive.
func NewHotkey(key, ability string, world host.World, orders host.OrderIssuer) *Hotkey {
	return &Hotkey{
		key:     key,
		ability: ability,
		world:   world,
		orders:  orders,
	}
}

// Name implements Script.
func (h *Hotkey) Name() string { return "hotkey" }

// Register implements Script.
func (h *Hotkey) Register(bus *event.Bus) {
	bus.Subscribe(event.KindKeyPress, h.Name(), h.onKey)
}

func (h *Hotkey) onKey(ctx context.Context, ev event.Event) error {
	if !strings.EqualFold(ev.Key, h.key) {
		return nil
	}

	hero := h.world.LocalHero()
	if hero == nil {
		slog.Debug("hotkey ignored, no local hero", "key", ev.Key)
		return nil
	}

	// Self-cast from where the hero stands.
	order := &model.Order{
		Kind:     model.OrderCast,
		IssuerID: hero.ID(),
		TargetID: hero.ID(),
		Ability:  h.ability,
		Position: hero.Location(),
		IssuedAt: ev.Time,
	}
	if err := h.orders.PrepareOrder(ctx, order); err != nil {
		return fmt.Errorf("hotkey %s cast %s: %w", h.key, h.ability, err)
	}

	slog.Info("hotkey cast", "key", h.key, "ability", h.ability, "hero", hero.Name())
	return nil
}
