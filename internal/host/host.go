// Package host describes the host-client surface the scripts consume and
// ships an in-memory simulation of it.
package host

import (
	"context"
	"errors"
	"time"

	"github.com/udisondev/togglebot/internal/model"
)

// Rejections reported by the host when a cast or order cannot be executed.
// They are never retried by the caller's decision logic.
var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrUnknownAbility = errors.New("unknown ability")
	ErrOnCooldown     = errors.New("ability on cooldown")
	ErrNotEnoughMana  = errors.New("not enough mana")
	ErrDead           = errors.New("caster is dead")
	ErrNotCaster      = errors.New("entity cannot cast")
	ErrOutOfRange     = errors.New("target out of range")
)

// Caster executes ability casts.
type Caster interface {
	CastNoTarget(ctx context.Context, caster *model.Entity, ability string) error
}

// OrderIssuer sends prepared orders to the host.
type OrderIssuer interface {
	PrepareOrder(ctx context.Context, order *model.Order) error
}

// Renderer draws primitives for the current frame.
type Renderer interface {
	FilledRect(r Rect, c Color)
	OutlinedRect(r Rect, c Color, thickness float32)
	Circle(center Point, radius float32, c Color, filled bool)
}

// World answers game-state queries.
type World interface {
	LocalHero() *model.Entity
}

// Frame is what changed on the host since the previous tick.
type Frame struct {
	Created   []*model.Entity
	Destroyed []*model.Entity
	Keys      []string
	Ended     bool
}

// Feed advances the host by one tick.
type Feed interface {
	Step(now time.Time) Frame
}
