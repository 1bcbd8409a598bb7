package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
	"github.com/udisondev/togglebot/internal/journal"
	"github.com/udisondev/togglebot/internal/toggle"
)

// Armlet toggles a toggle item on when the local hero's HP drops to the
// threshold and off when it rises above it. A hero without the item in its
// inventory is not evaluated.
//
// The controller state is flipped before the cast result is known and is not
// rolled back when the host rejects the cast.
type Armlet struct {
	ability   string
	world     host.World
	caster    host.Caster
	threshold ThresholdSource
	recorder  journal.Recorder

	ctrl      *toggle.Controller
	subjectID uint32
}

// NewArmlet creates an armlet script casting ability on the local hero.
// A nil recorder discards transitions.
func NewArmlet(ability string, world host.World, caster host.Caster, threshold ThresholdSource, recorder journal.Recorder) *Armlet {
	if recorder == nil {
		recorder = journal.Discard{}
	}
	return &Armlet{
		ability:   ability,
		world:     world,
		caster:    caster,
		threshold: threshold,
		recorder:  recorder,
		ctrl:      toggle.NewController(),
	}
}

// Name implements Script.
func (a *Armlet) Name() string { return "armlet" }

// Register implements Script.
func (a *Armlet) Register(bus *event.Bus) {
	bus.Subscribe(event.KindUpdate, a.Name(), a.onUpdate)
	bus.Subscribe(event.KindEntityDestroyed, a.Name(), a.onDestroyed)
	bus.Subscribe(event.KindGameEnd, a.Name(), a.onGameEnd)
}

// Active reports whether the armlet is believed to be on.
func (a *Armlet) Active() bool {
	return a.ctrl.Active()
}

func (a *Armlet) onUpdate(ctx context.Context, ev event.Event) error {
	hero := a.world.LocalHero()
	if hero == nil {
		return nil
	}
	if hero.ID() != a.subjectID {
		// New subject; nothing we believed about the previous one applies.
		a.ctrl.Reset()
		a.subjectID = hero.ID()
	}

	if item, _ := hero.Item(a.ability); item == nil {
		return nil
	}

	metric := float64(hero.CurrentHP())
	threshold := a.threshold.Value()

	action, err := a.ctrl.Evaluate(metric, threshold)
	if err != nil {
		return fmt.Errorf("evaluating armlet: %w", err)
	}
	if action == toggle.ActionNone {
		return nil
	}

	slog.Info("armlet toggle",
		"action", action,
		"hero", hero.Name(),
		"hp", metric,
		"threshold", threshold,
		"tick", ev.Tick)

	var errs []error
	if err := a.caster.CastNoTarget(ctx, hero, a.ability); err != nil {
		errs = append(errs, fmt.Errorf("casting %s (%s): %w", a.ability, action, err))
	}

	tr := journal.Transition{
		SessionID: ev.SessionID,
		Script:    a.Name(),
		Action:    action,
		Metric:    metric,
		Threshold: threshold,
		At:        ev.Time,
	}
	if err := a.recorder.Record(ctx, tr); err != nil {
		errs = append(errs, fmt.Errorf("recording transition: %w", err))
	}
	return errors.Join(errs...)
}

func (a *Armlet) onDestroyed(_ context.Context, ev event.Event) error {
	if ev.Entity == nil || ev.Entity.ID() != a.subjectID {
		return nil
	}
	slog.Debug("armlet subject removed, resetting", "entity", ev.Entity.ID())
	a.ctrl.Reset()
	a.subjectID = 0
	return nil
}

func (a *Armlet) onGameEnd(_ context.Context, _ event.Event) error {
	a.ctrl.Reset()
	a.subjectID = 0
	return nil
}
