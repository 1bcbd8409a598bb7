package main

import (
	"fmt"

	"github.com/udisondev/togglebot/internal/config"
	"github.com/udisondev/togglebot/internal/engine"
	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
	"github.com/udisondev/togglebot/internal/journal"
	"github.com/udisondev/togglebot/internal/model"
	"github.com/udisondev/togglebot/internal/script"
)

// app is the wired runtime: simulated host, bus, engine and scripts.
type app struct {
	sim     *host.Sim
	bus     *event.Bus
	engine  *engine.Engine
	scripts []script.Script

	armlet *script.Armlet
	guard  *script.OrderGuard
}

func simConfig(cfg config.Config) host.SimConfig {
	s := cfg.Sim
	var abilities []host.AbilitySpec
	if cfg.Armlet.Ability != "" {
		abilities = append(abilities, host.AbilitySpec{Name: cfg.Armlet.Ability, Cooldown: s.ToggleCD, Toggle: true, Item: true})
	}
	if cfg.Hotkey.Ability != "" && cfg.Hotkey.Ability != cfg.Armlet.Ability {
		abilities = append(abilities, host.AbilitySpec{
			Name:     cfg.Hotkey.Ability,
			ManaCost: s.HotkeyMana,
			Cooldown: s.HotkeyCD,
		})
	}

	spawns := make([]host.SpawnSpec, 0, len(s.Waves))
	for _, w := range s.Waves {
		spawns = append(spawns, host.SpawnSpec{
			Kind:     model.ParseEntityKind(w.Kind),
			Name:     w.Name,
			Team:     w.Team,
			MaxHP:    w.MaxHP,
			At:       model.NewLocation(w.X, w.Y, 0),
			Every:    w.Every,
			Lifetime: w.Lifetime,
		})
	}

	return host.SimConfig{
		HeroName:     s.HeroName,
		HeroMaxHP:    s.HeroMaxHP,
		HeroMaxMP:    s.HeroMaxMP,
		Abilities:    abilities,
		Spawn:        s.SpawnPoint(),
		MoveRange:    s.MoveRange,
		Spawns:       spawns,
		Damage:       s.Damage,
		Regen:        s.Regen,
		ManaRegen:    s.ManaRegen,
		PhaseTicks:   s.PhaseTicks,
		RespawnTicks: s.RespawnTicks,
		Key:          cfg.Hotkey.Key,
		KeyEvery:     s.KeyEvery,
		SessionTicks: s.SessionTicks,
	}
}

func overlayConfig(cfg config.OverlayConfig) (script.OverlayConfig, error) {
	shape, err := script.ParseShape(cfg.Shape)
	if err != nil {
		return script.OverlayConfig{}, fmt.Errorf("overlay: %w", err)
	}
	color, err := host.ParseColor(cfg.Color)
	if err != nil {
		return script.OverlayConfig{}, fmt.Errorf("overlay: %w", err)
	}
	return script.OverlayConfig{
		Enabled:   cfg.Enabled,
		Shape:     shape,
		Bounds:    host.Rect{X: cfg.X, Y: cfg.Y, W: cfg.Width, H: cfg.Height},
		Color:     color,
		Thickness: cfg.Thickness,
	}, nil
}

// buildApp wires every enabled script. sessions may be nil.
func buildApp(cfg config.Config, recorder journal.Recorder, sessions engine.SessionStore) (*app, error) {
	sim := host.NewSim(simConfig(cfg))
	bus := event.NewBus()

	opts := []engine.Option{}
	if sessions != nil {
		opts = append(opts, engine.WithSessionStore(sessions))
	}
	eng := engine.New(bus, sim, sim, cfg.TickInterval, opts...)

	a := &app{sim: sim, bus: bus, engine: eng}

	if cfg.Humanizer.Enabled {
		a.guard = script.NewOrderGuard(cfg.Humanizer.OrdersPerSecond, cfg.Humanizer.Burst)
		a.scripts = append(a.scripts, a.guard)
	}
	if cfg.Armlet.Enabled {
		slider := script.NewSlider(cfg.Armlet.Threshold, cfg.Armlet.ThresholdMin, cfg.Armlet.ThresholdMax)
		a.armlet = script.NewArmlet(cfg.Armlet.Ability, sim, sim, slider, recorder)
		a.scripts = append(a.scripts, a.armlet)
	}
	if cfg.Overlay.Enabled {
		oc, err := overlayConfig(cfg.Overlay)
		if err != nil {
			return nil, err
		}
		a.scripts = append(a.scripts, script.NewOverlay(oc, sim))
	}
	if cfg.Hotkey.Enabled {
		a.scripts = append(a.scripts, script.NewHotkey(cfg.Hotkey.Key, cfg.Hotkey.Ability, sim, eng))
	}

	for _, s := range a.scripts {
		s.Register(bus)
	}
	return a, nil
}
