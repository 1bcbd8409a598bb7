package host

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/udisondev/togglebot/internal/model"
)

// AbilitySpec describes an ability granted to the simulated hero.
// Item abilities go into an inventory slot instead of the ability list.
type AbilitySpec struct {
	Name     string
	ManaCost int32
	Cooldown time.Duration
	Toggle   bool
	Item     bool
}

// SpawnSpec spawns Kind at At every Every ticks. Each spawned entity is
// removed after Lifetime ticks; 0 keeps it until the session ends.
type SpawnSpec struct {
	Kind     model.EntityKind
	Name     string
	Team     int32
	MaxHP    int32
	At       model.Location
	Every    int
	Lifetime int
}

// SimConfig configures the simulated session.
type SimConfig struct {
	HeroName  string
	HeroMaxHP int32
	HeroMaxMP int32
	Abilities []AbilitySpec
	Spawn     model.Location

	// MoveRange caps the distance of a single move order. 0 is unlimited.
	MoveRange float32

	// Damage is subtracted from hero HP every tick during the damage phase,
	// Regen is added during the regen phase. Each phase lasts PhaseTicks.
	Damage     int32
	Regen      int32
	ManaRegen  int32
	PhaseTicks int

	// RespawnTicks after death before the hero is created again. 0 disables respawn.
	RespawnTicks int

	// KeyEvery presses Key every N ticks. 0 disables.
	Key      string
	KeyEvery int

	// SessionTicks ends the session after N ticks. 0 means unbounded.
	// The counter restarts once Ended has been reported.
	SessionTicks int

	Spawns []SpawnSpec
}

// DrawStats counts render calls per primitive.
type DrawStats struct {
	FilledRects   int
	OutlinedRects int
	Circles       int
}

// Sim is an in-memory host: world, caster, order issuer, renderer and feed.
type Sim struct {
	cfg SimConfig

	mu        sync.Mutex
	entities  map[uint32]*model.Entity
	nextID    uint32
	localID   uint32
	tick      int
	played    int
	deadFor   int
	expires   map[uint32]int
	pending   Frame
	orders    []model.Order
	draws     DrawStats
	lastClock time.Time
}

// NewSim creates a simulated host with the local hero already spawned.
// The hero shows up in the first Frame as created.
func NewSim(cfg SimConfig) *Sim {
	if cfg.PhaseTicks <= 0 {
		cfg.PhaseTicks = 1
	}
	s := &Sim{
		cfg:      cfg,
		entities: make(map[uint32]*model.Entity),
		expires:  make(map[uint32]int),
		nextID:   1,
	}
	s.spawnHero()
	return s
}

func (s *Sim) spawnHero() *model.Entity {
	hero := model.NewEntity(s.nextID, s.cfg.HeroName, model.KindHero, 2, s.cfg.HeroMaxHP, s.cfg.HeroMaxMP)
	s.nextID++
	hero.SetLocation(s.cfg.Spawn)
	for _, spec := range s.cfg.Abilities {
		a := model.NewAbility(spec.Name, spec.ManaCost, spec.Cooldown, spec.Toggle)
		var err error
		if spec.Item {
			_, err = hero.AddItem(a)
		} else {
			err = hero.AddAbility(a)
		}
		if err != nil {
			slog.Warn("skipping sim ability", "ability", spec.Name, "err", err)
		}
	}
	s.entities[hero.ID()] = hero
	s.localID = hero.ID()
	s.pending.Created = append(s.pending.Created, hero)
	return hero
}

// Spawn adds an entity owned by the host at loc. It is reported as created on the next Step.
func (s *Sim) Spawn(kind model.EntityKind, name string, team, maxHP, maxMP int32, loc model.Location) *model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(kind, name, team, maxHP, maxMP, loc)
}

func (s *Sim) spawnLocked(kind model.EntityKind, name string, team, maxHP, maxMP int32, loc model.Location) *model.Entity {
	e := model.NewEntity(s.nextID, name, kind, team, maxHP, maxMP)
	s.nextID++
	e.SetLocation(loc)
	s.entities[e.ID()] = e
	s.pending.Created = append(s.pending.Created, e)
	return e
}

// Remove deletes an entity. It is reported as destroyed on the next Step.
func (s *Sim) Remove(id uint32) *model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Sim) removeLocked(id uint32) *model.Entity {
	e, ok := s.entities[id]
	if !ok {
		return nil
	}
	delete(s.entities, id)
	delete(s.expires, id)
	s.pending.Destroyed = append(s.pending.Destroyed, e)
	if id == s.localID {
		s.localID = 0
	}
	return e
}

// PressKey queues a key press for the next Step.
func (s *Sim) PressKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Keys = append(s.pending.Keys, key)
}

// LocalHero returns the local hero, nil while dead or removed.
func (s *Sim) LocalHero() *model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities[s.localID]
}

// Step advances the simulation by one tick and returns the accumulated frame.
func (s *Sim) Step(now time.Time) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	s.played++
	s.lastClock = now

	if hero := s.entities[s.localID]; hero != nil {
		s.drift(hero)
		if hero.IsDead() {
			slog.Debug("sim hero died", "hero", hero.Name(), "tick", s.tick)
			s.removeLocked(hero.ID())
			s.deadFor = 0
		}
	} else if s.cfg.RespawnTicks > 0 {
		s.deadFor++
		if s.deadFor >= s.cfg.RespawnTicks {
			hero := s.spawnHero()
			slog.Debug("sim hero respawned", "hero", hero.Name(), "tick", s.tick)
		}
	}

	s.runSpawns()

	if s.cfg.KeyEvery > 0 && s.cfg.Key != "" && s.tick%s.cfg.KeyEvery == 0 {
		s.pending.Keys = append(s.pending.Keys, s.cfg.Key)
	}
	if s.cfg.SessionTicks > 0 && s.played >= s.cfg.SessionTicks {
		s.pending.Ended = true
		s.played = 0
	}

	frame := s.pending
	s.pending = Frame{}
	return frame
}

// runSpawns removes expired entities, then spawns the waves due this tick.
func (s *Sim) runSpawns() {
	for _, id := range slices.Sorted(maps.Keys(s.expires)) {
		if s.tick >= s.expires[id] {
			s.removeLocked(id)
		}
	}
	for _, sp := range s.cfg.Spawns {
		if sp.Every <= 0 || s.tick%sp.Every != 0 {
			continue
		}
		e := s.spawnLocked(sp.Kind, sp.Name, sp.Team, sp.MaxHP, 0, sp.At)
		if sp.Lifetime > 0 {
			s.expires[e.ID()] = s.tick + sp.Lifetime
		}
		slog.Debug("sim spawned", "entity", e.Name(), "kind", e.Kind(), "id", e.ID(), "tick", s.tick)
	}
}

// drift applies the damage/regen sawtooth to the hero.
func (s *Sim) drift(hero *model.Entity) {
	phase := ((s.tick - 1) / s.cfg.PhaseTicks) % 2
	if phase == 0 {
		hero.SetCurrentHP(hero.CurrentHP() - s.cfg.Damage)
	} else {
		hero.SetCurrentHP(hero.CurrentHP() + s.cfg.Regen)
	}
	hero.SetCurrentMP(hero.CurrentMP() + s.cfg.ManaRegen)
}

// CastNoTarget validates and executes a no-target cast.
// Toggle abilities flip their state on success.
func (s *Sim) CastNoTarget(ctx context.Context, caster *model.Entity, ability string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.castLocked(caster, ability)
}

func (s *Sim) castLocked(caster *model.Entity, ability string) error {
	if caster == nil || s.entities[caster.ID()] != caster {
		return ErrUnknownEntity
	}
	if !caster.Has(model.CapCaster) {
		return fmt.Errorf("%s: %w", caster.Kind(), ErrNotCaster)
	}
	if caster.IsDead() {
		return ErrDead
	}

	a := caster.Ability(ability)
	if a == nil {
		a, _ = caster.Item(ability)
	}
	if a == nil {
		return fmt.Errorf("%q: %w", ability, ErrUnknownAbility)
	}

	now := s.lastClock
	if !a.Ready(now) {
		return fmt.Errorf("%q: %w", ability, ErrOnCooldown)
	}
	if a.ManaCost > 0 && caster.CurrentMP() < a.ManaCost {
		return fmt.Errorf("%q: need %d, have %d: %w", ability, a.ManaCost, caster.CurrentMP(), ErrNotEnoughMana)
	}

	if a.ManaCost > 0 {
		caster.SetCurrentMP(caster.CurrentMP() - a.ManaCost)
	}
	a.StartCooldown(now)
	if a.Toggle {
		a.Flip()
	}

	slog.Debug("sim cast",
		"caster", caster.Name(),
		"ability", ability,
		"toggled", a.Toggled(),
		"tick", s.tick)
	return nil
}

// PrepareOrder records the order and executes it. Cast and toggle orders run
// as casts; a non-zero TargetID must name a live entity. Move orders relocate
// the issuer to Position within MoveRange.
func (s *Sim) PrepareOrder(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, *order)

	if order.Kind == model.OrderStop {
		return nil
	}
	issuer := s.entities[order.IssuerID]
	if issuer == nil {
		return fmt.Errorf("order issuer %d: %w", order.IssuerID, ErrUnknownEntity)
	}
	if order.TargetID != 0 && s.entities[order.TargetID] == nil {
		return fmt.Errorf("order target %d: %w", order.TargetID, ErrUnknownEntity)
	}

	switch order.Kind {
	case model.OrderCast, model.OrderToggle:
		return s.castLocked(issuer, order.Ability)
	case model.OrderMove:
		if r := s.cfg.MoveRange; r > 0 {
			if d := issuer.Location().DistanceSquared(order.Position); d > float64(r)*float64(r) {
				return fmt.Errorf("move to %v: %w", order.Position, ErrOutOfRange)
			}
		}
		issuer.SetLocation(order.Position)
		return nil
	default:
		return nil
	}
}

// Orders returns a copy of every order received.
func (s *Sim) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// FilledRect implements Renderer.
func (s *Sim) FilledRect(r Rect, c Color) {
	s.mu.Lock()
	s.draws.FilledRects++
	s.mu.Unlock()
	slog.Debug("draw filled rect", "x", r.X, "y", r.Y, "w", r.W, "h", r.H, "color", c)
}

// OutlinedRect implements Renderer.
func (s *Sim) OutlinedRect(r Rect, c Color, thickness float32) {
	s.mu.Lock()
	s.draws.OutlinedRects++
	s.mu.Unlock()
	slog.Debug("draw outlined rect", "x", r.X, "y", r.Y, "w", r.W, "h", r.H, "color", c, "thickness", thickness)
}

// Circle implements Renderer.
func (s *Sim) Circle(center Point, radius float32, c Color, filled bool) {
	s.mu.Lock()
	s.draws.Circles++
	s.mu.Unlock()
	slog.Debug("draw circle", "x", center.X, "y", center.Y, "radius", radius, "color", c, "filled", filled)
}

// Draws returns render call counters.
func (s *Sim) Draws() DrawStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}
