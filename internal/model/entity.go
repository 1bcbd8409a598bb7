package model

import (
	"errors"
	"fmt"
	"sync"
)

// ItemSlots — число слотов инвентаря у носителя.
const ItemSlots = 6

// ErrInventoryFull возвращается AddItem, когда все слоты заняты.
var ErrInventoryFull = errors.New("inventory full")

// Entity — живая сущность мира (герой, крип, здание, курьер).
// Capabilities вычисляются один раз из kind в NewEntity и больше не меняются.
type Entity struct {
	id   uint32
	name string
	kind EntityKind
	team int32
	caps Capabilities

	currentHP int32
	maxHP     int32
	currentMP int32
	maxMP     int32
	location  Location

	abilities map[string]*Ability
	items     [ItemSlots]*Ability

	mu sync.RWMutex
}

// NewEntity создаёт сущность с полными HP/MP.
func NewEntity(id uint32, name string, kind EntityKind, team, maxHP, maxMP int32) *Entity {
	if maxHP < 1 {
		maxHP = 1
	}
	if maxMP < 0 {
		maxMP = 0
	}
	return &Entity{
		id:        id,
		name:      name,
		kind:      kind,
		team:      team,
		caps:      CapabilitiesOf(kind),
		currentHP: maxHP,
		maxHP:     maxHP,
		currentMP: maxMP,
		maxMP:     maxMP,
		abilities: make(map[string]*Ability),
	}
}

// ID возвращает уникальный ID (immutable).
func (e *Entity) ID() uint32 { return e.id }

// Name возвращает имя.
func (e *Entity) Name() string { return e.name }

// Kind возвращает тип сущности.
func (e *Entity) Kind() EntityKind { return e.kind }

// Team возвращает команду.
func (e *Entity) Team() int32 { return e.team }

// Has reports whether the entity was created with capability c.
func (e *Entity) Has(c Capability) bool {
	return e.caps.Has(c)
}

// CurrentHP возвращает текущее HP.
func (e *Entity) CurrentHP() int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentHP
}

// MaxHP возвращает максимальное HP.
func (e *Entity) MaxHP() int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxHP
}

// SetCurrentHP устанавливает текущее HP с валидацией (clamp 0..maxHP).
func (e *Entity) SetCurrentHP(hp int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentHP = clamp(hp, 0, e.maxHP)
}

// CurrentMP возвращает текущее MP.
func (e *Entity) CurrentMP() int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentMP
}

// MaxMP возвращает максимальное MP.
func (e *Entity) MaxMP() int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxMP
}

// SetCurrentMP устанавливает текущее MP с валидацией (clamp 0..maxMP).
func (e *Entity) SetCurrentMP(mp int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentMP = clamp(mp, 0, e.maxMP)
}

// IsDead returns true if HP reached zero.
func (e *Entity) IsDead() bool {
	return e.CurrentHP() <= 0
}

// HPPercentage returns HP as 0..100.
func (e *Entity) HPPercentage() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return float64(e.currentHP) / float64(e.maxHP) * 100
}

// Location возвращает копию координат.
func (e *Entity) Location() Location {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.location
}

// SetLocation устанавливает координаты.
func (e *Entity) SetLocation(loc Location) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.location = loc
}

// AddAbility добавляет способность. Повторное имя возвращает ошибку.
func (e *Entity) AddAbility(a *Ability) error {
	if !e.Has(CapCaster) {
		return fmt.Errorf("entity %d (%s) cannot hold abilities", e.id, e.kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.abilities[a.Name]; ok {
		return fmt.Errorf("ability %q already added to entity %d", a.Name, e.id)
	}
	e.abilities[a.Name] = a
	return nil
}

// Ability возвращает способность по имени или nil.
func (e *Entity) Ability(name string) *Ability {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.abilities[name]
}

// AddItem кладёт предмет в первый свободный слот и возвращает его номер.
func (e *Entity) AddItem(item *Ability) (int, error) {
	if !e.Has(CapCarrier) {
		return -1, fmt.Errorf("entity %d (%s) cannot carry items", e.id, e.kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	free := -1
	for i, it := range e.items {
		switch {
		case it == nil:
			if free < 0 {
				free = i
			}
		case it.Name == item.Name:
			return -1, fmt.Errorf("item %q already in slot %d of entity %d", item.Name, i, e.id)
		}
	}
	if free < 0 {
		return -1, fmt.Errorf("entity %d: %w", e.id, ErrInventoryFull)
	}
	e.items[free] = item
	return free, nil
}

// Item returns the carried item with the given name and its slot, or nil and -1.
func (e *Entity) Item(name string) (*Ability, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for i, it := range e.items {
		if it != nil && it.Name == name {
			return it, i
		}
	}
	return nil, -1
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
