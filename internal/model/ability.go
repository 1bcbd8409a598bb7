package model

import "time"

// Ability — способность или активируемый предмет сущности.
// Toggle-способности (armlet) переключают состояние при каждом касте.
type Ability struct {
	Name     string
	ManaCost int32
	Cooldown time.Duration
	Toggle   bool

	toggled bool
	readyAt time.Time
}

// NewAbility создаёт способность.
func NewAbility(name string, manaCost int32, cooldown time.Duration, toggle bool) *Ability {
	return &Ability{
		Name:     name,
		ManaCost: manaCost,
		Cooldown: cooldown,
		Toggle:   toggle,
	}
}

// Ready reports whether the cooldown has expired at now.
func (a *Ability) Ready(now time.Time) bool {
	return !now.Before(a.readyAt)
}

// StartCooldown starts the cooldown at now.
func (a *Ability) StartCooldown(now time.Time) {
	a.readyAt = now.Add(a.Cooldown)
}

// Toggled returns the host-side toggle state (only meaningful for Toggle abilities).
func (a *Ability) Toggled() bool {
	return a.toggled
}

// Flip inverts the toggle state.
func (a *Ability) Flip() {
	a.toggled = !a.toggled
}
