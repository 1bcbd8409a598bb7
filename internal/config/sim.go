package config

import (
	"fmt"
	"time"

	"github.com/udisondev/togglebot/internal/model"
)

// SimConfig configures the simulated host used by `togglebot run`.
type SimConfig struct {
	HeroName     string        `yaml:"hero_name" env:"HERO_NAME"`
	HeroMaxHP    int32         `yaml:"hero_max_hp" env:"HERO_MAX_HP"`
	HeroMaxMP    int32         `yaml:"hero_max_mp" env:"HERO_MAX_MP"`
	Damage       int32         `yaml:"damage" env:"DAMAGE"`         // HP lost per tick in the damage phase
	Regen        int32         `yaml:"regen" env:"REGEN"`           // HP gained per tick in the regen phase
	ManaRegen    int32         `yaml:"mana_regen" env:"MANA_REGEN"` // MP gained per tick
	PhaseTicks   int           `yaml:"phase_ticks" env:"PHASE_TICKS"`
	RespawnTicks int           `yaml:"respawn_ticks" env:"RESPAWN_TICKS"`
	KeyEvery     int           `yaml:"key_every" env:"KEY_EVERY"` // press hotkey every N ticks, 0 = never
	SessionTicks int           `yaml:"session_ticks" env:"SESSION_TICKS"`
	ToggleCD     time.Duration `yaml:"toggle_cooldown" env:"TOGGLE_COOLDOWN"`
	HotkeyCD     time.Duration `yaml:"hotkey_cooldown" env:"HOTKEY_COOLDOWN"`
	HotkeyMana   int32         `yaml:"hotkey_mana" env:"HOTKEY_MANA"`

	SpawnX    float32 `yaml:"spawn_x" env:"SPAWN_X"`
	SpawnY    float32 `yaml:"spawn_y" env:"SPAWN_Y"`
	MoveRange float32 `yaml:"move_range" env:"MOVE_RANGE"` // 0 = unlimited

	Waves []WaveConfig `yaml:"waves" envPrefix:"WAVES"`
}

// WaveConfig spawns host-owned entities on a schedule.
type WaveConfig struct {
	Kind     string  `yaml:"kind" env:"KIND"` // hero | creep | building | courier
	Name     string  `yaml:"name" env:"NAME"`
	Team     int32   `yaml:"team" env:"TEAM"`
	MaxHP    int32   `yaml:"max_hp" env:"MAX_HP"`
	X        float32 `yaml:"x" env:"X"`
	Y        float32 `yaml:"y" env:"Y"`
	Every    int     `yaml:"every" env:"EVERY"`
	Lifetime int     `yaml:"lifetime" env:"LIFETIME"`
}

// SpawnPoint returns the hero spawn location.
func (s SimConfig) SpawnPoint() model.Location {
	return model.NewLocation(s.SpawnX, s.SpawnY, 0)
}

// DefaultSim returns SimConfig with a hero that dips below the default
// armlet threshold every cycle.
func DefaultSim() SimConfig {
	return SimConfig{
		HeroName:     "Huskar",
		HeroMaxHP:    1400,
		HeroMaxMP:    400,
		Damage:       60,
		Regen:        45,
		ManaRegen:    2,
		PhaseTicks:   20,
		RespawnTicks: 30,
		KeyEvery:     50,
		SessionTicks: 0,
		ToggleCD:     100 * time.Millisecond,
		HotkeyCD:     3 * time.Second,
		HotkeyMana:   75,
		MoveRange:    1200,
		Waves: []WaveConfig{
			{Kind: "creep", Name: "melee creep", Team: 3, MaxHP: 550, X: 600, Y: 0, Every: 40, Lifetime: 25},
		},
	}
}

// Validate checks simulation ranges.
func (s SimConfig) Validate() error {
	if s.HeroMaxHP < 1 {
		return fmt.Errorf("sim.hero_max_hp must be >= 1, got %d", s.HeroMaxHP)
	}
	if s.PhaseTicks < 1 {
		return fmt.Errorf("sim.phase_ticks must be >= 1, got %d", s.PhaseTicks)
	}
	if s.Damage < 0 || s.Regen < 0 || s.ManaRegen < 0 {
		return fmt.Errorf("sim drift values must be non-negative")
	}
	if s.MoveRange < 0 {
		return fmt.Errorf("sim.move_range must be non-negative, got %v", s.MoveRange)
	}
	for i, w := range s.Waves {
		if model.ParseEntityKind(w.Kind) == model.KindUnknown {
			return fmt.Errorf("sim.waves[%d]: unknown kind %q", i, w.Kind)
		}
		if w.Every < 1 {
			return fmt.Errorf("sim.waves[%d]: every must be >= 1, got %d", i, w.Every)
		}
	}
	return nil
}
