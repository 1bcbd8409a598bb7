package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "TOGGLEBOT_"

// Config holds all configuration for the bot runtime.
type Config struct {
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL"`
	TickInterval time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`

	// Database is optional; when disabled transitions stay in memory.
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`

	Armlet    ArmletConfig    `yaml:"armlet" envPrefix:"ARMLET_"`
	Overlay   OverlayConfig   `yaml:"overlay" envPrefix:"OVERLAY_"`
	Hotkey    HotkeyConfig    `yaml:"hotkey" envPrefix:"HOTKEY_"`
	Humanizer HumanizerConfig `yaml:"humanizer" envPrefix:"HUMANIZER_"`

	Sim SimConfig `yaml:"sim" envPrefix:"SIM_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ArmletConfig configures the HP threshold toggle.
type ArmletConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	Ability      string  `yaml:"ability" env:"ABILITY"`
	Threshold    float64 `yaml:"threshold" env:"THRESHOLD"`
	ThresholdMin float64 `yaml:"threshold_min" env:"THRESHOLD_MIN"`
	ThresholdMax float64 `yaml:"threshold_max" env:"THRESHOLD_MAX"`
}

// OverlayConfig configures the on-screen shape.
type OverlayConfig struct {
	Enabled   bool    `yaml:"enabled" env:"ENABLED"`
	Shape     string  `yaml:"shape" env:"SHAPE"` // filled_rect | outlined_rect | circle
	X         float32 `yaml:"x" env:"X"`
	Y         float32 `yaml:"y" env:"Y"`
	Width     float32 `yaml:"width" env:"WIDTH"`
	Height    float32 `yaml:"height" env:"HEIGHT"`
	Color     string  `yaml:"color" env:"COLOR"` // #RRGGBB or #RRGGBBAA
	Thickness float32 `yaml:"thickness" env:"THICKNESS"`
}

// HotkeyConfig binds a key to an ability cast.
type HotkeyConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Key     string `yaml:"key" env:"KEY"`
	Ability string `yaml:"ability" env:"ABILITY"`
}

// HumanizerConfig limits how fast orders reach the host.
type HumanizerConfig struct {
	Enabled         bool    `yaml:"enabled" env:"ENABLED"`
	OrdersPerSecond float64 `yaml:"orders_per_second" env:"ORDERS_PER_SECOND"`
	Burst           int     `yaml:"burst" env:"BURST"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:     "info",
		TickInterval: 100 * time.Millisecond,
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "togglebot",
			Password: "togglebot",
			DBName:   "togglebot",
			SSLMode:  "disable",
		},
		Armlet: ArmletConfig{
			Enabled:      true,
			Ability:      "item_armlet",
			Threshold:    500,
			ThresholdMin: 0,
			ThresholdMax: 3000,
		},
		Overlay: OverlayConfig{
			Enabled:   true,
			Shape:     "outlined_rect",
			X:         20,
			Y:         20,
			Width:     200,
			Height:    40,
			Color:     "#ff0000ff",
			Thickness: 2,
		},
		Hotkey: HotkeyConfig{
			Enabled: true,
			Key:     "F",
			Ability: "berserkers_blood",
		},
		Humanizer: HumanizerConfig{
			Enabled:         true,
			OrdersPerSecond: 8,
			Burst:           4,
		},
		Sim: DefaultSim(),
	}
}

// Load loads config from a YAML file, then applies .env and TOGGLEBOT_*
// environment overrides. If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := applyEnv(&cfg, ".env"); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv loads dotenv (missing file is fine) and parses overrides into cfg.
func applyEnv(cfg *Config, dotenv string) error {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", dotenv, err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.Armlet.Enabled {
		if c.Armlet.Ability == "" {
			return errors.New("armlet.ability is required")
		}
		if c.Armlet.ThresholdMin > c.Armlet.ThresholdMax {
			return fmt.Errorf("armlet.threshold_min %v > threshold_max %v", c.Armlet.ThresholdMin, c.Armlet.ThresholdMax)
		}
		if c.Armlet.Threshold < c.Armlet.ThresholdMin || c.Armlet.Threshold > c.Armlet.ThresholdMax {
			return fmt.Errorf("armlet.threshold %v outside [%v, %v]",
				c.Armlet.Threshold, c.Armlet.ThresholdMin, c.Armlet.ThresholdMax)
		}
	}
	if c.Hotkey.Enabled && (c.Hotkey.Key == "" || c.Hotkey.Ability == "") {
		return errors.New("hotkey.key and hotkey.ability are required")
	}
	if c.Humanizer.Enabled && c.Humanizer.OrdersPerSecond <= 0 {
		return fmt.Errorf("humanizer.orders_per_second must be positive, got %v", c.Humanizer.OrdersPerSecond)
	}
	return c.Sim.Validate()
}
