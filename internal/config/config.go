// Package config reads the game's settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/spacehole-rogue/starwake/internal/game"
	"github.com/spacehole-rogue/starwake/internal/world"
)

type Config struct {
	Window  WindowConfig
	Log     LogConfig
	Storage StorageConfig
	Audio   AudioConfig
	Session SessionConfig
	Tuning  game.Tuning `envPrefix:"STARWAKE_"`
}

type WindowConfig struct {
	Width  int    `env:"STARWAKE_WIDTH" envDefault:"1280"`
	Height int    `env:"STARWAKE_HEIGHT" envDefault:"800"`
	Title  string `env:"STARWAKE_TITLE" envDefault:"Starwake"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type StorageConfig struct {
	DBPath          string `env:"STARWAKE_DB_PATH" envDefault:"starwake.db"`
	Codec           string `env:"STARWAKE_SAVE_CODEC" envDefault:"json"`
	AutosaveSeconds int    `env:"STARWAKE_AUTOSAVE_SECONDS" envDefault:"5"`
}

// AutosaveInterval is the autosave period on the session clock.
func (s StorageConfig) AutosaveInterval() time.Duration {
	return time.Duration(s.AutosaveSeconds) * time.Second
}

type AudioConfig struct {
	Enabled bool    `env:"STARWAKE_AUDIO" envDefault:"true"`
	Volume  float64 `env:"STARWAKE_VOLUME" envDefault:"0.6"`
}

type SessionConfig struct {
	Seed    uint32 `env:"STARWAKE_SEED" envDefault:"0"`
	Loadout string `env:"STARWAKE_LOADOUT" envDefault:"balanced,standard,pulse,balanced"`
}

// Load reads .env if present, then the environment, and validates the
// result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment without touching .env.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width < 320 || c.Window.Height < 200 {
		return fmt.Errorf("window %dx%d is smaller than 320x200", c.Window.Width, c.Window.Height)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q: want debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT %q: want text or json", c.Log.Format)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("STARWAKE_DB_PATH is required")
	}
	switch c.Storage.Codec {
	case "json", "msgpack":
	default:
		return fmt.Errorf("STARWAKE_SAVE_CODEC %q: want json or msgpack", c.Storage.Codec)
	}
	if c.Storage.AutosaveSeconds < 1 {
		return fmt.Errorf("STARWAKE_AUTOSAVE_SECONDS must be at least 1")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("STARWAKE_VOLUME %v: want 0..1", c.Audio.Volume)
	}
	if _, _, _, _, err := world.ParseChoice(c.Session.Loadout); err != nil {
		return err
	}
	t := c.Tuning
	if t.CritChance < 0 || t.CritChance > 1 {
		return fmt.Errorf("STARWAKE_CRIT_CHANCE %v: want 0..1", t.CritChance)
	}
	if t.ConquestRatio <= t.PartialClaimRatio {
		return fmt.Errorf("conquest ratio %v must exceed partial claim ratio %v", t.ConquestRatio, t.PartialClaimRatio)
	}
	if t.SectorSize <= 0 || t.EmpireTickInterval <= 0 || t.FeatureTickInterval <= 0 {
		return fmt.Errorf("sector size and tick intervals must be positive")
	}
	return nil
}
