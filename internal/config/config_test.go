package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spacehole-rogue/starwake/internal/game"
)

func TestDefaultsMatchShippedTuning(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Tuning != game.DefaultTuning() {
		t.Errorf("env defaults %+v differ from DefaultTuning %+v", cfg.Tuning, game.DefaultTuning())
	}
	if cfg.Storage.AutosaveInterval() != 5*time.Second {
		t.Errorf("autosave = %v", cfg.Storage.AutosaveInterval())
	}
	if cfg.Window.Width != 1280 || cfg.Log.Level != "info" || !cfg.Audio.Enabled {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("STARWAKE_CRIT_CHANCE", "0.5")
	t.Setenv("STARWAKE_EMPIRE_TICK_INTERVAL", "3s")
	t.Setenv("STARWAKE_SEED", "1234")
	t.Setenv("STARWAKE_SAVE_CODEC", "msgpack")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Tuning.CritChance != 0.5 || cfg.Tuning.EmpireTickInterval != 3*time.Second {
		t.Errorf("tuning = %+v", cfg.Tuning)
	}
	if cfg.Session.Seed != 1234 || cfg.Storage.Codec != "msgpack" {
		t.Errorf("session=%+v storage=%+v", cfg.Session, cfg.Storage)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"STARWAKE_SAVE_CODEC", "yaml", "STARWAKE_SAVE_CODEC"},
		{"STARWAKE_AUTOSAVE_SECONDS", "0", "AUTOSAVE"},
		{"STARWAKE_VOLUME", "3", "STARWAKE_VOLUME"},
		{"STARWAKE_LOADOUT", "balanced", "loadout"},
		{"STARWAKE_CRIT_CHANCE", "2", "CRIT_CHANCE"},
		{"STARWAKE_CONQUEST_RATIO", "0.5", "conquest ratio"},
		{"STARWAKE_WIDTH", "100", "window"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	t.Setenv("STARWAKE_SEED", "not-a-number")
	if _, err := Parse(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("err = %v", err)
	}
}
