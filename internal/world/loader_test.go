package world

import (
	"errors"
	"math"
	"testing"

	"github.com/spacehole-rogue/starwake/assets"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	data, err := assets.Ships.ReadFile("ships/loadouts.json")
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	c, err := LoadCatalog(data)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestBuildAppliesClassModifiers(t *testing.T) {
	c := loadTestCatalog(t)
	l, err := c.Build("heavy", "turbo", "plasma", "tank")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if l.Health != 240 {
		t.Errorf("health = %d, want 240", l.Health)
	}
	if want := 16 * 0.8 * 0.8; math.Abs(l.MaxSpeed-want) > 1e-9 {
		t.Errorf("max speed = %f, want %f", l.MaxSpeed, want)
	}
	if want := 1 / 0.7; math.Abs(l.FuelConsumption-want) > 1e-9 {
		t.Errorf("fuel consumption = %f, want %f", l.FuelConsumption, want)
	}
	if l.Weapon.Damage != 42 {
		t.Errorf("weapon damage = %d, want 42", l.Weapon.Damage)
	}
}

func TestBuildDefaultMatchesCatalog(t *testing.T) {
	c := loadTestCatalog(t)
	l, err := c.Build("balanced", "standard", "pulse", "balanced")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	d := DefaultLoadout()
	if l.Health != d.Health || l.MaxSpeed != d.MaxSpeed || l.Accel != d.Accel || l.Weapon != d.Weapon {
		t.Errorf("catalog balanced build %+v differs from default %+v", l, d)
	}
}

func TestBuildUnknownPart(t *testing.T) {
	c := loadTestCatalog(t)
	_, err := c.Build("balanced", "warp", "pulse", "")
	if !errors.Is(err, ErrUnknownLoadout) {
		t.Fatalf("expected ErrUnknownLoadout, got %v", err)
	}
}

func TestLoadCatalogRejectsBadJSON(t *testing.T) {
	if _, err := LoadCatalog([]byte(`{"bodies":`)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadCatalog([]byte(`{"bodies":{}}`)); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestParseChoice(t *testing.T) {
	b, tk, w, cls, err := ParseChoice(" sleek, economy ,missile")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b != "sleek" || tk != "economy" || w != "missile" || cls != "" {
		t.Errorf("got %q %q %q %q", b, tk, w, cls)
	}
	if _, _, _, _, err := ParseChoice("sleek"); err == nil {
		t.Error("expected error for short choice")
	}
}
