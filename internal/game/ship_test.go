package game

import (
	"math"
	"testing"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
	"github.com/spacehole-rogue/starwake/internal/world"
)

func newTestShip() *Ship { return NewShip(world.DefaultLoadout()) }

func TestCrashDamage(t *testing.T) {
	tune := DefaultTuning()
	tests := []struct {
		speed float64
		want  float64
	}{
		{5, 0},
		{5.2, 1},
		{8, 6},
		{11.5, 13},
	}
	for _, tt := range tests {
		s := newTestShip()
		p := &Planet{ID: "p", Pos: mathx.V(0, 0, 0), Radius: 50}
		s.Pos = mathx.V(0, 30, 0)
		s.Vel = mathx.V(tt.speed, 0, 0)

		res := s.ResolveLanding([]*Planet{p}, false, tune)

		if res.State != Crashed {
			t.Errorf("speed %.1f: state = %v, want crashed", tt.speed, res.State)
			continue
		}
		if res.Damage != tt.want {
			t.Errorf("speed %.1f: damage = %f, want %f", tt.speed, res.Damage, tt.want)
		}
		if s.Landed {
			t.Errorf("speed %.1f: crashed ship is landed", tt.speed)
		}
		if s.Health != 100-tt.want {
			t.Errorf("speed %.1f: health = %f", tt.speed, s.Health)
		}
	}
}

func TestCrashBypassesShield(t *testing.T) {
	s := newTestShip()
	s.Shield = s.MaxShield
	p := &Planet{Pos: mathx.V(0, 0, 0), Radius: 50}
	s.Pos = mathx.V(0, 20, 0)
	s.Vel = mathx.V(0, -9, 0)

	s.ResolveLanding([]*Planet{p}, false, DefaultTuning())

	if s.Health != 92 || s.Shield != s.MaxShield {
		t.Fatalf("health=%f shield=%f", s.Health, s.Shield)
	}
}

func TestSafeLandingAndTakeoff(t *testing.T) {
	s := newTestShip()
	p := &Planet{ID: "p", Pos: mathx.V(100, 0, 0), Radius: 40}
	s.Pos = mathx.V(100, 35, 0)
	s.Vel = mathx.V(0, -3, 1)

	res := s.ResolveLanding([]*Planet{p}, false, DefaultTuning())
	if res.State != Landed || !s.Landed || s.LandedPlanet != p {
		t.Fatalf("state=%v landed=%v", res.State, s.Landed)
	}
	if !s.Vel.IsZero() {
		t.Errorf("landed velocity = %+v", s.Vel)
	}
	if want := mathx.V(100, 40+landingHover, 0); s.Pos != want {
		t.Errorf("parked at %+v, want %+v", s.Pos, want)
	}

	s.Fuel = 10
	res = s.ResolveLanding([]*Planet{p}, false, DefaultTuning())
	if res.State != Landed || math.Abs(s.Fuel-(10+landedRefuel)) > 1e-9 {
		t.Errorf("landed refuel: state=%v fuel=%f", res.State, s.Fuel)
	}

	res = s.ResolveLanding([]*Planet{p}, true, DefaultTuning())
	if res.State != TakenOff || s.Landed || s.LandedPlanet != nil {
		t.Fatalf("takeoff: state=%v landed=%v", res.State, s.Landed)
	}
	if want := mathx.V(0, takeoffImpulse, 0); s.Vel != want {
		t.Errorf("takeoff impulse = %+v, want %+v", s.Vel, want)
	}
}

func TestLandedBaseRepairs(t *testing.T) {
	s := newTestShip()
	p := &Planet{Pos: mathx.V(0, 0, 0), Radius: 40, HasBase: true, BaseLevel: 2}
	s.Landed, s.LandedPlanet = true, p
	s.Pos = mathx.V(0, 45, 0)
	s.Health = 50

	s.ResolveLanding([]*Planet{p}, false, DefaultTuning())

	if want := 50 + baseRepair + 2*baseTierBonus; math.Abs(s.Health-want) > 1e-9 {
		t.Errorf("health = %f, want %f", s.Health, want)
	}
}

func TestLandedDriftAutoExit(t *testing.T) {
	s := newTestShip()
	p := &Planet{Pos: mathx.V(0, 0, 0), Radius: 40}
	s.Landed, s.LandedPlanet = true, p
	s.Pos = mathx.V(0, 200, 0)

	res := s.ResolveLanding([]*Planet{p}, false, DefaultTuning())
	if res.State != Flying || s.Landed {
		t.Fatalf("state=%v landed=%v, want flying", res.State, s.Landed)
	}
}

func TestInertiaMode(t *testing.T) {
	s := newTestShip()
	s.Fuel = 0
	s.Vel = mathx.V(1, 0, 0)

	s.tick(Input{Forward: true}, nil, DefaultTuning())

	if math.Abs(s.Speed()-1) > 1e-9 {
		t.Errorf("speed = %f, inertia must preserve speed", s.Speed())
	}
	if s.Vel.Z >= 0 {
		t.Errorf("velocity %+v not steered toward -z", s.Vel)
	}
	if !s.Thrusting {
		t.Error("coasting ship should count as moving")
	}

	rest := newTestShip()
	rest.Fuel = 0
	rest.tick(Input{Forward: true}, nil, DefaultTuning())
	if !rest.Vel.IsZero() || rest.Thrusting {
		t.Errorf("unfuelled ship gained thrust: %+v", rest.Vel)
	}
}

func TestThrustDrainsFuel(t *testing.T) {
	s := newTestShip()
	s.tick(Input{Forward: true}, nil, DefaultTuning())
	if s.Fuel >= shipStartFuel {
		t.Errorf("fuel = %f after thrusting", s.Fuel)
	}
	if s.Vel.Z >= 0 {
		t.Errorf("forward thrust moved %+v", s.Vel)
	}
}

func TestNearestPlanetGravity(t *testing.T) {
	s := newTestShip()
	near := &Planet{Pos: mathx.V(0, 0, 0), Radius: 20}
	far := &Planet{Pos: mathx.V(300, 0, 0), Radius: 200}
	s.Pos = mathx.V(100, 0, 0)

	s.applyGravity([]*Planet{far, near}, DefaultTuning())

	if s.Vel.X >= 0 {
		t.Fatalf("pulled toward %+v, want the nearest planet", s.Vel)
	}
	want := 0.015 * (400.0 / 100)
	if math.Abs(-s.Vel.X-want) > 1e-9 {
		t.Errorf("pull = %f, want %f", -s.Vel.X, want)
	}
}

func TestShipClamps(t *testing.T) {
	s := newTestShip()

	s.TakeDamage(1e6)
	if s.Health != 0 {
		t.Errorf("health = %f, want 0", s.Health)
	}
	s.Repair(1e6)
	if s.Health != s.MaxHealth {
		t.Errorf("health = %f, want %f", s.Health, s.MaxHealth)
	}
	s.AddShield(1e6)
	if s.Shield != s.MaxShield {
		t.Errorf("shield = %f", s.Shield)
	}
	s.AddShield(-1e6)
	if s.Shield != 0 {
		t.Errorf("shield = %f", s.Shield)
	}
	s.AddAmmo(1e6)
	if s.Ammo != s.MaxAmmo {
		t.Errorf("ammo = %d", s.Ammo)
	}
	s.AddAmmo(-1e6)
	if s.Ammo != 0 {
		t.Errorf("ammo = %d", s.Ammo)
	}
}

func TestShieldAbsorbsHalf(t *testing.T) {
	s := newTestShip()
	s.Shield = 50
	s.TakeDamage(40)
	if s.Shield != 30 || s.Health != 80 {
		t.Errorf("shield=%f health=%f, want 30/80", s.Shield, s.Health)
	}
}

func TestRocketStages(t *testing.T) {
	s := newTestShip()
	now := testStart
	if s.SeparateStage() {
		t.Fatal("separated a stage that does not exist")
	}
	if n := s.AddRocketStage(now); n != 1 {
		t.Fatalf("stages = %d", n)
	}
	if s.MaxFuel != shipStartFuel+stageFuelCapacity {
		t.Errorf("max fuel = %f", s.MaxFuel)
	}
	if s.expireStageBoosts(now.Add(stageBoostLifetime-time.Second)) != 0 {
		t.Error("boost expired early")
	}
	if s.expireStageBoosts(now.Add(stageBoostLifetime)) != 1 {
		t.Error("boost did not expire")
	}
	if !s.SeparateStage() || s.ExtraStages != 0 {
		t.Errorf("separate failed, stages = %d", s.ExtraStages)
	}
	if s.MaxFuel < minStagedFuel {
		t.Errorf("max fuel %f under floor", s.MaxFuel)
	}
}

func TestReloadCooldown(t *testing.T) {
	s := newTestShip()
	s.Ammo = 0
	if !s.Reload() || s.Ammo != shipReloadAmount {
		t.Fatalf("reload gave %d ammo", s.Ammo)
	}
	if s.Reload() {
		t.Error("reload ignored its cooldown")
	}
	for range shipReloadFrames {
		s.tick(Input{}, nil, DefaultTuning())
	}
	if !s.Reload() {
		t.Error("reload still cooling down")
	}
}
