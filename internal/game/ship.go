package game

import (
	"math"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
	"github.com/spacehole-rogue/starwake/internal/world"
)

// Ship defaults (per frame at 60 TPS unless noted).
const (
	shipFriction        = 0.965
	shipStartFuel       = 100
	shipStartShield     = 50
	shipShieldRegen     = 0.1
	shipStartAmmo       = 999
	shipReloadAmount    = 220
	shipReloadFrames    = 22
	shipAmmoRegenFrames = 60 // +4 ammo once per second in flight
	shipAmmoRegenAmount = 4
	shipHitRadius       = 1.0

	outOfFuelLevel   = 0.05 // at or below this the ship is in inertia mode
	fuelDrainRate    = 0.1  // fuel per frame at full speed
	inertiaSteerRate = 0.06 // lerp toward input direction with no fuel
	inertiaMoving    = 0.2  // speed above which an unfuelled ship counts as moving
	shieldAbsorb     = 0.5  // shield soaks at most this fraction of a hit

	stageFuelCapacity  = 45
	stageFuelBoost     = 35
	stageBoostLifetime = 180 * time.Second
	stageSeparateFuel  = 18
	stageSeparateLoss  = 28
	minStagedFuel      = 100

	takeoffImpulse = 2
	landingHover   = 5 // units above the surface when parked
)

// Weapon is the ship's primary gun.
type Weapon struct {
	Name     string
	Interval time.Duration
	Damage   float64
	Speed    float64
}

type stageBoost struct {
	amount    float64
	expiresAt time.Time
}

// Ship is the player avatar: Newtonian-ish movement with friction, a fuel
// budget, shield/hull, ammo and the landing state.
type Ship struct {
	Pos     mathx.Vec3
	Vel     mathx.Vec3
	prevVel mathx.Vec3
	Facing  mathx.Vec3 // unit direction bullets leave along

	Health, MaxHealth float64
	Shield, MaxShield float64
	ShieldRegen       float64
	Fuel, MaxFuel     float64
	FuelConsumption   float64
	Ammo, MaxAmmo     int
	ReloadAmount      int

	Accel    float64 // thrust per frame at sensitivity 1
	MaxSpeed float64 // velocity magnitude cap
	Friction float64 // velocity multiplier per frame while fuelled
	Scale    float64

	Weapon      Weapon
	ExtraStages int
	Thrusting   bool // last frame applied thrust or, without fuel, was still moving

	Landed       bool
	LandedPlanet *Planet

	nextShotAt     time.Time
	reloadCooldown int
	ammoRegenTick  int
	stageBoosts    []stageBoost
}

// NewShip builds a ship from an assembled loadout.
func NewShip(l world.Loadout) *Ship {
	fc := l.FuelConsumption
	if fc <= 0 {
		fc = 1
	}
	return &Ship{
		Pos:             mathx.V(0, 10, 50),
		Facing:          mathx.V(0, 0, -1),
		Health:          float64(l.Health),
		MaxHealth:       float64(l.Health),
		MaxShield:       shipStartShield,
		ShieldRegen:     shipShieldRegen,
		Fuel:            shipStartFuel,
		MaxFuel:         shipStartFuel,
		FuelConsumption: fc,
		Ammo:            shipStartAmmo,
		MaxAmmo:         shipStartAmmo,
		ReloadAmount:    shipReloadAmount,
		Accel:           l.Accel,
		MaxSpeed:        l.MaxSpeed,
		Friction:        shipFriction,
		Scale:           l.Scale,
		Weapon: Weapon{
			Name:     l.Weapon.Name,
			Interval: l.FireInterval(),
			Damage:   float64(l.Weapon.Damage),
			Speed:    l.Weapon.Speed,
		},
	}
}

// Position implements Positioned.
func (s *Ship) Position() mathx.Vec3 { return s.Pos }

// HitRadius implements Target.
func (s *Ship) HitRadius() float64 { return shipHitRadius }

// Speed returns the current velocity magnitude.
func (s *Ship) Speed() float64 { return s.Vel.Len() }

// SpeedPct returns speed as a percentage of max speed (0-100).
func (s *Ship) SpeedPct() int {
	if s.MaxSpeed <= 0 {
		return 0
	}
	return min(int(s.Speed()/s.MaxSpeed*100), 100)
}

// OutOfFuel reports whether the ship is coasting in inertia mode.
func (s *Ship) OutOfFuel() bool { return s.Fuel <= outOfFuelLevel }

// Acceleration returns the velocity change over the last physics step.
func (s *Ship) Acceleration() float64 { return s.Vel.Sub(s.prevVel).Len() }

// TakeDamage lets the shield soak part of the hit and clamps hull at zero.
func (s *Ship) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}
	if s.Shield > 0 {
		absorbed := math.Min(s.Shield, amount*shieldAbsorb)
		s.Shield -= absorbed
		amount -= absorbed
	}
	s.Health = math.Max(0, s.Health-amount)
}

// RefillFuel adds fuel up to capacity.
func (s *Ship) RefillFuel(amount float64) {
	s.Fuel = mathx.Clamp(s.Fuel+amount, 0, s.MaxFuel)
}

// AddShield charges the shield up to capacity.
func (s *Ship) AddShield(amount float64) {
	s.Shield = mathx.Clamp(s.Shield+amount, 0, s.MaxShield)
}

// AddAmmo adds rounds up to capacity.
func (s *Ship) AddAmmo(n int) {
	s.Ammo = max(0, min(s.MaxAmmo, s.Ammo+n))
}

// Repair restores hull up to capacity.
func (s *Ship) Repair(amount float64) {
	s.Health = mathx.Clamp(s.Health+amount, 0, s.MaxHealth)
}

// Reload tops up ammo unless the reload is cooling down or the rack is full.
func (s *Ship) Reload() bool {
	if s.reloadCooldown > 0 || s.Ammo >= s.MaxAmmo {
		return false
	}
	s.AddAmmo(s.ReloadAmount)
	s.reloadCooldown = shipReloadFrames
	return true
}

// ReloadCoolingDown reports whether a reload is blocked by its cooldown.
func (s *Ship) ReloadCoolingDown() bool { return s.reloadCooldown > 0 }

// CanShoot reports whether the gun is ready.
func (s *Ship) CanShoot(now time.Time) bool {
	return !now.Before(s.nextShotAt) && !s.Landed && s.Ammo > 0
}

// shoot spends a round and starts the cooldown.
func (s *Ship) shoot(now time.Time) {
	s.nextShotAt = now.Add(s.Weapon.Interval)
	s.Ammo--
}

// AddRocketStage bolts on an extra stage and returns the stage count.
func (s *Ship) AddRocketStage(now time.Time) int {
	s.ExtraStages++
	s.MaxFuel = math.Floor(s.MaxFuel + stageFuelCapacity)
	s.RefillFuel(stageFuelBoost)
	s.stageBoosts = append(s.stageBoosts, stageBoost{amount: stageFuelBoost, expiresAt: now.Add(stageBoostLifetime)})
	s.MaxSpeed *= 1.035
	s.Accel *= 1.02
	return s.ExtraStages
}

// SeparateStage drops a stage for a burst of speed. It returns false with no stages left.
func (s *Ship) SeparateStage() bool {
	if s.ExtraStages <= 0 {
		return false
	}
	s.ExtraStages--
	if len(s.stageBoosts) > 0 {
		s.stageBoosts = s.stageBoosts[1:]
	}
	s.MaxFuel = math.Max(minStagedFuel, math.Floor(s.MaxFuel-stageSeparateLoss))
	s.Fuel = math.Min(s.Fuel, s.MaxFuel)
	s.MaxSpeed *= 1.06
	s.Accel *= 1.08
	s.RefillFuel(stageSeparateFuel)
	return true
}

// expireStageBoosts drains boost fuel whose lifetime ran out and returns how many expired.
func (s *Ship) expireStageBoosts(now time.Time) int {
	expired := 0
	for i := len(s.stageBoosts) - 1; i >= 0; i-- {
		b := s.stageBoosts[i]
		if !now.Before(b.expiresAt) {
			s.Fuel = math.Max(0, s.Fuel-b.amount)
			s.stageBoosts = append(s.stageBoosts[:i], s.stageBoosts[i+1:]...)
			expired++
		}
	}
	return expired
}

// tick advances cooldowns and flight physics by one frame.
// Landed ships do not move; their cooldowns still run.
func (s *Ship) tick(in Input, planets []*Planet, t Tuning) {
	s.prevVel = s.Vel
	if s.reloadCooldown > 0 {
		s.reloadCooldown--
	}
	if s.Landed {
		s.Thrusting = false
		return
	}

	s.ammoRegenTick++
	if s.ammoRegenTick >= shipAmmoRegenFrames {
		s.ammoRegenTick = 0
		s.AddAmmo(shipAmmoRegenAmount)
	}

	ax, ay, az := in.thrustAxes()
	dir := mathx.V(ax, ay, az)
	outOfFuel := s.OutOfFuel()

	moving := false
	if !outOfFuel && !dir.IsZero() {
		s.Vel = s.Vel.Add(dir.Scale(s.Accel * in.sensitivity()))
		moving = true

		s.Fuel = math.Max(0, s.Fuel-fuelDrainRate*(s.Vel.Len()/s.MaxSpeed)*s.FuelConsumption)
		if s.Fuel <= 0 {
			s.Vel = s.Vel.Scale(0.9)
		}
	}

	if outOfFuel {
		// Inertia mode: no thrust, but input can bend the existing trajectory.
		speed := s.Vel.Len()
		if !dir.IsZero() && speed > 0.01 {
			steered := s.Vel.Normalize().Lerp(dir.Normalize(), inertiaSteerRate).Normalize()
			s.Vel = steered.Scale(speed)
		}
		moving = speed > inertiaMoving
	}
	s.Thrusting = moving

	s.Shield = math.Min(s.MaxShield, s.Shield+s.ShieldRegen)

	s.Vel = s.Vel.ClampLen(s.MaxSpeed)
	if !outOfFuel {
		s.Vel = s.Vel.Scale(s.Friction)
	}
	s.applyGravity(planets, t)

	s.Pos = s.Pos.Add(s.Vel)
	if s.Vel.LenSq() > 0.01 {
		s.Facing = s.Vel.Normalize()
	}
}

// applyGravity pulls toward the nearest planet only.
func (s *Ship) applyGravity(planets []*Planet, t Tuning) {
	p, dist := nearestOf(planets, s.Pos)
	if p == nil || dist >= t.GravityRadius || dist <= 0 {
		return
	}
	pull := p.Pos.Sub(s.Pos).Normalize().Scale(t.GravityStrength * (t.GravityRadius / dist))
	s.Vel = s.Vel.Add(pull)
}
