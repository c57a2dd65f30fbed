package game

import (
	"math"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// FlightState is the outcome of one landing check. Crashed and TakenOff
// are transient: the ship is flying again on the next frame.
type FlightState uint8

const (
	Flying FlightState = iota
	Landed
	Crashed
	TakenOff
)

func (f FlightState) String() string {
	switch f {
	case Landed:
		return "landed"
	case Crashed:
		return "crashed"
	case TakenOff:
		return "taken off"
	}
	return "flying"
}

// LandingResult reports what a landing check did.
type LandingResult struct {
	State  FlightState
	Planet *Planet
	Damage float64 // crash damage dealt
}

// Landed service rates per frame.
const (
	landedRefuel     = 0.05
	baseRefuel       = 0.2
	baseRefuelBonus  = 0.2 // cap on the per-tier refuel bonus
	baseRepair       = 0.16
	baseRepairBonus  = 0.18
	baseTierBonus    = 0.05
	landedDriftLimit = 1.5 // auto-exit beyond this many radii
)

// ResolveLanding runs the landing state machine against the nearest planet.
func (s *Ship) ResolveLanding(planets []*Planet, takeoff bool, t Tuning) LandingResult {
	if s.Landed {
		return s.whileLanded(planets, takeoff)
	}
	p, dist := nearestOf(planets, s.Pos)
	if p == nil || dist >= p.LandingRadius() {
		return LandingResult{State: Flying}
	}
	speed := s.Speed()
	if speed < t.SafeLandingSpeed {
		s.Landed = true
		s.LandedPlanet = p
		s.Vel = mathx.Vec3{}
		s.Pos = p.Pos.Add(mathx.V(0, p.Radius+landingHover, 0))
		return LandingResult{State: Landed, Planet: p}
	}
	dmg := math.Ceil((speed - t.SafeLandingSpeed) * t.CrashDamageFactor)
	s.Health = math.Max(0, s.Health-dmg)
	return LandingResult{State: Crashed, Planet: p, Damage: dmg}
}

func (s *Ship) whileLanded(planets []*Planet, takeoff bool) LandingResult {
	p := s.LandedPlanet
	if p == nil {
		s.Landed = false
		return LandingResult{State: Flying}
	}
	if takeoff {
		s.Landed = false
		s.LandedPlanet = nil
		out := s.Pos.Sub(p.Pos).Normalize()
		if out.IsZero() {
			out = mathx.V(0, 1, 0)
		}
		s.Vel = out.Scale(takeoffImpulse)
		return LandingResult{State: TakenOff, Planet: p}
	}

	tier := p.baseTier()
	refuel := landedRefuel
	if tier > 0 {
		refuel = baseRefuel + math.Min(baseRefuelBonus, float64(tier)*baseTierBonus)
		s.Repair(baseRepair + math.Min(baseRepairBonus, float64(tier)*baseTierBonus))
	}
	s.RefillFuel(refuel)

	if near, dist := nearestOf(planets, s.Pos); near != nil && dist > near.Radius*landedDriftLimit {
		s.Landed = false
		s.LandedPlanet = nil
		return LandingResult{State: Flying, Planet: p}
	}
	s.Vel = mathx.Vec3{}
	return LandingResult{State: Landed, Planet: p}
}

// updateLanding resolves the landing state for this frame and keeps the
// return-to-base trail pointed at the last base the ship lifted off from.
func (w *World) updateLanding(in Input) {
	s := w.Ship
	res := s.ResolveLanding(w.Planets, in.Takeoff, w.tuning)
	switch res.State {
	case Landed:
		if w.landedOn != res.Planet {
			w.landedOn = res.Planet
			w.sound.Play(SoundLanding)
			w.notify.FloatingText("Landed on "+res.Planet.Name, 1500*time.Millisecond)
			w.logEvent("Landed on " + res.Planet.Name)
			w.persister.Autosave(w)
		}
		if w.ReturnBase == res.Planet {
			w.ReturnBase = nil
		}
	case Crashed:
		w.render.Sparks(s.Pos, 1.2)
		w.sound.Play(SoundDamage)
		w.notify.FloatingText("Crash landing! Too fast.", time.Second)
	case TakenOff:
		w.landedOn = nil
		if res.Planet.HasBase {
			w.ReturnBase = res.Planet
			w.notify.FloatingText("Return trail set to your base", 1600*time.Millisecond)
		}
	case Flying:
		w.landedOn = nil
	}
}

// ReturnTrail returns the ship and base positions for the return-to-base
// trail, or false when no trail is active.
func (w *World) ReturnTrail() (from, to mathx.Vec3, ok bool) {
	if w.Ship == nil || w.ReturnBase == nil || w.Ship.Landed {
		return from, to, false
	}
	return w.Ship.Pos, w.ReturnBase.Pos, true
}
