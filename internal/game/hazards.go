package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// Nebula is a fog volume. It has no gameplay effect beyond visibility.
type Nebula struct {
	id EntityID

	Pos    mathx.Vec3
	Radius float64
	Color  uint32
}

// Position implements Positioned.
func (n *Nebula) Position() mathx.Vec3 { return n.Pos }

// Contains reports whether p lies inside the nebula.
func (n *Nebula) Contains(p mathx.Vec3) bool { return p.Dist(n.Pos) < n.Radius }

// BlackHole pulls everything within six event-horizon radii and destroys
// whatever crosses the horizon.
type BlackHole struct {
	id EntityID

	Pos    mathx.Vec3
	Radius float64 // event horizon
}

// Position implements Positioned.
func (b *BlackHole) Position() mathx.Vec3 { return b.Pos }

// GravityRadius is the reach of the pull.
func (b *BlackHole) GravityRadius() float64 { return b.Radius * 6 }

// Pull returns the velocity impulse on a body at p, scaled by mul.
func (b *BlackHole) Pull(p mathx.Vec3, mul float64) mathx.Vec3 {
	dir := b.Pos.Sub(p)
	dist := dir.Len()
	gr := b.GravityRadius()
	if dist >= gr {
		return mathx.Vec3{}
	}
	return dir.Normalize().Scale((1 - dist/gr) * 0.5 * mul)
}

// InHorizon reports whether p has crossed the event horizon.
func (b *BlackHole) InHorizon(p mathx.Vec3) bool { return p.Dist(b.Pos) < b.Radius }

// Harvest ranges for the ship's tractor field.
var (
	rockAttraction     = Attraction{Radius: 140, CollectRadius: 8, MinPull: 0.1, MaxPull: 2.2}
	derelictAttraction = Attraction{Radius: 220, CollectRadius: 16, MinPull: 0.08, MaxPull: 1.4}
)

const (
	defaultRockYield     = 10
	defaultDerelictYield = 20
	rockClatterRange     = 14
	rockClatterInterval  = 280 * time.Millisecond
)

// Rock is a single asteroid carrying minerals.
type Rock struct {
	id EntityID

	Pos      mathx.Vec3
	Resource int

	drift      mathx.Vec3
	homeY      float64
	orbitSpeed float64
	orbitPhase float64
}

// Position implements Positioned.
func (r *Rock) Position() mathx.Vec3 { return r.Pos }

// MoveTo implements Harvestable.
func (r *Rock) MoveTo(p mathx.Vec3) { r.Pos = p }

// Attraction implements Harvestable.
func (r *Rock) Attraction() Attraction { return rockAttraction }

// Yield is the mineral payout, defaulting when unset.
func (r *Rock) Yield() int {
	if r.Resource <= 0 {
		return defaultRockYield
	}
	return r.Resource
}

// AsteroidField is a loose cluster of rocks softly held to its radius.
type AsteroidField struct {
	Center mathx.Vec3
	Radius float64
	Rocks  []*Rock
}

// Position implements Positioned.
func (f *AsteroidField) Position() mathx.Vec3 { return f.Center }

func newAsteroidField(rng *rand.Rand, center mathx.Vec3, radius float64, count int) *AsteroidField {
	f := &AsteroidField{Center: center, Radius: radius, Rocks: make([]*Rock, 0, count)}
	for range count {
		a := rng.Float64() * 2 * math.Pi
		r := rng.Float64() * radius
		y := center.Y + (rng.Float64()-0.5)*radius*0.4
		f.Rocks = append(f.Rocks, &Rock{
			Pos:        mathx.V(center.X+math.Cos(a)*r, y, center.Z+math.Sin(a)*r),
			Resource:   5 + rng.IntN(25),
			drift:      randSpread(rng, 0.18, 0.09, 0.18),
			homeY:      y,
			orbitSpeed: randRange(rng, 0.0008, 0.003),
			orbitPhase: rng.Float64() * 2 * math.Pi,
		})
	}
	return f
}

// update drifts every rock, nudging strays back inside the field.
func (f *AsteroidField) update(rng *rand.Rand, now time.Time) {
	ms := float64(now.UnixMilli())
	for _, r := range f.Rocks {
		r.Pos = r.Pos.Add(r.drift)
		r.drift = r.drift.Scale(0.996)

		toCenter := f.Center.Sub(r.Pos)
		if toCenter.Len() > f.Radius {
			r.drift = r.drift.Add(toCenter.Normalize().Scale(0.06))
		} else if rng.Float64() < 0.015 {
			r.drift = r.drift.Add(randSpread(rng, 0.05, 0.03, 0.05))
		}

		a := ms*r.orbitSpeed*0.001 + r.orbitPhase
		r.Pos.X += math.Cos(a) * 0.045
		r.Pos.Z += math.Sin(a) * 0.045
		r.Pos.Y += math.Sin(a*1.7)*0.015 + (r.homeY-r.Pos.Y)*0.002
	}
}

// remove drops rock i from the field.
func (f *AsteroidField) remove(i int) {
	f.Rocks = append(f.Rocks[:i], f.Rocks[i+1:]...)
}

// Derelict is a drifting wreck that yields salvage once.
type Derelict struct {
	id EntityID

	Pos       mathx.Vec3
	Salvage   int
	Scavenged bool
}

func newDerelict(rng *rand.Rand, pos mathx.Vec3) *Derelict {
	return &Derelict{Pos: pos, Salvage: 15 + rng.IntN(36)}
}

// Position implements Positioned.
func (d *Derelict) Position() mathx.Vec3 { return d.Pos }

// MoveTo implements Harvestable.
func (d *Derelict) MoveTo(p mathx.Vec3) { d.Pos = p }

// Attraction implements Harvestable.
func (d *Derelict) Attraction() Attraction { return derelictAttraction }

// Yield is the salvage payout, defaulting when unset.
func (d *Derelict) Yield() int {
	if d.Salvage <= 0 {
		return defaultDerelictYield
	}
	return d.Salvage
}
