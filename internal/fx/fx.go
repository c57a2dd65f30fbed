// Package fx runs short-lived visual effects (explosion debris and hit
// sparks) on an ark ECS world. It implements game.Renderer: the simulation
// announces visuals and effect positions, and fx only ever keeps copies of
// those positions. Nothing here reaches back into the simulation.
package fx

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/spacehole-rogue/starwake/internal/game"
	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// MaxParticles bounds the live particle count. Spawns past it are dropped.
const MaxParticles = 2048

// Kind is what a particle came from.
type Kind uint8

const (
	Debris Kind = iota
	Flash
	Spark
)

// Position is a particle's world position.
type Position struct{ mathx.Vec3 }

// Velocity is in world units per second.
type Velocity struct{ mathx.Vec3 }

// Particle is the aging state of one effect particle.
type Particle struct {
	Kind  Kind
	Age   time.Duration
	TTL   time.Duration
	Size  float64
	Color uint32 // 0xRRGGBB
}

// Life is the remaining fraction of the particle's lifetime, 1 when fresh.
func (p *Particle) Life() float64 {
	if p.TTL <= 0 {
		return 0
	}
	return math.Max(0, 1-float64(p.Age)/float64(p.TTL))
}

// Marker is the renderer's record of a simulation visual.
type Marker struct {
	Kind game.VisualKind
	At   mathx.Vec3 // position when announced
}

// System owns the effect world.
type System struct {
	world   *ecs.World
	spawner *ecs.Map3[Position, Velocity, Particle]
	live    *ecs.Filter3[Position, Velocity, Particle]
	rng     *rand.Rand

	markers map[game.EntityID]Marker
	count   int
	dead    []ecs.Entity

	// Orphans counts RemoveVisual calls for ids that were never added or
	// were already removed.
	Orphans int
}

// New creates an effect system. seed drives the debris scatter.
func New(seed uint64) *System {
	w := ecs.NewWorld(MaxParticles)
	return &System{
		world:   w,
		spawner: ecs.NewMap3[Position, Velocity, Particle](w),
		live:    ecs.NewFilter3[Position, Velocity, Particle](w),
		rng:     rand.New(rand.NewPCG(seed, seed^0xf00d)),
		markers: map[game.EntityID]Marker{},
	}
}

// AddVisual records a simulation visual.
func (s *System) AddVisual(id game.EntityID, kind game.VisualKind, at mathx.Vec3) {
	s.markers[id] = Marker{Kind: kind, At: at}
}

// RemoveVisual forgets a simulation visual.
func (s *System) RemoveVisual(id game.EntityID) {
	if _, ok := s.markers[id]; !ok {
		s.Orphans++
		return
	}
	delete(s.markers, id)
}

// Visuals is the number of live simulation visuals.
func (s *System) Visuals() int { return len(s.markers) }

// Marker returns the record for id.
func (s *System) Marker(id game.EntityID) (Marker, bool) {
	m, ok := s.markers[id]
	return m, ok
}

// Explosion bursts debris and a bright core at at.
func (s *System) Explosion(at mathx.Vec3, scale float64) {
	scale = math.Max(0.2, scale)
	n := 10 + int(scale*14)
	for range n {
		dir := s.randomDir()
		speed := scale * (40 + s.rng.Float64()*140)
		ttl := time.Duration(600+s.rng.IntN(600)) * time.Millisecond
		s.spawn(at, dir.Scale(speed), Particle{
			Kind:  Debris,
			TTL:   ttl,
			Size:  scale * (0.6 + s.rng.Float64()),
			Color: debrisColors[s.rng.IntN(len(debrisColors))],
		})
	}
	s.spawn(at, mathx.Vec3{}, Particle{Kind: Flash, TTL: 220 * time.Millisecond, Size: scale * 4, Color: 0xfff4c0})
}

// Sparks throws a short spray of hot sparks.
func (s *System) Sparks(at mathx.Vec3, scale float64) {
	scale = math.Max(0.2, scale)
	n := 6 + int(scale*6)
	for range n {
		speed := 60 + s.rng.Float64()*120
		s.spawn(at, s.randomDir().Scale(speed), Particle{
			Kind:  Spark,
			TTL:   time.Duration(250+s.rng.IntN(200)) * time.Millisecond,
			Size:  0.4,
			Color: 0xffe066,
		})
	}
}

var debrisColors = []uint32{0xff6a00, 0xffa040, 0xd83a1a, 0x8a8a8a}

func (s *System) randomDir() mathx.Vec3 {
	return mathx.V(s.rng.Float64()*2-1, (s.rng.Float64()*2-1)*0.5, s.rng.Float64()*2-1).Normalize()
}

func (s *System) spawn(at, vel mathx.Vec3, p Particle) {
	if s.count >= MaxParticles {
		return
	}
	s.spawner.NewEntity(&Position{at}, &Velocity{vel}, &p)
	s.count++
}

// Debris and sparks lose this fraction of their speed per second.
const drag = 1.6

// Step ages and moves every particle by dt and removes expired ones.
func (s *System) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	sec := dt.Seconds()
	damp := math.Max(0, 1-drag*sec)

	s.dead = s.dead[:0]
	q := s.live.Query()
	for q.Next() {
		pos, vel, p := q.Get()
		p.Age += dt
		if p.Age >= p.TTL {
			s.dead = append(s.dead, q.Entity())
			continue
		}
		pos.Vec3 = pos.Add(vel.Scale(sec))
		vel.Vec3 = vel.Scale(damp)
	}
	for _, e := range s.dead {
		s.world.RemoveEntity(e)
	}
	s.count -= len(s.dead)
}

// Each calls fn for every live particle.
func (s *System) Each(fn func(at mathx.Vec3, p *Particle)) {
	q := s.live.Query()
	for q.Next() {
		pos, _, p := q.Get()
		fn(pos.Vec3, p)
	}
}

// Len is the number of live particles.
func (s *System) Len() int { return s.count }

var _ game.Renderer = (*System)(nil)
