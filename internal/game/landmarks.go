package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

const (
	gateRange    = 24
	gateCooldown = 2200 * time.Millisecond
	gateBrake    = 0.2 // velocity kept through a jump
)

var gateExitOffset = mathx.V(0, 10, 20)

// JumpGate is one end of a linked pair. Entering either end sends the ship
// to the other; both ends then share a cooldown.
type JumpGate struct {
	id EntityID

	PairID        string
	Pos           mathx.Vec3
	Linked        *JumpGate
	cooldownUntil time.Time
}

// Position implements Positioned.
func (g *JumpGate) Position() mathx.Vec3 { return g.Pos }

// newGatePair links two gates under one pair id.
func newGatePair(pairID string, a, b mathx.Vec3) (*JumpGate, *JumpGate) {
	ga := &JumpGate{PairID: pairID, Pos: a}
	gb := &JumpGate{PairID: pairID, Pos: b, Linked: ga}
	ga.Linked = gb
	return ga, gb
}

// Ready reports whether the gate may fire at now.
func (g *JumpGate) Ready(now time.Time) bool { return now.After(g.cooldownUntil) }

// tryJump teleports the ship when it is inside the gate's range and the pair
// is off cooldown.
func (g *JumpGate) tryJump(s *Ship, now time.Time) bool {
	if g.Linked == nil || !g.Ready(now) || g.Pos.Dist(s.Pos) >= gateRange {
		return false
	}
	s.Pos = g.Linked.Pos.Add(gateExitOffset)
	s.Vel = s.Vel.Scale(gateBrake)
	g.cooldownUntil = now.Add(gateCooldown)
	g.Linked.cooldownUntil = g.cooldownUntil
	return true
}

const (
	artifactPickupRange = 12
	artifactScore       = 600
	artifactUpgrade     = 90
)

// Artifact is a collectible relic bobbing in place.
type Artifact struct {
	id EntityID

	Pos       mathx.Vec3
	baseY     float64
	spawnedAt time.Time
}

// Position implements Positioned.
func (a *Artifact) Position() mathx.Vec3 { return a.Pos }

func (a *Artifact) update(now time.Time) {
	ms := float64(now.Sub(a.spawnedAt).Milliseconds())
	a.Pos.Y = a.baseY + math.Sin(ms*0.003)*4
}

// MegaShip boss constants.
const (
	megaHealth        = 2200
	megaShootInterval = 140 // frames
	megaAlienInterval = 6 * time.Second
	megaHitRadius     = 14
	megaFireRange     = 900
	megaBulletSpeed   = 18
	megaBulletDamage  = 14
	megaScore         = 1800
	megaKills         = 8
	megaUpgrade       = 180
)

// MegaShip is the single boss carrier. It keeps a standoff distance,
// fires heavy rounds and launches alien fighters.
type MegaShip struct {
	id EntityID

	Pos       mathx.Vec3
	Vel       mathx.Vec3
	Health    float64
	MaxHealth float64

	shootCooldown int
	nextAliensAt  time.Time
}

func newMegaShip(pos mathx.Vec3) *MegaShip {
	return &MegaShip{Pos: pos, Health: megaHealth, MaxHealth: megaHealth}
}

// Position implements Positioned.
func (m *MegaShip) Position() mathx.Vec3 { return m.Pos }

// HitRadius implements Target.
func (m *MegaShip) HitRadius() float64 { return megaHitRadius }

// TakeDamage implements Target.
func (m *MegaShip) TakeDamage(amount float64) {
	if amount > 0 {
		m.Health -= amount
	}
}

func (m *MegaShip) update(target mathx.Vec3) {
	if m.shootCooldown > 0 {
		m.shootCooldown--
	}
	to := target.Sub(m.Pos)
	switch d := to.Len(); {
	case d > 500:
		m.Vel = m.Vel.Lerp(to.Normalize().Scale(0.9), 0.03)
	case d < 220:
		m.Vel = m.Vel.Lerp(to.Normalize().Scale(-0.5), 0.05)
	default:
		m.Vel = m.Vel.Scale(0.985)
	}
	m.Pos = m.Pos.Add(m.Vel)
}

// Colossal derelict geometry.
const (
	colossalPortalRange = 34
	colossalExitRange   = 18
	colossalChestRange  = 14
	colossalWallPadding = 7
	colossalMinSpacing  = 3200
)

var (
	colossalInteriorDrop = mathx.V(0, -2600, 0)
	colossalInteriorSize = mathx.V(170, 70, 230)
	colossalPortalOffset = mathx.V(0, 12, 85)
	colossalExitOffset   = mathx.V(0, 0, 95)
	colossalSpawnOffset  = mathx.V(0, -10, 72)
	colossalLeaveOffset  = mathx.V(0, 14, 52)
	colossalChestOffsets = []mathx.Vec3{
		mathx.V(-45, -20, -65),
		mathx.V(38, -20, -22),
		mathx.V(0, -20, 28),
	}
)

// Chest is loot inside a colossal derelict.
type Chest struct {
	Pos    mathx.Vec3
	Opened bool
	Seed   float64 // 0..1, scales the reward
}

// ChestReward is what opening a chest grants.
type ChestReward struct {
	Score, Minerals, Salvage, Upgrade int
}

func (c *Chest) reward() ChestReward {
	return ChestReward{
		Score:    350 + int(c.Seed*500),
		Minerals: 35 + int(c.Seed*75),
		Salvage:  20 + int(c.Seed*45),
		Upgrade:  20 + int(c.Seed*35),
	}
}

// Colossal is an enormous wreck with a walkable interior reached through
// an outer portal. The interior sits far below the hull.
type Colossal struct {
	id EntityID

	ID       string
	Pos      mathx.Vec3
	Chests   []*Chest
	ReturnTo mathx.Vec3 // where the ship entered from
}

func newColossal(rng *rand.Rand, pos mathx.Vec3) *Colossal {
	c := &Colossal{ID: fmt.Sprintf("CD-%d", 10000+rng.IntN(90000)), Pos: pos}
	for _, off := range colossalChestOffsets {
		c.Chests = append(c.Chests, &Chest{Pos: c.interiorOrigin().Add(off), Seed: rng.Float64()})
	}
	return c
}

// Position implements Positioned.
func (c *Colossal) Position() mathx.Vec3 { return c.Pos }

func (c *Colossal) interiorOrigin() mathx.Vec3 { return c.Pos.Add(colossalInteriorDrop) }
func (c *Colossal) portal() mathx.Vec3         { return c.Pos.Add(colossalPortalOffset) }
func (c *Colossal) exitPortal() mathx.Vec3     { return c.interiorOrigin().Add(colossalExitOffset) }

func (c *Colossal) nearPortal(p mathx.Vec3) bool { return p.Dist(c.portal()) < colossalPortalRange }
func (c *Colossal) nearExit(p mathx.Vec3) bool   { return p.Dist(c.exitPortal()) < colossalExitRange }

// nearbyChest returns an unopened chest within reach of p.
func (c *Colossal) nearbyChest(p mathx.Vec3) *Chest {
	for _, ch := range c.Chests {
		if !ch.Opened && ch.Pos.Dist(p) < colossalChestRange {
			return ch
		}
	}
	return nil
}

func (c *Colossal) enter(s *Ship) {
	c.ReturnTo = s.Pos
	s.Pos = c.interiorOrigin().Add(colossalSpawnOffset)
	s.Vel = mathx.Vec3{}
}

func (c *Colossal) exit(s *Ship) {
	s.Pos = c.portal().Add(colossalLeaveOffset)
	s.Vel = mathx.Vec3{}
}

// constrain keeps the ship inside the interior box, zeroing velocity on
// any axis that hit a wall.
func (c *Colossal) constrain(s *Ship) {
	origin := c.interiorOrigin()
	local := s.Pos.Sub(origin)
	hx := colossalInteriorSize.X*0.5 - colossalWallPadding
	hy := colossalInteriorSize.Y*0.5 - colossalWallPadding
	hz := colossalInteriorSize.Z*0.5 - colossalWallPadding
	clamped := mathx.V(
		mathx.Clamp(local.X, -hx, hx),
		mathx.Clamp(local.Y, -hy, hy),
		mathx.Clamp(local.Z, -hz, hz),
	)
	if clamped == local {
		return
	}
	if clamped.X != local.X {
		s.Vel.X = 0
	}
	if clamped.Y != local.Y {
		s.Vel.Y = 0
	}
	if clamped.Z != local.Z {
		s.Vel.Z = 0
	}
	s.Pos = origin.Add(clamped)
}
