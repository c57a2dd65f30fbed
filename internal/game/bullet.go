package game

import (
	"math"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// BulletSource says who fired a bullet; bullets never hit their own side.
type BulletSource uint8

const (
	FromPlayer BulletSource = iota
	FromHostile
)

const (
	bulletLifespan = 300 // frames
	bulletRadius   = 1.2
)

// Bullet is a straight-line projectile.
type Bullet struct {
	id EntityID

	Pos    mathx.Vec3
	Vel    mathx.Vec3
	Damage float64
	Age    int
	Source BulletSource
}

func newBullet(pos, dir mathx.Vec3, speed, damage float64, src BulletSource) *Bullet {
	return &Bullet{
		Pos:    pos,
		Vel:    dir.Normalize().Scale(speed),
		Damage: damage,
		Source: src,
	}
}

// Position implements Positioned.
func (b *Bullet) Position() mathx.Vec3 { return b.Pos }

// update moves the bullet and reports whether it is still within its lifespan.
func (b *Bullet) update() bool {
	b.Pos = b.Pos.Add(b.Vel)
	b.Age++
	return b.Age < bulletLifespan
}

// hits reports whether the bullet overlaps t.
func (b *Bullet) hits(t Target) bool {
	return b.Pos.Dist(t.Position()) < bulletRadius+t.HitRadius()
}

// PowerUpKind is the effect a pickup grants.
type PowerUpKind uint8

const (
	PowerFuel PowerUpKind = iota
	PowerShield
	PowerAmmo
	PowerUpKindCount
)

var powerUpNames = [PowerUpKindCount]string{"fuel", "shield", "ammo"}

func (k PowerUpKind) String() string {
	if k < PowerUpKindCount {
		return powerUpNames[k]
	}
	return "unknown"
}

const powerUpPickupRange = 5

// PowerUp is a floating pickup dropped by kills and salvage.
type PowerUp struct {
	id EntityID

	Kind      PowerUpKind
	Pos       mathx.Vec3
	baseY     float64
	spawnedAt time.Time
}

// Position implements Positioned.
func (p *PowerUp) Position() mathx.Vec3 { return p.Pos }

// update bobs the pickup around its spawn height.
func (p *PowerUp) update(now time.Time) {
	ms := float64(now.Sub(p.spawnedAt).Milliseconds())
	p.Pos.Y = p.baseY + math.Sin(ms*0.003)*3
}

// apply grants the pickup's effect to the ship.
func (p *PowerUp) apply(s *Ship) {
	switch p.Kind {
	case PowerFuel:
		s.RefillFuel(50)
	case PowerShield:
		s.AddShield(30)
	case PowerAmmo:
		s.AddAmmo(50)
	}
}
