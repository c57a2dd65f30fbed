package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// EnemyKind selects an enemy's stat block and behavior profile.
type EnemyKind uint8

const (
	EnemyStandard EnemyKind = iota
	EnemyFast
	EnemyTank
	EnemySwarm
	EnemySniper
	EnemyKamikaze
	EnemyShielded
	EnemyBoss
	EnemyKindCount // sentinel
)

type enemyStats struct {
	Name          string
	Health        float64
	Speed         float64
	ShootInterval int // frames
	Damage        float64
	Shield        float64
}

var enemyTable = [EnemyKindCount]enemyStats{
	EnemyStandard: {"standard", 50, 3, 120, 8, 0},
	EnemyFast:     {"fast", 25, 6, 60, 4, 0},
	EnemyTank:     {"tank", 120, 1.2, 180, 18, 0},
	EnemySwarm:    {"swarm", 18, 7, 40, 3, 0},
	EnemySniper:   {"sniper", 35, 2, 260, 28, 0},
	EnemyKamikaze: {"kamikaze", 20, 9, 9999, 45, 0},
	EnemyShielded: {"shielded", 80, 1.6, 200, 12, 50},
	EnemyBoss:     {"boss", 800, 0.8, 90, 25, 0},
}

func (k EnemyKind) String() string {
	if k < EnemyKindCount {
		return enemyTable[k].Name
	}
	return "unknown"
}

var enemyFactions = []string{"Pirate", "Raider", "Mercenary"}

// Enemy AI constants.
const (
	enemyHitRadius     = 1.5
	enemyPatrolRange   = 1500
	enemyAttachRange   = 8
	enemyDrainDamage   = 5
	enemyDrainInterval = time.Second
	enemyBulletSpeed   = 22
	enemyPackRadius    = 200
	detachPush         = 15
)

// Enemy is a hostile bot.
type Enemy struct {
	id EntityID

	Kind      EnemyKind
	Faction   string
	Pos       mathx.Vec3
	Vel       mathx.Vec3
	Health    float64
	MaxHealth float64
	Shield    float64
	Speed     float64
	Damage    float64
	Attached  bool // latched onto the ship, draining hull

	home          mathx.Vec3
	heading       mathx.Vec3
	shootInterval int
	shootCooldown int
	attachedAt    time.Time
	lastDrainAt   time.Time
	packed        bool // travelling with two or more faction mates
}

// newEnemy scales the kind's base stats by score progression.
func newEnemy(rng *rand.Rand, kind EnemyKind, pos mathx.Vec3, score int) *Enemy {
	if kind >= EnemyKindCount {
		kind = EnemyStandard
	}
	st := enemyTable[kind]
	prog := math.Min(1.2, float64(max(0, score))/6000)
	health := math.Max(8, math.Floor(st.Health*(0.82+prog*0.4)))
	return &Enemy{
		Kind:          kind,
		Faction:       enemyFactions[rng.IntN(len(enemyFactions))],
		Pos:           pos,
		Health:        health,
		MaxHealth:     health,
		Shield:        st.Shield,
		Speed:         st.Speed * (0.9 + prog*0.25),
		Damage:        math.Max(2, math.Floor(st.Damage*(0.85+prog*0.35))),
		home:          pos,
		heading:       mathx.V(0, 0, -1),
		shootInterval: st.ShootInterval,
	}
}

// Position implements Positioned.
func (e *Enemy) Position() mathx.Vec3 { return e.Pos }

// HitRadius implements Target.
func (e *Enemy) HitRadius() float64 {
	if e.Kind == EnemyTank || e.Kind == EnemyBoss {
		return enemyHitRadius * 1.5
	}
	return enemyHitRadius
}

// TakeDamage implements Target. The shield soaks up to 70% of each hit.
func (e *Enemy) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}
	if e.Shield > 0 {
		absorbed := math.Min(e.Shield, math.Floor(amount*0.7))
		e.Shield -= absorbed
		amount -= absorbed
	}
	e.Health -= amount
}

// Alive reports whether the enemy survives.
func (e *Enemy) Alive() bool { return e.Health > 0 }

func (e *Enemy) canShoot() bool { return e.shootCooldown <= 0 }

func (e *Enemy) shoot() { e.shootCooldown = e.shootInterval }

// attackRange is how close the ship must be before this kind opens fire.
func (e *Enemy) attackRange() float64 {
	switch e.Kind {
	case EnemySniper:
		return 1200
	case EnemyKamikaze:
		return 60
	}
	return 400
}

func (e *Enemy) engagement() (engage, attack float64) {
	switch e.Kind {
	case EnemyFast:
		return 500, 400
	case EnemyTank:
		return 300, 250
	}
	return 400, 350
}

func (e *Enemy) speed() float64 {
	if e.packed {
		return math.Min(e.Speed*1.15, e.Speed+0.5)
	}
	return e.Speed
}

// latch attaches the enemy to the ship.
func (e *Enemy) latch(now time.Time) {
	e.Attached = true
	e.attachedAt = now
	e.lastDrainAt = now
}

// detach releases the enemy and shoves it away from the ship.
func (e *Enemy) detach(from mathx.Vec3) {
	e.Attached = false
	e.attachedAt = time.Time{}
	e.Vel = e.Vel.Add(e.Pos.Sub(from).Normalize().Scale(detachPush))
}

// update advances one frame toward target. It returns true when an
// attached enemy drained the ship this frame.
func (e *Enemy) update(rng *rand.Rand, target mathx.Vec3, ship *Ship, now time.Time) bool {
	if e.shootCooldown > 0 {
		e.shootCooldown--
	}

	if e.Attached {
		drained := false
		if now.Sub(e.lastDrainAt) >= enemyDrainInterval {
			ship.Health = math.Max(0, ship.Health-enemyDrainDamage)
			e.lastDrainAt = now
			drained = true
		}
		e.Pos = ship.Pos.Add(randBox(rng, 2, 2, 2))
		return drained
	}

	toTarget := target.Sub(e.Pos)
	dist := toTarget.Len()
	engage, attack := e.engagement()
	speed := e.speed()

	if dist < engage {
		dir := toTarget.Normalize()
		switch {
		case e.Kind == EnemyTank && dist < attack+100:
			e.Vel = e.Vel.Lerp(dir.Scale(-speed*0.7), 0.1)
		case e.Kind == EnemyKamikaze:
			e.Vel = e.Vel.Lerp(dir.Scale(speed*1.5), 0.2)
		default:
			e.Vel = e.Vel.Lerp(dir.Scale(speed), 0.1)
		}
	} else {
		if rng.Float64() < 0.02 {
			e.heading = randBox(rng, 1, 1, 1).Normalize()
		}
		e.Vel = e.Vel.Lerp(e.heading.Scale(speed*0.5), 0.1)
	}

	e.Pos = e.Pos.Add(e.Vel)
	if e.Pos.Dist(e.home) > enemyPatrolRange {
		e.Pos = e.Pos.Lerp(e.home, 0.1)
	}
	return false
}

// enemyTargetFor picks the ship or, when one is meaningfully closer, a helper bot.
func enemyTargetFor(e *Enemy, ship *Ship, helpers []*Helper) mathx.Vec3 {
	h, hd := nearestOf(helpers, e.Pos)
	if h != nil && hd < e.Pos.Dist(ship.Pos)*0.9 {
		return h.Pos
	}
	return ship.Pos
}
