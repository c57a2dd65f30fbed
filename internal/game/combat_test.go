package game

import (
	"math/rand/v2"
	"testing"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// placeHit puts a hundred-hull enemy away from the ship and n slow player
// bullets on top of it.
func placeHit(w *World, n int, damage float64) *Enemy {
	e := w.spawnEnemy(EnemyStandard, w.Ship.Pos.Add(mathx.V(200, 0, 0)))
	e.Health, e.MaxHealth = 100, 100
	for range n {
		w.addBullet(newBullet(e.Pos, mathx.V(0, 0, -1), 0.01, damage, FromPlayer))
	}
	return e
}

func TestBulletDamageWithCrit(t *testing.T) {
	tests := []struct {
		name   string
		chance float64
		want   float64
	}{
		{"never crits", 0, 80},
		{"always crits", 1, 100 - 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.tuning.CritChance = tt.chance
			e := placeHit(w, 1, 20)

			w.updateBullets()

			if e.Health != tt.want {
				t.Errorf("health = %f, want %f", e.Health, tt.want)
			}
			if len(w.Bullets) != 0 {
				t.Errorf("%d bullets left", len(w.Bullets))
			}
		})
	}
}

func TestCritRollsAreSeeded(t *testing.T) {
	a := newTestWorld(t)
	b := newTestWorld(t)
	a.rng = rand.New(rand.NewPCG(9, 9))
	b.rng = rand.New(rand.NewPCG(9, 9))
	crits := 0
	for range 200 {
		da, ca := a.rollCrit(20, 0.12, 1.75)
		db, cb := b.rollCrit(20, 0.12, 1.75)
		if da != db || ca != cb {
			t.Fatal("same seed produced different crit rolls")
		}
		if ca {
			crits++
			if da != 35 {
				t.Fatalf("crit damage = %f, want 35", da)
			}
		} else if da != 20 {
			t.Fatalf("plain damage = %f, want 20", da)
		}
	}
	if crits == 0 || crits == 200 {
		t.Errorf("crits = %d of 200", crits)
	}
}

func TestOneBulletPerTargetPerFrame(t *testing.T) {
	w := newTestWorld(t)
	w.tuning.CritChance = 0
	e := placeHit(w, 3, 10)

	w.updateBullets()

	if e.Health != 90 {
		t.Errorf("health = %f, want 90", e.Health)
	}
	if len(w.Bullets) != 2 {
		t.Errorf("bullets = %d, want 2", len(w.Bullets))
	}
}

func TestKillRemovesEnemy(t *testing.T) {
	w := newTestWorld(t)
	w.tuning.CritChance = 0
	e := placeHit(w, 1, 20)
	e.Health = 15

	w.updateBullets()

	if len(w.Enemies) != 0 {
		t.Fatal("dead enemy still in the world")
	}
	if w.Kills != 1 || w.Score != enemyKillScore {
		t.Errorf("kills=%d score=%d", w.Kills, w.Score)
	}
	if len(w.PowerUps) != 1 {
		t.Errorf("no drop from kill")
	}
}

func TestHostileBulletsSkipEnemies(t *testing.T) {
	w := newTestWorld(t)
	e := w.spawnEnemy(EnemyStandard, w.Ship.Pos.Add(mathx.V(200, 0, 0)))
	hp := e.Health
	w.addBullet(newBullet(e.Pos, mathx.V(0, 0, -1), 0.01, 30, FromHostile))

	w.updateBullets()

	if e.Health != hp {
		t.Errorf("friendly fire: health %f -> %f", hp, e.Health)
	}
}

func TestHostileBulletHitsShip(t *testing.T) {
	w := newTestWorld(t)
	w.tuning.CritChance = 0
	w.addBullet(newBullet(w.Ship.Pos, mathx.V(0, 0, -1), 0.01, 12, FromHostile))
	w.addBullet(newBullet(w.Ship.Pos, mathx.V(0, 0, -1), 0.01, 12, FromHostile))

	w.updateBullets()

	if w.Ship.Health != 88 {
		t.Errorf("health = %f, want 88", w.Ship.Health)
	}
}

func TestAggressiveManeuverDetaches(t *testing.T) {
	w := newTestWorld(t)
	e := w.spawnEnemy(EnemyStandard, w.Ship.Pos.Add(mathx.V(1, 0, 0)))
	e.latch(w.Now())
	if !e.Attached {
		t.Fatal("latch did not attach")
	}
	w.detachEnemies()
	if e.Attached {
		t.Error("enemy still attached")
	}
	if e.Vel.X <= 0 {
		t.Errorf("detached enemy pushed along %+v, want away from the ship", e.Vel)
	}
}

func TestPlayerFireSpendsAmmo(t *testing.T) {
	w := newTestWorld(t)
	now := w.Now()
	w.firePlayerWeapon(now)
	w.firePlayerWeapon(now)

	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d, fire cooldown ignored", len(w.Bullets))
	}
	if w.Ship.Ammo != shipStartAmmo-1 {
		t.Errorf("ammo = %d", w.Ship.Ammo)
	}
	w.firePlayerWeapon(now.Add(w.Ship.Weapon.Interval))
	if len(w.Bullets) != 2 {
		t.Errorf("bullets = %d after cooldown", len(w.Bullets))
	}
}

type soundRecorder map[SoundKind]int

func (r soundRecorder) Play(kind SoundKind) { r[kind]++ }

func TestHelperKillPaysBountyLikeShipKill(t *testing.T) {
	tests := []struct {
		role   HelperRole
		bounty int
	}{
		{HelperCombat, 100},
		{HelperFaction, 80},
	}
	for _, tt := range tests {
		sounds := soundRecorder{}
		d := testDeps()
		d.Sound = sounds
		w := NewWorld(d)
		w.spawnHelper(tt.role, tt.role == HelperFaction)
		h := w.Helpers[0]
		e := w.spawnEnemy(EnemyStandard, h.Pos.Add(mathx.V(50, 0, 0)))
		e.Health = 5

		w.updateHelpers()

		if len(w.Enemies) != 0 {
			t.Fatalf("role %d: enemy survived", tt.role)
		}
		if w.Score != tt.bounty || w.Kills != 1 || len(w.PowerUps) != 1 {
			t.Errorf("role %d: score=%d kills=%d drops=%d", tt.role, w.Score, w.Kills, len(w.PowerUps))
		}
		if sounds[SoundExplosion] != 1 {
			t.Errorf("role %d: explosion cue played %d times", tt.role, sounds[SoundExplosion])
		}
	}
}
