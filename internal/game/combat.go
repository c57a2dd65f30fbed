package game

import (
	"math"
	"slices"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

const (
	aggressiveAccel    = 2   // velocity change per frame that shakes off latched enemies
	hostileCritScale   = 0.6 // enemies crit less often
	hostileCritDamage  = 0.9 // and for less
	enemyKillScore     = 100
	critKillBonus      = 50
	megaMuzzleDistance = 8
)

// firePlayerWeapon shoots along the ship's facing, or reloads on an empty rack.
func (w *World) firePlayerWeapon(now time.Time) {
	s := w.Ship
	if s.CanShoot(now) {
		w.addBullet(newBullet(s.Pos, s.Facing, s.Weapon.Speed, s.Weapon.Damage, FromPlayer))
		s.shoot(now)
		w.sound.Play(SoundFire)
		return
	}
	if s.Ammo <= 0 && s.Reload() {
		w.notify.FloatingText("Reloading", 900*time.Millisecond)
	}
}

// detachEnemies shakes off every latched enemy.
func (w *World) detachEnemies() {
	n := 0
	for _, e := range w.Enemies {
		if e.Attached {
			e.detach(w.Ship.Pos)
			n++
		}
	}
	if n > 0 {
		w.notify.FloatingText("Shook off attached enemies!", 1200*time.Millisecond)
	}
}

// packCount counts same-faction enemies travelling near e.
func (w *World) packCount(e *Enemy) int {
	n := 0
	for _, o := range w.Enemies {
		if o != e && o.Faction == e.Faction && o.Pos.Dist(e.Pos) < enemyPackRadius {
			n++
		}
	}
	return n
}

func (w *World) updateEnemies(now time.Time) {
	s := w.Ship
	for i := len(w.Enemies) - 1; i >= 0; i-- {
		e := w.Enemies[i]
		e.packed = w.packCount(e) >= 2
		if e.update(w.rng, enemyTargetFor(e, s, w.Helpers), s, now) {
			w.sound.Play(SoundDamage)
		}

		dist := e.Pos.Dist(s.Pos)
		if !e.Attached && dist < enemyAttachRange {
			e.latch(now)
			w.sound.Play(SoundDamage)
		}
		if e.canShoot() && dist < e.attackRange() {
			w.addBullet(newBullet(e.Pos, s.Pos.Sub(e.Pos), enemyBulletSpeed, e.Damage, FromHostile))
			e.shoot()
		}
	}
}

// killEnemy removes enemy i and pays bounty for the kill.
func (w *World) killEnemy(i, bounty int) {
	e := w.Enemies[i]
	w.render.Explosion(e.Pos, 1)
	w.sound.Play(SoundExplosion)
	w.spawnPowerUp(e.Pos)
	w.Score += bounty
	w.Kills++
	w.removeEnemy(i)
}

func (w *World) updateHelpers() {
	s := w.Ship
	for i := len(w.Helpers) - 1; i >= 0; i-- {
		h := w.Helpers[i]
		if h.Health <= 0 {
			w.render.Explosion(h.Pos, 0.8)
			w.removeHelper(i)
			continue
		}
		h.tickCooldowns()

		enemy, enemyDist := nearestOf(w.Enemies, h.Pos)
		desired := s.Pos.Sub(h.Pos)
		if enemy != nil && enemyDist < helperEngageRange {
			desired = enemy.Pos.Sub(h.Pos)
		} else if h.Role == HelperHarvester {
			if r, d := w.nearestRock(h.Pos); r != nil && d < helperRockSeekRange {
				desired = r.Pos.Sub(h.Pos)
			}
		}
		h.steer(desired)

		if h.fights() && enemy != nil && enemyDist < helperAttackRange && h.attackCooldown <= 0 {
			dmg, bounty := h.strike()
			enemy.TakeDamage(dmg)
			if !enemy.Alive() {
				if j := slices.Index(w.Enemies, enemy); j >= 0 {
					w.killEnemy(j, bounty)
				}
			}
			w.sound.Play(SoundFire)
		}

		if h.Role == HelperHarvester && h.collectCooldown <= 0 {
			w.harvest(h)
		}
	}
}

// harvest lets a harvester mine one rock or, failing that, salvage one derelict.
func (w *World) harvest(h *Helper) {
	for _, f := range w.Fields {
		for i := len(f.Rocks) - 1; i >= 0; i-- {
			r := f.Rocks[i]
			if h.Pos.Dist(r.Pos) < helperRockCollect {
				w.Resources.Minerals += int(math.Ceil(float64(r.Yield()) * helperRockYield))
				w.removeRock(f, i)
				w.sound.Play(SoundPickup)
				h.collectCooldown = helperRockCooldown
				return
			}
		}
	}
	for i := len(w.Derelicts) - 1; i >= 0; i-- {
		d := w.Derelicts[i]
		if d.Scavenged || h.Pos.Dist(d.Pos) >= helperDerelictSalv {
			continue
		}
		d.Scavenged = true
		w.Resources.Salvage += int(math.Ceil(float64(d.Yield()) * helperDerelictYield))
		w.removeDerelict(i)
		w.sound.Play(SoundPickup)
		h.collectCooldown = helperSalvageCoolDur
		return
	}
}

func (w *World) nearestRock(at mathx.Vec3) (*Rock, float64) {
	var best *Rock
	bestDist := math.MaxFloat64
	for _, f := range w.Fields {
		if r, d := nearestOf(f.Rocks, at); r != nil && d < bestDist {
			best, bestDist = r, d
		}
	}
	return best, bestDist
}

func (w *World) updateMegaShip(now time.Time) {
	if !w.megaSpawned && now.Sub(w.startedAt) >= w.tuning.MegaShipDelay {
		w.spawnMegaShip()
	}
	m := w.Mega
	if m == nil {
		return
	}
	m.update(w.Ship.Pos)

	if m.shootCooldown <= 0 && m.Pos.Dist(w.Ship.Pos) < megaFireRange {
		dir := w.Ship.Pos.Sub(m.Pos).Normalize()
		muzzle := m.Pos.Add(dir.Scale(megaHitRadius + megaMuzzleDistance))
		w.addBullet(newBullet(muzzle, dir, megaBulletSpeed, megaBulletDamage, FromHostile))
		m.shootCooldown = megaShootInterval
	}

	if !now.Before(m.nextAliensAt) && len(w.Enemies) < w.MaxEnemies()+6 {
		n := 1
		if w.rng.Float64() < 0.35 {
			n = 2
		}
		for range n {
			kind := EnemyFast
			if w.rng.Float64() < 0.7 {
				kind = EnemySwarm
			}
			w.spawnEnemy(kind, m.Pos.Add(randBox(w.rng, 35, 16, 35)))
		}
		m.nextAliensAt = now.Add(megaAlienInterval)
	}
}

// firstHit returns the index of the first bullet from src overlapping t, or -1.
func (w *World) firstHit(t Target, src BulletSource) int {
	for j := len(w.Bullets) - 1; j >= 0; j-- {
		b := w.Bullets[j]
		if b.Source == src && b.hits(t) {
			return j
		}
	}
	return -1
}

// rollCrit returns the damage after a critical roll at the given odds and multiplier.
func (w *World) rollCrit(damage, chance, mult float64) (float64, bool) {
	if w.rng.Float64() < chance {
		return math.Ceil(damage * mult), true
	}
	return damage, false
}

// updateBullets ages every bullet, then resolves hits. A target takes at
// most one bullet per frame.
func (w *World) updateBullets() {
	for i := len(w.Bullets) - 1; i >= 0; i-- {
		if !w.Bullets[i].update() {
			w.removeBullet(i)
		}
	}
	t := w.tuning

	for i := len(w.Enemies) - 1; i >= 0; i-- {
		e := w.Enemies[i]
		j := w.firstHit(e, FromPlayer)
		if j < 0 {
			continue
		}
		dmg, crit := w.rollCrit(w.Bullets[j].Damage, t.CritChance, t.CritMultiplier)
		if crit {
			w.render.Sparks(e.Pos, 1.4)
			w.sound.Play(SoundAchievement)
		}
		w.removeBullet(j)
		e.TakeDamage(dmg)
		if !e.Alive() {
			bounty := enemyKillScore
			if crit {
				bounty += critKillBonus
			}
			w.killEnemy(i, bounty)
		}
	}

	if m := w.Mega; m != nil {
		if j := w.firstHit(m, FromPlayer); j >= 0 {
			m.TakeDamage(w.Bullets[j].Damage)
			w.removeBullet(j)
			if m.Health <= 0 {
				w.destroyMegaShip()
			}
		}
	}

	if j := w.firstHit(w.Ship, FromHostile); j >= 0 {
		dmg, crit := w.rollCrit(w.Bullets[j].Damage, t.CritChance*hostileCritScale, t.CritMultiplier*hostileCritDamage)
		if crit {
			w.render.Sparks(w.Ship.Pos.Add(mathx.V(0, 2, 0)), 1)
		}
		w.Ship.TakeDamage(dmg)
		w.sound.Play(SoundDamage)
		w.removeBullet(j)
	}

	for _, h := range w.Helpers {
		if j := w.firstHit(h, FromHostile); j >= 0 {
			h.TakeDamage(w.Bullets[j].Damage)
			w.removeBullet(j)
		}
	}
}

func (w *World) destroyMegaShip() {
	m := w.Mega
	w.render.Explosion(m.Pos, 6)
	w.sound.Play(SoundExplosion)
	w.Score += megaScore
	w.Kills += megaKills
	w.UpgradePoints += megaUpgrade
	w.notify.FloatingText("Mega Ship Destroyed! +1800 score", 2800*time.Millisecond)
	w.logEvent("Mega ship destroyed")
	w.untrack(m.id)
	w.Mega = nil
}

func (w *World) updatePowerUps(now time.Time) {
	for i := len(w.PowerUps) - 1; i >= 0; i-- {
		p := w.PowerUps[i]
		p.update(now)
		if p.Pos.Dist(w.Ship.Pos) >= powerUpPickupRange {
			continue
		}
		p.apply(w.Ship)
		w.PowerUpsCollected++
		w.sound.Play(SoundPickup)
		w.removePowerUp(i)
	}
}

// attract pulls h toward the ship and returns its distance before the pull.
func attract(h Harvestable, ship mathx.Vec3) float64 {
	to := ship.Sub(h.Position())
	d := to.Len()
	a := h.Attraction()
	if d < a.Radius && d > 0.001 {
		h.MoveTo(h.Position().Add(to.Normalize().Scale(a.Pull(d))))
	}
	return d
}

// updateResourceAttraction drags rocks and derelicts in and collects them on contact.
func (w *World) updateResourceAttraction(now time.Time) {
	ship := w.Ship.Pos
	for _, f := range w.Fields {
		for i := len(f.Rocks) - 1; i >= 0; i-- {
			r := f.Rocks[i]
			d := attract(r, ship)
			if d < rockClatterRange && d > rockAttraction.CollectRadius && now.Sub(w.lastRockClatter) > rockClatterInterval {
				w.sound.Play(SoundAsteroidHit)
				w.lastRockClatter = now
			}
			if d < rockAttraction.CollectRadius {
				w.Resources.Minerals += r.Yield()
				w.removeRock(f, i)
				w.sound.Play(SoundPickup)
			}
		}
	}
	for i := len(w.Derelicts) - 1; i >= 0; i-- {
		dr := w.Derelicts[i]
		if dr.Scavenged {
			continue
		}
		if attract(dr, ship) < derelictAttraction.CollectRadius {
			dr.Scavenged = true
			w.Resources.Salvage += dr.Yield()
			w.spawnPowerUp(dr.Pos)
			w.removeDerelict(i)
			w.sound.Play(SoundPickup)
		}
	}
}
