package game

import (
	"fmt"
	"math"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// Spawner cadence.
const (
	waveStride          = 1250 // distance travelled per axis between directional waves
	deepSpaceRadius     = 4500
	alienWaveInterval   = 18 * time.Second
	factionBotInterval  = 8500 * time.Millisecond
	counterWaveInterval = 22 * time.Second
	planetProbeDistance = 4000
	planetProbeClear    = 1500
	planetSpawnChance   = 0.02
	planetCullDistance  = 8000
	planetSpacing       = 60
)

var planetProbes = []mathx.Vec3{
	mathx.V(1, 0, 0), mathx.V(-1, 0, 0), mathx.V(0, 1, 0), mathx.V(0, -1, 0),
	mathx.V(1, 0, 1), mathx.V(-1, 0, 1), mathx.V(1, 0, -1), mathx.V(-1, 0, -1),
	mathx.V(0, 1, 1), mathx.V(0, -1, 1), mathx.V(0, 1, -1), mathx.V(0, -1, -1),
}

var wavePool = []EnemyKind{EnemyStandard, EnemyFast, EnemySwarm, EnemySniper, EnemyShielded}

// MaxEnemies is the soft cap on concurrent enemies at the current score.
func (w *World) MaxEnemies() int {
	per := max(1, w.tuning.ScorePerEnemySlot)
	return w.tuning.BaseMaxEnemies + max(0, w.Score)/per
}

// rollEnemyKind picks a kind, shifting weight off the easy ones as score grows.
func (w *World) rollEnemyKind() EnemyKind {
	diff := math.Min(1, float64(max(0, w.Score))/2500)
	switch r := w.rng.Float64(); {
	case r < 0.45-diff*0.1:
		return EnemyStandard
	case r < 0.65-diff*0.05:
		return EnemyFast
	case r < 0.75:
		return EnemySwarm
	case r < 0.85:
		return EnemySniper
	case r < 0.93:
		return EnemyKamikaze
	case r < 0.98:
		return EnemyShielded
	}
	return EnemyTank
}

// ringPos is a point on a horizontal ring around the ship.
func (w *World) ringPos(lo, hi, dy float64) mathx.Vec3 {
	a := w.rng.Float64() * 2 * math.Pi
	d := randRange(w.rng, lo, hi)
	return w.Ship.Pos.Add(mathx.V(math.Cos(a)*d, randRange(w.rng, -dy, dy), math.Sin(a)*d))
}

// spawnEnemies runs the ambient spawn roll, the rare boss and deep-space patrols.
func (w *World) spawnEnemies() {
	maxEnemies := w.MaxEnemies()
	chance := 0.005 + float64(w.Score)/10000*0.003
	if len(w.Enemies) < maxEnemies && w.rng.Float64() < chance {
		w.spawnEnemy(w.rollEnemyKind(), w.Ship.Pos.Add(randBox(w.rng, 800, 300, 800)))
		if w.Score > 2000 && w.rng.Float64() < 0.002 {
			w.spawnEnemy(EnemyBoss, w.Ship.Pos.Add(mathx.V(0, 0, -1200)))
			w.sound.Play(SoundAchievement)
		}
	}

	if w.Ship.Pos.Len() > deepSpaceRadius && w.rng.Float64() < 0.0025 && len(w.Enemies) < maxEnemies+6 {
		center := w.Ship.Pos.Add(randBox(w.rng, 1400, 300, 1400))
		for range 3 + w.rng.IntN(3) {
			kind := EnemyStandard
			if w.rng.Float64() < 0.6 {
				kind = EnemyFast
			}
			e := w.spawnEnemy(kind, center.Add(randBox(w.rng, 140, 80, 140)))
			e.Faction = "Pirate Patrol"
		}
		w.logEvent("Pirate patrol detected in deep space")
	}
}

// spawnDirectionalWaves drops a squad each time the ship crosses another
// stride along any axis from the last wave line.
func (w *World) spawnDirectionalWaves() {
	s := w.Ship.Pos
	axes := [3]*float64{&w.waveLine.X, &w.waveLine.Y, &w.waveLine.Z}
	pos := [3]float64{s.X, s.Y, s.Z}
	for axis, line := range axes {
		var step float64
		switch {
		case pos[axis] < *line-waveStride:
			step = -waveStride
		case pos[axis] > *line+waveStride:
			step = waveStride
		default:
			continue
		}
		*line += step
		for range 3 + w.rng.IntN(3) {
			p := s.Add(randBox(w.rng, 500, 200, 800))
			switch axis {
			case 0:
				p.X = *line + randRange(w.rng, -200, 200)
			case 1:
				p.Y = *line + randRange(w.rng, -200, 200)
			default:
				p.Z = *line + randRange(w.rng, -200, 200)
			}
			w.spawnEnemy(EnemyStandard, p)
		}
	}
}

func (w *World) updateAlienWaves(now time.Time) {
	if now.Sub(w.lastAlienWave) < alienWaveInterval {
		return
	}
	w.lastAlienWave = now
	if len(w.Enemies) >= w.MaxEnemies()+14 {
		return
	}
	w.alienWave++
	size := min(16, 4+max(0, w.Score)/900+w.alienWave/2)
	for range size {
		w.spawnEnemy(wavePool[w.rng.IntN(len(wavePool))], w.ringPos(650, 1250, 220))
	}
	msg := fmt.Sprintf("Alien wave %d: %d hostiles", w.alienWave, size)
	w.logEvent(msg)
	w.notify.FloatingText(msg, 2*time.Second)
	w.sound.Play(SoundDamage)
}

func (w *World) updateFactionWar(now time.Time) {
	if !w.FactionWarMode {
		return
	}
	allies := 0
	for _, h := range w.Helpers {
		if h.Role == HelperFaction {
			allies++
		}
	}
	if allies < maxFactionHelpers && now.Sub(w.lastFactionBot) > factionBotInterval {
		w.spawnHelper(HelperFaction, true)
		w.lastFactionBot = now
		w.notify.FloatingText("Allied patrol joined the fight", 1400*time.Millisecond)
	}

	if now.Sub(w.lastCounterWave) > counterWaveInterval && len(w.Enemies) < w.MaxEnemies()+18 {
		w.lastCounterWave = now
		w.counterWaves++
		size := min(10, 4+w.counterWaves+w.rng.IntN(3))
		for range size {
			w.spawnEnemy(wavePool[w.rng.IntN(len(wavePool))], w.ringPos(750, 1300, 220))
		}
		w.notify.FloatingText(fmt.Sprintf("Alien counter-wave incoming (%d)", size), 1800*time.Millisecond)
		w.sound.Play(SoundDamage)
	}
}

// spawnMegaShip brings in the boss carrier once per session.
func (w *World) spawnMegaShip() {
	if w.Mega != nil {
		return
	}
	off := mathx.V(randRange(w.rng, -900, 900), randRange(w.rng, -220, 220), -1200)
	m := newMegaShip(w.Ship.Pos.Add(off))
	m.id = w.track(VisualMegaShip, m.Pos)
	w.Mega = m
	w.megaSpawned = true
	w.notify.FloatingText("Warning: Mega Ship Detected", 2600*time.Millisecond)
	w.sound.Play(SoundDamage)
	w.log.Info("mega ship arrived", "pos", m.Pos)
}

// spawnPlanets probes twelve directions around the ship and seeds a planet
// where none is near, then culls planets that fell far behind.
func (w *World) spawnPlanets(now time.Time) {
	for _, dir := range planetProbes {
		probe := w.Ship.Pos.Add(mathx.V(dir.X*planetProbeDistance, dir.Y*planetProbeDistance*0.5, dir.Z*planetProbeDistance))
		if w.planetNear(probe, planetProbeClear) || w.rng.Float64() >= planetSpawnChance {
			continue
		}
		for range 5 {
			pos := probe.Add(randBox(w.rng, 500, 250, 500))
			if !tooClose(pos, w.Planets, planetSpacing) {
				w.addPlanet(newPlanet(w.rng, now, pos, 0))
				break
			}
		}
	}
	for i := len(w.Planets) - 1; i >= 0; i-- {
		p := w.Planets[i]
		if p.Pos.Dist(w.Ship.Pos) > planetCullDistance && p != w.Ship.LandedPlanet && p != w.ReturnBase {
			w.removePlanet(i)
		}
	}
}

func (w *World) planetNear(at mathx.Vec3, r float64) bool {
	for _, p := range w.Planets {
		if p.Pos.Dist(at) < r {
			return true
		}
	}
	return false
}

// generateInitialSystems lays out the opening star systems ahead of the ship.
func (w *World) generateInitialSystems(now time.Time) {
	for s := range 3 {
		center := mathx.V(randRange(w.rng, -2000, 2000), randRange(w.rng, -800, 800), -3000-float64(s)*4000)
		for i := range 3 + w.rng.IntN(5) {
			a := w.rng.Float64() * 2 * math.Pi
			d := float64(i+1) * (150 + w.rng.Float64()*200)
			pos := mathx.V(center.X+math.Cos(a)*d, center.Y+(w.rng.Float64()-0.5)*100, center.Z+math.Sin(a)*d)
			w.addPlanet(newPlanet(w.rng, now, pos, 0))
		}
		if w.rng.Float64() < 0.5 {
			w.addNebula(&Nebula{Pos: center.Add(randBox(w.rng, 200, 100, 200)), Radius: 800 + w.rng.Float64()*600, Color: 0x223355})
		}
		if w.rng.Float64() < 0.25 {
			c := center.Add(randBox(w.rng, 400, 100, 400))
			w.addField(newAsteroidField(w.rng, c, 500+w.rng.Float64()*800, 60+w.rng.IntN(120)))
		}
		if w.rng.Float64() < 0.15 {
			w.addDerelict(newDerelict(w.rng, center.Add(randBox(w.rng, 400, 100, 400))))
		}
		if w.rng.Float64() < 0.08 && len(w.Colossi) < 1 {
			w.spawnColossal(center.Add(randBox(w.rng, 700, 130, 700)))
		}
		if w.rng.Float64() < 0.12 {
			w.addBlackHole(&BlackHole{Pos: center.Add(randBox(w.rng, 1000, 300, 1000)), Radius: 200 + w.rng.Float64()*150})
		}
	}
}

// spawnPowerUp drops a random pickup at pos.
func (w *World) spawnPowerUp(pos mathx.Vec3) {
	p := &PowerUp{
		Kind:      PowerUpKind(w.rng.IntN(int(PowerUpKindCount))),
		Pos:       pos,
		baseY:     pos.Y,
		spawnedAt: w.clock.Now(),
	}
	p.id = w.track(VisualPowerUp, pos)
	w.PowerUps = append(w.PowerUps, p)
}

// spawnHelper launches a helper bot near the ship.
func (w *World) spawnHelper(role HelperRole, allied bool) {
	if w.Ship == nil {
		return
	}
	h := newHelper(role, w.Ship.Pos.Add(randBox(w.rng, 80, 20, 80)), allied)
	h.id = w.track(VisualHelper, h.Pos)
	w.Helpers = append(w.Helpers, h)
}

// spawnEnemy creates an enemy of kind at pos scaled to the current score.
func (w *World) spawnEnemy(kind EnemyKind, pos mathx.Vec3) *Enemy {
	e := newEnemy(w.rng, kind, pos, w.Score)
	e.id = w.track(VisualEnemy, pos)
	w.Enemies = append(w.Enemies, e)
	return e
}
