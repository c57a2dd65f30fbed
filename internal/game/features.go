package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

const sectorYScale = 0.6 // sectors are flatter than they are wide

// Per-sector spawn odds.
const (
	nebulaChance    = 0.35
	fieldChance     = 0.28
	blackHoleChance = 0.12
	derelictChance  = 0.2
	colossalChance  = 0.018
	gateChance      = 0.07
	artifactChance  = 0.1
	maxColossi      = 2
)

// sectorRand returns the generator for a sector's one-time rolls. The same
// sector always rolls the same features for a given world seed.
func (w *World) sectorRand(s mathx.Sector) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(w.seed), uint64(s.Seed(w.seed))))
}

// spawnDynamicFeatures visits the 3x3x3 block of sectors around the ship on
// its tick interval, rolls features once for every sector not seen before,
// and culls features that are now far away.
func (w *World) spawnDynamicFeatures(now time.Time) {
	t := w.tuning
	if now.Sub(w.lastFeatureTick) < t.FeatureTickInterval {
		return
	}
	w.lastFeatureTick = now

	home := mathx.SectorOf(w.Ship.Pos, t.SectorSize, sectorYScale)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				s := mathx.Sector{X: home.X + dx, Y: home.Y + dy, Z: home.Z + dz}
				if w.seenSectors[s] {
					continue
				}
				w.seenSectors[s] = true
				w.populateSector(s, now)
			}
		}
	}
	w.cullFeatures()
}

func (w *World) populateSector(s mathx.Sector, now time.Time) {
	rng := w.sectorRand(s)
	size := w.tuning.SectorSize
	center := s.Center(size, sectorYScale).Add(randBox(rng, 900, 400, 900))

	if rng.Float64() < nebulaChance {
		w.addNebula(&Nebula{Pos: center, Radius: 700 + rng.Float64()*700, Color: 0x223355 + rng.Uint32N(0x111111)})
	}
	if rng.Float64() < fieldChance {
		c := center.Add(randBox(rng, 700, 260, 700))
		w.addField(newAsteroidField(rng, c, 450+rng.Float64()*900, 70+rng.IntN(90)))
	}
	if rng.Float64() < blackHoleChance {
		w.addBlackHole(&BlackHole{Pos: center.Add(randBox(rng, 1200, 500, 1200)), Radius: 180 + rng.Float64()*120})
	}
	if rng.Float64() < derelictChance {
		w.addDerelict(newDerelict(rng, center.Add(randBox(rng, 800, 250, 800))))
	}
	if rng.Float64() < colossalChance && len(w.Colossi) < maxColossi {
		w.spawnColossal(center.Add(randBox(rng, 1000, 350, 1000)))
	}
	if rng.Float64() < gateChance {
		pairID := fmt.Sprintf("JG-%d", 10000+rng.IntN(90000))
		a := center.Add(randBox(rng, 500, 200, 500))
		b := center.Add(randBox(rng, 2400, 600, 2400))
		w.addGatePair(newGatePair(pairID, a, b))
	}
	if rng.Float64() < artifactChance {
		pos := center.Add(randBox(rng, 700, 220, 700))
		w.addArtifact(&Artifact{Pos: pos, baseY: pos.Y, spawnedAt: now})
	}
}

// cullFeatures drops features beyond the cull distance. Colossi and gates
// are visible from further out and get a longer leash; the colossus the
// ship is inside is never culled.
func (w *World) cullFeatures() {
	ship := w.Ship.Pos
	far := w.tuning.FeatureCullDistance
	farther := far * 1.2

	for i := len(w.Nebulae) - 1; i >= 0; i-- {
		if w.Nebulae[i].Pos.Dist(ship) > far {
			w.removeNebula(i)
		}
	}
	for i := len(w.BlackHoles) - 1; i >= 0; i-- {
		if w.BlackHoles[i].Pos.Dist(ship) > far {
			w.removeBlackHole(i)
		}
	}
	for i := len(w.Fields) - 1; i >= 0; i-- {
		if w.Fields[i].Center.Dist(ship) > far {
			w.removeField(i)
		}
	}
	for i := len(w.Derelicts) - 1; i >= 0; i-- {
		if w.Derelicts[i].Pos.Dist(ship) > far {
			w.removeDerelict(i)
		}
	}
	for i := len(w.Colossi) - 1; i >= 0; i-- {
		c := w.Colossi[i]
		if c != w.Interior && c.Pos.Dist(ship) > farther {
			w.removeColossal(i)
		}
	}
	for i := len(w.Gates) - 1; i >= 0; i-- {
		if w.Gates[i].Pos.Dist(ship) > farther {
			w.removeGate(i)
		}
	}
	for i := len(w.Artifacts) - 1; i >= 0; i-- {
		if w.Artifacts[i].Pos.Dist(ship) > far {
			w.removeArtifact(i)
		}
	}
}

// spawnColossal places a colossal derelict unless another is too close.
func (w *World) spawnColossal(pos mathx.Vec3) {
	for _, c := range w.Colossi {
		if c.Pos.Dist(pos) < colossalMinSpacing {
			return
		}
	}
	c := newColossal(w.rng, pos)
	c.id = w.track(VisualColossal, pos)
	w.Colossi = append(w.Colossi, c)
	w.logEvent("Deep-space anomaly detected: colossal derelict " + c.ID)
	w.notify.FloatingText("Long-range scan: colossal ship found", 2100*time.Millisecond)
	w.sound.Play(SoundAchievement)
}
