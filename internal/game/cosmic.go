package game

import (
	"math"
	"strings"
	"time"
)

// CosmicKind is a timed galaxy-wide event.
type CosmicKind uint8

const (
	CosmicSupernova CosmicKind = iota
	CosmicBlackHoleFlare
	CosmicAsteroidShower
	cosmicKindCount
)

func (k CosmicKind) String() string {
	switch k {
	case CosmicBlackHoleFlare:
		return "blackhole_flare"
	case CosmicAsteroidShower:
		return "asteroid_shower"
	}
	return "supernova"
}

// Cosmic event cadence and effects.
const (
	cosmicFirstDelay = 90 * time.Second
	cosmicGapMin     = 90 * time.Second
	cosmicGapJitter  = 60 * time.Second
	cosmicDuration   = 18 * time.Second
	flareGravityMul  = 1.9
	supernovaPulse   = 0.02 // chance per frame
	supernovaRange   = 850
	supernovaDamage  = 14
	showerChance     = 0.045 // chance per frame
	showerSpread     = 900
)

// CosmicEvent is the event currently in progress.
type CosmicEvent struct {
	Kind  CosmicKind
	EndAt time.Time
}

// Label is the event name for display.
func (e *CosmicEvent) Label() string { return strings.ReplaceAll(e.Kind.String(), "_", " ") }

// Intensity is the ambient light level the event imposes, 1 when calm.
func (e *CosmicEvent) Intensity(now time.Time) float64 {
	if e == nil || e.Kind != CosmicSupernova {
		return 1
	}
	return 1.9 + math.Sin(float64(now.UnixMilli())*0.02)*0.4
}

// startCosmic begins an event of kind and schedules the next one.
func (w *World) startCosmic(kind CosmicKind, now time.Time) {
	w.Cosmic = &CosmicEvent{Kind: kind, EndAt: now.Add(cosmicDuration)}
	w.nextCosmicAt = now.Add(cosmicGapMin + time.Duration(w.rng.Int64N(int64(cosmicGapJitter))))
	w.logEvent("Cosmic event detected: " + w.Cosmic.Label())
	w.notify.FloatingText("Cosmic event: "+w.Cosmic.Label(), 2*time.Second)
	if kind == CosmicBlackHoleFlare {
		w.bhGravityMul = flareGravityMul
	}
	w.sound.Play(SoundDamage)
}

func (w *World) updateCosmicEvents(now time.Time) {
	if w.Cosmic == nil && !now.Before(w.nextCosmicAt) {
		w.startCosmic(CosmicKind(w.rng.IntN(int(cosmicKindCount))), now)
	}
	ev := w.Cosmic
	if ev == nil {
		return
	}

	switch ev.Kind {
	case CosmicAsteroidShower:
		if w.rng.Float64() < showerChance {
			off := randBox(w.rng, showerSpread, 0, showerSpread)
			off.Y = randRange(w.rng, -80, 300)
			w.addField(newAsteroidField(w.rng, w.Ship.Pos.Add(off), 180+w.rng.Float64()*160, 18+w.rng.IntN(20)))
		}
	case CosmicSupernova:
		if w.rng.Float64() < supernovaPulse {
			for i := len(w.Enemies) - 1; i >= 0; i-- {
				e := w.Enemies[i]
				if e.Pos.Dist(w.Ship.Pos) >= supernovaRange {
					continue
				}
				e.TakeDamage(supernovaDamage)
				if !e.Alive() {
					w.render.Explosion(e.Pos, 1)
					w.removeEnemy(i)
					w.Kills++
				}
			}
		}
	}

	if !now.Before(ev.EndAt) {
		if ev.Kind == CosmicBlackHoleFlare {
			w.bhGravityMul = 1
		}
		w.logEvent("Cosmic event ended: " + ev.Label())
		w.Cosmic = nil
	}
}
