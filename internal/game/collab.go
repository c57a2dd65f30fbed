package game

import (
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// SoundKind is the fixed set of audio cues the simulation emits.
type SoundKind uint8

const (
	SoundFire SoundKind = iota
	SoundExplosion
	SoundPickup
	SoundDamage
	SoundAchievement
	SoundAmbient
	SoundEngineHum
	SoundAsteroidHit
	SoundSparks
	SoundLanding
	SoundKindCount // sentinel
)

var soundNames = [SoundKindCount]string{
	"fire", "explosion", "pickup", "damage", "achievement",
	"ambient", "engineHum", "asteroidHit", "sparks", "landing",
}

func (k SoundKind) String() string {
	if k < SoundKindCount {
		return soundNames[k]
	}
	return "unknown"
}

// VisualKind tells the renderer what an entity looks like.
type VisualKind uint8

const (
	VisualPlanet VisualKind = iota
	VisualEnemy
	VisualBullet
	VisualPowerUp
	VisualHelper
	VisualArtifact
	VisualGate
	VisualNebula
	VisualBlackHole
	VisualRock
	VisualDerelict
	VisualColossal
	VisualMegaShip
	VisualKindCount // sentinel
)

// Sound plays fire-and-forget audio cues.
type Sound interface {
	Play(kind SoundKind)
}

// Renderer owns visual state. The simulation announces every entity it
// creates and destroys; positions are read from the world each frame.
type Renderer interface {
	AddVisual(id EntityID, kind VisualKind, at mathx.Vec3)
	RemoveVisual(id EntityID)
	Explosion(at mathx.Vec3, scale float64)
	Sparks(at mathx.Vec3, scale float64)
}

// Notifier shows transient UI feedback.
type Notifier interface {
	FloatingText(msg string, d time.Duration)
	AchievementUnlocked(a *Achievement)
}

// Persister stores world snapshots. Both calls are best-effort and never fail
// the frame.
type Persister interface {
	Autosave(w *World)
	SaveNow(w *World)
}

type nopSound struct{}

func (nopSound) Play(SoundKind) {}

type nopRenderer struct{}

func (nopRenderer) AddVisual(EntityID, VisualKind, mathx.Vec3) {}
func (nopRenderer) RemoveVisual(EntityID)                      {}
func (nopRenderer) Explosion(mathx.Vec3, float64)              {}
func (nopRenderer) Sparks(mathx.Vec3, float64)                 {}

type nopNotifier struct{}

func (nopNotifier) FloatingText(string, time.Duration) {}
func (nopNotifier) AchievementUnlocked(*Achievement)   {}

type nopPersister struct{}

func (nopPersister) Autosave(*World) {}
func (nopPersister) SaveNow(*World)  {}
