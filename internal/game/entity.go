package game

import (
	"math"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// EntityID identifies a visual-bearing entity for the renderer.
type EntityID uint64

// Positioned is anything with a world position.
type Positioned interface {
	Position() mathx.Vec3
}

// Target can be struck by a bullet.
type Target interface {
	Positioned
	HitRadius() float64
	TakeDamage(amount float64)
}

// Landable can be landed on by the ship.
type Landable interface {
	Positioned
	LandingRadius() float64
}

// Attraction describes how the ship's tractor field treats a harvestable.
type Attraction struct {
	Radius        float64 // pull starts inside this distance
	CollectRadius float64 // auto-collected inside this distance
	MinPull       float64 // pull speed at the edge of Radius
	MaxPull       float64 // pull speed at contact
}

// Harvestable is pulled toward the ship and consumed on contact.
type Harvestable interface {
	Positioned
	MoveTo(p mathx.Vec3)
	Attraction() Attraction
}

// Pull strength at distance d: lerp from MinPull at the edge to MaxPull at contact.
func (a Attraction) Pull(d float64) float64 {
	if a.Radius <= 0 {
		return 0
	}
	t := mathx.Clamp(1-d/a.Radius, 0, 1)
	return mathx.Lerp(a.MinPull, a.MaxPull, t)
}

// nearestOf returns the closest positioned item to at, or the zero value.
func nearestOf[T Positioned](items []T, at mathx.Vec3) (T, float64) {
	var best T
	bestDist := math.MaxFloat64
	for _, it := range items {
		if d := it.Position().Dist(at); d < bestDist {
			best, bestDist = it, d
		}
	}
	return best, bestDist
}
