package game

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// PlanetStyle is the cosmetic surface type of a planet.
type PlanetStyle uint8

const (
	StyleRinged PlanetStyle = iota
	StyleBelt
	StyleCloudy
	StyleIce
	StyleLava
	StyleRocky
	StyleGasGiant
	PlanetStyleCount
)

var planetStyleNames = [PlanetStyleCount]string{
	"ringed", "belt", "cloudy", "ice", "lava", "rocky", "gasgiant",
}

func (s PlanetStyle) String() string {
	if s < PlanetStyleCount {
		return planetStyleNames[s]
	}
	return "unknown"
}

// ParsePlanetStyle maps a style name back to its tag. Unknown names fall back to rocky.
func ParsePlanetStyle(name string) PlanetStyle {
	for i, n := range planetStyleNames {
		if n == name {
			return PlanetStyle(i)
		}
	}
	return StyleRocky
}

var merchantNames = []string{
	"Kor Trader", "Maeve Outfitter", "Orbital Bazaar", "Vex Merchant", "Luna Exchange",
}

// Engineering limits.
const (
	MaxMovedMoons      = 3
	MaxArtificialRings = 2
	MaxDysonSwarms     = 3
	MaxBaseLevel       = 4
)

// Engineering tracks megastructure work done on a planet.
type Engineering struct {
	Atmosphere      bool
	MovedMoons      int
	ArtificialRings int
	StarDetonated   bool
	DysonSwarms     int
}

// Planet is a landable world with an optional base and civilization.
type Planet struct {
	id EntityID

	ID       string
	Name     string
	Merchant string
	Pos      mathx.Vec3
	Radius   float64
	Color    uint32 // 0xRRGGBB
	Style    PlanetStyle
	Drift    mathx.Vec3
	Rotation float64

	HasBase     bool
	BaseLevel   int
	Terraformed bool
	Engineering Engineering
	Civ         Civilization
}

func newPlanetID(rng *rand.Rand, now time.Time) string {
	return "PL-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + strconv.FormatInt(rng.Int64N(1e8), 36)
}

// newPlanet rolls a fresh planet at pos. A radius of zero picks one at random.
func newPlanet(rng *rand.Rand, now time.Time, pos mathx.Vec3, radius float64) *Planet {
	if radius <= 0 {
		radius = randRange(rng, 30, 90)
	}
	merchant := merchantNames[rng.IntN(len(merchantNames))]
	return &Planet{
		ID:       newPlanetID(rng, now),
		Name:     merchant + "'s Outpost",
		Merchant: merchant,
		Pos:      pos,
		Radius:   radius,
		Color:    rng.Uint32() & 0xffffff,
		Style:    PlanetStyle(rng.IntN(int(PlanetStyleCount))),
		Drift:    randSpread(rng, 0.054, 0.021, 0.054),
		Civ:      newCivilization(),
	}
}

// Position implements Positioned.
func (p *Planet) Position() mathx.Vec3 { return p.Pos }

// LandingRadius implements Landable.
func (p *Planet) LandingRadius() float64 { return p.Radius }

func (p *Planet) update() {
	p.Rotation += 0.0005
	p.Pos = p.Pos.Add(p.Drift)
}

// buildBase raises the station to at least level.
func (p *Planet) buildBase(level int) {
	p.HasBase = true
	p.BaseLevel = max(p.BaseLevel, min(level, MaxBaseLevel))
}

// stripBase removes the station and terraforming, as after a conquest.
func (p *Planet) stripBase() {
	p.HasBase = false
	p.BaseLevel = 0
	p.Terraformed = false
	p.Engineering.Atmosphere = false
}

// baseTier is the effective station tier, zero without a base.
func (p *Planet) baseTier() int {
	if !p.HasBase {
		return 0
	}
	return max(1, p.BaseLevel)
}

// detonationRadius is the reach of a controlled stellar detonation.
func (p *Planet) detonationRadius() float64 { return 320 + p.Radius*1.8 }

func (p *Planet) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}

// tooClose reports whether a planet of the given radius at pos would crowd an existing one.
func tooClose(pos mathx.Vec3, planets []*Planet, radius float64) bool {
	for _, p := range planets {
		if p.Pos.Dist(pos) < p.Radius+radius+50 {
			return true
		}
	}
	return false
}

func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randSpread returns a vector with each axis uniform in [-s/2, s/2).
func randSpread(rng *rand.Rand, sx, sy, sz float64) mathx.Vec3 {
	return mathx.V(
		(rng.Float64()-0.5)*sx,
		(rng.Float64()-0.5)*sy,
		(rng.Float64()-0.5)*sz,
	)
}

// randBox returns a vector with each axis uniform in [-h, h).
func randBox(rng *rand.Rand, hx, hy, hz float64) mathx.Vec3 {
	return randSpread(rng, 2*hx, 2*hy, 2*hz)
}
