package game

import (
	"testing"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

func featureCount(w *World) int {
	return len(w.Nebulae) + len(w.Fields) + len(w.BlackHoles) + len(w.Derelicts) +
		len(w.Colossi) + len(w.Gates) + len(w.Artifacts)
}

func TestSectorsRollOnce(t *testing.T) {
	w := newTestWorld(t)
	tick := w.tuning.FeatureTickInterval
	now := w.clock.Now()
	start := w.Ship.Pos

	w.spawnDynamicFeatures(now)
	if len(w.seenSectors) != 27 {
		t.Fatalf("seen sectors = %d, want 27", len(w.seenSectors))
	}
	home := featureCount(w)
	if home == 0 {
		t.Fatal("27 sectors rolled no features")
	}

	twin := newTestWorld(t)
	twin.spawnDynamicFeatures(now)
	if featureCount(twin) != home {
		t.Errorf("same seed rolled %d features, want %d", featureCount(twin), home)
	}

	w.spawnDynamicFeatures(now.Add(tick))
	if len(w.seenSectors) != 27 || featureCount(w) != home {
		t.Errorf("revisit rolled again: sectors=%d features=%d, want 27/%d", len(w.seenSectors), featureCount(w), home)
	}

	w.Ship.Pos = start.Add(mathx.V(100_000, 0, 0))
	w.spawnDynamicFeatures(now.Add(2 * tick))
	if len(w.seenSectors) != 54 {
		t.Errorf("seen sectors after the jump = %d, want 54", len(w.seenSectors))
	}

	w.Ship.Pos = start
	w.spawnDynamicFeatures(now.Add(3 * tick))
	if n := featureCount(w); n != 0 {
		t.Errorf("home sectors repopulated: %d features", n)
	}
}

func TestCullFeaturesBeyondDistance(t *testing.T) {
	tests := []struct {
		name  string
		dist  float64
		place func(w *World, at mathx.Vec3)
		count func(w *World) int
		kept  bool
	}{
		{"nebula inside", 13_999, addTestNebula, countNebulae, true},
		{"nebula outside", 14_001, addTestNebula, countNebulae, false},
		{"black hole outside", 14_500, addTestBlackHole, countBlackHoles, false},
		{"gate keeps the longer leash", 16_000, addTestGates, countGates, true},
		{"gate past the longer leash", 16_900, addTestGates, countGates, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			tt.place(w, w.Ship.Pos.Add(mathx.V(tt.dist, 0, 0)))
			before := tt.count(w)

			w.cullFeatures()

			if kept := tt.count(w) == before; kept != tt.kept {
				t.Errorf("kept = %v at %v, want %v", kept, tt.dist, tt.kept)
			}
		})
	}
}

func addTestNebula(w *World, at mathx.Vec3)    { w.addNebula(&Nebula{Pos: at, Radius: 500}) }
func addTestBlackHole(w *World, at mathx.Vec3) { w.addBlackHole(&BlackHole{Pos: at, Radius: 200}) }
func addTestGates(w *World, at mathx.Vec3)     { w.addGatePair(newGatePair("JG-1", at, at)) }
func countNebulae(w *World) int                { return len(w.Nebulae) }
func countBlackHoles(w *World) int             { return len(w.BlackHoles) }
func countGates(w *World) int                  { return len(w.Gates) }

func TestFlareRaisesGravityUntilItEnds(t *testing.T) {
	w := newTestWorld(t)
	now := w.clock.Now()

	w.startCosmic(CosmicBlackHoleFlare, now)
	if w.bhGravityMul != 1.9 {
		t.Fatalf("gravity multiplier during flare = %v, want 1.9", w.bhGravityMul)
	}
	w.updateCosmicEvents(now.Add(cosmicDuration - time.Millisecond))
	if w.Cosmic == nil || w.bhGravityMul != 1.9 {
		t.Fatalf("flare ended early: %+v mul=%v", w.Cosmic, w.bhGravityMul)
	}
	w.updateCosmicEvents(now.Add(cosmicDuration))
	if w.Cosmic != nil || w.bhGravityMul != 1 {
		t.Errorf("after flare: event=%+v mul=%v", w.Cosmic, w.bhGravityMul)
	}
	if !w.nextCosmicAt.After(now.Add(cosmicDuration)) {
		t.Errorf("next event at %v overlaps the flare", w.nextCosmicAt)
	}
}

func TestSupernovaDamagesEnemiesInRange(t *testing.T) {
	w := newTestWorld(t)
	now := w.clock.Now()
	near := w.spawnEnemy(EnemyStandard, w.Ship.Pos.Add(mathx.V(300, 0, 0)))
	near.Health, near.Shield = 10, 0
	far := w.spawnEnemy(EnemyStandard, w.Ship.Pos.Add(mathx.V(900, 0, 0)))
	far.Health, far.Shield = 10, 0

	w.startCosmic(CosmicSupernova, now)
	for range 1000 {
		w.updateCosmicEvents(now)
		if w.Kills > 0 {
			break
		}
	}

	if w.Kills != 1 || len(w.Enemies) != 1 || w.Enemies[0] != far {
		t.Fatalf("kills=%d enemies=%d", w.Kills, len(w.Enemies))
	}
	if far.Health != 10 {
		t.Errorf("enemy outside %d took damage: health %v", supernovaRange, far.Health)
	}
}

func TestMaxEnemiesGrowsWithScore(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{-300, 5},
		{0, 5},
		{499, 5},
		{500, 6},
		{5000, 15},
	}
	for _, tt := range tests {
		w := newTestWorld(t)
		w.Score = tt.score
		if got := w.MaxEnemies(); got != tt.want {
			t.Errorf("MaxEnemies at score %d = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestAmbientSpawnerStopsAtCap(t *testing.T) {
	w := newTestWorld(t)
	w.Ship.Pos = mathx.Vec3{}

	for range 5000 {
		w.spawnEnemies()
	}

	if got, want := len(w.Enemies), w.MaxEnemies(); got != want {
		t.Errorf("enemies = %d, want the cap %d", got, want)
	}
}

func TestAlienWaveCadenceAndSize(t *testing.T) {
	tests := []struct {
		name  string
		score int
		prior int
		want  int
	}{
		{"first wave", 0, 0, 4},
		{"fifth wave", 0, 4, 6},
		{"score adds hostiles", 1800, 0, 6},
		{"size caps at sixteen", 20_000, 10, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.Score = tt.score
			w.alienWave = tt.prior
			now := w.clock.Now()

			w.updateAlienWaves(now.Add(alienWaveInterval - time.Millisecond))
			if len(w.Enemies) != 0 {
				t.Fatalf("wave before the interval: %d", len(w.Enemies))
			}
			w.updateAlienWaves(now.Add(alienWaveInterval))
			if len(w.Enemies) != tt.want || w.alienWave != tt.prior+1 {
				t.Errorf("wave %d size = %d, want %d", w.alienWave, len(w.Enemies), tt.want)
			}
		})
	}
}

func TestCounterWaveSize(t *testing.T) {
	tests := []struct {
		prior    int
		min, max int
	}{
		{0, 5, 7},
		{3, 8, 10},
		{6, 10, 10},
	}
	for _, tt := range tests {
		w := newTestWorld(t)
		w.FactionWarMode = true
		w.counterWaves = tt.prior
		now := w.clock.Now()

		w.updateFactionWar(now.Add(counterWaveInterval))
		if len(w.Enemies) != 0 {
			t.Fatalf("counter-wave at exactly the interval: %d", len(w.Enemies))
		}
		w.updateFactionWar(now.Add(counterWaveInterval + time.Millisecond))
		if n := len(w.Enemies); n < tt.min || n > tt.max {
			t.Errorf("counter-wave %d size = %d, want %d..%d", w.counterWaves, n, tt.min, tt.max)
		}
	}
}
