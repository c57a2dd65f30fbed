package game

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

var testStart = time.Date(2031, 3, 14, 9, 0, 0, 0, time.UTC)

type visualRecorder struct {
	added   map[EntityID]VisualKind
	removed map[EntityID]int
}

func newVisualRecorder() *visualRecorder {
	return &visualRecorder{added: map[EntityID]VisualKind{}, removed: map[EntityID]int{}}
}

func (r *visualRecorder) AddVisual(id EntityID, kind VisualKind, _ mathx.Vec3) { r.added[id] = kind }
func (r *visualRecorder) RemoveVisual(id EntityID)                             { r.removed[id]++ }
func (r *visualRecorder) Explosion(mathx.Vec3, float64)                        {}
func (r *visualRecorder) Sparks(mathx.Vec3, float64)                           {}

func testDeps() Deps {
	return Deps{
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Seed:   42,
		Clock:  NewStepClock(testStart, FrameStep),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Bare:   true,
	}
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(testDeps())
}

func TestBlackHoleHorizonIsFatal(t *testing.T) {
	w := newTestWorld(t)
	w.addBlackHole(&BlackHole{Pos: w.Ship.Pos, Radius: 10})

	w.Update(Input{})

	if !w.GameOver || !w.DiedInHorizon || !w.EndedByDeath {
		t.Fatalf("game over=%v horizon=%v death=%v, want all true", w.GameOver, w.DiedInHorizon, w.EndedByDeath)
	}
	if w.Ship.Health <= 0 {
		t.Errorf("horizon death should bypass the hull, health = %f", w.Ship.Health)
	}
	if w.ResumeAllowed() {
		t.Error("resume allowed after death")
	}
}

func TestBlackHoleIgnoredWhileLanded(t *testing.T) {
	w := newTestWorld(t)
	p := &Planet{ID: "home", Pos: mathx.V(0, 0, 0), Radius: 50}
	w.addPlanet(p)
	w.Ship.Landed, w.Ship.LandedPlanet = true, p
	w.Ship.Pos = mathx.V(0, 55, 0)
	w.addBlackHole(&BlackHole{Pos: w.Ship.Pos, Radius: 10})

	if !w.updateEnvironment() {
		t.Fatal("landed ship fell into the black hole")
	}
}

func TestNebulaFirstMatchWins(t *testing.T) {
	w := newTestWorld(t)
	a := &Nebula{Pos: w.Ship.Pos, Radius: 500}
	b := &Nebula{Pos: w.Ship.Pos, Radius: 900}
	w.addNebula(a)
	w.addNebula(b)

	w.updateEnvironment()
	if w.InNebula != a {
		t.Fatalf("in nebula = %p, want first nebula %p", w.InNebula, a)
	}

	w.Ship.Pos = w.Ship.Pos.Add(mathx.V(5000, 0, 0))
	w.updateEnvironment()
	if w.InNebula != nil {
		t.Fatal("still fogged outside every nebula")
	}
}

func TestRockCollectedWithinRange(t *testing.T) {
	tests := []struct {
		name     string
		resource int
		want     int
	}{
		{"explicit yield", 17, 17},
		{"default yield", 0, defaultRockYield},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			rock := &Rock{Pos: w.Ship.Pos.Add(mathx.V(5, 0, 0)), Resource: tt.resource}
			far := &Rock{Pos: w.Ship.Pos.Add(mathx.V(400, 0, 0)), Resource: 3}
			f := &AsteroidField{Center: w.Ship.Pos, Radius: 500, Rocks: []*Rock{rock, far}}
			w.addField(f)

			w.updateResourceAttraction(w.Now())

			if w.Resources.Minerals != tt.want {
				t.Errorf("minerals = %d, want %d", w.Resources.Minerals, tt.want)
			}
			if len(f.Rocks) != 1 || f.Rocks[0] != far {
				t.Errorf("field has %d rocks, want only the distant one", len(f.Rocks))
			}
		})
	}
}

func TestDerelictSalvagedOnContact(t *testing.T) {
	w := newTestWorld(t)
	w.addDerelict(&Derelict{Pos: w.Ship.Pos.Add(mathx.V(0, 0, 10)), Salvage: 33})

	w.updateResourceAttraction(w.Now())

	if w.Resources.Salvage != 33 {
		t.Errorf("salvage = %d, want 33", w.Resources.Salvage)
	}
	if len(w.Derelicts) != 0 {
		t.Errorf("derelict not consumed")
	}
	if len(w.PowerUps) != 1 {
		t.Errorf("salvage should drop a pickup, got %d", len(w.PowerUps))
	}
}

func TestArtifactPickup(t *testing.T) {
	w := newTestWorld(t)
	w.addArtifact(&Artifact{Pos: w.Ship.Pos, baseY: w.Ship.Pos.Y, spawnedAt: w.Now()})

	w.updateArtifacts(w.Now())

	if w.Score != artifactScore || w.UpgradePoints != artifactUpgrade || w.ArtifactsCollected != 1 {
		t.Errorf("score=%d points=%d artifacts=%d", w.Score, w.UpgradePoints, w.ArtifactsCollected)
	}
	if len(w.Artifacts) != 0 {
		t.Error("artifact not removed")
	}
}

func TestVisualsRemovedExactlyOnce(t *testing.T) {
	rec := newVisualRecorder()
	d := testDeps()
	d.Renderer = rec
	w := NewWorld(d)

	w.addBullet(newBullet(w.Ship.Pos, mathx.V(0, 0, -1), 1, 5, FromPlayer))
	w.spawnEnemy(EnemyStandard, w.Ship.Pos.Add(mathx.V(300, 0, 0)))
	w.addField(newAsteroidField(w.rng, mathx.V(900, 0, 0), 100, 6))
	a, b := newGatePair("t", mathx.V(2000, 0, 0), mathx.V(-2000, 0, 0))
	w.addGatePair(a, b)

	w.removeBullet(0)
	w.removeGate(0)
	if b.Linked != nil {
		t.Error("surviving gate still linked to a culled partner")
	}

	w.Teardown()
	w.Teardown()

	if len(rec.added) == 0 {
		t.Fatal("nothing was tracked")
	}
	for id := range rec.added {
		if rec.removed[id] != 1 {
			t.Errorf("visual %d removed %d times", id, rec.removed[id])
		}
	}
	if w.VisualCount() != 0 {
		t.Errorf("%d visuals left after teardown", w.VisualCount())
	}
}

func TestPassiveIncome(t *testing.T) {
	w := newTestWorld(t)
	w.SatelliteTiers = SatelliteTiers{T1: 1, T2: 1, T3: 1}
	p := &Planet{ID: "d", Pos: mathx.V(5000, 0, 0), Radius: 40}
	p.Engineering.DysonSwarms = 2
	w.addPlanet(p)

	if got, want := w.passiveIncome(), 2+6+14+2*dysonIncomePerTier; got != want {
		t.Fatalf("income = %d, want %d", got, want)
	}
	w.updateIncome(testStart.Add(time.Second))
	if w.Score != 62 {
		t.Errorf("score after one second = %d, want 62", w.Score)
	}
}

func TestRestoreCheckpointLanded(t *testing.T) {
	w := newTestWorld(t)
	p := &Planet{ID: "PL-1", Pos: mathx.V(100, 0, 0), Radius: 40}
	w.ReplacePlanets([]*Planet{p})

	w.RestoreCheckpoint(mathx.V(100, 45, 0), mathx.V(3, 0, 0), true, "PL-1")
	if !w.Ship.Landed || w.Ship.LandedPlanet != p || !w.Ship.Vel.IsZero() {
		t.Fatalf("landed=%v planet=%v vel=%+v", w.Ship.Landed, w.Ship.LandedPlanet, w.Ship.Vel)
	}

	w.RestoreCheckpoint(mathx.V(0, 0, 0), mathx.V(1, 0, 0), true, "missing")
	if w.Ship.Landed {
		t.Error("landed on a planet that does not exist")
	}
}

func TestFinishRestoreClaimsBasedCivilizations(t *testing.T) {
	w := newTestWorld(t)
	p := &Planet{ID: "c", Pos: mathx.V(0, 0, -500), Radius: 40, HasBase: true, Civ: newCivilization()}
	p.Civ.Founded = true
	w.ReplacePlanets([]*Planet{p})
	w.Kills = 40
	w.Drones = DroneCounts{Combat: 2, Harvester: 1}

	w.FinishRestore()

	if p.Civ.Owner != OwnerPlayer {
		t.Errorf("owner = %q, want player", p.Civ.Owner)
	}
	if len(w.Helpers) != 3 {
		t.Errorf("helpers = %d, want 3 relaunched drones", len(w.Helpers))
	}
	if len(w.AICivs) == 0 {
		t.Error("rival empires not seeded")
	}
	for _, m := range w.Missions {
		m.update(w, w.Now())
		if m.Kind == MissionDestroy && m.Current != 0 {
			t.Errorf("destroy mission counted restored kills: %d", m.Current)
		}
	}
}

func TestFinishRestoreRearmsWeapon(t *testing.T) {
	w := newTestWorld(t)
	w.Upgrades[UpgradeWeapon] = 2
	w.Tech["kinetic_rails"] = true
	w.Tech["combat_ai"] = true
	base := w.Ship.Weapon

	w.FinishRestore()

	if w.Ship.Weapon.Damage != 31 {
		t.Errorf("damage = %f, want 31", w.Ship.Weapon.Damage)
	}
	if w.Ship.Weapon.Interval >= base.Interval || w.Ship.Weapon.Speed <= base.Speed {
		t.Errorf("combat uplink not applied: %+v", w.Ship.Weapon)
	}
}
