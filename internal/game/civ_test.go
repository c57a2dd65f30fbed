package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

func TestResolveAssaultThresholds(t *testing.T) {
	tests := []struct {
		name         string
		attacker     float64
		allowDestroy bool
		want         AssaultOutcome
	}{
		{"overwhelming", 200, true, AssaultConquered},
		{"overwhelming without destroy", 200, false, AssaultClaimed},
		{"edge over conquest", 171, true, AssaultConquered},
		{"between thresholds", 120, true, AssaultClaimed},
		{"just over claim", 96, true, AssaultClaimed},
		{"too weak", 90, true, AssaultRepelled},
		{"nothing", 0, true, AssaultRepelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAssault(tt.attacker, 100, 1.7, 0.95, tt.allowDestroy)
			if got != tt.want {
				t.Errorf("ResolveAssault(%v, 100) = %v, want %v", tt.attacker, got, tt.want)
			}
		})
	}
}

func foundedPlanet(id, owner string) *Planet {
	p := &Planet{ID: id, Name: id, Radius: 40, HasBase: true, BaseLevel: 2, Terraformed: true, Civ: newCivilization()}
	p.Civ.Founded = true
	p.Civ.Owner = owner
	p.Civ.Stability = 60
	p.Civ.CivScore = 1000
	return p
}

func TestApplyAssault(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	conquered := foundedPlanet("a", "ai_1")
	applyAssault(rng, conquered, OwnerPlayer, AssaultConquered)
	if conquered.Civ.Owner != OwnerPlayer || conquered.HasBase || conquered.Terraformed {
		t.Errorf("conquest: owner=%q base=%v terraformed=%v", conquered.Civ.Owner, conquered.HasBase, conquered.Terraformed)
	}
	if conquered.Civ.Stability != 35 {
		t.Errorf("conquest stability = %f, want 35", conquered.Civ.Stability)
	}

	claimed := foundedPlanet("b", "ai_1")
	applyAssault(rng, claimed, "ai_2", AssaultClaimed)
	if claimed.Civ.Owner != "ai_2" || !claimed.HasBase {
		t.Errorf("claim: owner=%q base=%v", claimed.Civ.Owner, claimed.HasBase)
	}

	for _, start := range []float64{60, 12, 5} {
		held := foundedPlanet("c", "ai_1")
		held.Civ.Stability = start
		applyAssault(rng, held, OwnerPlayer, AssaultRepelled)
		if held.Civ.Owner != "ai_1" {
			t.Errorf("repelled assault changed owner to %q", held.Civ.Owner)
		}
		if held.Civ.Stability >= start {
			t.Errorf("stability %f -> %f, want a drop", start, held.Civ.Stability)
		}
	}
}

func TestEmpirePowerSumsOwnedPlanets(t *testing.T) {
	w := newTestWorld(t)
	a := foundedPlanet("a", "ai_1")
	b := foundedPlanet("b", "ai_1")
	c := foundedPlanet("c", OwnerPlayer)
	for _, p := range []*Planet{a, b, c} {
		w.addPlanet(p)
	}
	if got, want := w.EmpirePower("ai_1"), a.Civ.localPower()*2; got != want {
		t.Errorf("power = %f, want %f", got, want)
	}
	if w.EmpirePower("nobody") != 0 {
		t.Error("unowned empire has power")
	}
}

func TestFindRivalNearest(t *testing.T) {
	w := newTestWorld(t)
	home := foundedPlanet("home", OwnerPlayer)
	near := foundedPlanet("near", "ai_1")
	near.Pos = mathx.V(100, 0, 0)
	far := foundedPlanet("far", "ai_2")
	far.Pos = mathx.V(900, 0, 0)
	gone := foundedPlanet("gone", "ai_3")
	gone.Pos = mathx.V(10, 0, 0)
	gone.Civ.Destroyed = true
	for _, p := range []*Planet{home, far, gone, near} {
		w.addPlanet(p)
	}
	if got := w.findRival(OwnerPlayer, home); got != near {
		t.Errorf("rival = %v, want near", got)
	}
}

func TestEnsureAICivilizationsOnce(t *testing.T) {
	w := newTestWorld(t)
	for i := range 5 {
		w.addPlanet(&Planet{ID: string(rune('a' + i)), Pos: mathx.V(float64(i)*300, 0, 0), Radius: 40, Civ: newCivilization()})
	}
	w.ensureAICivilizations()
	if len(w.AICivs) != 3 {
		t.Fatalf("ai civs = %d, want 3", len(w.AICivs))
	}
	owned := 0
	for _, p := range w.Planets {
		if p.Civ.Founded {
			owned++
		}
	}
	if owned != 3 {
		t.Errorf("seeded planets = %d, want 3", owned)
	}
	w.ensureAICivilizations()
	if len(w.AICivs) != 3 {
		t.Errorf("re-seeded: %d civs", len(w.AICivs))
	}
}

func TestThreatTierMonotonic(t *testing.T) {
	prev := 0
	for m := range 40 {
		tier := ThreatTier(time.Duration(m)*time.Minute, m*200)
		if tier < prev {
			t.Fatalf("tier dropped from %d to %d at minute %d", prev, tier, m)
		}
		prev = tier
	}
	if prev != 10 {
		t.Errorf("tier caps at %d, want 10", prev)
	}
}

func TestLeaderboard(t *testing.T) {
	w := newTestWorld(t)
	w.Score = 1500
	w.AICivs = []AICiv{{ID: "ai_1", Name: "Orion"}, {ID: "ai_2", Name: "Helix"}}
	a := foundedPlanet("a", "ai_1")
	a.Civ.CivScore = 2000
	w.addPlanet(a)
	w.addPlanet(foundedPlanet("b", OwnerPlayer))

	rows := w.Leaderboard()
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].ID != "ai_1" || rows[0].Score != 2350 {
		t.Errorf("leader = %+v, want ai_1 at 2350", rows[0])
	}
	if !rows[1].IsPlayer || rows[1].Territories != 1 {
		t.Errorf("second = %+v, want the player with one territory", rows[1])
	}
	if rows[2].Score != 0 {
		t.Errorf("empty empire scored %d", rows[2].Score)
	}
}

func TestWarEndsAfterDuration(t *testing.T) {
	w := newTestWorld(t)
	p := foundedPlanet("war", OwnerPlayer)
	p.Pos = mathx.V(20000, 0, 0)
	now := w.Now()
	p.Civ.AtWar = true
	p.Civ.WarEndsAt = now.Add(time.Second)
	w.addPlanet(p)
	w.AICivs = []AICiv{{ID: "ai_1", Name: "Orion"}}

	w.updateCivilizations(now)
	if !p.Civ.AtWar {
		t.Fatal("war ended early")
	}
	w.updateCivilizations(now.Add(2 * time.Second))
	if p.Civ.AtWar {
		t.Error("war did not end")
	}
}

func TestAIExpansionStopsAtTerritoryCap(t *testing.T) {
	for _, limit := range []int{1, 2, 4} {
		w := newTestWorld(t)
		w.tuning.AIExpandChance = 1
		w.tuning.AIMaxTerritories = limit
		w.AICivs = []AICiv{{ID: "ai_1", Name: "Orion Combine"}}
		for i := range 6 {
			w.addPlanet(&Planet{ID: fmt.Sprintf("n%d", i), Name: "Neutral", Radius: 40, Civ: newCivilization()})
		}

		for range 8 {
			w.empireTick()
		}

		owned := 0
		for _, p := range w.Planets {
			if p.Civ.Founded && p.Civ.Owner == "ai_1" {
				owned++
				if p.Civ.Stability != 54 || p.Civ.Government != "Strategic Council" {
					t.Errorf("colony %s = %+v", p.ID, p.Civ)
				}
			}
		}
		if owned != limit {
			t.Errorf("AIMaxTerritories=%d: ai owns %d planets", limit, owned)
		}
	}
}

func TestRaidIntervalShrinksWithThreat(t *testing.T) {
	tests := []struct {
		tier int
		want time.Duration
	}{
		{0, 22 * time.Second},
		{1, 20800 * time.Millisecond},
		{5, 16 * time.Second},
		{10, 10 * time.Second},
		{12, 9 * time.Second},
	}
	for _, tt := range tests {
		if got := raidInterval(tt.tier); got != tt.want {
			t.Errorf("raidInterval(%d) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestRaidWaitsForInterval(t *testing.T) {
	tests := []struct {
		name  string
		score int
		fires bool
	}{
		{"calm start holds fire", 0, false},
		{"top threat raids sooner", 18000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.AICivs = []AICiv{{ID: "ai_1", Name: "Orion Combine"}}
			w.Score = tt.score
			now := w.clock.Now()

			raided := false
			for range 50 {
				w.lastRaidAt = now.Add(-11 * time.Second)
				w.aiRaid(now)
				if len(w.Enemies) > 0 {
					raided = true
					break
				}
			}
			if raided != tt.fires {
				t.Fatalf("raided = %v after 11s at score %d", raided, tt.score)
			}
			if raided && (!w.lastRaidAt.Equal(now) || len(w.Enemies) < 2) {
				t.Errorf("raid of %d, last raid at %v", len(w.Enemies), w.lastRaidAt)
			}
		})
	}
}
