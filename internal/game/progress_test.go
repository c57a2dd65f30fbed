package game

import (
	"strings"
	"testing"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
)

func TestDestroyMissionTracksKills(t *testing.T) {
	w := newTestWorld(t)
	w.Kills = 12
	m := NewMission(w, MissionDestroy, 5)
	prev := 0
	for step := range 8 {
		if step%2 == 0 {
			w.Kills++
		}
		m.update(w, w.Now())
		if want := min(5, max(0, w.Kills-12)); !m.Completed && m.Current != want {
			t.Fatalf("step %d: current = %d, want %d", step, m.Current, want)
		}
		if m.Current < prev {
			t.Fatalf("progress fell from %d to %d", prev, m.Current)
		}
		prev = m.Current
	}
	if m.Completed {
		t.Errorf("completed with only 4 kills")
	}
	w.Kills++
	m.update(w, w.Now())
	if !m.Completed || m.Progress() != 100 {
		t.Errorf("completed=%v progress=%d", m.Completed, m.Progress())
	}
}

func TestMissionsRewardOnceAndRegenerate(t *testing.T) {
	w := newTestWorld(t)
	w.Missions = []*Mission{NewMission(w, MissionDestroy, 1), NewMission(w, MissionCollect, 1)}
	first := w.Missions[0]
	w.Kills++
	w.updateMissions(w.Now())
	if !first.Rewarded || w.UpgradePoints != first.Reward {
		t.Fatalf("rewarded=%v points=%d", first.Rewarded, w.UpgradePoints)
	}
	w.updateMissions(w.Now())
	if w.UpgradePoints != first.Reward {
		t.Errorf("mission paid twice: %d", w.UpgradePoints)
	}

	w.PowerUpsCollected++
	w.updateMissions(w.Now())
	if len(w.Missions) != 2 || w.Missions[0] == first {
		t.Errorf("board not regenerated after every mission completed")
	}
}

func TestSurviveMissionUsesClock(t *testing.T) {
	w := newTestWorld(t)
	m := NewMission(w, MissionSurvive, 30)
	m.update(w, w.Now().Add(29*time.Second))
	if m.Completed {
		t.Fatal("survived too early")
	}
	m.update(w, w.Now().Add(30*time.Second))
	if !m.Completed {
		t.Error("survive mission not completed")
	}
}

func TestAchievementsUnlockOnce(t *testing.T) {
	w := newTestWorld(t)
	w.ArtifactsCollected = 3
	w.updateAchievements()
	got := w.UpgradePoints
	if got < 320 {
		t.Fatalf("points = %d, relic hunter not paid", got)
	}
	w.updateAchievements()
	if w.UpgradePoints != got {
		t.Errorf("achievements paid twice: %d -> %d", got, w.UpgradePoints)
	}
}

func TestJournalThrottleAndCap(t *testing.T) {
	var j Journal
	now := testStart
	if !j.Add(now, "first") {
		t.Fatal("first entry dropped")
	}
	if j.Add(now.Add(50*time.Millisecond), "spam") {
		t.Error("entry inside the throttle window accepted")
	}
	if !j.Add(now.Add(200*time.Millisecond), "second") {
		t.Error("entry after the throttle window dropped")
	}
	if !strings.HasSuffix(j.Entries[0], "second") || !strings.HasPrefix(j.Entries[0], "[09:00] ") {
		t.Errorf("newest entry = %q", j.Entries[0])
	}
	for i := range 60 {
		j.Add(now.Add(time.Duration(i+1)*time.Second), "filler")
	}
	if len(j.Entries) != journalSize {
		t.Errorf("entries = %d, want %d", len(j.Entries), journalSize)
	}
	for _, line := range j.Lines(5, 12) {
		if len(line) > 12 {
			t.Errorf("wrapped line %q exceeds width", line)
		}
	}
}

func TestJumpGatePairIsSymmetric(t *testing.T) {
	a, b := newGatePair("g1", mathx.V(0, 0, 0), mathx.V(5000, 0, 0))
	s := newTestShip()
	now := testStart

	s.Pos = a.Pos
	s.Vel = mathx.V(10, 0, 0)
	if !a.tryJump(s, now) {
		t.Fatal("gate A did not fire")
	}
	if want := b.Pos.Add(gateExitOffset); s.Pos != want {
		t.Errorf("arrived at %+v, want %+v", s.Pos, want)
	}
	if s.Vel.X != 10*gateBrake {
		t.Errorf("velocity %+v not braked", s.Vel)
	}

	if b.tryJump(s, now.Add(time.Second)) {
		t.Fatal("gate B fired during the shared cooldown")
	}
	if b.Ready(now.Add(time.Second)) || a.Ready(now.Add(time.Second)) {
		t.Error("an end of the pair is ready during cooldown")
	}

	if !b.tryJump(s, now.Add(gateCooldown+time.Millisecond)) {
		t.Fatal("gate B did not fire after cooldown")
	}
	if want := a.Pos.Add(gateExitOffset); s.Pos != want {
		t.Errorf("returned to %+v, want %+v", s.Pos, want)
	}
}

func TestShopPreconditions(t *testing.T) {
	w := newTestWorld(t)

	if res := w.Purchase(ItemBase); res.OK || res.Message != "Land on a planet first" {
		t.Errorf("base in flight: %+v", res)
	}
	if res := w.Purchase(ItemAmmo); res.OK || res.Message != "Not enough score!" {
		t.Errorf("broke purchase: %+v", res)
	}
	if res := w.Purchase(ItemSatelliteT2); res.OK {
		t.Errorf("satellite tier 2 sold without a landing: %+v", res)
	}

	p := &Planet{ID: "shop", Name: "Market", Radius: 40, Civ: newCivilization()}
	w.addPlanet(p)
	w.Ship.Landed, w.Ship.LandedPlanet = true, p
	w.Score = 1_000_000

	if res := w.Purchase(ItemBaseT2); res.OK || res.Message != "Build a base first" {
		t.Errorf("station without base: %+v", res)
	}
	if res := w.Purchase(ItemBase); !res.OK || !p.HasBase {
		t.Fatalf("base purchase: %+v", res)
	}
	if res := w.Purchase(ItemBase); res.OK {
		t.Errorf("second base sold: %+v", res)
	}
	if res := w.Purchase(ItemCivGovernment); res.OK || res.Message != "Found a civilization first" {
		t.Errorf("government without civ: %+v", res)
	}
	if w.PurchaseCounts[string(ItemBase)] != 1 {
		t.Errorf("purchase count = %d", w.PurchaseCounts[string(ItemBase)])
	}
}

func TestBasePricesAtZeroScore(t *testing.T) {
	w := newTestWorld(t)
	for _, it := range Catalogue {
		if got := w.Price(it.Kind); got != it.Price {
			t.Errorf("%s: price %d, want %d", it.Kind, got, it.Price)
		}
	}
}

func TestSellMinerals(t *testing.T) {
	w := newTestWorld(t)
	if res := w.SellMinerals(-1); res.OK {
		t.Errorf("sold from an empty hold: %+v", res)
	}
	w.Resources.Minerals = 10
	if res := w.SellMinerals(-1); !res.OK || w.Score != 50 || w.Resources.Minerals != 0 {
		t.Errorf("sell all: %+v score=%d", res, w.Score)
	}
}

func TestUpgradeCostCurveAndMax(t *testing.T) {
	w := newTestWorld(t)
	w.UpgradePoints = 10_000
	for level, want := range []int{750, 1050, 1350} {
		if got := UpgradeCost(UpgradeRegen, level); got != want {
			t.Errorf("cost at level %d = %d, want %d", level, got, want)
		}
		before := w.UpgradePoints
		if res := w.BuyUpgrade(UpgradeRegen); !res.OK {
			t.Fatalf("level %d refused: %+v", level+1, res)
		}
		if spent := before - w.UpgradePoints; spent != want {
			t.Errorf("level %d spent %d, want %d", level+1, spent, want)
		}
	}
	before := w.UpgradePoints
	if res := w.BuyUpgrade(UpgradeRegen); res.OK || res.Message != "Upgrade already maxed" {
		t.Errorf("fourth regen level: %+v", res)
	}
	if w.UpgradePoints != before || w.Upgrades[UpgradeRegen] != 3 {
		t.Errorf("points=%d level=%d after refusal", w.UpgradePoints, w.Upgrades[UpgradeRegen])
	}
	if got := UpgradeCost(UpgradeWeapon, 4); got != 4550 {
		t.Errorf("weapon level 5 cost = %d, want 4550", got)
	}
}

func TestModulePaysMineralsThenScore(t *testing.T) {
	w := newTestWorld(t)
	w.Resources.Minerals = 30
	w.Score = 1000

	if res := w.BuyModule("engine_mk1"); !res.OK || w.Resources.Minerals != 0 || w.Score != 1000 {
		t.Fatalf("mineral payment: %+v minerals=%d score=%d", res, w.Resources.Minerals, w.Score)
	}
	if res := w.BuyModule("shield_mk1"); !res.OK || w.Score != 300 {
		t.Fatalf("score payment: %+v score=%d", res, w.Score)
	}
	if res := w.BuyModule("fuel_cells"); res.OK || res.Message != "Not enough resources" {
		t.Errorf("unaffordable module: %+v", res)
	}
	if res := w.BuyModule("engine_mk1"); res.OK || res.Message != "Module already installed" {
		t.Errorf("duplicate module: %+v", res)
	}
	if len(w.Modules) != 2 {
		t.Errorf("modules = %v", w.Modules)
	}
}

func TestResearchNeedsPrerequisite(t *testing.T) {
	w := newTestWorld(t)
	w.UpgradePoints = 500

	if res := w.Research("adaptive_shields"); res.OK || res.Message != "Requires research first" {
		t.Errorf("tier 2 without capacitor: %+v", res)
	}
	if w.UpgradePoints != 500 || w.Tech["adaptive_shields"] {
		t.Fatalf("refusal charged %d points", 500-w.UpgradePoints)
	}
	if res := w.Research("capacitor"); !res.OK {
		t.Fatalf("capacitor: %+v", res)
	}
	if res := w.Research("adaptive_shields"); !res.OK || w.UpgradePoints != 500-120-180 {
		t.Errorf("adaptive shields: %+v points=%d", res, w.UpgradePoints)
	}
	if res := w.Research("capacitor"); res.OK {
		t.Errorf("researched twice: %+v", res)
	}
}

func TestCraftDeductsCargo(t *testing.T) {
	w := newTestWorld(t)
	w.Resources = Resources{Minerals: 25, Salvage: 10}

	if res := w.Craft("ammo_crate"); !res.OK {
		t.Fatalf("craft: %+v", res)
	}
	if w.Resources != (Resources{Minerals: 5, Salvage: 5}) {
		t.Errorf("cargo after craft = %+v", w.Resources)
	}
	if res := w.Craft("field_repair"); res.OK || res.Message != "Not enough resources" {
		t.Errorf("short craft: %+v", res)
	}
	if w.Resources != (Resources{Minerals: 5, Salvage: 5}) {
		t.Errorf("refused craft touched cargo: %+v", w.Resources)
	}
}

func TestWorkshopRoutesEachKind(t *testing.T) {
	w := newTestWorld(t)
	w.UpgradePoints = 5000
	w.Resources = Resources{Minerals: 200, Salvage: 50}

	rows := w.Workshop()
	if want := int(UpgradeCount) + len(moduleTable) + len(techTree) + len(Recipes); len(rows) != want {
		t.Fatalf("rows = %d, want %d", len(rows), want)
	}
	bought := map[WorkshopKind]bool{}
	for _, e := range rows {
		if bought[e.Kind] {
			continue
		}
		if res := w.BuyWorkshop(e); !res.OK {
			t.Errorf("%s: %+v", e.ID, res)
		}
		bought[e.Kind] = true
	}
	if w.Upgrades[UpgradeSpeed] != 1 || !w.HasModule("engine_mk1") || !w.Tech["boost"] {
		t.Errorf("upgrades=%v modules=%v tech=%v", w.Upgrades, w.Modules, w.Tech)
	}
	if w.Resources.Salvage != 50-5 {
		t.Errorf("salvage = %d, want the ammo crate taken", w.Resources.Salvage)
	}
	for _, e := range w.Workshop() {
		if e.ID == "boost" && (!e.Owned || e.Cost != "known") {
			t.Errorf("researched row = %+v", e)
		}
	}
	if res := w.BuyWorkshop(WorkshopEntry{Kind: WorkshopUpgrade, ID: "warp"}); res.OK {
		t.Errorf("unknown upgrade sold: %+v", res)
	}
}
