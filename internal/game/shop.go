package game

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// ShopResult is the advisory outcome of a purchase or action. A refused
// purchase costs nothing.
type ShopResult struct {
	OK      bool
	Message string
}

func refuse(msg string) ShopResult { return ShopResult{Message: msg} }

func accept(format string, args ...any) ShopResult {
	return ShopResult{OK: true, Message: fmt.Sprintf(format, args...)}
}

// ItemKind names a shop item. The string is also the purchase-counter key.
type ItemKind string

const (
	ItemAmmo            ItemKind = "ammo"
	ItemFuel            ItemKind = "fuel"
	ItemShield          ItemKind = "shield"
	ItemHealth          ItemKind = "health"
	ItemStage           ItemKind = "stage"
	ItemSatelliteT1     ItemKind = "satellite_t1"
	ItemSatelliteT2     ItemKind = "satellite_t2"
	ItemSatelliteT3     ItemKind = "satellite_t3"
	ItemDroneCombat     ItemKind = "drone_combat"
	ItemDroneHarvester  ItemKind = "drone_harvester"
	ItemFactionWar      ItemKind = "faction_war"
	ItemBase            ItemKind = "base"
	ItemBaseT2          ItemKind = "base_t2"
	ItemBaseT3          ItemKind = "base_t3"
	ItemBaseT4          ItemKind = "base_t4"
	ItemBaseRefuel      ItemKind = "base_refuel"
	ItemBaseCraft       ItemKind = "base_craft"
	ItemBaseTrade       ItemKind = "base_trade"
	ItemAtmosphere      ItemKind = "eng_atmosphere"
	ItemMoveMoon        ItemKind = "eng_move_moon"
	ItemArtificialRings ItemKind = "eng_artificial_rings"
	ItemDetonateStar    ItemKind = "eng_detonate_star"
	ItemDysonSwarm      ItemKind = "eng_dyson_swarm"
	ItemCivFound        ItemKind = "civ_found"
	ItemCivGovernment   ItemKind = "civ_government"
	ItemCivLegal        ItemKind = "civ_legal"
	ItemCivEconomy      ItemKind = "civ_economy"
	ItemCivWar          ItemKind = "civ_war"
	ItemCivInvasion     ItemKind = "civ_invasion"
)

// ShopItem is one catalogue entry.
type ShopItem struct {
	Kind   ItemKind
	Name   string
	Price  int
	Amount int
}

// Catalogue is every item the shops sell, in display order.
var Catalogue = []ShopItem{
	{ItemAmmo, "Ammo Pack", 50, 100},
	{ItemFuel, "Fuel Canister", 75, 50},
	{ItemShield, "Shield Module", 100, 100},
	{ItemHealth, "Health Repair", 150, 100},
	{ItemDroneCombat, "Combat Drone", 700, 0},
	{ItemDroneHarvester, "Harvester Drone", 900, 0},
	{ItemFactionWar, "Faction War Protocol", 1200, 0},
	{ItemStage, "Extra Rocket Stage", 500, 0},
	{ItemSatelliteT1, "Satellite T1", 800, 0},
	{ItemSatelliteT2, "Satellite T2", 1800, 0},
	{ItemSatelliteT3, "Satellite T3", 3200, 0},
	{ItemBase, "Form Base", 2000, 0},
	{ItemBaseRefuel, "Base Refuel Service", 300, 0},
	{ItemBaseCraft, "Base Crafting", 450, 0},
	{ItemBaseTrade, "Base Trading Contract", 600, 0},
	{ItemBaseT2, "Station Tier II", 1400, 0},
	{ItemBaseT3, "Station Tier III", 2600, 0},
	{ItemBaseT4, "Station Tier IV", 4200, 0},
	{ItemAtmosphere, "Terraform Atmosphere", 1200, 0},
	{ItemMoveMoon, "Move Moons", 1800, 0},
	{ItemArtificialRings, "Create Artificial Rings", 2200, 0},
	{ItemDetonateStar, "Detonate Star (Controlled)", 4500, 0},
	{ItemDysonSwarm, "Build Dyson Swarm", 5200, 0},
	{ItemCivFound, "Found Civilization", 1800, 0},
	{ItemCivGovernment, "Create Government", 1400, 0},
	{ItemCivLegal, "Design Legal System", 1200, 0},
	{ItemCivEconomy, "Build Economy", 1600, 0},
	{ItemCivWar, "Start War Campaign", 2000, 0},
	{ItemCivInvasion, "Launch Invasion Fleet", 2400, 0},
}

// FindItem looks an item up by kind.
func FindItem(kind ItemKind) (ShopItem, bool) {
	for _, it := range Catalogue {
		if it.Kind == kind {
			return it, true
		}
	}
	return ShopItem{}, false
}

var repeatHeavy = []ItemKind{
	ItemAmmo, ItemFuel, ItemShield, ItemHealth, ItemStage,
	ItemSatelliteT1, ItemSatelliteT2, ItemSatelliteT3,
	ItemDroneCombat, ItemDroneHarvester,
}

// Shop balance.
const (
	civWarCooldown  = 28 * time.Second
	civWarDuration  = 52 * time.Second
	minCraftSalvage = 10
)

var (
	civPrefixes = []string{"Nova", "Helio", "Astra", "Orion", "Lumen", "Vega", "Kepler"}
	civSuffixes = []string{"Union", "Collective", "Republic", "Dynasty", "Federation", "Order", "Dominion"}
	govTrack    = []string{"Transitional Council", "Technocracy", "Federal Senate", "Interstellar Commonwealth"}
)

// Price is the current cost of an item: repeat purchases and a growing
// score both inflate it.
func (w *World) Price(kind ItemKind) int {
	it, ok := FindItem(kind)
	if !ok {
		return 0
	}
	step := 0.14
	if slices.Contains(repeatHeavy, kind) {
		step = 0.22
	}
	own := 1 + float64(w.PurchaseCounts[string(kind)])*step
	economy := 1 + math.Min(0.35, float64(w.Score)/45000)
	return max(1, int(float64(it.Price)*own*economy))
}

// needsPlanet reports whether an item can only be bought while landed.
func needsPlanet(kind ItemKind) bool {
	switch kind {
	case ItemAmmo, ItemFuel, ItemShield, ItemHealth, ItemDroneCombat, ItemDroneHarvester, ItemFactionWar:
		return false
	}
	return true
}

func needsBase(kind ItemKind) bool {
	k := string(kind)
	return strings.HasPrefix(k, "base_") || strings.HasPrefix(k, "eng_") || strings.HasPrefix(k, "civ_")
}

// managesCiv reports whether the item acts on an existing player civilization.
func managesCiv(kind ItemKind) bool {
	switch kind {
	case ItemCivGovernment, ItemCivLegal, ItemCivEconomy, ItemCivWar, ItemCivInvasion:
		return true
	}
	return false
}

// precheck returns a refusal when kind cannot be bought right now.
func (w *World) precheck(kind ItemKind, p *Planet, now time.Time) (ShopResult, bool) {
	if needsPlanet(kind) && p == nil {
		return refuse("Land on a planet first"), false
	}
	if needsBase(kind) && !p.HasBase {
		return refuse("Build a base first"), false
	}
	switch kind {
	case ItemSatelliteT2:
		if w.SatelliteTiers.T1 < 1 {
			return refuse("Requires at least 1 Satellite T1"), false
		}
	case ItemSatelliteT3:
		if w.SatelliteTiers.T2 < 1 {
			return refuse("Requires at least 1 Satellite T2"), false
		}
	case ItemFactionWar:
		if w.FactionWarMode {
			return refuse("Faction War mode already active"), false
		}
	case ItemBase:
		if p.HasBase {
			return refuse("Base already established here."), false
		}
	case ItemBaseT2, ItemBaseT3, ItemBaseT4:
		tier := baseTierOf(kind)
		if p.BaseLevel != tier-1 {
			return refuse(fmt.Sprintf("Requires station tier %d", tier-1)), false
		}
	case ItemBaseCraft:
		if w.Resources.Salvage < minCraftSalvage {
			return refuse("Need 10 salvage to craft"), false
		}
	case ItemAtmosphere:
		if p.Terraformed {
			return refuse("Planet already terraformed"), false
		}
	case ItemMoveMoon:
		if p.Engineering.MovedMoons >= MaxMovedMoons {
			return refuse("Moon relocation is already maxed"), false
		}
	case ItemArtificialRings:
		if p.Engineering.ArtificialRings >= MaxArtificialRings {
			return refuse("Artificial rings are already maxed"), false
		}
	case ItemDetonateStar:
		if p.Engineering.StarDetonated {
			return refuse("Stellar detonation already completed"), false
		}
	case ItemDysonSwarm:
		if p.Engineering.DysonSwarms >= MaxDysonSwarms {
			return refuse("Dyson swarm is already max tier"), false
		}
	case ItemCivFound:
		if p.Civ.Founded {
			return refuse("Civilization already founded here"), false
		}
	}
	if managesCiv(kind) {
		c := &p.Civ
		switch {
		case !c.Founded:
			return refuse("Found a civilization first"), false
		case c.Owner != OwnerPlayer:
			return refuse("You can only manage player-owned civilizations"), false
		case kind == ItemCivGovernment && c.GovernmentLevel >= MaxGovernmentLevel:
			return refuse("Government already at max level"), false
		case kind == ItemCivLegal && c.LegalLevel >= MaxLegalLevel:
			return refuse("Legal system already at max tier"), false
		case kind == ItemCivEconomy && c.EconomyTier >= MaxEconomyTier:
			return refuse("Economy already at max tier"), false
		case kind == ItemCivWar && !c.LastWarAt.IsZero() && now.Sub(c.LastWarAt) < civWarCooldown:
			return refuse("War campaign is cooling down"), false
		case kind == ItemCivInvasion && w.findRival(OwnerPlayer, p) == nil:
			return refuse("No rival civilization available to invade"), false
		}
	}
	return ShopResult{}, true
}

func baseTierOf(kind ItemKind) int {
	switch kind {
	case ItemBaseT2:
		return 2
	case ItemBaseT3:
		return 3
	}
	return 4
}

// Purchase buys kind for score. Planet items act on the planet the ship is
// landed on.
func (w *World) Purchase(kind ItemKind) ShopResult {
	if w.Ship == nil {
		return refuse("No active game")
	}
	it, ok := FindItem(kind)
	if !ok {
		return refuse("Unknown item")
	}
	now := w.clock.Now()
	p := w.Ship.LandedPlanet
	if res, ok := w.precheck(kind, p, now); !ok {
		return res
	}
	cost := w.Price(kind)
	if w.Score < cost {
		return refuse("Not enough score!")
	}
	w.Score -= cost
	res := w.deliver(it, p, now)
	w.PurchaseCounts[string(kind)]++
	return res
}

// deliver applies a paid-for item.
func (w *World) deliver(it ShopItem, p *Planet, now time.Time) ShopResult {
	s := w.Ship
	switch it.Kind {
	case ItemAmmo:
		s.AddAmmo(it.Amount)
	case ItemFuel:
		s.RefillFuel(float64(it.Amount))
	case ItemShield:
		s.AddShield(float64(it.Amount))
	case ItemHealth:
		s.Repair(float64(it.Amount))
	case ItemStage:
		n := s.AddRocketStage(now)
		return accept("Stage installed. Total extra stages: %d", n)
	case ItemSatelliteT1, ItemSatelliteT2, ItemSatelliteT3:
		w.Satellites++
		switch it.Kind {
		case ItemSatelliteT1:
			w.SatelliteTiers.T1++
		case ItemSatelliteT2:
			w.SatelliteTiers.T2++
		default:
			w.SatelliteTiers.T3++
		}
		return accept("%s deployed: +%d score/sec", it.Name, satelliteIncome(it.Kind))
	case ItemDroneCombat:
		w.Drones.Combat++
		w.spawnHelper(HelperCombat, false)
	case ItemDroneHarvester:
		w.Drones.Harvester++
		w.spawnHelper(HelperHarvester, false)
	case ItemFactionWar:
		w.FactionWarMode = true
		w.lastFactionBot = now.Add(-9 * time.Second)
		w.spawnHelper(HelperFaction, true)
		return accept("Faction War protocol activated")
	case ItemBase:
		p.buildBase(1)
		w.UpgradePoints += 200
		return accept("Base established! Station online. +200 upgrade pts")
	case ItemBaseT2, ItemBaseT3, ItemBaseT4:
		tier := baseTierOf(it.Kind)
		p.buildBase(tier)
		w.UpgradePoints += 100 + tier*45
		return accept("Station upgraded to Tier %d", tier)
	case ItemBaseRefuel:
		s.Fuel = s.MaxFuel
		s.AddShield(25)
	case ItemBaseCraft:
		w.Resources.Salvage -= minCraftSalvage
		w.Resources.Minerals += 25
		s.AddAmmo(120)
		return accept("Crafted supplies: +25 minerals, +120 ammo")
	case ItemBaseTrade:
		payout := 250 + p.baseTier()*180 + w.rng.IntN(120)
		w.Score += payout
		return accept("Trade route returned +%d score", payout)
	case ItemAtmosphere:
		p.Terraformed = true
		p.Engineering.Atmosphere = true
		p.buildBase(max(2, p.BaseLevel+1))
		w.UpgradePoints += 150
		return accept("Atmosphere terraformed: base output increased")
	case ItemMoveMoon:
		p.Engineering.MovedMoons++
		s.MaxShield += 10
		s.AddShield(18)
	case ItemArtificialRings:
		p.Engineering.ArtificialRings = min(MaxArtificialRings, p.Engineering.ArtificialRings+1)
		s.MaxFuel += 10
	case ItemDetonateStar:
		p.Engineering.StarDetonated = true
		destroyed := w.detonateStar(p)
		payout := 1000 + destroyed*120
		w.Score += payout
		return accept("Stellar detonation: %d hostiles destroyed, +%d score", destroyed, payout)
	case ItemDysonSwarm:
		p.Engineering.DysonSwarms = min(MaxDysonSwarms, p.Engineering.DysonSwarms+1)
	case ItemCivFound:
		w.foundCivilization(p)
		return accept("Civilization founded: %s", p.Civ.Name)
	case ItemCivGovernment:
		c := &p.Civ
		c.GovernmentLevel = min(MaxGovernmentLevel, c.GovernmentLevel+1)
		c.Government = govTrack[c.GovernmentLevel]
		c.raiseStability(8)
		c.CivScore += 220
		w.UpgradePoints += 45
		w.logEvent(fmt.Sprintf("%s adopted %s", c.Name, c.Government))
		return accept("Government advanced: %s", c.Government)
	case ItemCivLegal:
		c := &p.Civ
		c.LegalLevel = min(MaxLegalLevel, c.LegalLevel+1)
		c.raiseStability(6)
		c.CivScore += 170
		s.MaxShield += 6
		s.AddShield(10)
		w.logEvent(fmt.Sprintf("%s legal system expanded to tier %d", c.Name, c.LegalLevel))
	case ItemCivEconomy:
		c := &p.Civ
		c.EconomyTier = min(MaxEconomyTier, c.EconomyTier+1)
		c.Population += 6000 + w.rng.IntN(5000)
		c.raiseStability(5)
		c.CivScore += 280
		w.Resources.Minerals += 20 * c.EconomyTier
		w.Resources.Salvage += 8 * c.EconomyTier
		w.logEvent(fmt.Sprintf("%s economy reached tier %d", c.Name, c.EconomyTier))
	case ItemCivWar:
		size := w.startWar(p, now)
		return accept("War campaign started: hostile wave x%d", size)
	case ItemCivInvasion:
		target := w.findRival(OwnerPlayer, p)
		if w.resolveCivAssault(OwnerPlayer, target, 1.2, true) {
			p.Civ.CivScore += 380
			w.logEvent(fmt.Sprintf("Invasion success: %s is now under player influence", target.Name))
			return accept("Invasion success at %s", target.Name)
		}
		p.Civ.Stability = math.Max(10, p.Civ.Stability-4)
		w.logEvent("Invasion failed near " + target.Name)
		return accept("Invasion repelled by %s", target.Name)
	}
	return accept("Purchased %s", it.Name)
}

func satelliteIncome(kind ItemKind) int {
	switch kind {
	case ItemSatelliteT2:
		return 6
	case ItemSatelliteT3:
		return 14
	}
	return 2
}

func (w *World) foundCivilization(p *Planet) {
	c := &p.Civ
	c.Founded = true
	c.Name = civPrefixes[w.rng.IntN(len(civPrefixes))] + " " + civSuffixes[w.rng.IntN(len(civSuffixes))]
	c.Owner = OwnerPlayer
	c.Government = govTrack[0]
	c.GovernmentLevel = 1
	c.LegalLevel = 1
	c.EconomyTier = 1
	c.CivScore = 900
	c.Territories = 1
	c.DefenseRating = 1.15
	c.Destroyed = false
	c.Population = 12000 + w.rng.IntN(18000)
	c.Stability = 58
	w.Score += 250
	w.UpgradePoints += 70
	w.logEvent(fmt.Sprintf("Civilization founded on %s: %s", p.Name, c.Name))
}

// startWar puts p's civilization at war and launches the opening wave.
func (w *World) startWar(p *Planet, now time.Time) int {
	c := &p.Civ
	c.AtWar = true
	c.LastWarAt = now
	c.WarEndsAt = now.Add(civWarDuration)
	c.LastWarWaveAt = time.Time{}
	size := 5 + max(1, c.GovernmentLevel)
	for range size {
		kind := EnemyStandard
		if w.rng.Float64() < 0.5 {
			kind = EnemyFast
		}
		w.spawnEnemy(kind, p.Pos.Add(randBox(w.rng, 220, 90, 220)))
	}
	c.Stability = math.Max(18, c.Stability-12)
	w.logEvent("War campaign launched by " + c.Name)
	return size
}

// detonateStar destroys every enemy inside the blast and returns the count.
func (w *World) detonateStar(p *Planet) int {
	r := p.detonationRadius()
	destroyed := 0
	for i := len(w.Enemies) - 1; i >= 0; i-- {
		e := w.Enemies[i]
		if e.Pos.Dist(p.Pos) <= r {
			w.removeEnemy(i)
			destroyed++
		}
	}
	w.render.Explosion(p.Pos, p.Radius*0.8)
	return destroyed
}

// SellMinerals converts minerals to score, 5 each or 5.2 in lots of 50 or
// more. A negative amount sells everything.
func (w *World) SellMinerals(amount int) ShopResult {
	if amount < 0 || amount > w.Resources.Minerals {
		amount = w.Resources.Minerals
	}
	if amount <= 0 {
		return refuse("No minerals to sell")
	}
	price := 5.0
	if amount >= 50 {
		price = 5.2
	}
	gained := int(float64(amount) * price)
	w.Resources.Minerals -= amount
	w.Score += gained
	return accept("Sold %d minerals for %d score", amount, gained)
}

// Recipe converts minerals and salvage into supplies.
type Recipe struct {
	ID       string
	Name     string
	Minerals int
	Salvage  int
}

// Recipes lists what can be crafted from cargo.
var Recipes = []Recipe{
	{"ammo_crate", "Ammo Crate", 20, 5},
	{"shield_battery", "Shield Battery", 25, 8},
	{"fuel_cells", "Fuel Cells", 18, 6},
	{"field_repair", "Field Repair Kit", 30, 10},
	{"rocket_stage", "Rocket Stage", 45, 16},
}

// Craft builds a recipe from cargo.
func (w *World) Craft(id string) ShopResult {
	if w.Ship == nil {
		return refuse("No active game")
	}
	i := slices.IndexFunc(Recipes, func(r Recipe) bool { return r.ID == id })
	if i < 0 {
		return refuse("Unknown recipe")
	}
	r := Recipes[i]
	if w.Resources.Minerals < r.Minerals || w.Resources.Salvage < r.Salvage {
		return refuse("Not enough resources")
	}
	w.Resources.Minerals -= r.Minerals
	w.Resources.Salvage -= r.Salvage
	s := w.Ship
	switch r.ID {
	case "ammo_crate":
		s.AddAmmo(250)
	case "shield_battery":
		s.AddShield(80)
	case "fuel_cells":
		s.RefillFuel(80)
	case "field_repair":
		s.Repair(60)
	case "rocket_stage":
		s.AddRocketStage(w.clock.Now())
	}
	w.sound.Play(SoundPickup)
	return accept("Crafted %s", r.Name)
}
