package game

import (
	"math"
	"slices"
	"time"
)

// UpgradeID identifies a permanent ship upgrade bought with upgrade points.
type UpgradeID uint8

const (
	UpgradeSpeed UpgradeID = iota
	UpgradeHealth
	UpgradeWeapon
	UpgradeFuel
	UpgradeRegen
	UpgradeCount // sentinel
)

type upgradeEntry struct {
	Key        string
	Name       string
	Max        int
	Cost       int
	Multiplier float64
}

var upgradeTable = [UpgradeCount]upgradeEntry{
	UpgradeSpeed:  {"speed", "Engine Boost", 5, 1000, 1.1},
	UpgradeHealth: {"health", "Armor Plating", 5, 1500, 1.15},
	UpgradeWeapon: {"weapon", "Weapon Damage", 5, 1750, 1.2},
	UpgradeFuel:   {"fuel", "Fuel Tank", 5, 500, 1.15},
	UpgradeRegen:  {"regen", "Shield Regen", 3, 750, 1.5},
}

// Key is the persisted name of the upgrade.
func (u UpgradeID) Key() string {
	if u < UpgradeCount {
		return upgradeTable[u].Key
	}
	return ""
}

// Max is the highest level the upgrade can reach.
func (u UpgradeID) Max() int {
	if u < UpgradeCount {
		return upgradeTable[u].Max
	}
	return 0
}

// ParseUpgrade maps a persisted key to an upgrade.
func ParseUpgrade(key string) (UpgradeID, bool) {
	for i, e := range upgradeTable {
		if e.Key == key {
			return UpgradeID(i), true
		}
	}
	return 0, false
}

// UpgradeCost is the price of the next level given the levels already owned.
func UpgradeCost(u UpgradeID, owned int) int {
	return int(float64(upgradeTable[u].Cost) * (1 + float64(owned)*0.4))
}

// BuyUpgrade spends upgrade points on the next level of u.
func (w *World) BuyUpgrade(u UpgradeID) ShopResult {
	if u >= UpgradeCount || w.Ship == nil {
		return refuse("Unknown upgrade")
	}
	e := upgradeTable[u]
	owned := w.Upgrades[u]
	if owned >= e.Max {
		return refuse("Upgrade already maxed")
	}
	cost := UpgradeCost(u, owned)
	if w.UpgradePoints < cost {
		return refuse("Not enough upgrade points")
	}
	w.UpgradePoints -= cost
	w.Upgrades[u] = owned + 1

	s := w.Ship
	switch u {
	case UpgradeSpeed:
		s.MaxSpeed *= e.Multiplier
	case UpgradeHealth:
		s.MaxHealth = math.Floor(s.MaxHealth * e.Multiplier)
	case UpgradeWeapon:
		s.Weapon.Damage = math.Floor(s.Weapon.Damage * e.Multiplier)
	case UpgradeFuel:
		s.MaxFuel *= e.Multiplier
	case UpgradeRegen:
		s.ShieldRegen *= e.Multiplier
	}
	w.sound.Play(SoundPickup)
	return accept("%s +%d", e.Name, owned+1)
}

// ModuleID identifies a one-off ship module.
type ModuleID string

type moduleEntry struct {
	ID       ModuleID
	Name     string
	Minerals int
	Score    int
}

var moduleTable = []moduleEntry{
	{"engine_mk1", "Engine Mk1", 30, 500},
	{"shield_mk1", "Shield Mk1", 40, 700},
	{"fuel_cells", "Fuel Cells", 45, 900},
	{"weapon_coil", "Weapon Coil", 55, 1200},
	{"ammo_rack", "Ammo Rack", 35, 850},
	{"repair_gel", "Repair Gel", 30, 1000},
	{"overthruster", "Overthruster", 60, 1400},
	{"sensor_lattice", "Sensor Lattice", 50, 1500},
}

func findModule(id ModuleID) (moduleEntry, bool) {
	for _, m := range moduleTable {
		if m.ID == id {
			return m, true
		}
	}
	return moduleEntry{}, false
}

// IsModule reports whether id names a module in the catalogue.
func IsModule(id ModuleID) bool {
	_, ok := findModule(id)
	return ok
}

// HasModule reports whether the module is installed.
func (w *World) HasModule(id ModuleID) bool {
	for _, m := range w.Modules {
		if m == id {
			return true
		}
	}
	return false
}

// BuyModule installs a module, paying in minerals when possible and score otherwise.
func (w *World) BuyModule(id ModuleID) ShopResult {
	m, ok := findModule(id)
	if !ok || w.Ship == nil {
		return refuse("Unknown module")
	}
	if w.HasModule(id) {
		return refuse("Module already installed")
	}
	switch {
	case w.Resources.Minerals >= m.Minerals:
		w.Resources.Minerals -= m.Minerals
	case w.Score >= m.Score:
		w.Score -= m.Score
	default:
		return refuse("Not enough resources")
	}
	w.Modules = append(w.Modules, id)
	w.applyModule(id)
	return accept("Module installed: %s", m.Name)
}

func (w *World) applyModule(id ModuleID) {
	s := w.Ship
	switch id {
	case "engine_mk1":
		s.Accel *= 1.08
	case "shield_mk1":
		s.MaxShield += 25
	case "fuel_cells":
		s.MaxFuel = math.Floor(s.MaxFuel * 1.15)
		s.FuelConsumption *= 0.92
	case "weapon_coil":
		s.Weapon.Damage = math.Floor(s.Weapon.Damage * 1.15)
	case "ammo_rack":
		s.AddAmmo(300)
	case "repair_gel":
		s.Repair(35)
	case "overthruster":
		s.MaxSpeed *= 1.12
	case "sensor_lattice":
		w.UpgradePoints += 35
	}
}

type techNode struct {
	ID   string
	Name string
	Cost int
	Tier int
	Req  string
}

var techTree = []techNode{
	{"boost", "Engine Boost", 100, 1, ""},
	{"hull_plating", "Hull Plating", 110, 1, ""},
	{"capacitor", "Shield Capacitor", 120, 1, ""},
	{"recycler", "Recycler Protocol", 90, 1, ""},
	{"afterburners", "Afterburners", 160, 2, "boost"},
	{"vector_thrusters", "Vector Thrusters", 170, 2, "boost"},
	{"reinforced_bulkheads", "Reinforced Bulkheads", 180, 2, "hull_plating"},
	{"adaptive_shields", "Adaptive Shields", 180, 2, "capacitor"},
	{"kinetic_rails", "Kinetic Rails", 190, 2, "boost"},
	{"resource_scanners", "Resource Scanners", 150, 2, "recycler"},
	{"ion_overdrive", "Ion Overdrive", 260, 3, "afterburners"},
	{"fortress_matrix", "Fortress Matrix", 260, 3, "reinforced_bulkheads"},
	{"nanorepair", "Nanorepair Gel", 250, 3, "adaptive_shields"},
	{"hypervelocity", "Hypervelocity Rounds", 270, 3, "kinetic_rails"},
	{"salvage_drones", "Salvage Drones", 240, 3, "resource_scanners"},
	{"combat_ai", "Combat AI Uplink", 290, 3, "vector_thrusters"},
}

// IsTech reports whether id names a node of the tech tree.
func IsTech(id string) bool {
	return slices.ContainsFunc(techTree, func(n techNode) bool { return n.ID == id })
}

const minFireInterval = 60 * time.Millisecond

// Research unlocks a tech node for upgrade points once its prerequisite is known.
func (w *World) Research(id string) ShopResult {
	var node *techNode
	for i := range techTree {
		if techTree[i].ID == id {
			node = &techTree[i]
			break
		}
	}
	if node == nil || w.Ship == nil {
		return refuse("Unknown tech")
	}
	if w.Tech[id] {
		return refuse("Already researched")
	}
	if node.Req != "" && !w.Tech[node.Req] {
		return refuse("Requires research first")
	}
	if w.UpgradePoints < node.Cost {
		return refuse("Not enough upgrade points")
	}
	w.UpgradePoints -= node.Cost
	w.Tech[id] = true
	w.applyTech(id)
	return accept("Researched: %s", node.Name)
}

func (w *World) applyTech(id string) {
	s := w.Ship
	switch id {
	case "boost":
		s.MaxSpeed *= 1.07
	case "hull_plating":
		s.MaxHealth = math.Floor(s.MaxHealth * 1.12)
		s.Repair(20)
	case "capacitor":
		s.MaxShield += 15
	case "recycler":
		w.Resources.Minerals += 25
	case "afterburners":
		s.Accel *= 1.12
	case "vector_thrusters":
		s.Accel *= 1.08
	case "reinforced_bulkheads":
		s.MaxHealth = math.Floor(s.MaxHealth * 1.14)
		s.Repair(25)
	case "adaptive_shields":
		s.ShieldRegen += 0.04
	case "kinetic_rails":
		s.Weapon.Damage = math.Floor(s.Weapon.Damage * 1.12)
	case "resource_scanners":
		w.Resources.Minerals += 40
	case "ion_overdrive":
		s.MaxSpeed *= 1.12
	case "fortress_matrix":
		s.MaxShield += 30
		s.AddShield(30)
	case "nanorepair":
		s.MaxHealth = math.Floor(s.MaxHealth * 1.1)
		s.Health = s.MaxHealth
	case "hypervelocity":
		s.Weapon.Interval = scaleInterval(s.Weapon.Interval, 0.86)
		s.Weapon.Damage = math.Floor(s.Weapon.Damage * 1.1)
	case "salvage_drones":
		w.Resources.Salvage += 45
	case "combat_ai":
		s.Weapon.Interval = scaleInterval(s.Weapon.Interval, 0.9)
		s.Weapon.Speed *= 1.15
	}
}

// scaleInterval shortens a weapon cooldown, truncating to whole milliseconds
// and never going below minFireInterval.
func scaleInterval(d time.Duration, f float64) time.Duration {
	ms := math.Floor(float64(d.Milliseconds()) * f)
	return max(minFireInterval, time.Duration(ms)*time.Millisecond)
}
