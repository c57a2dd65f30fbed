package game

import "fmt"

// WorkshopKind says which progression system a workshop row buys into.
type WorkshopKind uint8

const (
	WorkshopUpgrade WorkshopKind = iota
	WorkshopModule
	WorkshopTech
	WorkshopCraft
)

// WorkshopEntry is one row of the workshop page of the shop: upgrades and
// tech cost upgrade points, modules minerals or score, recipes cargo.
type WorkshopEntry struct {
	Kind  WorkshopKind
	ID    string
	Name  string
	Cost  string
	Owned bool
}

// Workshop lists every upgrade, module, tech node and recipe with its
// current cost.
func (w *World) Workshop() []WorkshopEntry {
	out := make([]WorkshopEntry, 0, int(UpgradeCount)+len(moduleTable)+len(techTree)+len(Recipes))
	for i, e := range upgradeTable {
		u := UpgradeID(i)
		lvl := w.Upgrades[u]
		row := WorkshopEntry{Kind: WorkshopUpgrade, ID: e.Key, Name: fmt.Sprintf("%s %d/%d", e.Name, lvl, e.Max)}
		if lvl >= e.Max {
			row.Cost, row.Owned = "max", true
		} else {
			row.Cost = fmt.Sprintf("%d up", UpgradeCost(u, lvl))
		}
		out = append(out, row)
	}
	for _, m := range moduleTable {
		row := WorkshopEntry{Kind: WorkshopModule, ID: string(m.ID), Name: m.Name, Cost: fmt.Sprintf("%dm|%d", m.Minerals, m.Score)}
		if w.HasModule(m.ID) {
			row.Cost, row.Owned = "fitted", true
		}
		out = append(out, row)
	}
	for _, n := range techTree {
		row := WorkshopEntry{Kind: WorkshopTech, ID: n.ID, Name: fmt.Sprintf("T%d %s", n.Tier, n.Name), Cost: fmt.Sprintf("%d up", n.Cost)}
		if w.Tech[n.ID] {
			row.Cost, row.Owned = "known", true
		}
		out = append(out, row)
	}
	for _, r := range Recipes {
		out = append(out, WorkshopEntry{Kind: WorkshopCraft, ID: r.ID, Name: "Craft " + r.Name, Cost: fmt.Sprintf("%dm %ds", r.Minerals, r.Salvage)})
	}
	return out
}

// BuyWorkshop hands a workshop row to the system that sells it.
func (w *World) BuyWorkshop(e WorkshopEntry) ShopResult {
	switch e.Kind {
	case WorkshopUpgrade:
		u, ok := ParseUpgrade(e.ID)
		if !ok {
			return refuse("Unknown upgrade")
		}
		return w.BuyUpgrade(u)
	case WorkshopModule:
		return w.BuyModule(ModuleID(e.ID))
	case WorkshopTech:
		return w.Research(e.ID)
	case WorkshopCraft:
		return w.Craft(e.ID)
	}
	return refuse("Unknown item")
}
