// Package persist saves and restores session progress: the snapshot schema,
// its codecs, a SQLite key-value store and the autosave loop.
package persist

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/spacehole-rogue/starwake/internal/game"
	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// Only planets this close to the ship are captured.
const captureRadius = 24000

// Restore limits.
const (
	minMaxFuel         = 50
	minMaxHealth       = 20
	minMaxAmmo         = 300
	defaultMaxAmmo     = 999
	minMaxSpeed        = 1
	minAcceleration    = 0.03
	minFuelConsumption = 0.01
	minPlanetRadius    = 10
	defaultRadius      = 50
	maxRestoredDrones  = 12
)

// Num is a snapshot number. It decodes numbers and numeric strings and
// turns anything else into NaN, which the restore path replaces with a
// default, so one bad field never fails the whole load.
type Num float64

// UnmarshalJSON accepts a number, a numeric string or null.
func (n *Num) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*n = Num(math.NaN())
		return nil
	}
	*n = toNum(v)
	return nil
}

// DecodeMsgpack accepts any msgpack value the same way UnmarshalJSON does.
func (n *Num) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	*n = toNum(v)
	return nil
}

func toNum(v any) Num {
	switch x := v.(type) {
	case float64:
		return Num(x)
	case float32:
		return Num(x)
	case int64:
		return Num(x)
	case int32:
		return Num(x)
	case int16:
		return Num(x)
	case int8:
		return Num(x)
	case uint64:
		return Num(x)
	case uint32:
		return Num(x)
	case uint16:
		return Num(x)
	case uint8:
		return Num(x)
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return Num(f)
		}
	}
	return Num(math.NaN())
}

// Vec is a persisted vector.
type Vec struct {
	X Num `json:"x"`
	Y Num `json:"y"`
	Z Num `json:"z"`
}

func vecOf(v mathx.Vec3) Vec { return Vec{Num(v.X), Num(v.Y), Num(v.Z)} }

func (v Vec) vec3() mathx.Vec3 {
	return mathx.V(finite(v.X, 0), finite(v.Y, 0), finite(v.Z, 0))
}

// Resources is the persisted cargo hold.
type Resources struct {
	Minerals Num `json:"minerals"`
	Salvage  Num `json:"salvage"`
}

// SatelliteTiers is the persisted constellation.
type SatelliteTiers struct {
	T1 Num `json:"t1"`
	T2 Num `json:"t2"`
	T3 Num `json:"t3"`
}

// DroneCounts is the persisted drone roster.
type DroneCounts struct {
	Combat    Num `json:"combat"`
	Harvester Num `json:"harvester"`
}

// AICiv is a persisted rival empire.
type AICiv struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Score      Num    `json:"score"`
	Aggression Num    `json:"aggression"`
}

// Engineering is a persisted megastructure record.
type Engineering struct {
	Atmosphere      bool `json:"atmosphere"`
	MovedMoons      Num  `json:"movedMoons"`
	ArtificialRings Num  `json:"artificialRings"`
	StarDetonated   bool `json:"starDetonated"`
	DysonSwarms     Num  `json:"dysonSwarms"`
}

// Civilization is a persisted planetary civilization.
type Civilization struct {
	Founded         bool   `json:"founded"`
	Name            string `json:"name"`
	Owner           string `json:"owner"`
	Government      string `json:"government"`
	GovernmentLevel Num    `json:"governmentLevel"`
	LegalLevel      Num    `json:"legalLevel"`
	EconomyTier     Num    `json:"economyTier"`
	CivScore        Num    `json:"civScore"`
	Territories     Num    `json:"territories"`
	DefenseRating   Num    `json:"defenseRating"`
	Destroyed       bool   `json:"destroyed"`
	AtWar           bool   `json:"atWar"`
	WarEndsAt       Num    `json:"warEndsAt"` // unix ms
	LastWarAt       Num    `json:"lastWarAt"` // unix ms
	Population      Num    `json:"population"`
	Stability       Num    `json:"stability"`
}

// Planet is a persisted planet.
type Planet struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Merchant    string       `json:"merchant"`
	Position    Vec          `json:"position"`
	Radius      Num          `json:"radius"`
	Color       Num          `json:"color"`
	Style       string       `json:"style"`
	Drift       Vec          `json:"drift"`
	Rotation    Num          `json:"rotation"`
	HasBase     bool         `json:"hasBase"`
	BaseLevel   Num          `json:"baseLevel"`
	Terraformed bool         `json:"terraformed"`
	Engineering Engineering  `json:"engineering"`
	Civ         Civilization `json:"civilization"`
}

// WorldState is the persisted planet layout.
type WorldState struct {
	Planets            []Planet `json:"planets"`
	ReturnBaseTargetID string   `json:"returnBaseTargetId"`
}

// Checkpoint is where the ship was when the snapshot was taken.
type Checkpoint struct {
	ShipPosition   Vec    `json:"shipPosition"`
	ShipVelocity   Vec    `json:"shipVelocity"`
	Landed         bool   `json:"landed"`
	LandedPlanetID string `json:"landedPlanetId"`
}

// Ship is the persisted ship stat block.
type Ship struct {
	MaxFuel         Num `json:"maxFuel"`
	Fuel            Num `json:"fuel"`
	MaxHealth       Num `json:"maxHealth"`
	Health          Num `json:"health"`
	MaxShield       Num `json:"maxShield"`
	ShieldHealth    Num `json:"shieldHealth"`
	Ammo            Num `json:"ammo"`
	MaxAmmo         Num `json:"maxAmmo"`
	MaxSpeed        Num `json:"maxSpeed"`
	Acceleration    Num `json:"acceleration"`
	FuelConsumption Num `json:"fuelConsumption"`
	ExtraStages     Num `json:"extraStages"`
}

// Snapshot is one saved session. Field names are the stored keys for both
// codecs.
type Snapshot struct {
	Score                   Num             `json:"score"`
	Kills                   Num             `json:"kills"`
	UpgradePoints           Num             `json:"upgradePoints"`
	Upgrades                map[string]Num  `json:"upgrades"`
	Resources               Resources       `json:"resources"`
	Modules                 []string        `json:"modules"`
	Tech                    map[string]bool `json:"tech"`
	SatelliteTiers          SatelliteTiers  `json:"satelliteTiers"`
	Satellites              Num             `json:"satellites"`
	FactionWarMode          bool            `json:"factionWarMode"`
	DroneCounts             DroneCounts     `json:"droneCounts"`
	PurchaseCounts          map[string]Num  `json:"purchaseCounts"`
	ArtifactsCollected      Num             `json:"artifactsCollected"`
	AICivilizations         []AICiv         `json:"aiCivilizations"`
	WorldState              WorldState      `json:"worldState"`
	Checkpoint              Checkpoint      `json:"checkpoint"`
	ResumeAllowed           bool            `json:"resumeAllowed"`
	LastSessionEndedByDeath bool            `json:"lastSessionEndedByDeath"`
	Ship                    Ship            `json:"ship"`
	SavedAt                 Num             `json:"savedAt"` // unix ms
}

// RestoresCheckpoint reports whether loading this snapshot puts the ship
// back where it was. A run that ended in death only carries progression.
func (s *Snapshot) RestoresCheckpoint() bool {
	return s.ResumeAllowed && !s.LastSessionEndedByDeath
}

// Capture records w. It returns false when there is no ship to record.
func Capture(w *game.World) (Snapshot, bool) {
	if w == nil || w.Ship == nil {
		return Snapshot{}, false
	}
	s := w.Ship
	tiers := w.SatelliteTiers
	snap := Snapshot{
		Score:                   Num(w.Score),
		Kills:                   Num(w.Kills),
		UpgradePoints:           Num(w.UpgradePoints),
		Upgrades:                make(map[string]Num, game.UpgradeCount),
		Resources:               Resources{Num(w.Resources.Minerals), Num(w.Resources.Salvage)},
		Tech:                    make(map[string]bool, len(w.Tech)),
		SatelliteTiers:          SatelliteTiers{Num(tiers.T1), Num(tiers.T2), Num(tiers.T3)},
		Satellites:              Num(w.Satellites),
		FactionWarMode:          w.FactionWarMode,
		DroneCounts:             DroneCounts{Num(w.Drones.Combat), Num(w.Drones.Harvester)},
		PurchaseCounts:          make(map[string]Num, len(w.PurchaseCounts)),
		ArtifactsCollected:      Num(w.ArtifactsCollected),
		Checkpoint:              Checkpoint{ShipPosition: vecOf(s.Pos), ShipVelocity: vecOf(s.Vel), Landed: s.Landed},
		ResumeAllowed:           w.ResumeAllowed(),
		LastSessionEndedByDeath: w.EndedByDeath,
		SavedAt:                 Num(w.Now().UnixMilli()),
	}
	snap.Ship = Ship{
		MaxFuel:         Num(s.MaxFuel),
		Fuel:            Num(s.Fuel),
		MaxHealth:       Num(s.MaxHealth),
		Health:          Num(s.Health),
		MaxShield:       Num(s.MaxShield),
		ShieldHealth:    Num(s.Shield),
		Ammo:            Num(s.Ammo),
		MaxAmmo:         Num(s.MaxAmmo),
		MaxSpeed:        Num(s.MaxSpeed),
		Acceleration:    Num(s.Accel),
		FuelConsumption: Num(s.FuelConsumption),
		ExtraStages:     Num(s.ExtraStages),
	}
	for u := game.UpgradeID(0); u < game.UpgradeCount; u++ {
		snap.Upgrades[u.Key()] = Num(w.Upgrades[u])
	}
	for _, m := range w.Modules {
		snap.Modules = append(snap.Modules, string(m))
	}
	for id, ok := range w.Tech {
		if ok {
			snap.Tech[id] = true
		}
	}
	for k, n := range w.PurchaseCounts {
		snap.PurchaseCounts[k] = Num(n)
	}
	for _, c := range w.AICivs {
		snap.AICivilizations = append(snap.AICivilizations, AICiv{c.ID, c.Name, Num(c.Score), Num(c.Aggression)})
	}
	if s.Landed && s.LandedPlanet != nil {
		snap.Checkpoint.LandedPlanetID = s.LandedPlanet.ID
	}
	if w.ReturnBase != nil {
		snap.WorldState.ReturnBaseTargetID = w.ReturnBase.ID
	}
	for _, p := range w.Planets {
		if p.Pos.Dist(s.Pos) <= captureRadius {
			snap.WorldState.Planets = append(snap.WorldState.Planets, capturePlanet(p))
		}
	}
	return snap, true
}

func capturePlanet(p *game.Planet) Planet {
	c := p.Civ
	return Planet{
		ID:          p.ID,
		Name:        p.Name,
		Merchant:    p.Merchant,
		Position:    vecOf(p.Pos),
		Radius:      Num(p.Radius),
		Color:       Num(p.Color),
		Style:       p.Style.String(),
		Drift:       vecOf(p.Drift),
		Rotation:    Num(p.Rotation),
		HasBase:     p.HasBase,
		BaseLevel:   Num(p.BaseLevel),
		Terraformed: p.Terraformed,
		Engineering: Engineering{
			Atmosphere:      p.Engineering.Atmosphere,
			MovedMoons:      Num(p.Engineering.MovedMoons),
			ArtificialRings: Num(p.Engineering.ArtificialRings),
			StarDetonated:   p.Engineering.StarDetonated,
			DysonSwarms:     Num(p.Engineering.DysonSwarms),
		},
		Civ: Civilization{
			Founded:         c.Founded,
			Name:            c.Name,
			Owner:           c.Owner,
			Government:      c.Government,
			GovernmentLevel: Num(c.GovernmentLevel),
			LegalLevel:      Num(c.LegalLevel),
			EconomyTier:     Num(c.EconomyTier),
			CivScore:        Num(c.CivScore),
			Territories:     Num(c.Territories),
			DefenseRating:   Num(c.DefenseRating),
			Destroyed:       c.Destroyed,
			AtWar:           c.AtWar,
			WarEndsAt:       unixMilli(c.WarEndsAt),
			LastWarAt:       unixMilli(c.LastWarAt),
			Population:      Num(c.Population),
			Stability:       Num(c.Stability),
		},
	}
}

func unixMilli(t time.Time) Num {
	if t.IsZero() {
		return 0
	}
	return Num(t.UnixMilli())
}

func timeOf(n Num) time.Time {
	ms := whole(n, 0)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms))
}

// Apply restores snap into w. Progression always carries over; the ship
// position and planet layout only when restoreCheckpoint is set. Every
// field is coerced into its legal range.
func Apply(w *game.World, snap *Snapshot, restoreCheckpoint bool) {
	if w == nil || w.Ship == nil || snap == nil {
		return
	}
	w.Score = whole(snap.Score, 0)
	w.Kills = whole(snap.Kills, 0)
	w.UpgradePoints = whole(snap.UpgradePoints, 0)
	for key, n := range snap.Upgrades {
		if u, ok := game.ParseUpgrade(key); ok {
			w.Upgrades[u] = min(whole(n, 0), u.Max())
		}
	}
	w.Resources = game.Resources{
		Minerals: whole(snap.Resources.Minerals, 0),
		Salvage:  whole(snap.Resources.Salvage, 0),
	}
	w.Modules = w.Modules[:0]
	for _, m := range snap.Modules {
		id := game.ModuleID(m)
		if game.IsModule(id) && !w.HasModule(id) {
			w.Modules = append(w.Modules, id)
		}
	}
	w.Tech = make(map[string]bool, len(snap.Tech))
	for id, ok := range snap.Tech {
		if ok && game.IsTech(id) {
			w.Tech[id] = true
		}
	}
	w.SatelliteTiers = game.SatelliteTiers{
		T1: whole(snap.SatelliteTiers.T1, 0),
		T2: whole(snap.SatelliteTiers.T2, 0),
		T3: whole(snap.SatelliteTiers.T3, 0),
	}
	w.Satellites = whole(snap.Satellites, 0)
	w.FactionWarMode = snap.FactionWarMode
	w.Drones = game.DroneCounts{
		Combat:    min(whole(snap.DroneCounts.Combat, 0), maxRestoredDrones),
		Harvester: min(whole(snap.DroneCounts.Harvester, 0), maxRestoredDrones),
	}
	w.PurchaseCounts = make(map[string]int, len(snap.PurchaseCounts))
	for k, n := range snap.PurchaseCounts {
		if v := whole(n, 0); k != "" && v > 0 {
			w.PurchaseCounts[k] = v
		}
	}
	w.ArtifactsCollected = whole(snap.ArtifactsCollected, 0)

	w.AICivs = w.AICivs[:0]
	for _, c := range snap.AICivilizations {
		if c.ID == "" {
			continue
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		w.AICivs = append(w.AICivs, game.AICiv{
			ID:         c.ID,
			Name:       name,
			Score:      whole(c.Score, 0),
			Aggression: mathx.Clamp(finite(c.Aggression, 0.3), 0, 1),
		})
	}

	applyShip(w.Ship, &snap.Ship, restoreCheckpoint)

	if restoreCheckpoint {
		planets := make([]*game.Planet, 0, len(snap.WorldState.Planets))
		seen := make(map[string]bool, len(snap.WorldState.Planets))
		for i := range snap.WorldState.Planets {
			ps := &snap.WorldState.Planets[i]
			if ps.ID == "" || seen[ps.ID] {
				continue
			}
			seen[ps.ID] = true
			planets = append(planets, restorePlanet(ps, w.Now()))
		}
		w.ReplacePlanets(planets)
		w.SetReturnBase(snap.WorldState.ReturnBaseTargetID)
		cp := snap.Checkpoint
		w.RestoreCheckpoint(cp.ShipPosition.vec3(), cp.ShipVelocity.vec3(), cp.Landed, cp.LandedPlanetID)
	}
	w.FinishRestore()
}

// applyShip restores the stat block. Without a checkpoint the ship launches
// with full tanks.
func applyShip(s *game.Ship, st *Ship, restoreCheckpoint bool) {
	s.MaxFuel = math.Max(minMaxFuel, valueOr(st.MaxFuel, s.MaxFuel))
	s.MaxHealth = math.Max(minMaxHealth, math.Floor(valueOr(st.MaxHealth, s.MaxHealth)))
	s.MaxShield = valueOr(st.MaxShield, s.MaxShield)
	s.MaxAmmo = max(minMaxAmmo, whole(st.MaxAmmo, defaultMaxAmmo))
	s.MaxSpeed = math.Max(minMaxSpeed, valueOr(st.MaxSpeed, s.MaxSpeed))
	s.Accel = math.Max(minAcceleration, valueOr(st.Acceleration, s.Accel))
	s.FuelConsumption = math.Max(minFuelConsumption, valueOr(st.FuelConsumption, s.FuelConsumption))
	s.ExtraStages = whole(st.ExtraStages, 0)

	if !restoreCheckpoint {
		s.Fuel, s.Health, s.Shield, s.Ammo = s.MaxFuel, s.MaxHealth, s.MaxShield, s.MaxAmmo
		return
	}
	s.Fuel = mathx.Clamp(valueOr(st.Fuel, s.MaxFuel), 0, s.MaxFuel)
	s.Health = mathx.Clamp(valueOr(st.Health, s.MaxHealth), 1, s.MaxHealth)
	s.Shield = mathx.Clamp(finite(st.ShieldHealth, 0), 0, s.MaxShield)
	s.Ammo = min(whole(st.Ammo, s.MaxAmmo), s.MaxAmmo)
}

func restorePlanet(ps *Planet, now time.Time) *game.Planet {
	name := ps.Name
	if name == "" {
		name = "Uncharted World"
	}
	merchant := ps.Merchant
	if merchant == "" {
		merchant = "Orbital Bazaar"
	}
	p := &game.Planet{
		ID:          ps.ID,
		Name:        name,
		Merchant:    merchant,
		Pos:         ps.Position.vec3(),
		Radius:      math.Max(minPlanetRadius, valueOr(ps.Radius, defaultRadius)),
		Color:       uint32(whole(ps.Color, 0x8899aa)) & 0xffffff,
		Style:       game.ParsePlanetStyle(ps.Style),
		Drift:       ps.Drift.vec3(),
		Rotation:    finite(ps.Rotation, 0),
		HasBase:     ps.HasBase,
		BaseLevel:   min(whole(ps.BaseLevel, 0), game.MaxBaseLevel),
		Terraformed: ps.Terraformed,
		Engineering: game.Engineering{
			Atmosphere:      ps.Engineering.Atmosphere,
			MovedMoons:      min(whole(ps.Engineering.MovedMoons, 0), game.MaxMovedMoons),
			ArtificialRings: min(whole(ps.Engineering.ArtificialRings, 0), game.MaxArtificialRings),
			StarDetonated:   ps.Engineering.StarDetonated,
			DysonSwarms:     min(whole(ps.Engineering.DysonSwarms, 0), game.MaxDysonSwarms),
		},
	}
	if p.HasBase && p.BaseLevel == 0 {
		p.BaseLevel = 1
	}
	if !p.HasBase {
		p.BaseLevel = 0
	}

	cs := &ps.Civ
	c := game.Civilization{
		Founded:         cs.Founded,
		Name:            cs.Name,
		Owner:           cs.Owner,
		Government:      cs.Government,
		GovernmentLevel: min(whole(cs.GovernmentLevel, 0), game.MaxGovernmentLevel),
		LegalLevel:      min(whole(cs.LegalLevel, 0), game.MaxLegalLevel),
		EconomyTier:     min(whole(cs.EconomyTier, 0), game.MaxEconomyTier),
		CivScore:        whole(cs.CivScore, 0),
		Territories:     whole(cs.Territories, 0),
		DefenseRating:   valueOr(cs.DefenseRating, 1),
		Destroyed:       cs.Destroyed,
		LastWarAt:       timeOf(cs.LastWarAt),
		Population:      whole(cs.Population, 0),
		Stability:       mathx.Clamp(valueOr(cs.Stability, 35), 0, 100),
	}
	if !c.Founded || c.Owner == "" {
		c.Owner = game.OwnerNeutral
	}
	if c.Government == "" {
		c.Government = "None"
	}
	if c.Founded && c.Name == "" {
		c.Name = name + " Civilization"
	}
	if ends := timeOf(cs.WarEndsAt); cs.AtWar && ends.After(now) {
		c.AtWar, c.WarEndsAt = true, ends
	}
	p.Civ = c
	return p
}

// whole is max(0, floor(n)), or def when that is zero or n is not a number.
func whole(n Num, def int) int {
	f := math.Floor(float64(n))
	if math.IsNaN(f) || f <= 0 {
		return def
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// valueOr is n when it is a positive finite number, otherwise def.
func valueOr(n Num, def float64) float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return def
	}
	return f
}

// finite is n unless it is NaN or infinite.
func finite(n Num, def float64) float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot(score=%d planets=%d checkpoint=%v)",
		whole(s.Score, 0), len(s.WorldState.Planets), s.RestoresCheckpoint())
}
