package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
)

// Civilization owners other than AI ids.
const (
	OwnerNeutral = "neutral"
	OwnerPlayer  = "player"
)

// Civilization is the record embedded in every planet. An unfounded
// civilization is always owned by OwnerNeutral.
type Civilization struct {
	Founded         bool
	Name            string
	Owner           string
	Government      string
	GovernmentLevel int
	LegalLevel      int
	EconomyTier     int
	CivScore        int
	Territories     int
	DefenseRating   float64
	Destroyed       bool
	AtWar           bool
	LastWarAt       time.Time
	WarEndsAt       time.Time
	LastWarWaveAt   time.Time
	Population      int
	Stability       float64 // 0..100
}

const defaultStability = 35

// Civilization development caps.
const (
	MaxGovernmentLevel = 3
	MaxLegalLevel      = 4
	MaxEconomyTier     = 4
)

func newCivilization() Civilization {
	return Civilization{
		Owner:         OwnerNeutral,
		Government:    "None",
		DefenseRating: 1,
		Stability:     defaultStability,
	}
}

// localPower is this planet's contribution to its owner's empire power.
func (c *Civilization) localPower() float64 {
	return float64(c.EconomyTier)*28 + float64(c.GovernmentLevel)*18 +
		float64(c.LegalLevel)*12 + c.Stability*0.9
}

// defenderPower is the strength this planet resists an assault with.
func (c *Civilization) defenderPower() float64 {
	rating := c.DefenseRating
	if rating <= 0 {
		rating = 1
	}
	return (float64(c.EconomyTier)*26 + float64(c.GovernmentLevel)*16 +
		float64(c.LegalLevel)*13 + c.Stability) * rating
}

// dropStability lowers stability by amount but not below floor; a record
// already at or under the floor still loses a point so a repelled assault
// always costs the defender something.
func (c *Civilization) dropStability(amount, floor float64) {
	switch {
	case c.Stability-amount >= floor:
		c.Stability -= amount
	case c.Stability > floor:
		c.Stability = floor
	default:
		c.Stability = math.Max(0, c.Stability-1)
	}
}

func (c *Civilization) raiseStability(amount float64) {
	c.Stability = math.Min(100, c.Stability+amount)
}

// AICiv is an autonomous rival empire.
type AICiv struct {
	ID         string
	Name       string
	Score      int
	Aggression float64 // chance per empire tick to assault a rival
}

var aiCivNames = []string{"Orion Combine", "Helix Dominion", "Crimson Accord", "Vega Syndicate"}

// AssaultOutcome is the result of one civilization attacking another.
type AssaultOutcome uint8

const (
	AssaultRepelled AssaultOutcome = iota
	AssaultClaimed
	AssaultConquered
)

func (o AssaultOutcome) String() string {
	switch o {
	case AssaultClaimed:
		return "claimed"
	case AssaultConquered:
		return "conquered"
	}
	return "repelled"
}

// ResolveAssault compares attacker and defender power under the given ratios.
// Conquest needs more than conquest x defender; a claim needs more than claim x defender.
func ResolveAssault(attacker, defender, conquest, claim float64, allowDestroy bool) AssaultOutcome {
	switch {
	case attacker > defender*conquest && allowDestroy:
		return AssaultConquered
	case attacker > defender*claim:
		return AssaultClaimed
	}
	return AssaultRepelled
}

// EmpirePower sums local power over every founded planet the owner holds.
func (w *World) EmpirePower(owner string) float64 {
	total := 0.0
	for _, p := range w.Planets {
		if p.Civ.Founded && p.Civ.Owner == owner {
			total += p.Civ.localPower()
		}
	}
	return total
}

// findRival returns the founded, living planet of another owner closest to origin.
func (w *World) findRival(owner string, origin *Planet) *Planet {
	var best *Planet
	bestDist := math.MaxFloat64
	for _, p := range w.Planets {
		c := &p.Civ
		if !c.Founded || c.Destroyed || c.Owner == owner {
			continue
		}
		if origin == nil {
			return p
		}
		if d := p.Pos.Dist(origin.Pos); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// resolveCivAssault rolls an assault by attacker against target and applies
// the result. It returns true when ownership changed.
func (w *World) resolveCivAssault(attacker string, target *Planet, force float64, allowDestroy bool) bool {
	if target == nil || !target.Civ.Founded {
		return false
	}
	power := w.EmpirePower(attacker) * (0.6 + w.rng.Float64()*0.8) * force
	outcome := ResolveAssault(power, target.Civ.defenderPower(), w.tuning.ConquestRatio, w.tuning.PartialClaimRatio, allowDestroy)
	prevOwner := target.Civ.Owner
	applyAssault(w.rng, target, attacker, outcome)

	if outcome == AssaultClaimed && prevOwner == OwnerPlayer && attacker != OwnerPlayer {
		w.notify.FloatingText("Your territory was claimed: "+target.Name, 2600*time.Millisecond)
		w.logEvent("Territory lost at " + target.Name)
	}
	return outcome != AssaultRepelled
}

// applyAssault writes an assault outcome into the target planet.
func applyAssault(rng *rand.Rand, target *Planet, attacker string, outcome AssaultOutcome) {
	c := &target.Civ
	switch outcome {
	case AssaultConquered:
		c.Destroyed = false
		c.Founded = true
		c.Owner = attacker
		if attacker == OwnerPlayer {
			c.Name = fmt.Sprintf("Player Scorched Province %d", 100+rng.IntN(900))
		} else {
			c.Name = strings.ToUpper(attacker) + " Occupied Zone"
		}
		target.stripBase()
		c.Stability = math.Max(10, c.Stability-25)
	case AssaultClaimed:
		c.Owner = attacker
		c.Founded = true
		c.Destroyed = false
		c.Stability = math.Max(28, c.Stability-8)
		c.CivScore = max(100, int(float64(c.CivScore)*0.9))
		if attacker == OwnerPlayer {
			c.Name = fmt.Sprintf("Player Protectorate %d", 100+rng.IntN(900))
		}
	default:
		c.dropStability(math.Ceil(4+rng.Float64()*7), 12)
	}
}

// ensureAICivilizations seeds rival empires once per session. Owners already
// present on restored planets are adopted instead of inventing new ones.
func (w *World) ensureAICivilizations() {
	if len(w.AICivs) > 0 {
		return
	}
	var existing []string
	for _, p := range w.Planets {
		o := p.Civ.Owner
		if strings.HasPrefix(o, "ai_") && !slices.Contains(existing, o) {
			existing = append(existing, o)
		}
	}
	if len(existing) > 0 {
		for i, id := range existing {
			w.AICivs = append(w.AICivs, AICiv{
				ID:         id,
				Name:       fmt.Sprintf("AI Civilization %d", i+1),
				Score:      1000 + w.rng.IntN(500),
				Aggression: 0.5 + w.rng.Float64()*0.25,
			})
		}
		return
	}

	for i, name := range aiCivNames[:3] {
		w.AICivs = append(w.AICivs, AICiv{
			ID:         fmt.Sprintf("ai_%d", i+1),
			Name:       name,
			Score:      1200 + w.rng.IntN(700),
			Aggression: 0.45 + w.rng.Float64()*0.35,
		})
	}

	var pool []*Planet
	for _, p := range w.Planets {
		if !p.Civ.Founded {
			pool = append(pool, p)
		}
	}
	w.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for i, ai := range w.AICivs {
		if i >= len(pool) {
			break
		}
		c := &pool[i].Civ
		c.Founded = true
		c.Name = ai.Name + " Prime"
		c.Owner = ai.ID
		c.Government = "Strategic Council"
		c.GovernmentLevel = 2
		c.LegalLevel = 1
		c.EconomyTier = 2
		c.CivScore = ai.Score
		c.Territories = 1
		c.DefenseRating = 1.2
		c.Population = 28000 + w.rng.IntN(18000)
		c.Stability = 62
	}
}

// updateCivilizations runs the per-frame civ pass and, on its interval, the
// empire tick: territory recount, AI expansion and assaults, and raids.
func (w *World) updateCivilizations(now time.Time) {
	if len(w.Planets) == 0 || w.Ship == nil {
		return
	}
	w.ensureAICivilizations()
	t := w.tuning

	for _, p := range w.Planets {
		c := &p.Civ
		if !c.Founded {
			continue
		}
		if c.AtWar && now.After(c.WarEndsAt) {
			c.AtWar = false
			c.raiseStability(10)
			w.logEvent("War campaign ended for " + c.Name)
		}
		if c.AtWar && w.Ship.Pos.Dist(p.Pos) < t.WarWaveRange && now.Sub(c.LastWarWaveAt) > t.WarWaveInterval {
			c.LastWarWaveAt = now
			size := 2 + min(4, int(float64(max(1, c.GovernmentLevel))*0.8))
			for range size {
				kind := EnemyStandard
				if w.rng.Float64() < 0.5 {
					kind = EnemySwarm
				}
				w.spawnEnemy(kind, p.Pos.Add(randBox(w.rng, 260, 110, 260)))
			}
			w.notify.FloatingText("Civilization war wave near "+p.Name, 1800*time.Millisecond)
		}
		if !c.AtWar {
			c.raiseStability(t.StabilityDrift)
		}
		c.DefenseRating = 1 + float64(c.GovernmentLevel)*0.08 + float64(c.LegalLevel)*0.06
	}

	if now.Sub(w.lastEmpireTick) < t.EmpireTickInterval {
		return
	}
	w.lastEmpireTick = now
	w.empireTick()
	w.aiRaid(now)
}

func (w *World) empireTick() {
	t := w.tuning
	var founded, neutral []*Planet
	owners := map[string]int{}
	for _, p := range w.Planets {
		switch {
		case p.Civ.Destroyed:
		case p.Civ.Founded:
			founded = append(founded, p)
			owners[p.Civ.Owner]++
		default:
			neutral = append(neutral, p)
		}
	}
	for _, p := range founded {
		p.Civ.Territories = max(1, owners[p.Civ.Owner])
	}

	for _, ai := range w.AICivs {
		if owners[ai.ID] < t.AIMaxTerritories && len(neutral) > 0 && w.rng.Float64() < t.AIExpandChance {
			i := w.rng.IntN(len(neutral))
			target := neutral[i]
			neutral = slices.Delete(neutral, i, i+1)
			c := &target.Civ
			c.Founded = true
			c.Owner = ai.ID
			c.Name = fmt.Sprintf("%s Colony %d", ai.Name, 10+w.rng.IntN(90))
			c.Government = "Strategic Council"
			c.GovernmentLevel = 1 + w.rng.IntN(2)
			c.LegalLevel = 1
			c.EconomyTier = 1
			c.CivScore = 600 + w.rng.IntN(400)
			c.Territories = 1
			c.Population = 9000 + w.rng.IntN(12000)
			c.Stability = 54
			owners[ai.ID]++
		}

		var targets []*Planet
		for _, p := range founded {
			if p.Civ.Owner != ai.ID {
				targets = append(targets, p)
			}
		}
		if len(targets) > 0 && w.rng.Float64() < ai.Aggression {
			target := targets[w.rng.IntN(len(targets))]
			if w.resolveCivAssault(ai.ID, target, 1.0, true) && w.rng.Float64() < 0.75 {
				w.logEvent(fmt.Sprintf("%s launched a successful assault near %s", ai.Name, target.Name))
			}
		}
	}
}

// ThreatTier is the monotonic raid difficulty for a session of the given age and score.
func ThreatTier(elapsed time.Duration, score int) int {
	minutes := math.Max(0, elapsed.Minutes())
	return min(10, int(minutes/2.2)+max(0, score)/1800)
}

// raidInterval is the quiet time between AI raids at a threat tier.
func raidInterval(tier int) time.Duration {
	return time.Duration(max(9000, 22000-tier*1200)) * time.Millisecond
}

func (w *World) aiRaid(now time.Time) {
	if len(w.AICivs) == 0 {
		return
	}
	tier := ThreatTier(now.Sub(w.startedAt), w.Score)
	interval := raidInterval(tier)
	chance := math.Min(0.9, 0.35+float64(tier)*0.05)
	if now.Sub(w.lastRaidAt) <= interval || w.rng.Float64() >= chance {
		return
	}
	w.lastRaidAt = now

	size := min(18, 2+int(float64(tier)*1.2)+w.rng.IntN(2+int(float64(tier)*0.6)))
	pool := []EnemyKind{EnemyStandard, EnemyFast}
	if tier >= 2 {
		pool = append(pool, EnemySwarm)
	}
	if tier >= 4 {
		pool = append(pool, EnemySniper)
	}
	if tier >= 6 {
		pool = append(pool, EnemyShielded)
	}
	if tier >= 8 {
		pool = append(pool, EnemyTank)
	}
	for range size {
		w.spawnEnemy(pool[w.rng.IntN(len(pool))], w.Ship.Pos.Add(randBox(w.rng, 240, 120, 240)))
	}
	w.notify.FloatingText(fmt.Sprintf("AI raid incoming (%d) - Threat %d", size, tier+1), 1700*time.Millisecond)
}

// LeaderRow is one entry of the galactic leaderboard.
type LeaderRow struct {
	ID          string
	Name        string
	Score       int
	Territories int
	IsPlayer    bool
}

// Leaderboard ranks the player against AI empires. AI score is the sum of
// its planets' civ scores plus 350 per territory.
func (w *World) Leaderboard() []LeaderRow {
	rows := []LeaderRow{{ID: OwnerPlayer, Name: "You", Score: max(0, w.Score), IsPlayer: true}}
	for _, p := range w.Planets {
		if p.Civ.Founded && p.Civ.Owner == OwnerPlayer {
			rows[0].Territories++
		}
	}
	for _, ai := range w.AICivs {
		row := LeaderRow{ID: ai.ID, Name: ai.Name}
		civScore := 0
		for _, p := range w.Planets {
			if p.Civ.Founded && p.Civ.Owner == ai.ID {
				row.Territories++
				civScore += p.Civ.CivScore
			}
		}
		row.Score = max(0, civScore+row.Territories*350)
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b LeaderRow) int { return b.Score - a.Score })
	return rows
}
