package game

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/spacehole-rogue/starwake/internal/mathx"
	"github.com/spacehole-rogue/starwake/internal/world"
)

// Frame pacing for the ambient cues and passive income.
const (
	incomeInterval    = time.Second
	engineHumInterval = 420 * time.Millisecond
	engineHumSpeed    = 0.8 // fraction of max speed
	ambientInterval   = 8 * time.Second
	hintInterval      = 1800 * time.Millisecond

	chestAmmo   = 80
	chestFuel   = 20
	chestShield = 25
)

// Deps wires a World to its collaborators. Nil collaborators are replaced
// with no-ops, a nil Clock with a StepClock at the wall time and a nil Rand
// with a PCG seeded from Seed.
type Deps struct {
	Tuning    Tuning
	Loadout   world.Loadout
	Rand      *rand.Rand
	Seed      uint32
	Clock     Clock
	Sound     Sound
	Renderer  Renderer
	Notifier  Notifier
	Persister Persister
	Logger    *slog.Logger

	// Bare skips the opening star systems and rival empires.
	Bare bool
}

// World owns every entity collection and runs the per-frame pipeline.
type World struct {
	Ship       *Ship
	Planets    []*Planet
	Enemies    []*Enemy
	Bullets    []*Bullet
	PowerUps   []*PowerUp
	Helpers    []*Helper
	Artifacts  []*Artifact
	Gates      []*JumpGate
	Nebulae    []*Nebula
	BlackHoles []*BlackHole
	Fields     []*AsteroidField
	Derelicts  []*Derelict
	Colossi    []*Colossal
	Mega       *MegaShip
	AICivs     []AICiv

	Score              int
	Kills              int
	PowerUpsCollected  int
	UpgradePoints      int
	Upgrades           [UpgradeCount]int
	Resources          Resources
	Modules            []ModuleID
	Tech               map[string]bool
	SatelliteTiers     SatelliteTiers
	Satellites         int
	FactionWarMode     bool
	Drones             DroneCounts
	PurchaseCounts     map[string]int
	ArtifactsCollected int

	Missions     []*Mission
	Achievements []*Achievement
	Journal      Journal

	ReturnBase *Planet
	InNebula   *Nebula
	Interior   *Colossal // colossal the ship is inside, if any
	Cosmic     *CosmicEvent
	ShopOpen   bool

	GameOver      bool
	EndedByDeath  bool
	DiedInHorizon bool

	tuning    Tuning
	rng       *rand.Rand
	seed      uint32
	clock     Clock
	sound     Sound
	render    Renderer
	notify    Notifier
	persister Persister
	log       *slog.Logger

	visuals     map[EntityID]VisualKind
	seenSectors map[mathx.Sector]bool
	landedOn    *Planet
	waveLine    mathx.Vec3

	bhGravityMul float64
	megaSpawned  bool
	alienWave    int
	counterWaves int

	startedAt       time.Time
	lastEmpireTick  time.Time
	lastRaidAt      time.Time
	lastFeatureTick time.Time
	lastFactionBot  time.Time
	lastCounterWave time.Time
	lastAlienWave   time.Time
	nextCosmicAt    time.Time
	lastIncomeAt    time.Time
	lastEngineHum   time.Time
	lastAmbient     time.Time
	lastRockClatter time.Time
	lastHintAt      time.Time
}

// NewWorld creates a session world with a fresh ship.
func NewWorld(d Deps) *World {
	if d.Clock == nil {
		d.Clock = NewStepClock(time.Now(), FrameStep)
	}
	if d.Seed == 0 {
		d.Seed = uint32(d.Clock.Now().UnixNano())
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(uint64(d.Seed), uint64(d.Seed)<<32|0x5eed))
	}
	if d.Tuning == (Tuning{}) {
		d.Tuning = DefaultTuning()
	}
	if d.Loadout.MaxSpeed <= 0 {
		d.Loadout = world.DefaultLoadout()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	w := &World{
		Tech:           map[string]bool{},
		PurchaseCounts: map[string]int{},
		tuning:         d.Tuning,
		rng:            d.Rand,
		seed:           d.Seed,
		clock:          d.Clock,
		sound:          orNop[Sound](d.Sound, nopSound{}),
		render:         orNop[Renderer](d.Renderer, nopRenderer{}),
		notify:         orNop[Notifier](d.Notifier, nopNotifier{}),
		persister:      orNop[Persister](d.Persister, nopPersister{}),
		log:            d.Logger.With("component", "world"),
		visuals:        map[EntityID]VisualKind{},
		seenSectors:    map[mathx.Sector]bool{},
		bhGravityMul:   1,
	}

	now := w.clock.Now()
	w.startedAt = now
	w.lastEmpireTick = now
	w.lastRaidAt = now
	w.lastFactionBot = now
	w.lastCounterWave = now
	w.lastAlienWave = now
	w.lastIncomeAt = now
	w.nextCosmicAt = now.Add(cosmicFirstDelay)

	w.Ship = NewShip(d.Loadout)
	w.waveLine = w.Ship.Pos
	if !d.Bare {
		w.generateInitialSystems(now)
		w.ensureAICivilizations()
	}
	w.generateMissions()
	w.Achievements = newAchievements(w)
	w.logEvent("Systems online. Ship launched.")
	w.log.Info("session started", "seed", d.Seed, "planets", len(w.Planets))
	return w
}

func orNop[T comparable](v, nop T) T {
	var zero T
	if v == zero {
		return nop
	}
	return v
}

// Tuning returns the balance constants in effect.
func (w *World) Tuning() Tuning { return w.tuning }

// Now returns the session clock's current time.
func (w *World) Now() time.Time { return w.clock.Now() }

// Elapsed is the simulated time since the session started.
func (w *World) Elapsed() time.Duration { return w.clock.Now().Sub(w.startedAt) }

// Update advances the world one frame.
func (w *World) Update(in Input) {
	if w.Ship == nil || w.GameOver {
		return
	}
	if c, ok := w.clock.(interface{ Step() }); ok {
		c.Step()
	}
	now := w.clock.Now()
	s := w.Ship

	// 1. ship physics and actions
	if n := s.expireStageBoosts(now); n > 0 {
		w.notify.FloatingText("Stage boost expired", 1200*time.Millisecond)
	}
	s.tick(in, w.Planets, w.tuning)
	w.handleActions(in, now)

	// 2. nebula fog, black hole gravity and the event horizon
	if !w.updateEnvironment() {
		return
	}

	// 3. hard maneuvers shake off latched enemies
	if s.Acceleration() > aggressiveAccel {
		w.detachEnemies()
	}

	// 4. passive entities and the sector spawner
	w.updatePlanets(now)
	for _, f := range w.Fields {
		f.update(w.rng, now)
	}
	w.spawnDynamicFeatures(now)

	// 5. colossal interiors
	w.updateColossi(now)

	// 6. jump gates and artifacts
	w.updateGates(now)
	w.updateArtifacts(now)

	// 7. cosmic events
	w.updateCosmicEvents(now)

	// 8. spawners
	w.updateFactionWar(now)
	w.updateAlienWaves(now)
	w.spawnDirectionalWaves()
	w.spawnEnemies()

	// 9. actors
	w.updateEnemies(now)
	w.updateHelpers()
	w.updateMegaShip(now)

	// 10-12. projectiles and pickups
	w.updateBullets()
	w.updatePowerUps(now)
	w.updateResourceAttraction(now)

	// 13. civilizations and passive income
	w.updateCivilizations(now)
	w.updateIncome(now)

	// 14. landing
	w.updateLanding(in)
	if !s.Landed {
		w.ShopOpen = false
	}
	w.updateAudioPulses(now)

	// 15. progression
	w.updateMissions(now)
	w.updateAchievements()
	w.convertScore()

	// 16. terminal check
	if s.Health <= 0 {
		w.endSession(false)
		return
	}
	w.persister.Autosave(w)
}

func (w *World) handleActions(in Input, now time.Time) {
	s := w.Ship
	if in.Fire {
		w.firePlayerWeapon(now)
	}
	if in.Reload {
		switch {
		case s.Reload():
			w.sound.Play(SoundPickup)
			w.notify.FloatingText(fmt.Sprintf("Reloaded +%d", s.ReloadAmount), 900*time.Millisecond)
		case s.ReloadCoolingDown():
			w.notify.FloatingText("Reload cooling down", 700*time.Millisecond)
		}
	}
	if in.Separate {
		if s.SeparateStage() {
			w.render.Sparks(s.Pos, 1.6)
			w.sound.Play(SoundSparks)
			w.notify.FloatingText("Stage separated!", 1200*time.Millisecond)
			w.logEvent("Rocket stage separated")
		} else {
			w.notify.FloatingText("No rocket stages to separate", 1200*time.Millisecond)
		}
	}
	if in.Interact {
		w.Interact()
	}
}

// updateEnvironment reports false when the ship fell into a black hole.
func (w *World) updateEnvironment() bool {
	s := w.Ship
	w.InNebula = nil
	for _, n := range w.Nebulae {
		if n.Contains(s.Pos) {
			w.InNebula = n
			break
		}
	}
	if s.Landed {
		return true
	}
	for _, b := range w.BlackHoles {
		s.Vel = s.Vel.Add(b.Pull(s.Pos, w.bhGravityMul))
		if b.InHorizon(s.Pos) {
			w.notify.FloatingText("Consumed by the event horizon", 3*time.Second)
			w.endSession(true)
			return false
		}
	}
	return true
}

// updatePlanets drifts every planet. A landed ship rides along with its planet.
func (w *World) updatePlanets(now time.Time) {
	s := w.Ship
	for _, p := range w.Planets {
		p.update()
		if s.Landed && s.LandedPlanet == p {
			s.Pos = s.Pos.Add(p.Drift)
		}
	}
	w.spawnPlanets(now)
}

func (w *World) updateColossi(now time.Time) {
	s := w.Ship
	hint := now.Sub(w.lastHintAt) > hintInterval
	if c := w.Interior; c != nil {
		c.constrain(s)
		if !hint {
			return
		}
		switch {
		case c.nearbyChest(s.Pos) != nil:
			w.hint(now, "Press E to open the chest")
		case c.nearExit(s.Pos):
			w.hint(now, "Press E to leave the derelict")
		}
		return
	}
	if !hint {
		return
	}
	for _, c := range w.Colossi {
		if c.nearPortal(s.Pos) {
			w.hint(now, "Press E to board "+c.ID)
			return
		}
	}
}

func (w *World) hint(now time.Time, msg string) {
	w.lastHintAt = now
	w.notify.FloatingText(msg, 1200*time.Millisecond)
}

// Interact is the context action: chests and portals around colossal
// derelicts, or the planet shop while landed.
func (w *World) Interact() {
	s := w.Ship
	if s == nil {
		return
	}
	if c := w.Interior; c != nil {
		if ch := c.nearbyChest(s.Pos); ch != nil {
			w.openChest(ch)
			return
		}
		if c.nearExit(s.Pos) {
			c.exit(s)
			w.Interior = nil
			w.notify.FloatingText("Exited colossal derelict", 1400*time.Millisecond)
			w.logEvent("Left colossal derelict " + c.ID)
			return
		}
		w.notify.FloatingText("No chest or exit nearby", 900*time.Millisecond)
		return
	}
	for _, c := range w.Colossi {
		if c.nearPortal(s.Pos) {
			c.enter(s)
			w.Interior = c
			w.sound.Play(SoundLanding)
			w.notify.FloatingText("Entered colossal derelict "+c.ID, 1600*time.Millisecond)
			w.logEvent("Boarded colossal derelict " + c.ID)
			return
		}
	}
	if s.Landed && s.LandedPlanet != nil {
		w.ShopOpen = !w.ShopOpen
		if w.ShopOpen {
			w.notify.FloatingText("Trading with "+s.LandedPlanet.Merchant, 1200*time.Millisecond)
		}
	}
}

func (w *World) openChest(ch *Chest) {
	ch.Opened = true
	r := ch.reward()
	w.Score += r.Score
	w.Resources.Minerals += r.Minerals
	w.Resources.Salvage += r.Salvage
	w.UpgradePoints += r.Upgrade
	w.Ship.AddAmmo(chestAmmo)
	w.Ship.RefillFuel(chestFuel)
	w.Ship.AddShield(chestShield)
	w.sound.Play(SoundPickup)
	w.notify.FloatingText(fmt.Sprintf("Chest opened: +%d score, +%d minerals", r.Score, r.Minerals), 1800*time.Millisecond)
	w.logEvent(fmt.Sprintf("Opened derelict chest (+%d salvage)", r.Salvage))
}

func (w *World) updateGates(now time.Time) {
	s := w.Ship
	if s.Landed || w.Interior != nil {
		return
	}
	for _, g := range w.Gates {
		if g.tryJump(s, now) {
			w.render.Sparks(s.Pos, 1.5)
			w.sound.Play(SoundSparks)
			w.notify.FloatingText("Jump gate transit", 1200*time.Millisecond)
			w.logEvent("Jumped through gate " + g.PairID)
			return
		}
	}
}

func (w *World) updateArtifacts(now time.Time) {
	for i := len(w.Artifacts) - 1; i >= 0; i-- {
		a := w.Artifacts[i]
		a.update(now)
		if a.Pos.Dist(w.Ship.Pos) >= artifactPickupRange {
			continue
		}
		w.Score += artifactScore
		w.UpgradePoints += artifactUpgrade
		w.ArtifactsCollected++
		w.sound.Play(SoundAchievement)
		w.notify.FloatingText(fmt.Sprintf("Artifact recovered! +%d score", artifactScore), 1800*time.Millisecond)
		w.logEvent("Recovered a rare artifact")
		w.removeArtifact(i)
	}
}

func (w *World) updateIncome(now time.Time) {
	if now.Sub(w.lastIncomeAt) < incomeInterval {
		return
	}
	w.lastIncomeAt = now
	w.Score += w.passiveIncome()
}

func (w *World) updateAudioPulses(now time.Time) {
	s := w.Ship
	if s.Thrusting && s.Speed() > s.MaxSpeed*engineHumSpeed && now.Sub(w.lastEngineHum) > engineHumInterval {
		w.lastEngineHum = now
		w.sound.Play(SoundEngineHum)
	}
	if now.Sub(w.lastAmbient) > ambientInterval {
		w.lastAmbient = now
		w.sound.Play(SoundAmbient)
	}
}

// endSession stops the simulation. horizon marks the black hole death,
// which skips the health check entirely.
func (w *World) endSession(horizon bool) {
	if w.GameOver {
		return
	}
	w.GameOver = true
	w.EndedByDeath = true
	w.DiedInHorizon = horizon
	w.ShopOpen = false
	w.render.Explosion(w.Ship.Pos, 3)
	w.sound.Play(SoundExplosion)
	cause := "hull destroyed"
	if horizon {
		cause = "event horizon"
	}
	w.logEvent("Ship lost: " + cause)
	w.log.Info("session ended", "cause", cause, "score", w.Score, "kills", w.Kills, "elapsed", w.Elapsed().Round(time.Second))
	w.persister.SaveNow(w)
}

// ResumeAllowed reports whether a snapshot taken now may restore the
// checkpoint on the next load.
func (w *World) ResumeAllowed() bool {
	return w.Ship != nil && !w.GameOver && !w.EndedByDeath && w.Ship.Health > 0
}

// entityIDs is process-wide so a renderer outliving one world never sees
// an id reused by the next.
var entityIDs atomic.Uint64

// track registers a visual and announces it to the renderer.
func (w *World) track(kind VisualKind, at mathx.Vec3) EntityID {
	id := EntityID(entityIDs.Add(1))
	w.visuals[id] = kind
	w.render.AddVisual(id, kind, at)
	return id
}

// untrack removes a visual. Unknown or already removed ids are ignored,
// so every visual is destroyed at most once.
func (w *World) untrack(id EntityID) {
	if _, ok := w.visuals[id]; !ok {
		return
	}
	delete(w.visuals, id)
	w.render.RemoveVisual(id)
}

// VisualCount is the number of live visuals.
func (w *World) VisualCount() int { return len(w.visuals) }

func (w *World) addPlanet(p *Planet) {
	p.id = w.track(VisualPlanet, p.Pos)
	w.Planets = append(w.Planets, p)
}

func (w *World) removePlanet(i int) {
	p := w.Planets[i]
	w.untrack(p.id)
	if w.landedOn == p {
		w.landedOn = nil
	}
	w.Planets = slices.Delete(w.Planets, i, i+1)
}

func (w *World) removeEnemy(i int) {
	w.untrack(w.Enemies[i].id)
	w.Enemies = slices.Delete(w.Enemies, i, i+1)
}

func (w *World) addBullet(b *Bullet) {
	b.id = w.track(VisualBullet, b.Pos)
	w.Bullets = append(w.Bullets, b)
}

func (w *World) removeBullet(i int) {
	w.untrack(w.Bullets[i].id)
	w.Bullets = slices.Delete(w.Bullets, i, i+1)
}

func (w *World) removePowerUp(i int) {
	w.untrack(w.PowerUps[i].id)
	w.PowerUps = slices.Delete(w.PowerUps, i, i+1)
}

func (w *World) removeHelper(i int) {
	w.untrack(w.Helpers[i].id)
	w.Helpers = slices.Delete(w.Helpers, i, i+1)
}

func (w *World) addArtifact(a *Artifact) {
	a.id = w.track(VisualArtifact, a.Pos)
	w.Artifacts = append(w.Artifacts, a)
}

func (w *World) removeArtifact(i int) {
	w.untrack(w.Artifacts[i].id)
	w.Artifacts = slices.Delete(w.Artifacts, i, i+1)
}

func (w *World) addGatePair(a, b *JumpGate) {
	a.id = w.track(VisualGate, a.Pos)
	b.id = w.track(VisualGate, b.Pos)
	w.Gates = append(w.Gates, a, b)
	w.logEvent("Discovered jump gate pair " + a.PairID)
}

// removeGate drops gate i and unlinks its partner.
func (w *World) removeGate(i int) {
	g := w.Gates[i]
	if g.Linked != nil {
		g.Linked.Linked = nil
	}
	w.untrack(g.id)
	w.Gates = slices.Delete(w.Gates, i, i+1)
}

func (w *World) addNebula(n *Nebula) {
	n.id = w.track(VisualNebula, n.Pos)
	w.Nebulae = append(w.Nebulae, n)
}

func (w *World) removeNebula(i int) {
	n := w.Nebulae[i]
	if w.InNebula == n {
		w.InNebula = nil
	}
	w.untrack(n.id)
	w.Nebulae = slices.Delete(w.Nebulae, i, i+1)
}

func (w *World) addBlackHole(b *BlackHole) {
	b.id = w.track(VisualBlackHole, b.Pos)
	w.BlackHoles = append(w.BlackHoles, b)
}

func (w *World) removeBlackHole(i int) {
	w.untrack(w.BlackHoles[i].id)
	w.BlackHoles = slices.Delete(w.BlackHoles, i, i+1)
}

func (w *World) addField(f *AsteroidField) {
	for _, r := range f.Rocks {
		r.id = w.track(VisualRock, r.Pos)
	}
	w.Fields = append(w.Fields, f)
}

func (w *World) removeField(i int) {
	for _, r := range w.Fields[i].Rocks {
		w.untrack(r.id)
	}
	w.Fields = slices.Delete(w.Fields, i, i+1)
}

func (w *World) removeRock(f *AsteroidField, i int) {
	w.untrack(f.Rocks[i].id)
	f.remove(i)
}

func (w *World) addDerelict(d *Derelict) {
	d.id = w.track(VisualDerelict, d.Pos)
	w.Derelicts = append(w.Derelicts, d)
}

func (w *World) removeDerelict(i int) {
	w.untrack(w.Derelicts[i].id)
	w.Derelicts = slices.Delete(w.Derelicts, i, i+1)
}

func (w *World) removeColossal(i int) {
	c := w.Colossi[i]
	if w.Interior == c {
		w.Interior = nil
	}
	w.untrack(c.id)
	w.Colossi = slices.Delete(w.Colossi, i, i+1)
}

// Teardown destroys every visual exactly once and empties all collections.
// The world is unusable afterwards.
func (w *World) Teardown() {
	for _, id := range slices.Sorted(maps.Keys(w.visuals)) {
		w.untrack(id)
	}
	w.Planets, w.Enemies, w.Bullets, w.PowerUps, w.Helpers = nil, nil, nil, nil, nil
	w.Artifacts, w.Gates, w.Nebulae, w.BlackHoles = nil, nil, nil, nil
	w.Fields, w.Derelicts, w.Colossi = nil, nil, nil
	w.Mega = nil
	w.ReturnBase, w.InNebula, w.Interior, w.landedOn = nil, nil, nil, nil
	w.GameOver = true
	w.log.Debug("world torn down")
}

// PlanetByID finds a planet by its persistent id.
func (w *World) PlanetByID(id string) *Planet {
	if id == "" {
		return nil
	}
	for _, p := range w.Planets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ReplacePlanets swaps the planet layout for a restored one.
func (w *World) ReplacePlanets(planets []*Planet) {
	for i := len(w.Planets) - 1; i >= 0; i-- {
		w.removePlanet(i)
	}
	w.ReturnBase = nil
	if w.Ship != nil && w.Ship.Landed {
		w.Ship.Landed = false
		w.Ship.LandedPlanet = nil
	}
	for _, p := range planets {
		if p != nil {
			w.addPlanet(p)
		}
	}
}

// SetReturnBase points the return trail at the planet with id, if present.
func (w *World) SetReturnBase(id string) { w.ReturnBase = w.PlanetByID(id) }

// RestoreCheckpoint puts the ship back where a snapshot left it. A landed
// checkpoint whose planet no longer exists resumes in flight.
func (w *World) RestoreCheckpoint(pos, vel mathx.Vec3, landed bool, landedID string) {
	s := w.Ship
	if s == nil {
		return
	}
	s.Pos, s.Vel = pos, vel
	s.Landed, s.LandedPlanet = false, nil
	w.landedOn = nil
	if !landed {
		return
	}
	if p := w.PlanetByID(landedID); p != nil {
		s.Landed, s.LandedPlanet = true, p
		s.Vel = mathx.Vec3{}
		w.landedOn = p
	}
}

// FinishRestore settles a world after a snapshot has been applied:
// founded civilizations with a base and no owner belong to the player,
// rival empires are seeded, bought drones relaunch, and missions and
// achievements restart from the restored totals.
func (w *World) FinishRestore() {
	for _, p := range w.Planets {
		c := &p.Civ
		if c.Founded && (c.Owner == "" || c.Owner == OwnerNeutral) && p.HasBase {
			c.Owner = OwnerPlayer
		}
	}
	if w.Tech == nil {
		w.Tech = map[string]bool{}
	}
	if w.PurchaseCounts == nil {
		w.PurchaseCounts = map[string]int{}
	}
	w.rearm()
	w.ensureAICivilizations()
	for range w.Drones.Combat {
		w.spawnHelper(HelperCombat, false)
	}
	for range w.Drones.Harvester {
		w.spawnHelper(HelperHarvester, false)
	}
	w.generateMissions()
	w.Achievements = newAchievements(w)
	w.log.Info("progress restored", "score", w.Score, "planets", len(w.Planets), "drones", w.Drones.Combat+w.Drones.Harvester)
}

// rearm reapplies owned weapon and shield-regen upgrades, modules and tech
// to the loadout ship. Neither is part of a snapshot.
func (w *World) rearm() {
	if w.Ship == nil {
		return
	}
	w.Ship.ShieldRegen = shipShieldRegen
	for range w.Upgrades[UpgradeRegen] {
		w.Ship.ShieldRegen *= upgradeTable[UpgradeRegen].Multiplier
	}
	if w.Tech["adaptive_shields"] {
		w.applyTech("adaptive_shields")
	}
	wp := &w.Ship.Weapon
	for range w.Upgrades[UpgradeWeapon] {
		wp.Damage = math.Floor(wp.Damage * upgradeTable[UpgradeWeapon].Multiplier)
	}
	if w.HasModule("weapon_coil") {
		w.applyModule("weapon_coil")
	}
	for _, id := range []string{"kinetic_rails", "hypervelocity", "combat_ai"} {
		if w.Tech[id] {
			w.applyTech(id)
		}
	}
}
