package game

import (
	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// HelperRole selects a helper bot's behavior.
type HelperRole uint8

const (
	HelperCombat HelperRole = iota
	HelperHarvester
	HelperFaction
)

func (r HelperRole) String() string {
	switch r {
	case HelperHarvester:
		return "harvester"
	case HelperFaction:
		return "faction"
	}
	return "combat"
}

// Helper bot tuning.
const (
	helperHitRadius      = 3.4
	helperEngageRange    = 900
	helperAttackRange    = 360
	helperRockSeekRange  = 700
	helperRockCollect    = 8
	helperDerelictSalv   = 12
	helperRockYield      = 0.8
	helperDerelictYield  = 0.75
	helperFactionDamage  = 16
	helperCombatDamage   = 12
	helperFactionCool    = 20
	helperCombatCool     = 26
	helperRockCooldown   = 45
	helperSalvageCoolDur = 60
	maxFactionHelpers    = 5
)

// Helper is an allied drone: an escort, a harvester or a faction patrol.
type Helper struct {
	id EntityID

	Role      HelperRole
	Allied    bool // spawned by faction war rather than bought
	Pos       mathx.Vec3
	Vel       mathx.Vec3
	Health    float64
	MaxHealth float64

	attackCooldown  int
	collectCooldown int
}

func newHelper(role HelperRole, pos mathx.Vec3, allied bool) *Helper {
	hp := 110.0
	if role == HelperFaction {
		hp = 140
	}
	return &Helper{Role: role, Allied: allied, Pos: pos, Health: hp, MaxHealth: hp}
}

// Position implements Positioned.
func (h *Helper) Position() mathx.Vec3 { return h.Pos }

// HitRadius implements Target.
func (h *Helper) HitRadius() float64 { return helperHitRadius }

// TakeDamage implements Target.
func (h *Helper) TakeDamage(amount float64) {
	if amount > 0 {
		h.Health -= amount
	}
}

func (h *Helper) cruiseSpeed() float64 {
	if h.Role == HelperHarvester {
		return 1.8
	}
	return 2.2
}

// steer eases velocity toward desired and moves the bot.
func (h *Helper) steer(desired mathx.Vec3) {
	if desired.Len() > 0.001 {
		h.Vel = h.Vel.Lerp(desired.Normalize().Scale(h.cruiseSpeed()), 0.08)
	} else {
		h.Vel = h.Vel.Scale(0.95)
	}
	h.Pos = h.Pos.Add(h.Vel)
}

func (h *Helper) tickCooldowns() {
	h.attackCooldown = max(0, h.attackCooldown-1)
	h.collectCooldown = max(0, h.collectCooldown-1)
}

func (h *Helper) fights() bool { return h.Role == HelperCombat || h.Role == HelperFaction }

func (h *Helper) strike() (damage float64, bounty int) {
	if h.Role == HelperFaction {
		h.attackCooldown = helperFactionCool
		return helperFactionDamage, 80
	}
	h.attackCooldown = helperCombatCool
	return helperCombatDamage, 100
}
