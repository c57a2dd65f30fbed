package game

import "time"

// Tuning holds balance constants that designers iterate on without touching
// logic. Struct tags let the config layer override any of them from the
// environment; DefaultTuning returns the shipped values.
type Tuning struct {
	CritChance     float64 `env:"CRIT_CHANCE" envDefault:"0.12"`
	CritMultiplier float64 `env:"CRIT_MULTIPLIER" envDefault:"1.75"`

	SafeLandingSpeed  float64 `env:"SAFE_LANDING_SPEED" envDefault:"5"`
	CrashDamageFactor float64 `env:"CRASH_DAMAGE_FACTOR" envDefault:"2"`
	GravityRadius     float64 `env:"GRAVITY_RADIUS" envDefault:"400"`
	GravityStrength   float64 `env:"GRAVITY_STRENGTH" envDefault:"0.015"`

	StabilityDrift     float64       `env:"STABILITY_DRIFT" envDefault:"0.03"`
	WarWaveInterval    time.Duration `env:"WAR_WAVE_INTERVAL" envDefault:"10s"`
	WarWaveRange       float64       `env:"WAR_WAVE_RANGE" envDefault:"1400"`
	EmpireTickInterval time.Duration `env:"EMPIRE_TICK_INTERVAL" envDefault:"6500ms"`
	AIExpandChance     float64       `env:"AI_EXPAND_CHANCE" envDefault:"0.35"`
	AIMaxTerritories   int           `env:"AI_MAX_TERRITORIES" envDefault:"4"`
	ConquestRatio      float64       `env:"CONQUEST_RATIO" envDefault:"1.7"`
	PartialClaimRatio  float64       `env:"PARTIAL_CLAIM_RATIO" envDefault:"0.95"`

	BaseMaxEnemies      int           `env:"BASE_MAX_ENEMIES" envDefault:"5"`
	ScorePerEnemySlot   int           `env:"SCORE_PER_ENEMY_SLOT" envDefault:"500"`
	FeatureTickInterval time.Duration `env:"FEATURE_TICK_INTERVAL" envDefault:"1800ms"`
	SectorSize          float64       `env:"SECTOR_SIZE" envDefault:"3200"`
	FeatureCullDistance float64       `env:"FEATURE_CULL_DISTANCE" envDefault:"14000"`
	MegaShipDelay       time.Duration `env:"MEGASHIP_DELAY" envDefault:"60s"`
}

// DefaultTuning returns the shipped balance values.
func DefaultTuning() Tuning {
	return Tuning{
		CritChance:          0.12,
		CritMultiplier:      1.75,
		SafeLandingSpeed:    5,
		CrashDamageFactor:   2,
		GravityRadius:       400,
		GravityStrength:     0.015,
		StabilityDrift:      0.03,
		WarWaveInterval:     10 * time.Second,
		WarWaveRange:        1400,
		EmpireTickInterval:  6500 * time.Millisecond,
		AIExpandChance:      0.35,
		AIMaxTerritories:    4,
		ConquestRatio:       1.7,
		PartialClaimRatio:   0.95,
		BaseMaxEnemies:      5,
		ScorePerEnemySlot:   500,
		FeatureTickInterval: 1800 * time.Millisecond,
		SectorSize:          3200,
		FeatureCullDistance: 14000,
		MegaShipDelay:       60 * time.Second,
	}
}
