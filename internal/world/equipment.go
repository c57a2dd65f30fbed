package world

import "time"

// BodyTemplate defines hull frame stats.
type BodyTemplate struct {
	Scale  float64 `json:"scale"`
	Speed  float64 `json:"speed"` // top-speed multiplier
	Health int     `json:"health"`
}

// TankTemplate defines propulsion stats.
type TankTemplate struct {
	Accel    float64 `json:"accel"`
	MaxSpeed float64 `json:"maxSpeed"`
	Fuel     float64 `json:"fuel"` // efficiency; consumption is 1/Fuel
}

// WeaponTemplate defines the primary weapon.
type WeaponTemplate struct {
	Name     string  `json:"name"`
	FireRate int     `json:"fireRate"` // milliseconds between shots
	Damage   int     `json:"damage"`
	Speed    float64 `json:"speed"` // projectile units per frame
}

// ClassTemplate applies multipliers on top of the assembled parts.
type ClassTemplate struct {
	HealthMul float64 `json:"healthMul"`
	SpeedMul  float64 `json:"speedMul"`
	DroneBay  bool    `json:"droneBay"`
}

// Loadout is a fully assembled ship configuration.
type Loadout struct {
	Body, Tank, Gun, Class string // catalog keys

	Scale           float64
	Health          int
	Accel           float64
	MaxSpeed        float64
	FuelConsumption float64
	Weapon          WeaponTemplate
	DroneBay        bool
}

// FireInterval returns the weapon cooldown as a duration.
func (l Loadout) FireInterval() time.Duration {
	return time.Duration(l.Weapon.FireRate) * time.Millisecond
}

// DefaultLoadout is the balanced build used when no catalog choice is made.
func DefaultLoadout() Loadout {
	return Loadout{
		Body: "balanced", Tank: "standard", Gun: "pulse", Class: "balanced",
		Scale:           1,
		Health:          100,
		Accel:           0.25,
		MaxSpeed:        12,
		FuelConsumption: 1,
		Weapon:          WeaponTemplate{Name: "Pulse Cannon", FireRate: 120, Damage: 20, Speed: 20},
	}
}
