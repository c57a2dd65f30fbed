package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownLoadout is returned when a part name is not in the catalog.
var ErrUnknownLoadout = errors.New("unknown loadout part")

// Catalog is the JSON-serializable set of ship parts a pilot picks from.
type Catalog struct {
	Bodies  map[string]BodyTemplate   `json:"bodies"`
	Tanks   map[string]TankTemplate   `json:"tanks"`
	Weapons map[string]WeaponTemplate `json:"weapons"`
	Classes map[string]ClassTemplate  `json:"classes"`
}

// LoadCatalog parses a Catalog from JSON bytes.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse loadout catalog: %w", err)
	}
	if len(c.Bodies) == 0 || len(c.Tanks) == 0 || len(c.Weapons) == 0 {
		return nil, fmt.Errorf("loadout catalog needs bodies, tanks and weapons (got %d/%d/%d)",
			len(c.Bodies), len(c.Tanks), len(c.Weapons))
	}
	for name, t := range c.Tanks {
		if t.Fuel <= 0 {
			return nil, fmt.Errorf("tank %q: fuel efficiency must be positive", name)
		}
	}
	return &c, nil
}

// Build assembles a loadout from part names. An empty class means no class modifiers.
func (c *Catalog) Build(body, tank, weapon, class string) (Loadout, error) {
	b, ok := c.Bodies[body]
	if !ok {
		return Loadout{}, fmt.Errorf("body %q: %w", body, ErrUnknownLoadout)
	}
	t, ok := c.Tanks[tank]
	if !ok {
		return Loadout{}, fmt.Errorf("tank %q: %w", tank, ErrUnknownLoadout)
	}
	w, ok := c.Weapons[weapon]
	if !ok {
		return Loadout{}, fmt.Errorf("weapon %q: %w", weapon, ErrUnknownLoadout)
	}
	cls := ClassTemplate{HealthMul: 1, SpeedMul: 1}
	if class != "" {
		cls, ok = c.Classes[class]
		if !ok {
			return Loadout{}, fmt.Errorf("class %q: %w", class, ErrUnknownLoadout)
		}
	}

	speedMul := b.Speed
	if speedMul <= 0 {
		speedMul = 1
	}
	return Loadout{
		Body: body, Tank: tank, Gun: weapon, Class: class,
		Scale:           b.Scale,
		Health:          int(math.Floor(float64(b.Health)*orOne(cls.HealthMul) + 1e-9)),
		Accel:           t.Accel,
		MaxSpeed:        t.MaxSpeed * speedMul * orOne(cls.SpeedMul),
		FuelConsumption: 1 / t.Fuel,
		Weapon:          w,
		DroneBay:        cls.DroneBay,
	}, nil
}

// ParseChoice splits a "body,tank,weapon[,class]" selection string.
func ParseChoice(s string) (body, tank, weapon, class string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return "", "", "", "", fmt.Errorf("loadout %q: want body,tank,weapon[,class]", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 4 {
		class = parts[3]
	}
	return parts[0], parts[1], parts[2], class, nil
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
