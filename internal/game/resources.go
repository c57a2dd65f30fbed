package game

// Resources is the ship's cargo of raw materials.
type Resources struct {
	Minerals int
	Salvage  int
}

// SatelliteTiers counts deployed satellites per tier.
type SatelliteTiers struct {
	T1, T2, T3 int
}

// Income is the passive score per second the constellation earns.
func (t SatelliteTiers) Income() int { return t.T1*2 + t.T2*6 + t.T3*14 }

// DroneCounts counts drones bought from the shop.
type DroneCounts struct {
	Combat    int
	Harvester int
}

const dysonIncomePerTier = 20

// passiveIncome is the score per second from satellites and dyson swarms.
func (w *World) passiveIncome() int {
	income := w.SatelliteTiers.Income()
	for _, p := range w.Planets {
		income += p.Engineering.DysonSwarms * dysonIncomePerTier
	}
	return income
}
