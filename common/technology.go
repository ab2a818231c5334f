package common

// schema for a charging technology offered at a station
type Technology struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Power      float64 `json:"power"`        // kW
	CostPerKWh float64 `json:"cost_per_kwh"` // currency/kWh
}

// charging time in hours for a given amount of energy
func (t Technology) ChargeTime(energy float64) float64 {
	if t.Power <= 0 {
		return 0
	}
	return energy / t.Power
}

// standard slow/medium/fast charging technologies
func StandardTechnologies() []Technology {
	return []Technology{
		{ID: 0, Name: "S", Power: 3.6, CostPerKWh: 0.160},
		{ID: 1, Name: "M", Power: 20, CostPerKWh: 0.176},
		{ID: 2, Name: "F", Power: 45, CostPerKWh: 0.192},
	}
}
