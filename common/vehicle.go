package common

// schema for the vehicle shared by all routes of an instance
type Vehicle struct {
	Capacity        float64 `json:"capacity"`         // cargo, kg
	BatteryCapacity float64 `json:"battery_capacity"` // kWh
	ConsumptionRate float64 `json:"consumption_rate"` // kWh/km
	Speed           float64 `json:"speed"`            // km/h
}

// maximum distance reachable on a full battery
func (v Vehicle) MaxRange() float64 {
	if v.ConsumptionRate <= 0 {
		return 0
	}
	return v.BatteryCapacity / v.ConsumptionRate
}

// energy consumed to travel a given distance
func (v Vehicle) Energy(distance float64) float64 {
	return distance * v.ConsumptionRate
}
