package evrp

import (
	"math"

	"github.com/evroute/evrp/common"
)

// recharge performed when a route visits a station
type ChargingDecision struct {
	Tech   common.Technology `json:"tech"`
	Energy float64           `json:"energy"` // kWh taken on board
}

// schema for a single vehicle route
// Nodes holds node IDs, starting and ending at the depot,
// optionally interleaved with station visits
type Route struct {
	Nodes    []int                    `json:"nodes"`
	Charging map[int]ChargingDecision `json:"charging,omitempty"`

	TotalDistance float64 `json:"total_distance"`
	TotalCost     float64 `json:"total_cost"`
	TotalTime     float64 `json:"total_time"`
	Feasible      bool    `json:"feasible"`
}

func NewRoute(depot int) Route {
	return Route{
		Nodes:    []int{depot},
		Charging: make(map[int]ChargingDecision),
	}
}

// deep copy; the instance is never copied
func (r Route) Clone() Route {
	c := Route{
		Nodes:         append([]int(nil), r.Nodes...),
		Charging:      make(map[int]ChargingDecision, len(r.Charging)),
		TotalDistance: r.TotalDistance,
		TotalCost:     r.TotalCost,
		TotalTime:     r.TotalTime,
		Feasible:      r.Feasible,
	}
	for id, d := range r.Charging {
		c.Charging[id] = d
	}
	return c
}

// customers visited by the route, in visit order
func (r Route) Customers(inst *Instance) []int {
	var out []int
	for _, id := range r.Nodes {
		if inst.Nodes[id].Kind == common.Customer {
			out = append(out, id)
		}
	}
	return out
}

// simulate the route and recompute metrics plus the feasibility flag;
// infeasibility is recorded, never silently discarded
func (r *Route) Evaluate(inst *Instance) {
	r.TotalDistance = 0
	r.TotalCost = 0
	r.TotalTime = 0
	r.Feasible = true

	if len(r.Nodes) < 2 {
		r.Feasible = false
		return
	}
	if inst.Nodes[r.Nodes[0]].Kind != common.Depot ||
		inst.Nodes[r.Nodes[len(r.Nodes)-1]].Kind != common.Depot {
		r.Feasible = false
		return
	}

	battery := inst.Vehicle.BatteryCapacity
	load := 0.0
	clock := 0.0
	prev := r.Nodes[0]

	for _, id := range r.Nodes[1:] {
		dist := inst.Distance(prev, id)
		energy := inst.Vehicle.Energy(dist)
		if battery < energy-1e-9 {
			r.Feasible = false
			return
		}
		battery -= energy
		clock += inst.TravelTime(prev, id)
		r.TotalDistance += dist

		node := inst.Nodes[id]
		switch node.Kind {
		case common.Customer:
			load += node.Demand
			clock += node.ServiceTime
			if load > inst.Vehicle.Capacity+1e-9 {
				r.Feasible = false
				return
			}
		case common.Station:
			if d, ok := r.Charging[id]; ok {
				if !techAvailable(node, d.Tech) {
					r.Feasible = false
					return
				}
				clock += inst.ChargingFixedTime + d.Tech.ChargeTime(d.Energy)
				battery = math.Min(battery+d.Energy, inst.Vehicle.BatteryCapacity)
				r.TotalCost += d.Energy*d.Tech.CostPerKWh + inst.BatteryDepreciationCost
			}
		}
		prev = id
	}

	r.TotalTime = clock
	if inst.MaxRouteDuration > 0 && clock > inst.MaxRouteDuration {
		r.Feasible = false
	}
}

// battery level after each node of the route, without feasibility cutoff;
// used by operators probing where a recharge is needed
func (r Route) BatteryProfile(inst *Instance) []float64 {
	profile := make([]float64, len(r.Nodes))
	if len(r.Nodes) == 0 {
		return profile
	}
	battery := inst.Vehicle.BatteryCapacity
	profile[0] = battery
	prev := r.Nodes[0]
	for i, id := range r.Nodes[1:] {
		battery -= inst.Vehicle.Energy(inst.Distance(prev, id))
		if d, ok := r.Charging[id]; ok && inst.Nodes[id].Kind == common.Station {
			battery = math.Min(battery+d.Energy, inst.Vehicle.BatteryCapacity)
		}
		profile[i+1] = battery
		prev = id
	}
	return profile
}

func techAvailable(node common.Node, tech common.Technology) bool {
	for _, t := range node.Technologies {
		if t.ID == tech.ID {
			return true
		}
	}
	return false
}
