package evrp

import (
	"fmt"
	"math"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/common"
)

// weight applied to charging cost when scoring candidate customers
const chargingScoreWeight = 10.0

// detour cost weight per unit of distance to a station
const stationDetourWeight = 0.1

// greedy nearest-feasible insertion heuristic
// randomness comes only from the explicit rng, so runs are reproducible
type ConstructiveHeuristic struct {
	inst *Instance
	rng  *rand.Rand

	// probability of closing the current route early after an insertion,
	// used to diversify the initial population; 0 disables it
	RouteCutProb float64
}

func NewConstructive(inst *Instance, rng *rand.Rand) *ConstructiveHeuristic {
	return &ConstructiveHeuristic{inst: inst, rng: rng}
}

type chargingPlan struct {
	station   int
	tech      common.Technology
	energy    float64
	extraCost float64
}

// build one feasible solution, or fail with ErrConstructionInfeasible
// when some customer cannot be admitted by any route
func (h *ConstructiveHeuristic) Build() (*Solution, error) {
	solution := NewSolution(h.inst)
	depot := h.inst.Depot()

	unvisited := make(map[int]bool, len(h.inst.Customers()))
	for _, c := range h.inst.Customers() {
		unvisited[c] = true
	}

	for len(unvisited) > 0 {
		route := NewRoute(depot)
		pos := depot
		battery := h.inst.Vehicle.BatteryCapacity
		load := 0.0
		inserted := 0

		for len(unvisited) > 0 {
			best := -1
			bestScore := math.Inf(1)
			var bestPlan *chargingPlan

			for _, c := range h.inst.Customers() {
				if !unvisited[c] {
					continue
				}
				demand := h.inst.Nodes[c].Demand
				if load+demand > h.inst.Vehicle.Capacity {
					continue
				}

				distToCustomer := h.inst.Distance(pos, c)
				energyNeeded := h.inst.Vehicle.Energy(distToCustomer + h.inst.Distance(c, depot))

				var plan *chargingPlan
				if battery < energyNeeded {
					plan = h.findChargingStation(pos, c, battery)
					if plan == nil {
						continue
					}
				}

				score := distToCustomer
				if plan != nil {
					score += plan.extraCost * chargingScoreWeight
				}
				if score < bestScore {
					bestScore = score
					best = c
					bestPlan = plan
				}
			}

			if best < 0 {
				break
			}

			if bestPlan != nil {
				route.Nodes = append(route.Nodes, bestPlan.station)
				route.Charging[bestPlan.station] = ChargingDecision{
					Tech:   bestPlan.tech,
					Energy: bestPlan.energy,
				}
				battery = math.Min(
					battery+bestPlan.energy-h.inst.Vehicle.Energy(h.inst.Distance(pos, bestPlan.station)),
					h.inst.Vehicle.BatteryCapacity,
				)
				pos = bestPlan.station
			}

			route.Nodes = append(route.Nodes, best)
			battery -= h.inst.Vehicle.Energy(h.inst.Distance(pos, best))
			load += h.inst.Nodes[best].Demand
			pos = best
			delete(unvisited, best)
			inserted++

			if h.RouteCutProb > 0 && h.rng.Float64() < h.RouteCutProb {
				break
			}
		}

		if inserted == 0 {
			return nil, fmt.Errorf(
				"%w: %d customers cannot be admitted by a fresh route",
				ErrConstructionInfeasible,
				len(unvisited),
			)
		}

		route.Nodes = append(route.Nodes, depot)
		solution.Routes = append(solution.Routes, route)
	}

	solution.Evaluate()
	log.Debugf(
		"[evrp] constructed solution: dist %0.2f, %d routes, feasible %v",
		solution.TotalDistance,
		len(solution.Routes),
		solution.Feasible,
	)
	return solution, nil
}

// select the least-cost reachable station whose recharge covers the leg
// pos -> station -> target -> depot, using the cheapest technology
func (h *ConstructiveHeuristic) findChargingStation(pos, target int, battery float64) *chargingPlan {
	depot := h.inst.Depot()
	var best *chargingPlan
	bestCost := math.Inf(1)

	for _, st := range h.inst.Stations() {
		energyToStation := h.inst.Vehicle.Energy(h.inst.Distance(pos, st))
		if battery < energyToStation {
			continue
		}
		batteryAtStation := battery - energyToStation

		required := h.inst.Vehicle.Energy(
			h.inst.Distance(st, target) + h.inst.Distance(target, depot),
		)
		headroom := h.inst.Vehicle.BatteryCapacity - batteryAtStation
		energy := math.Max(required-batteryAtStation, 0)
		if energy > headroom {
			continue
		}
		// top up toward full when it costs nothing extra in feasibility
		energy = math.Min(math.Max(energy, required*0.8), headroom)
		if batteryAtStation+energy < required {
			continue
		}

		var bestTech *common.Technology
		techCost := math.Inf(1)
		for i, tech := range h.inst.Nodes[st].Technologies {
			cost := energy*tech.CostPerKWh + h.inst.BatteryDepreciationCost
			if cost < techCost {
				techCost = cost
				bestTech = &h.inst.Nodes[st].Technologies[i]
			}
		}
		if bestTech == nil {
			continue
		}

		total := techCost + stationDetourWeight*h.inst.Distance(pos, st)
		if total < bestCost {
			bestCost = total
			best = &chargingPlan{
				station:   st,
				tech:      *bestTech,
				energy:    energy,
				extraCost: techCost,
			}
		}
	}
	return best
}
