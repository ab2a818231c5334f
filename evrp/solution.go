package evrp

import (
	"fmt"

	"github.com/evroute/evrp/common"
)

// objective vector: total distance, vehicles used, total energy cost
type Objective [3]float64

// pareto domination: component-wise no worse, strictly better somewhere
func (a Objective) Dominates(b Objective) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// schema for a candidate routing plan over a shared read-only instance
type Solution struct {
	Instance *Instance `json:"-"`
	Routes   []Route   `json:"routes"`

	TotalDistance float64 `json:"total_distance"`
	TotalCost     float64 `json:"total_cost"`
	TotalTime     float64 `json:"total_time"`
	VehiclesUsed  int     `json:"vehicles_used"`
	Feasible      bool    `json:"feasible"`
}

func NewSolution(inst *Instance) *Solution {
	return &Solution{Instance: inst, Feasible: true}
}

// deep copy of the plan; the instance stays shared
func (s *Solution) Clone() *Solution {
	c := &Solution{
		Instance:      s.Instance,
		Routes:        make([]Route, len(s.Routes)),
		TotalDistance: s.TotalDistance,
		TotalCost:     s.TotalCost,
		TotalTime:     s.TotalTime,
		VehiclesUsed:  s.VehiclesUsed,
		Feasible:      s.Feasible,
	}
	for i := range s.Routes {
		c.Routes[i] = s.Routes[i].Clone()
	}
	return c
}

func (s *Solution) Objectives() Objective {
	return Objective{s.TotalDistance, float64(s.VehiclesUsed), s.TotalCost}
}

func (s *Solution) Dominates(other *Solution) bool {
	return s.Objectives().Dominates(other.Objectives())
}

// recompute route metrics, totals and the feasibility flag;
// a solution must cover every customer exactly once
func (s *Solution) Evaluate() {
	s.TotalDistance = 0
	s.TotalCost = 0
	s.TotalTime = 0
	s.VehiclesUsed = len(s.Routes)
	s.Feasible = true

	if s.Instance.NumVehicles > 0 && s.VehiclesUsed > s.Instance.NumVehicles {
		s.Feasible = false
	}

	for i := range s.Routes {
		s.Routes[i].Evaluate(s.Instance)
		s.TotalDistance += s.Routes[i].TotalDistance
		s.TotalCost += s.Routes[i].TotalCost
		s.TotalTime += s.Routes[i].TotalTime
		if !s.Routes[i].Feasible {
			s.Feasible = false
		}
	}

	seen := make(map[int]int)
	for i := range s.Routes {
		for _, id := range s.Routes[i].Nodes {
			if s.Instance.Nodes[id].Kind == common.Customer {
				seen[id]++
			}
		}
	}
	for _, c := range s.Instance.Customers() {
		if seen[c] != 1 {
			s.Feasible = false
			return
		}
	}
	if len(seen) != len(s.Instance.Customers()) {
		s.Feasible = false
	}
}

// drop routes that no longer serve any customer
func (s *Solution) PruneEmptyRoutes() {
	kept := s.Routes[:0]
	for _, r := range s.Routes {
		if len(r.Customers(s.Instance)) > 0 {
			kept = append(kept, r)
		}
	}
	s.Routes = kept
}

func (s *Solution) String() string {
	return fmt.Sprintf(
		"solution: dist %0.2f, vehicles %d, cost %0.2f, feasible %v",
		s.TotalDistance,
		s.VehiclesUsed,
		s.TotalCost,
		s.Feasible,
	)
}
