package search

import (
	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
)

// intra-route 2-opt: reverses a sub-segment between two edges when that
// strictly shortens the route and keeps it feasible after re-simulation.
// Segments never cross a charging stop, since reversing across a station
// changes where energy is available. Best-improvement scan per leg.
type TwoOpt struct {
	inst *evrp.Instance
}

func NewTwoOpt(inst *evrp.Instance) *TwoOpt {
	return &TwoOpt{inst: inst}
}

func (o *TwoOpt) Name() string { return "2-opt" }

func (o *TwoOpt) Apply(s *evrp.Solution) bool {
	improved := false
	for i := range s.Routes {
		if o.improveRoute(&s.Routes[i]) {
			improved = true
		}
	}
	if improved {
		s.Evaluate()
	}
	return improved
}

// legs of a route: maximal segments whose interior holds no station,
// bounded by the depot endpoints and charging stops
func (o *TwoOpt) legs(r *evrp.Route) [][2]int {
	var legs [][2]int
	start := 0
	for i := 1; i < len(r.Nodes)-1; i++ {
		if o.inst.Nodes[r.Nodes[i]].Kind == common.Station {
			legs = append(legs, [2]int{start, i})
			start = i
		}
	}
	legs = append(legs, [2]int{start, len(r.Nodes) - 1})
	return legs
}

func (o *TwoOpt) improveRoute(r *evrp.Route) bool {
	if len(r.Nodes) < 4 {
		return false
	}
	improved := false
	for _, leg := range o.legs(r) {
		if o.improveLeg(r, leg[0], leg[1]) {
			improved = true
		}
	}
	return improved
}

func (o *TwoOpt) improveLeg(r *evrp.Route, start, end int) bool {
	if end-start < 3 {
		return false
	}
	improved := false
	for {
		bestGain := improveEps
		bestI, bestJ := -1, -1
		// edges (i, i+1) and (j, j+1) are replaced by (i, j) and (i+1, j+1)
		for i := start; i < end-1; i++ {
			for j := i + 2; j < end; j++ {
				gain := o.inst.Distance(r.Nodes[i], r.Nodes[i+1]) +
					o.inst.Distance(r.Nodes[j], r.Nodes[j+1]) -
					o.inst.Distance(r.Nodes[i], r.Nodes[j]) -
					o.inst.Distance(r.Nodes[i+1], r.Nodes[j+1])
				if gain > bestGain {
					bestGain = gain
					bestI, bestJ = i, j
				}
			}
		}
		if bestI < 0 {
			break
		}

		reverseSegment(r, bestI+1, bestJ)
		r.Evaluate(o.inst)
		if !r.Feasible {
			reverseSegment(r, bestI+1, bestJ)
			r.Evaluate(o.inst)
			break
		}
		improved = true
	}
	return improved
}

func reverseSegment(r *evrp.Route, left, right int) {
	for left < right {
		r.Nodes[left], r.Nodes[right] = r.Nodes[right], r.Nodes[left]
		left++
		right--
	}
}
