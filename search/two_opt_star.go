package search

import (
	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
)

// 2-opt*: exchanges the tails of two routes after a cut edge in each,
// reconnecting head of one to tail of the other. Charging stops travel
// with their tail. Best-improvement over all route pairs and cut points.
type TwoOptStar struct {
	inst *evrp.Instance
}

func NewTwoOptStar(inst *evrp.Instance) *TwoOptStar {
	return &TwoOptStar{inst: inst}
}

func (o *TwoOptStar) Name() string { return "2-opt*" }

func (o *TwoOptStar) Apply(s *evrp.Solution) bool {
	improved := false
	for o.applyBestSwap(s) {
		improved = true
	}
	return improved
}

func (o *TwoOptStar) applyBestSwap(s *evrp.Solution) bool {
	if len(s.Routes) < 2 {
		return false
	}

	bestGain := improveEps
	var bestA, bestB int
	var bestRA, bestRB evrp.Route
	found := false

	for a := 0; a < len(s.Routes); a++ {
		for b := a + 1; b < len(s.Routes); b++ {
			ra := &s.Routes[a]
			rb := &s.Routes[b]
			for i := 0; i < len(ra.Nodes)-1; i++ {
				for j := 0; j < len(rb.Nodes)-1; j++ {
					gain := o.inst.Distance(ra.Nodes[i], ra.Nodes[i+1]) +
						o.inst.Distance(rb.Nodes[j], rb.Nodes[j+1]) -
						o.inst.Distance(ra.Nodes[i], rb.Nodes[j+1]) -
						o.inst.Distance(rb.Nodes[j], ra.Nodes[i+1])
					if gain <= bestGain {
						continue
					}

					na := o.spliceRoutes(ra, rb, i, j)
					nb := o.spliceRoutes(rb, ra, j, i)
					na.Evaluate(o.inst)
					nb.Evaluate(o.inst)
					if !na.Feasible || !nb.Feasible {
						continue
					}

					real := ra.TotalDistance + rb.TotalDistance -
						na.TotalDistance - nb.TotalDistance
					if real <= bestGain {
						continue
					}
					bestGain = real
					bestA, bestB = a, b
					bestRA, bestRB = na, nb
					found = true
				}
			}
		}
	}

	if !found {
		return false
	}
	s.Routes[bestA] = bestRA
	s.Routes[bestB] = bestRB
	s.PruneEmptyRoutes()
	s.Evaluate()
	return true
}

// head of x up to and including cut, followed by the tail of y after its cut
func (o *TwoOptStar) spliceRoutes(x, y *evrp.Route, xcut, ycut int) evrp.Route {
	nodes := make([]int, 0, xcut+1+len(y.Nodes)-ycut-1)
	nodes = append(nodes, x.Nodes[:xcut+1]...)
	nodes = append(nodes, y.Nodes[ycut+1:]...)

	charging := make(map[int]evrp.ChargingDecision)
	for _, id := range nodes {
		if o.inst.Nodes[id].Kind != common.Station {
			continue
		}
		if d, ok := x.Charging[id]; ok {
			charging[id] = d
		} else if d, ok := y.Charging[id]; ok {
			charging[id] = d
		}
	}
	return evrp.Route{Nodes: nodes, Charging: charging}
}
