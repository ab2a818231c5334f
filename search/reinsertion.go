package search

import (
	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
)

// reinsertion: removes one customer and reinserts it at the position
// minimizing added distance, in the same or another route, subject to
// capacity and battery feasibility at the destination. Emptied routes are
// dropped, so the move doubles as the vehicle-reduction neighborhood.
// Best-improvement scan; ties prefer the move that frees a vehicle.
type Reinsertion struct {
	inst *evrp.Instance
}

func NewReinsertion(inst *evrp.Instance) *Reinsertion {
	return &Reinsertion{inst: inst}
}

func (o *Reinsertion) Name() string { return "reinsertion" }

func (o *Reinsertion) Apply(s *evrp.Solution) bool {
	improved := false
	for o.applyBestMove(s) {
		improved = true
	}
	return improved
}

type reinsertionMove struct {
	src        int
	dst        int
	srcRoute   evrp.Route
	dstRoute   evrp.Route
	gain       float64
	dropsRoute bool
}

func (o *Reinsertion) applyBestMove(s *evrp.Solution) bool {
	var best *reinsertionMove

	for ri := range s.Routes {
		for pi, id := range s.Routes[ri].Nodes {
			if o.inst.Nodes[id].Kind != common.Customer {
				continue
			}

			src := s.Routes[ri].Clone()
			src.Nodes = append(src.Nodes[:pi], src.Nodes[pi+1:]...)
			drops := len(src.Customers(o.inst)) == 0
			src.Evaluate(o.inst)
			if !drops && !src.Feasible {
				continue
			}

			for rj := range s.Routes {
				if rj == ri && drops {
					continue
				}
				base := src
				oldDist := s.Routes[ri].TotalDistance
				srcDist := 0.0
				if rj != ri {
					base = s.Routes[rj].Clone()
					oldDist += s.Routes[rj].TotalDistance
					if !drops {
						srcDist = src.TotalDistance
					}
				}

				for pos := 1; pos < len(base.Nodes); pos++ {
					cand := base.Clone()
					cand.Nodes = append(cand.Nodes[:pos],
						append([]int{id}, cand.Nodes[pos:]...)...)
					cand.Evaluate(o.inst)
					if !cand.Feasible {
						continue
					}

					gain := oldDist - (srcDist + cand.TotalDistance)
					if gain <= improveEps {
						continue
					}
					if best == nil ||
						gain > best.gain+improveEps ||
						(gain > best.gain-improveEps && drops && !best.dropsRoute) {
						best = &reinsertionMove{
							src:        ri,
							dst:        rj,
							srcRoute:   src.Clone(),
							dstRoute:   cand,
							gain:       gain,
							dropsRoute: drops && rj != ri,
						}
					}
				}
			}
		}
	}

	if best == nil {
		return false
	}

	s.Routes[best.dst] = best.dstRoute
	if best.src != best.dst {
		s.Routes[best.src] = best.srcRoute
	}
	s.PruneEmptyRoutes()
	s.Evaluate()
	return true
}
