package search

import (
	"math"

	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
)

// recharge relocation: drops every charging stop of a route when the bare
// customer sequence fits within battery range, and otherwise rebuilds the
// route around the single cheapest feasible recharge without touching the
// customer order. Best-improvement over (added distance, energy cost).
type RechargeRelocation struct {
	inst *evrp.Instance
}

func NewRechargeRelocation(inst *evrp.Instance) *RechargeRelocation {
	return &RechargeRelocation{inst: inst}
}

func (o *RechargeRelocation) Name() string { return "recharge-relocation" }

func (o *RechargeRelocation) Apply(s *evrp.Solution) bool {
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

// customer-and-depot sequence of a route, stations stripped
func (o *RechargeRelocation) bareSequence(r *evrp.Route) []int {
	seq := make([]int, 0, len(r.Nodes))
	for _, id := range r.Nodes {
		if o.inst.Nodes[id].Kind != common.Station {
			seq = append(seq, id)
		}
	}
	return seq
}

func (o *RechargeRelocation) improveRoute(r *evrp.Route) bool {
	if len(r.Charging) == 0 && !hasStation(o.inst, r) {
		return false
	}

	seq := o.bareSequence(r)
	if len(seq) < 3 {
		return false
	}

	prefix := make([]float64, len(seq))
	for i := 1; i < len(seq); i++ {
		prefix[i] = prefix[i-1] + o.inst.Distance(seq[i-1], seq[i])
	}
	total := prefix[len(seq)-1]

	var candidate evrp.Route
	if total <= o.inst.Vehicle.MaxRange() {
		// no recharge needed at all
		candidate = evrp.Route{
			Nodes:    append([]int(nil), seq...),
			Charging: make(map[int]evrp.ChargingDecision),
		}
	} else {
		option := o.bestRechargeOption(seq, prefix, total)
		if option == nil {
			return false
		}
		nodes := make([]int, 0, len(seq)+1)
		nodes = append(nodes, seq[:option.position+1]...)
		nodes = append(nodes, option.station)
		nodes = append(nodes, seq[option.position+1:]...)
		candidate = evrp.Route{
			Nodes: nodes,
			Charging: map[int]evrp.ChargingDecision{
				option.station: {Tech: option.tech, Energy: option.energy},
			},
		}
	}

	candidate.Evaluate(o.inst)
	if !candidate.Feasible {
		return false
	}
	if candidate.TotalDistance < r.TotalDistance-improveEps ||
		(candidate.TotalDistance < r.TotalDistance+improveEps &&
			candidate.TotalCost < r.TotalCost-improveEps) {
		*r = candidate
		return true
	}
	return false
}

type rechargeOption struct {
	station  int
	position int // insert after seq[position]
	tech     common.Technology
	energy   float64
	added    float64
	cost     float64
}

// scan every (position, station, technology) triple able to carry both
// the head and tail of the route within battery range
func (o *RechargeRelocation) bestRechargeOption(seq []int, prefix []float64, total float64) *rechargeOption {
	maxRange := o.inst.Vehicle.MaxRange()
	var best *rechargeOption

	for i := 0; i < len(seq)-1; i++ {
		for _, st := range o.inst.Stations() {
			toStation := o.inst.Distance(seq[i], st)
			if prefix[i]+toStation > maxRange {
				continue
			}
			fromStation := o.inst.Distance(st, seq[i+1])
			tail := fromStation + (total - prefix[i+1])
			if tail > maxRange {
				continue
			}

			batteryAtStation := o.inst.Vehicle.BatteryCapacity -
				o.inst.Vehicle.Energy(prefix[i]+toStation)
			required := o.inst.Vehicle.Energy(tail)
			energy := math.Max(required-batteryAtStation, 0)
			if batteryAtStation+energy > o.inst.Vehicle.BatteryCapacity+improveEps {
				continue
			}

			var tech *common.Technology
			techCost := math.Inf(1)
			for k, t := range o.inst.Nodes[st].Technologies {
				c := energy*t.CostPerKWh + o.inst.BatteryDepreciationCost
				if c < techCost {
					techCost = c
					tech = &o.inst.Nodes[st].Technologies[k]
				}
			}
			if tech == nil {
				continue
			}

			added := toStation + fromStation - o.inst.Distance(seq[i], seq[i+1])
			if best == nil ||
				added < best.added-improveEps ||
				(added < best.added+improveEps && techCost < best.cost) {
				best = &rechargeOption{
					station:  st,
					position: i,
					tech:     *tech,
					energy:   energy,
					added:    added,
					cost:     techCost,
				}
			}
		}
	}
	return best
}

func hasStation(inst *evrp.Instance, r *evrp.Route) bool {
	for _, id := range r.Nodes {
		if inst.Nodes[id].Kind == common.Station {
			return true
		}
	}
	return false
}
