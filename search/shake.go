package search

import (
	"math/rand"

	"github.com/evroute/evrp/evrp"
)

// perturbation: k random 2-opt-style segment reversals applied without an
// improvement check. Reversals act on the customer sequence of a random
// route, so cargo load is untouched; battery feasibility is repaired by
// re-placing a single recharge the same way construction does. A
// disruption whose repair fails is rolled back, so customers are never
// dropped and capacity never violated.
type Shaker struct {
	inst *evrp.Instance
	rng  *rand.Rand
	rr   *RechargeRelocation
}

func NewShaker(inst *evrp.Instance, rng *rand.Rand) *Shaker {
	return &Shaker{inst: inst, rng: rng, rr: NewRechargeRelocation(inst)}
}

// apply k disruptions to a clone of s
func (sh *Shaker) Shake(s *evrp.Solution, k int) *evrp.Solution {
	out := s.Clone()
	for n := 0; n < k; n++ {
		sh.disrupt(out)
	}
	out.Evaluate()
	return out
}

func (sh *Shaker) disrupt(s *evrp.Solution) {
	var eligible []int
	for i := range s.Routes {
		if len(sh.rr.bareSequence(&s.Routes[i])) >= 4 {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return
	}
	ri := eligible[sh.rng.Intn(len(eligible))]
	route := &s.Routes[ri]

	seq := sh.rr.bareSequence(route)
	// random segment bounds within the customer positions
	i := 1 + sh.rng.Intn(len(seq)-3)
	j := i + 1 + sh.rng.Intn(len(seq)-2-i)
	for l, r := i, j; l < r; l, r = l+1, r-1 {
		seq[l], seq[r] = seq[r], seq[l]
	}

	candidate, ok := sh.rebuildWithRecharge(seq)
	if !ok {
		return
	}
	candidate.Evaluate(sh.inst)
	if !candidate.Feasible {
		return
	}
	*route = candidate
}

// rebuild a route over the disrupted sequence, inserting a single
// recharge when the bare sequence exceeds battery range
func (sh *Shaker) rebuildWithRecharge(seq []int) (evrp.Route, bool) {
	prefix := make([]float64, len(seq))
	for i := 1; i < len(seq); i++ {
		prefix[i] = prefix[i-1] + sh.inst.Distance(seq[i-1], seq[i])
	}
	total := prefix[len(seq)-1]

	if total <= sh.inst.Vehicle.MaxRange() {
		return evrp.Route{
			Nodes:    append([]int(nil), seq...),
			Charging: make(map[int]evrp.ChargingDecision),
		}, true
	}

	option := sh.rr.bestRechargeOption(seq, prefix, total)
	if option == nil {
		return evrp.Route{}, false
	}
	nodes := make([]int, 0, len(seq)+1)
	nodes = append(nodes, seq[:option.position+1]...)
	nodes = append(nodes, option.station)
	nodes = append(nodes, seq[option.position+1:]...)
	return evrp.Route{
		Nodes: nodes,
		Charging: map[int]evrp.ChargingDecision{
			option.station: {Tech: option.tech, Energy: option.energy},
		},
	}, true
}
