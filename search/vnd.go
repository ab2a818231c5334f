package search

import (
	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/evrp"
)

// variable neighborhood descent over an ordered operator list:
// apply the current operator; on improvement restart from the first
// operator, otherwise advance. Terminates when a full pass improves
// nothing, or after MaxIter improving passes.
type VND struct {
	Operators []Operator
	MaxIter   int
}

// default neighborhood order: cheap intra-route reordering first,
// recharge placement next, inter-route moves last
func NewVND(inst *evrp.Instance, maxIter int) *VND {
	return &VND{
		Operators: []Operator{
			NewTwoOpt(inst),
			NewRechargeRelocation(inst),
			NewReinsertion(inst),
			NewTwoOptStar(inst),
		},
		MaxIter: maxIter,
	}
}

// refine a clone of s to a local optimum w.r.t. the operator set
func (v *VND) Run(s *evrp.Solution) *evrp.Solution {
	cur := s.Clone()
	passes := 0
	idx := 0
	for idx < len(v.Operators) {
		op := v.Operators[idx]
		if op.Apply(cur) {
			passes++
			log.Debugf(
				"[search] vnd pass %d: %s improved to dist %0.2f, %d vehicles",
				passes,
				op.Name(),
				cur.TotalDistance,
				cur.VehiclesUsed,
			)
			if v.MaxIter > 0 && passes >= v.MaxIter {
				break
			}
			idx = 0
			continue
		}
		idx++
	}
	return cur
}
