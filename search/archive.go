package search

import (
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/evrp"
)

// bounded archive of mutually non-dominated feasible solutions.
// The archive owns its members: TryInsert stores clones, and callers
// clone again before mutating anything obtained from Members.
type Archive struct {
	capacity int
	members  []*evrp.Solution
}

func NewArchive(capacity int) *Archive {
	return &Archive{capacity: capacity}
}

func (a *Archive) Len() int { return len(a.members) }

// read-only view of the current non-dominated set
func (a *Archive) Members() []*evrp.Solution {
	out := make([]*evrp.Solution, len(a.members))
	copy(out, a.members)
	return out
}

// best member by primary objective, ties by vehicles then cost
func (a *Archive) Best() *evrp.Solution {
	if len(a.members) == 0 {
		return nil
	}
	best := a.members[0]
	for _, m := range a.members[1:] {
		bo, mo := best.Objectives(), m.Objectives()
		if mo[0] < bo[0] ||
			(mo[0] == bo[0] && mo[1] < bo[1]) ||
			(mo[0] == bo[0] && mo[1] == bo[1] && mo[2] < bo[2]) {
			best = m
		}
	}
	return best
}

// TryInsert adds s unless it is infeasible, duplicates an existing
// objective vector, or is dominated by a member. Members dominated by s
// are evicted. When the archive overflows its capacity, the member with
// the smallest crowding distance in objective space is pruned.
func (a *Archive) TryInsert(s *evrp.Solution) bool {
	if !s.Feasible {
		return false
	}
	obj := s.Objectives()

	for _, m := range a.members {
		mo := m.Objectives()
		if mo == obj || mo.Dominates(obj) {
			return false
		}
	}

	kept := a.members[:0]
	for _, m := range a.members {
		if !obj.Dominates(m.Objectives()) {
			kept = append(kept, m)
		}
	}
	a.members = append(kept, s.Clone())

	for len(a.members) > a.capacity {
		a.pruneMostCrowded()
	}
	return true
}

func (a *Archive) pruneMostCrowded() {
	objs := make([]evrp.Objective, len(a.members))
	for i, m := range a.members {
		objs[i] = m.Objectives()
	}
	crowd := crowdingDistances(objs)

	worst := 0
	for i := 1; i < len(crowd); i++ {
		if crowd[i] < crowd[worst] {
			worst = i
		}
	}
	log.Debugf(
		"[search] archive full, pruning member with crowding %0.4f: %v",
		crowd[worst],
		objs[worst],
	)
	a.members = append(a.members[:worst], a.members[worst+1:]...)
}

// NSGA-II style crowding distance: per objective, boundary members get
// +Inf and interior members accumulate the normalized gap between their
// neighbors in that objective's sorted order
func crowdingDistances(objs []evrp.Objective) []float64 {
	n := len(objs)
	crowd := make([]float64, n)
	if n <= 2 {
		for i := range crowd {
			crowd[i] = math.Inf(1)
		}
		return crowd
	}

	idx := make([]int, n)
	for m := 0; m < len(objs[0]); m++ {
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(x, y int) bool {
			return objs[idx[x]][m] < objs[idx[y]][m]
		})

		span := objs[idx[n-1]][m] - objs[idx[0]][m]
		if span <= 0 {
			// degenerate axis, no spread to protect
			continue
		}
		crowd[idx[0]] = math.Inf(1)
		crowd[idx[n-1]] = math.Inf(1)
		for i := 1; i < n-1; i++ {
			crowd[idx[i]] += (objs[idx[i+1]][m] - objs[idx[i-1]][m]) / span
		}
	}
	return crowd
}
