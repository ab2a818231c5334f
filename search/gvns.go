package search

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/evrp"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// route-cut probability used when building the diversified seed population
const seedCutProb = 0.1

// recognized driver parameters
type Params struct {
	NS             int `json:"ns" yaml:"ns"`                           // solutions sampled per local-search stage
	NA             int `json:"na" yaml:"na"`                           // archive capacity
	LSMaxIter      int `json:"ls_max_iter" yaml:"ls_max_iter"`         // improving passes per VND run
	MaxPert        int `json:"max_pert" yaml:"max_pert"`               // perturbation strength ladder
	MaxEvaluations int `json:"max_evaluations" yaml:"max_evaluations"` // evaluation budget
}

func DefaultParams() Params {
	return Params{
		NS:             5,
		NA:             50,
		LSMaxIter:      10,
		MaxPert:        3,
		MaxEvaluations: 80,
	}
}

// MaxEvaluations may be zero (no search beyond construction);
// everything else must be positive
func (p Params) Validate() error {
	if p.NS <= 0 {
		return fmt.Errorf("%w: ns = %d", ErrInvalidConfig, p.NS)
	}
	if p.NA <= 0 {
		return fmt.Errorf("%w: na = %d", ErrInvalidConfig, p.NA)
	}
	if p.LSMaxIter <= 0 {
		return fmt.Errorf("%w: ls_max_iter = %d", ErrInvalidConfig, p.LSMaxIter)
	}
	if p.MaxPert <= 0 {
		return fmt.Errorf("%w: max_pert = %d", ErrInvalidConfig, p.MaxPert)
	}
	if p.MaxEvaluations < 0 {
		return fmt.Errorf("%w: max_evaluations = %d", ErrInvalidConfig, p.MaxEvaluations)
	}
	return nil
}

// GVNS coordinates construction, shaking, VND and archive maintenance
// within an evaluation budget. Single-threaded; every stage runs to
// completion before the next.
type GVNS struct {
	Instance *evrp.Instance
	Params   Params
	RunID    string

	rng         *rand.Rand
	vnd         *VND
	shaker      *Shaker
	archive     *Archive
	evaluations int
}

func New(inst *evrp.Instance, params Params, rng *rand.Rand) (*GVNS, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &GVNS{
		Instance: inst,
		Params:   params,
		RunID:    uuid.NewString(),
		rng:      rng,
		vnd:      NewVND(inst, params.LSMaxIter),
		shaker:   NewShaker(inst, rng),
		archive:  NewArchive(params.NA),
	}, nil
}

func (g *GVNS) Evaluations() int { return g.evaluations }

// Run executes the search and returns the final archive. The only fatal
// outcome past this point is construction infeasibility; dominated
// perturbations and rejected insertions are ordinary control flow.
func (g *GVNS) Run() (*Archive, error) {
	initial, err := evrp.NewConstructive(g.Instance, g.rng).Build()
	if err != nil {
		return nil, err
	}
	g.archive.TryInsert(initial)
	log.Printf(
		"[search] run %s: constructed dist %0.2f with %d vehicles, budget %d",
		g.RunID,
		initial.TotalDistance,
		initial.VehiclesUsed,
		g.Params.MaxEvaluations,
	)
	if g.Params.MaxEvaluations > 0 {
		g.seedPopulation()
	}

	seed := initial
	for g.evaluations < g.Params.MaxEvaluations {
		k := 1
		for k <= g.Params.MaxPert && g.evaluations < g.Params.MaxEvaluations {
			shaken := g.shaker.Shake(seed, k)
			refined := g.localSearchStage(shaken)

			if refined != nil && !seed.Dominates(refined) {
				seed = refined
				k = 1
				continue
			}
			k++
		}
		seed = g.selectSeed(seed)
	}

	log.Printf(
		"[search] run %s: finished after %d evaluations, archive size %d",
		g.RunID,
		g.evaluations,
		g.archive.Len(),
	)
	return g.archive, nil
}

// offer NS diversified constructive solutions to the archive, built with
// random route cuts so the initial front spans more vehicle counts.
// Pure construction consumes no evaluations.
func (g *GVNS) seedPopulation() {
	h := evrp.NewConstructive(g.Instance, g.rng)
	h.RouteCutProb = seedCutProb
	for i := 0; i < g.Params.NS; i++ {
		s, err := h.Build()
		if err != nil {
			log.Debugf("[search] seed population build failed: %v", err)
			return
		}
		g.archive.TryInsert(s)
	}
	log.Debugf("[search] seeded archive with %d members", g.archive.Len())
}

// one local-search stage: NS VND refinements, the first from the shaken
// solution and the rest from strength-1 re-shakes of the best so far.
// Every refinement consumes one evaluation and is offered to the archive.
// Returns the stage's best-by-distance feasible refinement, if any.
func (g *GVNS) localSearchStage(x *evrp.Solution) *evrp.Solution {
	var best *evrp.Solution
	cur := x
	for i := 0; i < g.Params.NS && g.evaluations < g.Params.MaxEvaluations; i++ {
		refined := g.vnd.Run(cur)
		g.evaluations++
		if refined.Feasible {
			g.archive.TryInsert(refined)
			if best == nil || refined.TotalDistance < best.TotalDistance {
				best = refined
			}
		}
		if best != nil {
			cur = g.shaker.Shake(best, 1)
		} else {
			cur = g.shaker.Shake(refined, 1)
		}
	}
	return best
}

// next seed: a random archive member, cloned so the archive's copy stays
// immune to later mutation by the driver
func (g *GVNS) selectSeed(fallback *evrp.Solution) *evrp.Solution {
	members := g.archive.Members()
	if len(members) == 0 {
		return fallback
	}
	return members[g.rng.Intn(len(members))].Clone()
}
