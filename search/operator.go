// Package search implements the local-search operators, variable
// neighborhood descent, shaking and the GVNS driver over evrp solutions.
package search

import "github.com/evroute/evrp/evrp"

const improveEps = 1e-9

// Operator explores one neighborhood of a solution. Apply mutates the
// given solution in place, accepting strictly-improving moves only, and
// reports whether it improved. The caller owns the solution and clones
// before calling when others still hold a reference. Scan order is fixed,
// so operators are deterministic for a given solution.
type Operator interface {
	Name() string
	Apply(s *evrp.Solution) bool
}
