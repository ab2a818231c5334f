package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evroute/evrp/evrp"
)

func TestEvaluateFrontEmpty(t *testing.T) {
	m := EvaluateFront(nil)
	assert.Zero(t, m.Size)
	assert.Zero(t, m.Hypervolume)
	assert.Zero(t, m.Spacing)
}

func TestEvaluateFrontSingleton(t *testing.T) {
	m := EvaluateFront([]*evrp.Solution{sol(10, 1, 30)})

	assert.Equal(t, 1, m.Size)
	assert.Equal(t, evrp.Objective{10, 1, 30}, m.Utopian)
	assert.Equal(t, evrp.Objective{10, 1, 30}, m.Nadir)
	// reference point (11, 33) over the (distance, cost) plane
	assert.InDelta(t, 3.0, m.Hypervolume, 1e-9)
	assert.Zero(t, m.Spacing)
}

func TestEvaluateFrontTwoPoints(t *testing.T) {
	m := EvaluateFront([]*evrp.Solution{
		sol(10, 1, 30),
		sol(20, 1, 20),
	})

	assert.Equal(t, 2, m.Size)
	assert.Equal(t, evrp.Objective{10, 1, 20}, m.Utopian)
	assert.Equal(t, evrp.Objective{20, 1, 30}, m.Nadir)

	// ref (22, 33): 12*3 for the first point plus 2*10 for the second
	assert.InDelta(t, 56.0, m.Hypervolume, 1e-9)

	// both nearest-neighbor gaps are equal
	assert.Zero(t, m.Spacing)
}

func TestEvaluateFrontUnevenSpread(t *testing.T) {
	even := EvaluateFront([]*evrp.Solution{
		sol(10, 1, 40), sol(20, 1, 30), sol(30, 1, 20),
	})
	uneven := EvaluateFront([]*evrp.Solution{
		sol(10, 1, 40), sol(11, 1, 39), sol(30, 1, 20),
	})

	assert.Zero(t, even.Spacing)
	assert.Greater(t, uneven.Spacing, 0.0)
}

func TestHypervolumeOrderIndependent(t *testing.T) {
	a := []*evrp.Solution{sol(10, 1, 30), sol(20, 1, 20), sol(15, 1, 25)}
	b := []*evrp.Solution{sol(15, 1, 25), sol(10, 1, 30), sol(20, 1, 20)}

	assert.InDelta(t, EvaluateFront(a).Hypervolume, EvaluateFront(b).Hypervolume, 1e-9)
}
