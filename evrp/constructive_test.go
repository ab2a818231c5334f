package evrp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evroute/evrp/common"
)

func TestConstructiveSplitsOnCapacity(t *testing.T) {
	// three customers of demand 2 against a capacity of 5:
	// no single route can serve all of them
	inst := lineInstance(t,
		common.Vehicle{Capacity: 5, BatteryCapacity: 1000, ConsumptionRate: 1},
		[][3]float64{{1, 0, 2}, {2, 0, 2}, {3, 0, 2}},
		nil,
	)

	s, err := NewConstructive(inst, rand.New(rand.NewSource(1))).Build()
	require.NoError(t, err)

	assert.True(t, s.Feasible)
	assert.Len(t, s.Routes, 2)

	served := 0
	for _, r := range s.Routes {
		load := 0.0
		for _, c := range r.Customers(inst) {
			load += inst.Nodes[c].Demand
			served++
		}
		assert.LessOrEqual(t, load, inst.Vehicle.Capacity)
	}
	assert.Equal(t, 3, served)
}

func TestConstructiveInsertsCharging(t *testing.T) {
	// the round trip needs 20 kWh against a 15 kWh battery,
	// so the station halfway must be visited
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 15, ConsumptionRate: 1},
		[][3]float64{{10, 0, 1}},
		[]float64{5},
	)

	s, err := NewConstructive(inst, rand.New(rand.NewSource(1))).Build()
	require.NoError(t, err)
	require.True(t, s.Feasible)
	require.Len(t, s.Routes, 1)

	stations := 0
	for _, id := range s.Routes[0].Nodes {
		if inst.Nodes[id].Kind == common.Station {
			stations++
			_, ok := s.Routes[0].Charging[id]
			assert.True(t, ok, "station visit without a charging decision")
		}
	}
	assert.Equal(t, 1, stations)

	for _, level := range s.Routes[0].BatteryProfile(inst) {
		assert.GreaterOrEqual(t, level, -1e-9)
	}
}

func TestConstructiveOversizedDemand(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 5, BatteryCapacity: 1000, ConsumptionRate: 1},
		[][3]float64{{1, 0, 2}, {2, 0, 6}},
		nil,
	)

	_, err := NewConstructive(inst, rand.New(rand.NewSource(1))).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstructionInfeasible)
}

func TestConstructiveUnreachableCustomer(t *testing.T) {
	// no station in range: the customer cannot be served
	inst := lineInstance(t,
		common.Vehicle{Capacity: 5, BatteryCapacity: 10, ConsumptionRate: 1},
		[][3]float64{{50, 0, 1}},
		nil,
	)

	_, err := NewConstructive(inst, rand.New(rand.NewSource(1))).Build()
	assert.ErrorIs(t, err, ErrConstructionInfeasible)
}

func TestConstructiveDeterministicWithoutCuts(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 1000, ConsumptionRate: 1},
		[][3]float64{{1, 0, 1}, {4, 0, 2}, {2, 1, 3}, {5, 2, 1}},
		nil,
	)

	a, err := NewConstructive(inst, rand.New(rand.NewSource(1))).Build()
	require.NoError(t, err)
	b, err := NewConstructive(inst, rand.New(rand.NewSource(99))).Build()
	require.NoError(t, err)

	assert.Equal(t, a.Objectives(), b.Objectives())
}

func TestConstructiveRouteCutDiversifies(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 100, BatteryCapacity: 1000, ConsumptionRate: 1},
		[][3]float64{{1, 0, 1}, {2, 0, 1}, {3, 0, 1}, {4, 0, 1}},
		nil,
	)

	h := NewConstructive(inst, rand.New(rand.NewSource(1)))
	h.RouteCutProb = 1.0
	s, err := h.Build()
	require.NoError(t, err)

	assert.True(t, s.Feasible)
	assert.Len(t, s.Routes, 4, "cutting after every insertion yields singleton routes")
}
