package evrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evroute/evrp/common"
)

// instance on a line: depot at origin, then the given customer
// positions/demands, plus optional stations
func lineInstance(t *testing.T, vehicle common.Vehicle, customers [][3]float64, stations []float64) *Instance {
	t.Helper()
	nodes := []common.Node{{Label: "D0", Kind: common.Depot}}
	for i, c := range customers {
		nodes = append(nodes, common.Node{
			Label:  "C" + string(rune('1'+i)),
			Kind:   common.Customer,
			X:      c[0],
			Y:      c[1],
			Demand: c[2],
		})
	}
	for i, x := range stations {
		nodes = append(nodes, common.Node{
			Label:        "S" + string(rune('0'+i)),
			Kind:         common.Station,
			X:            x,
			Technologies: common.StandardTechnologies(),
		})
	}
	inst, err := New("test", nodes, vehicle)
	require.NoError(t, err)
	return inst
}

func TestRouteEvaluateFeasible(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 100, ConsumptionRate: 1},
		[][3]float64{{1, 0, 2}, {2, 0, 3}},
		nil,
	)

	r := Route{Nodes: []int{0, 1, 2, 0}, Charging: map[int]ChargingDecision{}}
	r.Evaluate(inst)

	assert.True(t, r.Feasible)
	assert.InDelta(t, 4.0, r.TotalDistance, 1e-9)
	assert.Zero(t, r.TotalCost)
}

func TestRouteEvaluateCapacityViolation(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 4, BatteryCapacity: 100, ConsumptionRate: 1},
		[][3]float64{{1, 0, 2}, {2, 0, 3}},
		nil,
	)

	r := Route{Nodes: []int{0, 1, 2, 0}}
	r.Evaluate(inst)
	assert.False(t, r.Feasible)
}

func TestRouteEvaluateBatteryViolation(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 3, ConsumptionRate: 1},
		[][3]float64{{2, 0, 1}},
		nil,
	)

	r := Route{Nodes: []int{0, 1, 0}}
	r.Evaluate(inst)
	assert.False(t, r.Feasible)
}

func TestRouteEvaluateRechargeRestoresBattery(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 15, ConsumptionRate: 1},
		[][3]float64{{10, 0, 1}},
		[]float64{5},
	)
	station := inst.Stations()[0]

	r := Route{
		Nodes: []int{0, station, 1, 0},
		Charging: map[int]ChargingDecision{
			station: {Tech: common.StandardTechnologies()[1], Energy: 5},
		},
	}
	r.Evaluate(inst)

	require.True(t, r.Feasible)
	assert.Greater(t, r.TotalCost, 0.0)

	profile := r.BatteryProfile(inst)
	for i, level := range profile {
		assert.GreaterOrEqualf(t, level, -1e-9, "battery negative at stop %d", i)
	}
}

func TestRouteEvaluateMissingTechnology(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 15, ConsumptionRate: 1},
		[][3]float64{{10, 0, 1}},
		[]float64{5},
	)
	station := inst.Stations()[0]
	inst.Nodes[station].Technologies = nil

	r := Route{
		Nodes: []int{0, station, 1, 0},
		Charging: map[int]ChargingDecision{
			station: {Tech: common.StandardTechnologies()[0], Energy: 5},
		},
	}
	r.Evaluate(inst)
	assert.False(t, r.Feasible)
}

func TestRouteEvaluateDurationLimit(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 100, ConsumptionRate: 1, Speed: 1},
		[][3]float64{{5, 0, 1}},
		nil,
	)
	inst.MaxRouteDuration = 8

	r := Route{Nodes: []int{0, 1, 0}}
	r.Evaluate(inst)
	assert.False(t, r.Feasible, "10 hours of travel exceeds the 8 hour limit")

	inst.MaxRouteDuration = 12
	r.Evaluate(inst)
	assert.True(t, r.Feasible)
}

func TestRouteMustStartAndEndAtDepot(t *testing.T) {
	inst := lineInstance(t,
		common.Vehicle{Capacity: 10, BatteryCapacity: 100, ConsumptionRate: 1},
		[][3]float64{{1, 0, 1}, {2, 0, 1}},
		nil,
	)

	r := Route{Nodes: []int{1, 2, 0}}
	r.Evaluate(inst)
	assert.False(t, r.Feasible)
}

func TestRouteCloneIsIndependent(t *testing.T) {
	r := Route{
		Nodes:    []int{0, 1, 0},
		Charging: map[int]ChargingDecision{2: {Energy: 5}},
	}
	c := r.Clone()
	c.Nodes[1] = 9
	c.Charging[2] = ChargingDecision{Energy: 7}

	assert.Equal(t, 1, r.Nodes[1])
	assert.Equal(t, 5.0, r.Charging[2].Energy)
}
