package evrp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/evroute/evrp/common"
)

// fatal error classes surfaced to the caller before any search starts
var (
	ErrInstanceParse          = errors.New("instance parse error")
	ErrConstructionInfeasible = errors.New("no feasible initial solution")
)

// schema for a static problem instance
// read-only after load; safely shared by reference across all solutions
type Instance struct {
	Name                    string
	Nodes                   []common.Node
	Vehicle                 common.Vehicle
	NumVehicles             int     // 0 = unbounded fleet
	MaxRouteDuration        float64 // hours, 0 = unconstrained
	ChargingFixedTime       float64 // fixed overhead per recharge stop, hours
	BatteryDepreciationCost float64 // per recharge cycle

	depot     int
	customers []int
	stations  []int
	dist      *mat.SymDense
}

// build an instance over the given nodes, assigning node IDs by position
// and caching the symmetric distance matrix
func New(name string, nodes []common.Node, vehicle common.Vehicle) (*Instance, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: instance has no nodes", ErrInstanceParse)
	}

	inst := &Instance{
		Name:    name,
		Nodes:   make([]common.Node, len(nodes)),
		Vehicle: vehicle,
		depot:   -1,
	}
	copy(inst.Nodes, nodes)

	for i := range inst.Nodes {
		inst.Nodes[i].ID = i
		switch inst.Nodes[i].Kind {
		case common.Depot:
			if inst.depot < 0 {
				inst.depot = i
			}
		case common.Customer:
			inst.customers = append(inst.customers, i)
		case common.Station:
			inst.stations = append(inst.stations, i)
		}
	}
	if inst.depot < 0 {
		return nil, fmt.Errorf("%w: instance has no depot", ErrInstanceParse)
	}

	inst.dist = mat.NewSymDense(len(inst.Nodes), nil)
	for i := range inst.Nodes {
		for j := i + 1; j < len(inst.Nodes); j++ {
			inst.dist.SetSym(i, j, common.Distance(inst.Nodes[i], inst.Nodes[j]))
		}
	}

	return inst, nil
}

// check the loader-facing invariants: positive vehicle parameters
// and every customer demand within cargo capacity
func (inst *Instance) Validate() error {
	if inst.Vehicle.Capacity <= 0 {
		return fmt.Errorf("%w: vehicle capacity %v", ErrInstanceParse, inst.Vehicle.Capacity)
	}
	if inst.Vehicle.BatteryCapacity <= 0 {
		return fmt.Errorf("%w: battery capacity %v", ErrInstanceParse, inst.Vehicle.BatteryCapacity)
	}
	if inst.Vehicle.ConsumptionRate <= 0 {
		return fmt.Errorf("%w: consumption rate %v", ErrInstanceParse, inst.Vehicle.ConsumptionRate)
	}
	if len(inst.customers) == 0 {
		return fmt.Errorf("%w: instance has no customers", ErrInstanceParse)
	}
	for _, c := range inst.customers {
		if inst.Nodes[c].Demand > inst.Vehicle.Capacity {
			return fmt.Errorf(
				"%w: customer %s demand %v exceeds capacity %v",
				ErrInstanceParse,
				inst.Nodes[c].Label,
				inst.Nodes[c].Demand,
				inst.Vehicle.Capacity,
			)
		}
	}
	return nil
}

// cached distance between two nodes
func (inst *Instance) Distance(i, j int) float64 {
	return inst.dist.At(i, j)
}

// travel time between two nodes at the vehicle's average speed
func (inst *Instance) TravelTime(i, j int) float64 {
	if inst.Vehicle.Speed <= 0 {
		return 0
	}
	return inst.dist.At(i, j) / inst.Vehicle.Speed
}

func (inst *Instance) Depot() int { return inst.depot }

func (inst *Instance) Customers() []int { return inst.customers }

func (inst *Instance) Stations() []int { return inst.stations }

func (inst *Instance) String() string {
	return fmt.Sprintf(
		"%s: %d customers, %d stations, Q=%v, B=%v",
		inst.Name,
		len(inst.customers),
		len(inst.stations),
		inst.Vehicle.Capacity,
		inst.Vehicle.BatteryCapacity,
	)
}
