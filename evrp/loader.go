package evrp

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/common"
)

// default instance parameters not present in the data files
const (
	defaultSpeed             = 25.0 // km/h
	defaultChargingFixedTime = 0.1  // hours per stop
	defaultDepreciationCost  = 2.27 // per recharge cycle
)

// LoadInstance parses an EVRP instance file in the plain-text format
//
//	StringID Type x y demand ReadyTime DueDate ServiceTime
//	D0       d    40.0 50.0 0.0 ...
//	S0       f    ...
//	C1       c    ...
//	Q Vehicle fuel tank capacity /77.75/
//	C Vehicle load capacity /200.0/
//	r fuel consumption rate /1.0/
//	v average Velocity /25.0/
//
// and returns an Instance satisfying the model invariants, or an error
// wrapping ErrInstanceParse.
func LoadInstance(path string) (*Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstanceParse, err)
	}
	defer file.Close()

	var depots, customers, stations []common.Node
	vehicle := common.Vehicle{Speed: defaultSpeed}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "StringID") {
			continue
		}

		if strings.Contains(line, "/") {
			if err := parseVehicleParam(line, &vehicle); err != nil {
				return nil, err
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}
		node, err := parseNodeRow(fields)
		if err != nil {
			return nil, err
		}
		switch node.Kind {
		case common.Depot:
			depots = append(depots, node)
		case common.Customer:
			customers = append(customers, node)
		case common.Station:
			stations = append(stations, node)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstanceParse, err)
	}

	// depot first, then customers, then stations
	nodes := append(append(depots, customers...), stations...)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	inst, err := New(name, nodes, vehicle)
	if err != nil {
		return nil, err
	}
	inst.ChargingFixedTime = defaultChargingFixedTime
	inst.BatteryDepreciationCost = defaultDepreciationCost

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("[evrp] loaded %v", inst)
	return inst, nil
}

func parseNodeRow(fields []string) (common.Node, error) {
	var node common.Node
	node.Label = fields[0]

	switch fields[1] {
	case "d":
		node.Kind = common.Depot
		node.Technologies = common.StandardTechnologies()[:1]
	case "c":
		node.Kind = common.Customer
	case "f":
		node.Kind = common.Station
		node.Technologies = common.StandardTechnologies()
	default:
		return node, fmt.Errorf("%w: unknown node type %q", ErrInstanceParse, fields[1])
	}

	vals := make([]float64, 0, 6)
	for _, f := range fields[2:8] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return node, fmt.Errorf("%w: bad numeric field %q in row %s", ErrInstanceParse, f, fields[0])
		}
		vals = append(vals, v)
	}
	node.X = vals[0]
	node.Y = vals[1]
	node.Demand = vals[2]
	node.ServiceTime = vals[5]
	if node.Kind != common.Customer && node.Demand != 0 {
		return node, fmt.Errorf("%w: non-customer %s has demand %v", ErrInstanceParse, node.Label, node.Demand)
	}
	return node, nil
}

// vehicle parameter lines carry their value between slashes
func parseVehicleParam(line string, vehicle *common.Vehicle) error {
	start := strings.Index(line, "/")
	end := strings.LastIndex(line, "/")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: malformed parameter line %q", ErrInstanceParse, line)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(line[start+1:end]), 64)
	if err != nil {
		return fmt.Errorf("%w: bad parameter value in %q", ErrInstanceParse, line)
	}

	switch {
	case strings.HasPrefix(line, "Q"):
		vehicle.BatteryCapacity = value
	case strings.HasPrefix(line, "C"):
		vehicle.Capacity = value
	case strings.HasPrefix(line, "r"):
		vehicle.ConsumptionRate = value
	case strings.HasPrefix(line, "v"):
		vehicle.Speed = value
	case strings.HasPrefix(line, "g"):
		// inverse refueling rate is superseded by per-technology power
	default:
		return fmt.Errorf("%w: unknown parameter line %q", ErrInstanceParse, line)
	}
	return nil
}
