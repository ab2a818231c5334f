package common

import (
	"fmt"
	"math"
)

// node kinds in an EVRP instance
type NodeKind int

const (
	Depot NodeKind = iota
	Customer
	Station
)

func (k NodeKind) String() string {
	switch k {
	case Depot:
		return "depot"
	case Customer:
		return "customer"
	case Station:
		return "station"
	}
	return "unknown"
}

// schema for a node of the instance
// ID is the node's index into Instance.Nodes; immutable after load
type Node struct {
	ID           int          `json:"id"`
	Label        string       `json:"label"`
	Kind         NodeKind     `json:"kind"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	Demand       float64      `json:"demand"`
	ServiceTime  float64      `json:"service_time"`
	Technologies []Technology `json:"technologies,omitempty"`
}

func (n Node) String() string {
	return fmt.Sprintf("%s %s (%0.1f, %0.1f)", n.Kind, n.Label, n.X, n.Y)
}

// euclidean distance between two nodes
func Distance(a, b Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
