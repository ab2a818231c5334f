package search

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/evroute/evrp/evrp"
)

// quality metrics of a Pareto front
type FrontMetrics struct {
	Size        int            `json:"size"`
	Utopian     evrp.Objective `json:"utopian"`
	Nadir       evrp.Objective `json:"nadir"`
	Hypervolume float64        `json:"hypervolume"`
	Spacing     float64        `json:"spacing"`
}

// reference point factor applied to the nadir for hypervolume
const hypervolumeRefFactor = 1.1

func EvaluateFront(members []*evrp.Solution) FrontMetrics {
	m := FrontMetrics{Size: len(members)}
	if len(members) == 0 {
		return m
	}

	axes := make([][]float64, len(evrp.Objective{}))
	for i := range axes {
		axes[i] = make([]float64, len(members))
	}
	for j, s := range members {
		obj := s.Objectives()
		for i := range obj {
			axes[i][j] = obj[i]
		}
	}
	for i := range axes {
		m.Utopian[i] = floats.Min(axes[i])
		m.Nadir[i] = floats.Max(axes[i])
	}

	ref := [2]float64{
		m.Nadir[0] * hypervolumeRefFactor,
		m.Nadir[2] * hypervolumeRefFactor,
	}
	m.Hypervolume = hypervolume2D(members, ref)
	m.Spacing = spacing(members)
	return m
}

// 2-D hypervolume over the (distance, cost) axes against a reference
// point that every member must dominate
func hypervolume2D(members []*evrp.Solution, ref [2]float64) float64 {
	type point struct{ x, y float64 }
	pts := make([]point, 0, len(members))
	for _, s := range members {
		obj := s.Objectives()
		if obj[0] >= ref[0] || obj[2] >= ref[1] {
			continue
		}
		pts = append(pts, point{obj[0], obj[2]})
	}
	if len(pts) == 0 {
		return 0
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })

	volume := 0.0
	prevY := ref[1]
	for _, p := range pts {
		if p.y >= prevY {
			continue
		}
		volume += (ref[0] - p.x) * (prevY - p.y)
		prevY = p.y
	}
	return volume
}

// Schott's spacing: standard deviation of nearest-neighbor distances in
// objective space; 0 means a perfectly even spread
func spacing(members []*evrp.Solution) float64 {
	if len(members) < 2 {
		return 0
	}
	nearest := make([]float64, len(members))
	for i, a := range members {
		ao := a.Objectives()
		nearest[i] = math.Inf(1)
		for j, b := range members {
			if i == j {
				continue
			}
			bo := b.Objectives()
			var d float64
			for k := range ao {
				d += math.Abs(ao[k] - bo[k])
			}
			if d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return stat.StdDev(nearest, nil)
}
