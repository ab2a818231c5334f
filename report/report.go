// Package report renders the final archive into text and CSV artifacts.
// It is a pure consumer of the search results; the core makes no
// assumption about the formats produced here.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
	"github.com/evroute/evrp/search"
)

// log instance characteristics before a run
func PrintInstanceSummary(inst *evrp.Instance) {
	log.Printf("[report] instance %v", inst)
	totalDemand := 0.0
	for _, c := range inst.Customers() {
		totalDemand += inst.Nodes[c].Demand
	}
	log.Printf(
		"[report] total demand %0.1f, max range %0.1f km, %d stations",
		totalDemand,
		inst.Vehicle.MaxRange(),
		len(inst.Stations()),
	)
}

// write front.csv, solutions.json, metrics.json and summary.txt for a
// finished run under dir
func WriteReport(dir string, inst *evrp.Instance, archive *search.Archive, params search.Params, runID string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating report directory %s: %w", dir, err)
	}

	members := archive.Members()
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i].Objectives(), members[j].Objectives()
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	writeFrontCSV(filepath.Join(dir, "front.csv"), members)
	common.ToFile(filepath.Join(dir, "solutions.json"), members)
	common.ToFile(filepath.Join(dir, "metrics.json"), search.EvaluateFront(members))
	writeSummary(filepath.Join(dir, "summary.txt"), inst, members, params, runID)

	log.Printf("[report] wrote %d non-dominated solutions to %s", len(members), dir)
	return nil
}

func writeFrontCSV(path string, members []*evrp.Solution) {
	w := common.CreateCSVWriter(path)
	defer w.Flush()

	w.Write([]string{"rank", "distance", "vehicles", "cost", "routes"})
	for i, s := range members {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%0.2f", s.TotalDistance),
			fmt.Sprintf("%d", s.VehiclesUsed),
			fmt.Sprintf("%0.2f", s.TotalCost),
			fmt.Sprintf("%d", len(s.Routes)),
		})
	}
}

func writeSummary(path string, inst *evrp.Instance, members []*evrp.Solution, params search.Params, runID string) {
	var b strings.Builder
	fmt.Fprintf(&b, "instance: %v\n", inst)
	fmt.Fprintf(&b, "run: %s\n", runID)
	fmt.Fprintf(&b, "params: %+v\n", params)
	fmt.Fprintf(&b, "non-dominated solutions: %d\n\n", len(members))

	for i, s := range members {
		fmt.Fprintf(
			&b,
			"solution %d: dist %0.2f, vehicles %d, cost %0.2f\n",
			i+1,
			s.TotalDistance,
			s.VehiclesUsed,
			s.TotalCost,
		)
		for _, r := range s.Routes {
			labels := make([]string, len(r.Nodes))
			for k, id := range r.Nodes {
				labels[k] = inst.Nodes[id].Label
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(labels, " -> "))
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		log.Fatalf("[report] error writing summary: %v", err)
	}
}
