package report

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
	"github.com/evroute/evrp/search"
)

func TestWriteReport(t *testing.T) {
	nodes := []common.Node{
		{Label: "D0", Kind: common.Depot},
		{Label: "C1", Kind: common.Customer, X: 2, Y: 3, Demand: 2},
		{Label: "C2", Kind: common.Customer, X: 4, Y: 1, Demand: 2},
		{Label: "C3", Kind: common.Customer, X: 1, Y: 5, Demand: 2},
		{Label: "S0", Kind: common.Station, X: 3, Y: 4, Technologies: common.StandardTechnologies()},
	}
	inst, err := evrp.New("toy", nodes, common.Vehicle{Capacity: 4, BatteryCapacity: 40, ConsumptionRate: 1})
	require.NoError(t, err)

	params := search.DefaultParams()
	params.MaxEvaluations = 10
	g, err := search.New(inst, params, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	archive, err := g.Run()
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "toy")
	require.NoError(t, WriteReport(dir, inst, archive, params, g.RunID))

	for _, name := range []string{"front.csv", "solutions.json", "metrics.json", "summary.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoErrorf(t, err, "missing artifact %s", name)
	}

	f, err := os.Open(filepath.Join(dir, "front.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, []string{"rank", "distance", "vehicles", "cost", "routes"}, rows[0])
	assert.Equal(t, archive.Len(), len(rows)-1)

	// rows sorted by ascending distance
	prev := 0.0
	for _, row := range rows[1:] {
		d, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}

	var metrics search.FrontMetrics
	common.FromFile(filepath.Join(dir, "metrics.json"), &metrics)
	assert.Equal(t, archive.Len(), metrics.Size)
}
