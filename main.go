package main

import (
	"errors"
	"flag"
	"math/rand"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/evroute/evrp/common"
	"github.com/evroute/evrp/evrp"
	"github.com/evroute/evrp/report"
	"github.com/evroute/evrp/search"
)

type cliConfig struct {
	Instance   string
	DataDir    string
	OutDir     string
	ParamsFile string
	Seed       int64
	Verbose    bool
}

func main() {
	var cfg cliConfig
	flag.StringVar(
		&cfg.Instance,
		"instance",
		"",
		"path to a single EVRP instance file",
	)
	flag.StringVar(
		&cfg.DataDir,
		"data",
		"",
		"directory of instance files to process in batch",
	)
	flag.StringVar(
		&cfg.OutDir,
		"out",
		"output",
		"directory to save reports",
	)
	flag.StringVar(
		&cfg.ParamsFile,
		"params",
		"",
		"path to search parameter file (.json or .yaml)",
	)
	flag.Int64Var(
		&cfg.Seed,
		"seed",
		1,
		"random seed (runs are reproducible per seed)",
	)
	flag.BoolVar(
		&cfg.Verbose,
		"verbose",
		false,
		"enable verbose logging",
	)
	ns := flag.Int("ns", -1, "solutions sampled per local-search stage")
	na := flag.Int("na", -1, "archive capacity")
	lsMaxIter := flag.Int("ls_max_iter", -1, "max improving VND passes")
	maxPert := flag.Int("max_pert", -1, "max perturbation strength")
	maxEvals := flag.Int("max_evals", -1, "evaluation budget")
	flag.Parse()

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	params := search.DefaultParams()
	if cfg.ParamsFile != "" {
		switch strings.ToLower(filepath.Ext(cfg.ParamsFile)) {
		case ".yaml", ".yml":
			common.FromYAMLFile(cfg.ParamsFile, &params)
		case ".json":
			common.FromFile(cfg.ParamsFile, &params)
		default:
			log.Fatalf("[main] unsupported params file %s", cfg.ParamsFile)
		}
	}
	if *ns >= 0 {
		params.NS = *ns
	}
	if *na >= 0 {
		params.NA = *na
	}
	if *lsMaxIter >= 0 {
		params.LSMaxIter = *lsMaxIter
	}
	if *maxPert >= 0 {
		params.MaxPert = *maxPert
	}
	if *maxEvals >= 0 {
		params.MaxEvaluations = *maxEvals
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("[main] %v", err)
	}

	switch {
	case cfg.DataDir != "":
		runBatch(cfg, params)
	case cfg.Instance != "":
		if err := runInstance(cfg.Instance, cfg, params); err != nil {
			log.Fatalf("[main] %v", err)
		}
	default:
		log.Fatalf("[main] either -instance or -data is required")
	}
}

// process every instance file in the data directory; construction
// infeasibility is reported and the instance skipped
func runBatch(cfg cliConfig, params search.Params) {
	paths, err := filepath.Glob(filepath.Join(cfg.DataDir, "*.txt"))
	if err != nil || len(paths) == 0 {
		log.Fatalf("[main] no instances found in %s", cfg.DataDir)
	}
	log.Printf("[main] processing %d instances from %s", len(paths), cfg.DataDir)

	failed := 0
	for i, path := range paths {
		log.Printf("[main] [%d/%d] %s", i+1, len(paths), path)
		if err := runInstance(path, cfg, params); err != nil {
			failed++
			if errors.Is(err, evrp.ErrConstructionInfeasible) {
				log.Warnf("[main] skipping %s: %v", path, err)
				continue
			}
			log.Errorf("[main] %s: %v", path, err)
		}
	}
	log.Printf("[main] batch done: %d ok, %d failed", len(paths)-failed, failed)
}

func runInstance(path string, cfg cliConfig, params search.Params) error {
	inst, err := evrp.LoadInstance(path)
	if err != nil {
		return err
	}
	report.PrintInstanceSummary(inst)

	rng := rand.New(rand.NewSource(cfg.Seed))
	gvns, err := search.New(inst, params, rng)
	if err != nil {
		return err
	}
	archive, err := gvns.Run()
	if err != nil {
		return err
	}

	if best := archive.Best(); best != nil {
		log.Printf(
			"[main] best solution: dist %0.2f, vehicles %d, cost %0.2f",
			best.TotalDistance,
			best.VehiclesUsed,
			best.TotalCost,
		)
	}
	return report.WriteReport(
		filepath.Join(cfg.OutDir, inst.Name),
		inst,
		archive,
		params,
		gvns.RunID,
	)
}
