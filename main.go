package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hartwell-sat/cdclsat/internal/sat"
	"github.com/hartwell-sat/cdclsat/parsers"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"treat the instance file as gzip-compressed",
)

var flagMaxConflicts = flag.Int64(
	"max-conflicts",
	-1,
	"abort search (status UNKNOWN) after this many conflicts; -1 disables",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		gzipped:      *flagGzip,
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		maxConflicts: *flagMaxConflicts,
	}, nil
}

type config struct {
	instanceFile string
	gzipped      bool
	memProfile   bool
	cpuProfile   bool
	maxConflicts int64
}

func run(cfg *config) error {
	solverCfg := sat.DefaultConfig
	solverCfg.MaxConflicts = cfg.maxConflicts

	s, err := sat.NewSolver(solverCfg)
	if err != nil {
		return fmt.Errorf("could not configure solver: %w", err)
	}

	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %w", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())

	t := time.Now()
	status, solveErr := s.Solve()
	elapsed := time.Since(t)

	stats := s.Stats()
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", stats.Conflicts, float64(stats.Conflicts)/elapsed.Seconds())
	fmt.Printf("c restarts:   %d\n", stats.Restarts)
	fmt.Printf("c status:     %s\n", status)

	if status == sat.StatusSatisfiable {
		fmt.Print("v")
		for v := 0; v < s.NumVariables(); v++ {
			if s.Model(sat.Variable(v)) == sat.True {
				fmt.Printf(" %d", v+1)
			} else {
				fmt.Printf(" -%d", v+1)
			}
		}
		fmt.Println(" 0")
	}

	if solveErr != nil && status == sat.StatusUnknown {
		return fmt.Errorf("search did not reach a verdict: %w", solveErr)
	}
	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
