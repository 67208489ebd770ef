// Command cfamutate drives the Mutation Driver (package driver) to
// completion over a single CFA, either in one shot or one round at a
// time from an interactive REPL.
//
// spec.md §1 treats both the upstream CFA parser and the program
// verifier as opaque, out-of-scope collaborators: a real deployment
// links its own parser and verifier against package driver directly.
// This binary exists because spec.md §6 defines exit statuses a *tool*
// reports, and ships a small self-contained demo CFA and Verifier (see
// demo.go) as the CFA source, so the loop is exercisable end to end
// without those collaborators. Swap demoCFA/demoVerifier for real ones
// to use this as a template for an actual integration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/cfamutation/driver/config"
	"github.com/cfamutation/driver/driver"
	"github.com/cfamutation/driver/feasibility"
	"github.com/cfamutation/driver/internal/roundcache"
	"github.com/cfamutation/driver/mutator"
)

func main() {
	configPath := flag.String("config", "", "path to the cfaMutation YAML config (defaults built in if empty)")
	envFile := flag.String("env", "", "path to a .env overlay (defaults to ./.env if present)")
	outDir := flag.String("out", ".", "root directory for per-round output")
	cachePath := flag.String("round-cache", "", "goleveldb directory for the opt-in round cache (disabled if empty)")
	debugCheck := flag.Bool("debug-check", false, "run the structural invariant checker after every mutation")
	withRechecker := flag.Bool("feasibility-recheck", true, "wire the configured feasibility rechecker (cex.checker)")
	interactive := flag.Bool("interactive", false, "drive the mutation loop one round at a time from a REPL")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cfamutate: loading config:", err)
		os.Exit(2)
	}

	original := demoCFA()
	verifier := demoVerifier()
	m := mutator.NewFunctionPruner(original)
	bc := cfg.BudgetController()

	runID := uuid.New().String()
	opts := []driver.Option{
		driver.WithOutputDir(*outDir),
		driver.WithRollbacksInRowCheck(cfg.CFAMutation.RollbacksInRowCheck),
		driver.WithDebugCheck(*debugCheck),
		driver.WithLogLevel(cfg.CFAMutation.LogFile.Level),
		driver.WithRoundStatFile(cfg.CFAMutation.RoundStatFile),
		driver.WithRankedNodesFile(cfg.CFAMutation.RankedNodesFile),
	}

	if *withRechecker {
		checker, err := cfg.BuildChecker()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cfamutate: building feasibility checker:", err)
			os.Exit(2)
		}
		rechecker := feasibility.NewDelegatingRechecker(checker)
		opts = append(opts, driver.WithFeasibilityRechecker(rechecker))
	}

	if *cachePath != "" {
		cache, err := roundcache.Open(*cachePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cfamutate: opening round cache:", err)
			os.Exit(2)
		}
		defer cache.Close()
		opts = append(opts, driver.WithRoundCache(cache))
	}

	d := driver.New(verifier, m, bc, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	defer signal.Stop(sigCh)

	fmt.Printf("cfamutate: run %s, functions=%v\n", runID, original.FunctionNames())

	var res *driver.Result
	if *interactive {
		res, err = runInteractive(ctx, d, original)
	} else {
		res, err = d.Run(ctx, original)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "cfamutate: driver error:", err)
		os.Exit(2)
	}

	if res.CexPath != "" {
		fmt.Printf("cfamutate: counterexample restored to %s\n", res.CexPath)
	}

	os.Exit(exitCode(res))
}

// exitCode maps a driver.Result's status to a process exit code:
// FEASIBLE_FALSE and DONE_NO_MORE_MUTATIONS are both successful
// terminations of the tool (a minimized counterexample either was or
// was not found), NOT_YET_STARTED and INTERRUPTED are reported as
// non-zero since no minimization took place.
func exitCode(res *driver.Result) int {
	switch res.Status {
	case driver.FeasibleFalse, driver.DoneNoMoreMutations:
		return 0
	case driver.NotYetStarted:
		return 1
	case driver.Interrupted:
		return 130
	default:
		return 1
	}
}
