package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/budget"
	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/cfacheck"
	"github.com/cfamutation/driver/feasibility"
	"github.com/cfamutation/driver/internal/rlog"
	"github.com/cfamutation/driver/internal/roundcache"
	"github.com/cfamutation/driver/internal/stats"
	"github.com/cfamutation/driver/mutator"
)

// CexSourceFunc supplies the raw counterexample bytes the rechecker
// should restore into. The verifier's own counterexample emission is an
// opaque, out-of-scope collaborator (spec.md §1): a real integration
// supplies one that reads wherever its verifier wrote the file; the
// default produces a minimal placeholder so the driver remains
// exercisable without one.
type CexSourceFunc func(res *analysis.AnalysisResult) []byte

func defaultCexSource(res *analysis.AnalysisResult) []byte {
	return []byte(fmt.Sprintf("// counterexample target: %s\nint main(void) { return 0; }\n", res.Target))
}

// Option configures a Driver, mirroring the teacher's BuilderOption
// idiom: functional options resolved into the receiver before use,
// with no hidden global state.
type Option func(*Driver)

// WithOutputDir sets the root of the `<out>/<round>-<phase>/` tree
// (spec.md §6). Defaults to the process's working directory.
func WithOutputDir(dir string) Option { return func(d *Driver) { d.outDir = dir } }

// WithRollbacksInRowCheck sets cfaMutation.rollbacksInRowCheck (spec.md
// §6); 0 disables the periodic rollback-confirmation round.
func WithRollbacksInRowCheck(k uint32) Option {
	return func(d *Driver) { d.rollbacksInRowCheck = k }
}

// WithDebugCheck enables running the structural invariant checker (C2)
// after every mutation round's CFA is materialized (spec.md §4.2).
func WithDebugCheck(enabled bool) Option { return func(d *Driver) { d.debugCheck = enabled } }

// WithLogLevel sets the per-round log level (spec.md §6's
// cfaMutation.logFile.level).
func WithLogLevel(level rlog.Level) Option { return func(d *Driver) { d.logLevel = level } }

// WithFeasibilityRechecker wires the Feasibility Rechecker (C6). Without
// this option, should_check_feasibility rounds are skipped and
// classified as not-yet-confirmed rather than terminating the loop.
func WithFeasibilityRechecker(r *feasibility.DelegatingRechecker) Option {
	return func(d *Driver) { d.rechecker = r }
}

// WithRoundStatFile sets cfaMutation.roundStatFile, the per-round
// Prometheus text dump's filename within `<out>/<round>-<phase>/`.
func WithRoundStatFile(name string) Option {
	return func(d *Driver) { d.roundStatFile = name }
}

// WithRankedNodesFile sets cfaMutation.rankedNodesFile, the per-round
// CFA-node rank dump's filename within `<out>/<round>-<phase>/`.
func WithRankedNodesFile(name string) Option {
	return func(d *Driver) { d.rankedNodesFile = name }
}

// WithCexSource overrides how the driver obtains counterexample bytes to
// hand the rechecker; see CexSourceFunc.
func WithCexSource(f CexSourceFunc) Option { return func(d *Driver) { d.cexSource = f } }

// WithStats overrides the statistics accumulator (default: a fresh one).
func WithStats(s *stats.Stats) Option { return func(d *Driver) { d.stats = s } }

// WithRoundCache wires internal/roundcache: a mutated CFA whose
// structural fingerprint was already analyzed this session short-circuits
// a repeat analysis call.
func WithRoundCache(c *roundcache.Cache) Option { return func(d *Driver) { d.cache = c } }

// Driver is the Mutation Driver (C8): the top-level state machine.
// Construct with New.
type Driver struct {
	verifier analysis.Verifier
	adapter  *analysis.Adapter
	mutator  mutator.Mutator
	budget   *budget.Controller

	outDir              string
	rollbacksInRowCheck uint32
	debugCheck          bool
	logLevel            rlog.Level
	rechecker           *feasibility.DelegatingRechecker
	cexSource           CexSourceFunc
	stats               *stats.Stats
	cache               *roundcache.Cache
	roundStatFile       string
	rankedNodesFile     string
}

// New builds a Driver over verifier (the opaque analysis entry point)
// and m (the CFA Mutator, C7), using bc to derive per-round limits.
func New(verifier analysis.Verifier, m mutator.Mutator, bc *budget.Controller, opts ...Option) *Driver {
	d := &Driver{
		verifier:        verifier,
		adapter:         analysis.NewAdapter(),
		mutator:         m,
		budget:          bc,
		outDir:          ".",
		logLevel:        rlog.Fine,
		cexSource:       defaultCexSource,
		stats:           stats.New(),
		roundStatFile:   "this-round-stats.txt",
		rankedNodesFile: "this-round-ranked-nodes.txt",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the full S0-S3 state machine of spec.md §4.8 over
// original, the already-parsed and materialized original CFA, looping
// Start/Step to completion. Callers that want to drive one round at a
// time (e.g. an interactive REPL) should call Start and Step directly.
func (d *Driver) Run(ctx context.Context, original *cfa.CFA) (*Result, error) {
	session, res, err := d.Start(ctx, original)
	if err != nil || res != nil {
		return res, err
	}
	for {
		res, done, err := session.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}
}

// checkFeasible runs the feasibility rechecker (C6) for a FALSE verdict
// round, per spec.md §4.8's S2d: exceeding the feasibility budget or
// confirming feasibility both terminate the loop with a FALSE result.
func (d *Driver) checkFeasible(ctx context.Context, round int, res *analysis.AnalysisResult) (*Result, bool) {
	if d.rechecker == nil {
		return nil, false
	}
	feasLimits := d.budget.DeriveFeasibilityLimits()
	if reason, exceeds := d.budget.WillExceed(ctx, feasLimits, budget.DefaultSlack); exceeds {
		_ = reason
		return &Result{Status: FeasibleFalse, Last: res, Rounds: round}, true
	}

	w := feasibility.Witness{Function: primaryFunction(res.CFA), ErrorState: res.Target}
	// alreadyPresent must reflect this round's surviving mutated CFA, not
	// the pristine original: restorer.RestoreInto only restores functions
	// missing from this set, so a stale static snapshot of the original's
	// full function set would make "missing" empty on every round.
	present := make(map[string]struct{}, len(res.CFA.Functions))
	for _, name := range res.CFA.FunctionNames() {
		present[name] = struct{}{}
	}
	result, path, err := d.rechecker.CheckCounterexample(round, d.cexSource(res), w, present, d.mutator.(restorerProvider), false)
	d.stats.FeasibilityChecked(result == feasibility.Feasible)
	if err != nil {
		// A feasibility-check failure (spec.md §7 category 5) is not
		// "infeasible": the driver continues the loop.
		return nil, false
	}
	if result == feasibility.Feasible {
		return &Result{Status: FeasibleFalse, Last: res, Rounds: round, CexPath: path}, true
	}
	return nil, false
}

// restorerProvider is satisfied by any Mutator that also exposes
// OriginalCFA, the narrow surface package restorer needs; FunctionPruner
// implements it alongside the Mutator interface.
type restorerProvider interface {
	OriginalCFA() *cfa.CFA
}

// analyzeRound runs one analysis call, opening the round's output
// directory and log file and recording consumption against the budget
// controller. It never returns an error: failures surface inside the
// AnalysisResult per spec.md §4.4.
func (d *Driver) analyzeRound(ctx context.Context, round int, phase string, c *cfa.CFA, limits []budget.Limit) (*analysis.AnalysisResult, time.Duration) {
	dir := d.roundDir(round, phase)
	logFile, closeLog := d.openRoundLog(dir)
	defer closeLog()

	logger := rlog.New(logFile, d.logLevel, round, phase)
	logger.Debug().Int("functions", len(c.Functions)).Msg("analyzing")

	fingerprint := c.Fingerprint()
	if d.cache != nil {
		if cached, hit := d.cache.Lookup(fingerprint); hit {
			cached.CFA = c
			logger.Debug().Str("fingerprint", fingerprint).Msg("round cache hit")
			d.writeRoundArtifacts(dir, cached, logger)
			return cached, 0
		}
	}

	start := time.Now()
	result := d.adapter.Analyze(ctx, d.verifier, c, limits)
	elapsed := time.Since(start)

	d.budget.RecordRoundConsumption(elapsed)
	logger.Info().Str("verdict", result.Verdict.String()).Dur("elapsed", elapsed).Msg("round complete")

	if d.cache != nil {
		if err := d.cache.Store(fingerprint, result); err != nil {
			logger.Warn().Err(err).Msg("round cache store failed")
		}
	}
	d.writeRoundArtifacts(dir, result, logger)
	return result, elapsed
}

// writeRoundArtifacts dumps spec.md §6's statistics and CFA-node rank
// files into dir, logging (never aborting the round) on I/O failure.
func (d *Driver) writeRoundArtifacts(dir string, result *analysis.AnalysisResult, logger zerolog.Logger) {
	if f, err := os.Create(filepath.Join(dir, d.roundStatFile)); err != nil {
		logger.Warn().Err(err).Msg("opening round stats file failed")
	} else {
		if err := d.stats.WriteTo(f); err != nil {
			logger.Warn().Err(err).Msg("writing round stats failed")
		}
		_ = f.Close()
	}

	if result.CFA == nil {
		return
	}
	if f, err := os.Create(filepath.Join(dir, d.rankedNodesFile)); err != nil {
		logger.Warn().Err(err).Msg("opening ranked nodes file failed")
	} else {
		if err := writeRankedNodes(f, result.CFA); err != nil {
			logger.Warn().Err(err).Msg("writing ranked nodes failed")
		}
		_ = f.Close()
	}
}

// roundDir returns `<out>/<round>-<phase>/`, creating it if necessary.
func (d *Driver) roundDir(round int, phase string) string {
	dir := filepath.Join(d.outDir, fmt.Sprintf("%d-%s", round, phase))
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// openRoundLog opens dir's log file, per spec.md §6. On any I/O failure
// it falls back to io.Discard so a filesystem problem degrades logging
// rather than aborting the round.
func (d *Driver) openRoundLog(dir string) (io.Writer, func()) {
	f, err := os.Create(filepath.Join(dir, "this-round.log"))
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func primaryFunction(c *cfa.CFA) string {
	if c == nil {
		return ""
	}
	names := c.FunctionNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
