package feasibility

import (
	"fmt"
	"os"

	"github.com/cfamutation/driver/restorer"
)

// DelegatingRechecker is the CFA-facing half of C6: it owns the
// restoration step (delegating to package restorer) and the
// round-scoped temp/named file bookkeeping, then hands the finished
// bytes to a Checker (one of ModelCheckerA, SameToolWithConfig,
// ConcreteExecution) for the actual verdict (spec.md §4.6).
type DelegatingRechecker struct {
	Checker  Checker
	Template PathTemplate // overrides the checker's own CexFileTemplate when non-zero
}

// NewDelegatingRechecker wires checker behind the restoration step.
func NewDelegatingRechecker(checker Checker) *DelegatingRechecker {
	return &DelegatingRechecker{Checker: checker}
}

// CheckCounterexample writes cexSource (the counterexample bytes the
// verifier adapter produced, before restoration) to a file named after
// round, restores the functions missing from alreadyPresent using
// provider, and asks the checker to decide.
//
// The file this call creates is a scratch artifact unless the result
// turns out Feasible, in which case it is spec.md §6's primary output
// (counterexample-with-restored-functions.<N>.c) and must survive the
// call. keep forces retention regardless of outcome, for a caller that
// wants the scratch file around for its own inspection (e.g. a failed
// Write/restore it wants to debug); ordinary callers pass false and let
// the outcome decide.
func (d *DelegatingRechecker) CheckCounterexample(
	round int,
	cexSource []byte,
	w Witness,
	alreadyPresent map[string]struct{},
	provider restorer.OriginalProvider,
	keep bool,
) (Result, string, error) {
	path, cleanup, err := d.allocatePath(round)
	if err != nil {
		return Failed, "", fmt.Errorf("feasibility: allocating counterexample file: %w", err)
	}
	discard := func() {
		if !keep {
			cleanup()
		}
	}

	written, err := d.Checker.Write(w, cexSource)
	if err != nil {
		discard()
		return Failed, path, fmt.Errorf("feasibility: %s: preparing checker input: %w", w.Function, err)
	}
	if err := os.WriteFile(path, written, 0o644); err != nil {
		discard()
		return Failed, path, fmt.Errorf("feasibility: %s: writing %s: %w", w.Function, path, err)
	}

	if err := restorer.RestoreInto(path, alreadyPresent, provider); err != nil {
		discard()
		return Failed, path, err
	}

	feasible, err := d.Checker.Decide(w, path)
	if err != nil {
		discard()
		return Failed, path, fmt.Errorf("feasibility: %s: checker decision: %w", w.Function, err)
	}
	if feasible {
		// The primary output of a FEASIBLE_FALSE termination; never
		// removed even when keep is false.
		return Feasible, path, nil
	}
	discard()
	return Infeasible, path, nil
}

func (d *DelegatingRechecker) allocatePath(round int) (path string, cleanup func(), err error) {
	tmpl := d.Template
	if tmpl == (PathTemplate{}) {
		if t, ok := d.Checker.CexFileTemplate(); ok {
			tmpl = t
		}
	}
	if tmpl != (PathTemplate{}) {
		path = tmpl.Format(round)
		f, err := os.Create(path)
		if err != nil {
			return "", nil, err
		}
		f.Close()
		return path, func() { os.Remove(path) }, nil
	}

	prefix, suffix := d.Checker.TempFileBuilder()
	f, err := os.CreateTemp("", prefix+"*"+suffix)
	if err != nil {
		return "", nil, err
	}
	path = f.Name()
	f.Close()
	return path, func() { os.Remove(path) }, nil
}
