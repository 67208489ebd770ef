package feasibility

import (
	"errors"
	"fmt"
)

// CheckerType names the three delegate strategies spec.md §4.6 enumerates
// for deciding whether a counterexample is a real execution.
type CheckerType int

const (
	// ModelCheckerA re-verifies the restored translation unit with a
	// second, independent model checker.
	ModelCheckerA CheckerType = iota
	// SameToolWithConfig re-invokes the original verifier, but under a
	// configuration tuned for precise (rather than fast) analysis.
	SameToolWithConfig
	// ConcreteExecution compiles the restored translation unit and runs
	// it, observing whether the error location is actually reached.
	ConcreteExecution
)

func (t CheckerType) String() string {
	switch t {
	case ModelCheckerA:
		return "ModelCheckerA"
	case SameToolWithConfig:
		return "SameToolWithConfig"
	case ConcreteExecution:
		return "ConcreteExecution"
	default:
		return fmt.Sprintf("CheckerType(%d)", int(t))
	}
}

// ErrConfigRequired is returned when SameToolWithConfig is selected but no
// configuration path was supplied (spec.md §6: "required when the checker
// kind is SameToolWithConfig").
var ErrConfigRequired = errors.New("feasibility: checker configuration path required")

// Result is the outcome of a feasibility recheck.
type Result int

const (
	// Infeasible means the checker determined the counterexample does not
	// correspond to a real execution; the driver then continues the loop.
	Infeasible Result = iota
	// Feasible means the checker confirmed the counterexample.
	Feasible
	// Failed means the check itself could not be completed (I/O error,
	// checker crash, malformed output) and must not be read as either
	// verdict (spec.md §7 category 5).
	Failed
)

func (r Result) String() string {
	switch r {
	case Infeasible:
		return "Infeasible"
	case Feasible:
		return "Feasible"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Witness identifies the counterexample being rechecked: the driver fills
// Function with the CFA's first function name and ErrorState with the
// AnalysisResult's Target, and leaves PathStates empty. The driver never
// interprets these fields itself; it only forwards them to the checker.
type Witness struct {
	Function   string
	ErrorState string
	PathStates []string
}

// PathTemplate names the file a restored counterexample is written to,
// parameterised by round number (spec.md §6 default:
// "counterexample-with-restored-functions.<N>.c").
type PathTemplate struct {
	Pattern string // must contain exactly one %d verb
}

// Format renders the template for round n.
func (t PathTemplate) Format(n int) string {
	return fmt.Sprintf(t.Pattern, n)
}

// DefaultPathTemplate is the template the ModelCheckerA and
// SameToolWithConfig checkers return from CexFileTemplate;
// DelegatingRechecker.Template, when set, takes its place.
var DefaultPathTemplate = PathTemplate{Pattern: "counterexample-with-restored-functions.%d.c"}

// Checker is the abstract delegate spec.md §4.6 describes: something that
// can write a counterexample-plus-restored-functions file and then decide,
// from that file, whether the counterexample is feasible.
type Checker interface {
	// TempFileBuilder returns the prefix/suffix pair used when no
	// PathTemplate is configured and a scratch file must be created.
	TempFileBuilder() (prefix, suffix string)

	// CexFileTemplate returns the path template this checker wants its
	// output file named after, and whether one applies at all (some
	// checkers, e.g. ConcreteExecution, only need a throwaway file).
	CexFileTemplate() (PathTemplate, bool)

	// Write takes the raw counterexample source (before package restorer
	// appends the missing function bodies) and returns the exact bytes
	// this checker wants written to its input file, e.g. wrapped in a
	// harness or prefixed with checker directives. Restoration happens
	// against the file Write's result is written to, not in-memory.
	Write(w Witness, restored []byte) ([]byte, error)

	// Decide reads the file at path and returns whether it represents a
	// feasible execution.
	Decide(w Witness, path string) (bool, error)
}
