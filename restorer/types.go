package restorer

import (
	"fmt"

	"github.com/cfamutation/driver/cfa"
)

// Separator is the literal byte sequence spec.md §4.5 and §6 require
// between the counterexample bytes and the restored-function definitions.
const Separator = "\n// Above is counterexample to check.\n// Below are restored functions.\n\n"

// CounterexampleAnalysisFailed wraps any failure while restoring functions
// into a counterexample file (spec.md §4.5), carrying a cause message per
// spec.md §7's error taxonomy (category 5: CEX-checker failures).
type CounterexampleAnalysisFailed struct {
	Cause error
}

func (e *CounterexampleAnalysisFailed) Error() string {
	return fmt.Sprintf("restorer: counterexample analysis failed: %v", e.Cause)
}

func (e *CounterexampleAnalysisFailed) Unwrap() error { return e.Cause }

// OriginalProvider is the narrow view the restorer needs of the mutator
// (C7): the pre-mutation CFA that retained every function's definition,
// per spec.md §4.5 step 1 ("Ask the mutator for the original CFA").
type OriginalProvider interface {
	OriginalCFA() *cfa.CFA
}
