package driver

import (
	"fmt"

	"github.com/cfamutation/driver/analysis"
)

// ExitStatus is one of the overall tool's mutation-mode exit statuses
// (spec.md §6).
type ExitStatus int

const (
	// FeasibleFalse means a FALSE verdict was reported and confirmed
	// feasible by the rechecker (C6): a minimized, real counterexample.
	FeasibleFalse ExitStatus = iota
	// DoneNoMoreMutations means the mutator exhausted every candidate
	// mutation without losing the symptom or a timing out.
	DoneNoMoreMutations
	// NotYetStarted means the original run itself did not reproduce a
	// symptom worth minimizing (e.g. verdict True).
	NotYetStarted
	// Interrupted means an external shutdown fired before the loop could
	// reach a terminal state on its own.
	Interrupted
)

func (s ExitStatus) String() string {
	switch s {
	case FeasibleFalse:
		return "FEASIBLE_FALSE"
	case DoneNoMoreMutations:
		return "DONE_NO_MORE_MUTATIONS"
	case NotYetStarted:
		return "NOT_YET_STARTED"
	case Interrupted:
		return "INTERRUPTED"
	default:
		return fmt.Sprintf("ExitStatus(%d)", int(s))
	}
}

// Result is what Run returns: the terminal status, the last
// AnalysisResult produced (the counterexample on FeasibleFalse, the
// best-known result otherwise), and how many mutation rounds ran.
type Result struct {
	Status ExitStatus
	Last   *analysis.AnalysisResult
	Rounds int
	// CexPath is the path of the restored counterexample C file
	// (spec.md §6's counterexample-with-restored-functions.<N>.c) on a
	// FeasibleFalse termination; empty otherwise.
	CexPath string
}
