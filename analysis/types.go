package analysis

import (
	"context"
	"errors"

	"github.com/cfamutation/driver/cfa"
)

// Sentinel errors a Verifier may return to signal one of the "expected
// failure shapes" spec.md §4.4 requires the Adapter catch as data rather
// than propagate: a no-such-element condition or a state-machine
// violation internal to the verifier.
var (
	ErrNoSuchElement        = errors.New("analysis: no such element")
	ErrStateMachineViolation = errors.New("analysis: state machine violation")
)

// AssertionFailure is returned by a Verifier to signal an internal
// assertion failure, one of spec.md §4.4's expected failure shapes.
type AssertionFailure struct {
	Msg string
}

func (e *AssertionFailure) Error() string { return "analysis: assertion failed: " + e.Msg }

// Verdict is the outcome of one analysis run, per spec.md §3.
type Verdict int

const (
	NotYetStarted Verdict = iota
	Done
	True
	False
	Unknown
)

func (v Verdict) String() string {
	switch v {
	case True:
		return "True"
	case False:
		return "False"
	case Unknown:
		return "Unknown"
	case NotYetStarted:
		return "NotYetStarted"
	case Done:
		return "Done"
	default:
		return "Invalid"
	}
}

// CapturedError models an exception caught at the Adapter boundary: its
// class name and the location of its top stack frame, or Cancelled for a
// cooperative-shutdown interruption (spec.md §3, §4.4).
//
// Both Class and TopFrame may be empty together when Cancelled is false:
// the Outcome Classifier treats two empty top frames specially (spec.md
// §4.3 — "the VM is eliding stack traces for a recurrent exception").
type CapturedError struct {
	Class     string
	TopFrame  string
	Cancelled bool
}

// AnalysisResult is the result of one analyze() call: a verdict, a target
// description (meaningful only for Verdict == False), an optional
// captured error, and the CFA the result was produced for (spec.md §3).
type AnalysisResult struct {
	Verdict Verdict
	Target  string
	Error   *CapturedError
	CFA     *cfa.CFA
}

// Verifier is the narrow, opaque-analysis-treated interface the Adapter
// calls. Implementations run to verdict/panic/error under ctx and must
// honor ctx cancellation at their own cancellation points (spec.md §5);
// the Adapter cancels ctx when the round limit expires and then waits for
// Run to return.
type Verifier interface {
	Run(ctx context.Context, c *cfa.CFA) (verdict Verdict, target string, err error)
}

// VerifierFunc adapts a plain function to Verifier, mirroring the
// stdlib's http.HandlerFunc idiom.
type VerifierFunc func(ctx context.Context, c *cfa.CFA) (Verdict, string, error)

func (f VerifierFunc) Run(ctx context.Context, c *cfa.CFA) (Verdict, string, error) {
	return f(ctx, c)
}
