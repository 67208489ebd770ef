package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cfamutation/driver/budget"
	"github.com/cfamutation/driver/cfa"
)

// PanicError wraps a recovered panic from a Verifier as data, classified
// into one of spec.md §4.4's expected failure shapes (out-of-range index,
// null dereference) or a generic RuntimeException bucket.
type PanicError struct {
	Class    string
	Msg      string
	TopFrame string
}

func (e *PanicError) Error() string { return fmt.Sprintf("%s: %s", e.Class, e.Msg) }

// Adapter is the Verifier Adapter (C4): it runs a Verifier once per call
// under a round limit, isolating the driver from the verifier's panics.
// Analyze returns only once the verifier call returns: a verifier that
// ignores cancellation keeps Analyze waiting.
type Adapter struct{}

// NewAdapter constructs an Adapter. Adapter is stateless and may be reused
// across rounds and goroutines (spec.md §4.4 requires no cross-call state).
func NewAdapter() *Adapter { return &Adapter{} }

// Analyze runs v on c under the given round limits, per spec.md §4.4:
//  1. creates a shutdown scope nested under parent;
//  2. starts a background timer enforcing the smallest ToNextCheck among
//     limits, which cancels the nested scope on expiry;
//  3. runs the verifier, catching panics and expected sentinel errors as
//     data rather than letting them escape;
//  4. stops the timer and returns an AnalysisResult — never an error.
func (a *Adapter) Analyze(parent context.Context, v Verifier, c *cfa.CFA, limits []budget.Limit) *AnalysisResult {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	timeout := minToNextCheck(limits)
	g, gctx := errgroup.WithContext(ctx)

	type outcome struct {
		verdict Verdict
		target  string
		err     error
	}
	resultCh := make(chan outcome, 1)

	g.Go(func() error {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancel() // background timer signals shutdown on expiry (spec.md §5)
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		verdict, target, err := a.runVerifier(ctx, v, c)
		resultCh <- outcome{verdict, target, err}
		cancel() // verifier finished; stop the timer goroutine promptly
		return nil
	})
	_ = g.Wait()

	select {
	case o := <-resultCh:
		return a.classify(c, o.verdict, o.target, o.err)
	default:
		return &AnalysisResult{Verdict: Unknown, Error: &CapturedError{Cancelled: true}, CFA: c}
	}
}

// runVerifier invokes v.Run, recovering any panic and turning it into a
// PanicError rather than letting it unwind into the driver.
func (a *Adapter) runVerifier(ctx context.Context, v Verifier, c *cfa.CFA) (verdict Verdict, target string, err error) {
	defer func() {
		if r := recover(); r != nil {
			verdict = Unknown
			err = classifyPanic(r)
		}
	}()
	return v.Run(ctx, c)
}

// classify turns a raw (verdict, target, err) triple into an
// AnalysisResult, mapping context cancellation to Cancelled per spec.md
// §4.4 ("Treat cancellation as verdict=Unknown, error=Cancelled").
func (a *Adapter) classify(c *cfa.CFA, verdict Verdict, target string, err error) *AnalysisResult {
	if err == nil {
		return &AnalysisResult{Verdict: verdict, Target: target, CFA: c}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &AnalysisResult{Verdict: Unknown, Error: &CapturedError{Cancelled: true}, CFA: c}
	}
	return &AnalysisResult{Verdict: verdict, Target: target, Error: classifyError(err), CFA: c}
}

// classifyError maps the expected failure shapes of spec.md §4.4 to a
// CapturedError's exception-class name.
func classifyError(err error) *CapturedError {
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return &CapturedError{Class: panicErr.Class, TopFrame: panicErr.TopFrame}
	}
	var assertionErr *AssertionFailure
	if errors.As(err, &assertionErr) {
		return &CapturedError{Class: "AssertionError"}
	}
	switch {
	case errors.Is(err, ErrNoSuchElement):
		return &CapturedError{Class: "NoSuchElementException"}
	case errors.Is(err, ErrStateMachineViolation):
		return &CapturedError{Class: "IllegalStateException"}
	default:
		return &CapturedError{Class: "RuntimeException"}
	}
}

// classifyPanic recovers a panic value r, classifying it by message
// content into one of spec.md §4.4's expected shapes, and captures the
// top stack frame at the point of recovery.
func classifyPanic(r any) error {
	msg := fmt.Sprint(r)
	class := "RuntimeException"
	switch {
	case strings.Contains(msg, "index out of range"):
		class = "IndexOutOfBoundsException"
	case strings.Contains(msg, "nil pointer dereference"):
		class = "NullPointerException"
	case strings.Contains(msg, "invalid memory address"):
		class = "NullPointerException"
	}
	return &PanicError{Class: class, Msg: msg, TopFrame: topFrame()}
}

// topFrame returns "file:line" for the caller just outside this package's
// recover machinery, used as AnalysisResult.Error's comparable location.
func topFrame() string {
	pc := make([]uintptr, 16)
	n := runtime.Callers(4, pc)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pc[:n])
	for {
		// skip the runtime's own panic frames (runtime.gopanic,
		// runtime.goPanicIndex, ...) that sit between recover and the
		// panicking code.
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

func minToNextCheck(limits []budget.Limit) time.Duration {
	if len(limits) == 0 {
		return 0
	}
	min := limits[0].ToNextCheck
	for _, l := range limits[1:] {
		if l.ToNextCheck < min {
			min = l.ToNextCheck
		}
	}
	return min
}
