package mutator

import (
	"errors"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/outcome"
)

// ErrNoMoreMutations is returned by Mutate when CanMutate would report
// false; callers (the driver) are expected to check CanMutate first, so
// seeing this error at all signals a driver bug.
var ErrNoMoreMutations = errors.New("mutator: no mutations remain")

// ErrRollbackRegression is returned by VerifyOutcome when a
// rollback-confirmation round (spec.md §4.8 S2e) fails to reproduce the
// outcome the rollback was supposed to restore — a signal that the
// mutator's undo bookkeeping, not the verifier, is at fault (spec.md §7
// category 6: invariant violations are not recovered from).
var ErrRollbackRegression = errors.New("mutator: rollback did not reproduce the preserved outcome")

// Mutator is the abstract contract spec.md §4.7 describes: the driver
// never inspects a concrete strategy's internals, only this surface.
type Mutator interface {
	// CanMutate reports whether at least one untried mutation remains.
	CanMutate() bool

	// Mutate produces and applies the next variant, returning the
	// mutated CFA (shared, not cloned: spec.md §5 assigns CFA mutation
	// exclusively to the single main thread, so aliasing is safe).
	Mutate() (*cfa.CFA, error)

	// SetResult tells the mutator whether the last mutation preserved
	// the original symptom. When it did not, SetResult rolls the
	// mutation back in place and returns the restored CFA and true;
	// otherwise it returns (nil, false) and the mutation is kept.
	SetResult(o outcome.Outcome) (prev *cfa.CFA, rollback bool)

	// ShouldReturnWithoutMutation is the pass-through bail-out check run
	// once, against the original run's self-classification, before any
	// mutation round starts.
	ShouldReturnWithoutMutation(o outcome.Outcome) bool

	// ShouldCheckFeasibility reports whether o warrants invoking the
	// feasibility rechecker (C6).
	ShouldCheckFeasibility(o outcome.Outcome) bool

	// VerifyOutcome asserts that a rollback-confirmation round's outcome
	// still preserves the original symptom.
	VerifyOutcome(o outcome.Outcome) error

	// RestoreCFA returns the pristine, pre-mutation CFA, for the
	// Counterexample Restorer (C5) to draw removed function bodies from.
	RestoreCFA() *cfa.CFA
}

// preservesBug reports whether o is one of the outcomes the driver
// treats as "the original symptom is still present" (spec.md §4.3's
// FalseVerdictSameBug and FailureSameException): a mutation producing
// either is kept rather than rolled back.
func preservesBug(o outcome.Outcome) bool {
	switch o {
	case outcome.FalseVerdictSameBug, outcome.FailureSameException:
		return true
	default:
		return false
	}
}
