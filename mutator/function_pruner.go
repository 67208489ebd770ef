package mutator

import (
	"fmt"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/outcome"
)

// FunctionPruner is the one concrete shrinking strategy this driver
// ships: a single pass that tries removing each function of the original
// CFA, one at a time, keeping the removal whenever the symptom survives.
// It does not re-attempt a function once tried, so it converges to a
// local rather than a globally 1-minimal result in one pass — a
// deliberately bounded strategy; spec.md §4.7 treats the shrinkage
// algorithm as a separable collaborator and does not mandate a specific
// delta-debugging variant.
type FunctionPruner struct {
	original *cfa.CFA
	current  *cfa.CFA

	pending []string // candidate function names not yet attempted, FIFO

	pendingUndo *cfa.FunctionUndo // set between Mutate() and SetResult()/VerifyOutcome()
	pendingName string
}

// NewFunctionPruner builds a pruner over original. original is never
// mutated; all mutation happens on an internal working copy.
func NewFunctionPruner(original *cfa.CFA) *FunctionPruner {
	return &FunctionPruner{
		original: original,
		current:  original.Clone(),
		pending:  original.FunctionNames(),
	}
}

// CanMutate implements Mutator.
func (p *FunctionPruner) CanMutate() bool { return len(p.pending) > 0 }

// Mutate implements Mutator: removes the next candidate function from
// the working CFA.
func (p *FunctionPruner) Mutate() (*cfa.CFA, error) {
	if !p.CanMutate() {
		return nil, ErrNoMoreMutations
	}
	name := p.pending[0]
	p.pending = p.pending[1:]

	undo, err := p.current.RemoveFunctionUndo(name)
	if err != nil {
		// The function may have been removed by an earlier round whose
		// candidate set overlapped (not possible with this strategy's
		// FIFO-without-repeats queue, but guarded defensively); skip to
		// the next candidate rather than surfacing a spurious failure.
		return p.Mutate()
	}
	p.pendingUndo = undo
	p.pendingName = name
	return p.current, nil
}

// SetResult implements Mutator.
func (p *FunctionPruner) SetResult(o outcome.Outcome) (*cfa.CFA, bool) {
	if p.pendingUndo == nil {
		return nil, false
	}
	if preservesBug(o) {
		p.pendingUndo = nil
		p.pendingName = ""
		return nil, false
	}
	p.current.RestoreFunction(p.pendingUndo)
	p.pendingUndo = nil
	p.pendingName = ""
	return p.current, true
}

// ShouldReturnWithoutMutation implements Mutator: a TrueVerdict
// self-classification means the original run found no bug to minimize.
func (p *FunctionPruner) ShouldReturnWithoutMutation(o outcome.Outcome) bool {
	return o == outcome.TrueVerdict
}

// ShouldCheckFeasibility implements Mutator: any FALSE verdict warrants
// a feasibility recheck, regardless of whether the target matches the
// original's.
func (p *FunctionPruner) ShouldCheckFeasibility(o outcome.Outcome) bool {
	return o == outcome.FalseVerdictSameBug || o == outcome.FalseVerdictOtherTarget
}

// VerifyOutcome implements Mutator.
func (p *FunctionPruner) VerifyOutcome(o outcome.Outcome) error {
	if !preservesBug(o) {
		return fmt.Errorf("%w: got %s", ErrRollbackRegression, o)
	}
	return nil
}

// RestoreCFA implements Mutator, returning the pristine original CFA.
func (p *FunctionPruner) RestoreCFA() *cfa.CFA { return p.original }

// OriginalCFA implements restorer.OriginalProvider, so a FunctionPruner
// can be handed directly to restorer.RestoreInto.
func (p *FunctionPruner) OriginalCFA() *cfa.CFA { return p.RestoreCFA() }

// LastMutationName reports which function the most recent Mutate()
// removed; empty once the mutation has been resolved by SetResult. The
// driver does not call it: round directories are named by round number
// and phase.
func (p *FunctionPruner) LastMutationName() string { return p.pendingName }
