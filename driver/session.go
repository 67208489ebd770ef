package driver

import (
	"context"
	"fmt"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/budget"
	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/cfacheck"
	"github.com/cfamutation/driver/outcome"
)

// Session is one S1-S3 run of the state machine (spec.md §4.8) exposed a
// round at a time via Step, so a caller such as cmd/cfamutate's
// -interactive mode can drive the loop under its own control instead of
// Run's until-terminal loop. Start and Step are not safe for concurrent
// use by more than one goroutine: the driver mutates its CFA on a single
// thread (spec.md §1).
type Session struct {
	d        *Driver
	ctx      context.Context
	original *analysis.AnalysisResult

	round          int
	last           *analysis.AnalysisResult
	rollbacksInRow uint32
	done           bool
}

// Start runs S0's structural check and S1's original-analysis round,
// returning a terminal *Result immediately if the original run itself
// does not warrant minimization (spec.md's NOT_YET_STARTED). Otherwise
// the returned *Session is ready for repeated Step calls.
func (d *Driver) Start(ctx context.Context, original *cfa.CFA) (*Session, *Result, error) {
	if d.debugCheck {
		if v := cfacheck.Check(original); v != nil {
			return nil, nil, fmt.Errorf("driver: original CFA failed structural check: %w", v)
		}
	}

	round := 0
	originalResult, elapsed := d.analyzeRound(ctx, round, "original", original, d.budget.DeriveRoundLimits())
	if err := d.budget.RecordOriginal(elapsed); err != nil {
		return nil, nil, fmt.Errorf("driver: recording original consumption: %w", err)
	}
	d.stats.RoundCompleted(elapsed.Seconds())

	s := &Session{d: d, ctx: ctx, original: originalResult, round: round, last: originalResult}

	bail := outcome.Classify(originalResult, originalResult)
	if d.mutator.ShouldReturnWithoutMutation(bail) {
		s.done = true
		return s, &Result{Status: NotYetStarted, Last: originalResult, Rounds: round}, nil
	}
	return s, nil, nil
}

// Round reports the number of mutation rounds completed so far.
func (s *Session) Round() int { return s.round }

// Last reports the most recently produced AnalysisResult.
func (s *Session) Last() *analysis.AnalysisResult { return s.last }

// Done reports whether the session has already reached a terminal state.
func (s *Session) Done() bool { return s.done }

// Step runs one S2a-S2f iteration of the mutation loop: mutate, analyze,
// classify, check feasibility, roll back, and check exhaustion. It
// returns (result, true, nil) once the loop reaches a terminal state,
// (nil, false, nil) when the caller should call Step again, and a
// non-nil error only for the same unrecoverable conditions Run itself
// used to abort on (an invalid mutated CFA, or a failed rollback
// confirmation).
func (s *Session) Step() (*Result, bool, error) {
	d := s.d
	if s.done {
		return &Result{Status: DoneNoMoreMutations, Last: s.last, Rounds: s.round}, true, nil
	}
	if !d.mutator.CanMutate() {
		s.done = true
		return &Result{Status: DoneNoMoreMutations, Last: s.last, Rounds: s.round}, true, nil
	}
	if s.ctx.Err() != nil {
		s.done = true
		return &Result{Status: Interrupted, Last: s.last, Rounds: s.round}, true, nil
	}
	s.round++

	// S2a Mutate
	mutated, err := d.mutator.Mutate()
	if err != nil {
		s.done = true
		return &Result{Status: DoneNoMoreMutations, Last: s.last, Rounds: s.round}, true, nil
	}
	d.stats.MutationTried()
	if d.debugCheck {
		if v := cfacheck.Check(mutated); v != nil {
			s.done = true
			return nil, true, fmt.Errorf("driver: round %d mutation produced an invalid CFA: %w", s.round, v)
		}
	}

	// S2b Analyze
	res, roundElapsed := d.analyzeRound(s.ctx, s.round, "mutation", mutated, d.budget.DeriveRoundLimits())
	d.stats.RoundCompleted(roundElapsed.Seconds())
	s.last = res

	// S2c Classify
	o := outcome.Classify(res, s.original)

	// S2d Feasible?
	if d.mutator.ShouldCheckFeasibility(o) {
		if term, ok := d.checkFeasible(s.ctx, s.round, res); ok {
			s.done = true
			return term, true, nil
		}
	}

	// S2e Rollback
	prev, rollback := d.mutator.SetResult(o)
	if rollback {
		d.stats.Rollback()
		s.rollbacksInRow++
		if d.rollbacksInRowCheck != 0 && s.rollbacksInRow%d.rollbacksInRowCheck == 0 {
			confirmRes, confirmElapsed := d.analyzeRound(s.ctx, s.round, "rollback", prev, d.budget.DeriveRoundLimits())
			d.stats.RoundCompleted(confirmElapsed.Seconds())
			d.stats.RollbackConfirmed()
			if err := d.mutator.VerifyOutcome(outcome.Classify(confirmRes, s.original)); err != nil {
				s.done = true
				return nil, true, fmt.Errorf("driver: round %d rollback confirmation: %w", s.round, err)
			}
		}
	} else {
		s.rollbacksInRow = 0
	}

	// S2f Exhausted?
	if reason, exceeds := d.budget.WillExceed(s.ctx, d.budget.DeriveRoundLimits(), budget.DefaultSlack); exceeds {
		_ = reason
		s.done = true
		return &Result{Status: DoneNoMoreMutations, Last: s.last, Rounds: s.round}, true, nil
	}
	return nil, false, nil
}
