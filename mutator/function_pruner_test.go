package mutator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/mutator"
	"github.com/cfamutation/driver/outcome"
)

func buildTwoFunctionCFA(t *testing.T) *cfa.CFA {
	t.Helper()
	c := cfa.New(cfa.Linux64())
	_, err := c.AddFunction("helper")
	require.NoError(t, err)
	_, err = c.AddFunction("main")
	require.NoError(t, err)
	return c
}

func TestFunctionPruner_KeepsMutationThatPreservesBug(t *testing.T) {
	original := buildTwoFunctionCFA(t)
	p := mutator.NewFunctionPruner(original)

	require.True(t, p.CanMutate())
	mutated, err := p.Mutate()
	require.NoError(t, err)
	require.Len(t, mutated.Functions, 1)
	removed := firstMissing(original, mutated)

	prev, rollback := p.SetResult(outcome.FalseVerdictSameBug)
	require.False(t, rollback)
	require.Nil(t, prev)
	require.NotContains(t, mutated.Functions, removed)
}

func TestFunctionPruner_RollsBackMutationThatLosesBug(t *testing.T) {
	original := buildTwoFunctionCFA(t)
	p := mutator.NewFunctionPruner(original)

	mutated, err := p.Mutate()
	require.NoError(t, err)
	removed := firstMissing(original, mutated)

	prev, rollback := p.SetResult(outcome.UnknownOtherVerdict)
	require.True(t, rollback)
	require.NotNil(t, prev)
	require.Contains(t, prev.Functions, removed)
	require.Len(t, prev.Functions, 2)
}

func TestFunctionPruner_ExhaustsAfterOnePassPerFunction(t *testing.T) {
	original := buildTwoFunctionCFA(t)
	p := mutator.NewFunctionPruner(original)

	for p.CanMutate() {
		_, err := p.Mutate()
		require.NoError(t, err)
		p.SetResult(outcome.FalseVerdictSameBug)
	}
	require.False(t, p.CanMutate())
	_, err := p.Mutate()
	require.ErrorIs(t, err, mutator.ErrNoMoreMutations)
}

func TestFunctionPruner_BailOutAndFeasibilityGates(t *testing.T) {
	p := mutator.NewFunctionPruner(buildTwoFunctionCFA(t))
	require.True(t, p.ShouldReturnWithoutMutation(outcome.TrueVerdict))
	require.False(t, p.ShouldReturnWithoutMutation(outcome.FalseVerdictSameBug))
	require.True(t, p.ShouldCheckFeasibility(outcome.FalseVerdictSameBug))
	require.True(t, p.ShouldCheckFeasibility(outcome.FalseVerdictOtherTarget))
	require.False(t, p.ShouldCheckFeasibility(outcome.TrueVerdict))
}

func TestFunctionPruner_VerifyOutcome(t *testing.T) {
	p := mutator.NewFunctionPruner(buildTwoFunctionCFA(t))
	require.NoError(t, p.VerifyOutcome(outcome.FailureSameException))
	require.ErrorIs(t, p.VerifyOutcome(outcome.FailureOtherException), mutator.ErrRollbackRegression)
}

func TestFunctionPruner_RestoreCFAIsOriginal(t *testing.T) {
	original := buildTwoFunctionCFA(t)
	p := mutator.NewFunctionPruner(original)
	require.Same(t, original, p.RestoreCFA())
	require.Same(t, original, p.OriginalCFA())

	_, err := p.Mutate()
	require.NoError(t, err)
	// the original is untouched by mutation
	require.Len(t, original.Functions, 2)
}

func firstMissing(original, mutated *cfa.CFA) string {
	for name := range original.Functions {
		if _, ok := mutated.Functions[name]; !ok {
			return name
		}
	}
	return ""
}
