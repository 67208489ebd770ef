package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/budget"
	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/driver"
	"github.com/cfamutation/driver/feasibility"
	"github.com/cfamutation/driver/mutator"
)

// buildTwoFunctionCFA mirrors mutator's own fixture: a "helper" function
// called from "main", so FunctionPruner has two candidates to prune.
func buildTwoFunctionCFA(t *testing.T) *cfa.CFA {
	t.Helper()
	c := cfa.New(cfa.Linux64())

	helper, err := c.AddFunction("helper")
	require.NoError(t, err)
	require.NoError(t, c.RemoveEdge(c.Nodes[helper.Entry].Outgoing[0]))
	mid, err := c.AddNode("helper", cfa.NodeInterior)
	require.NoError(t, err)
	_, err = c.AddEdge(helper.Entry, mid.ID, cfa.Blank, false, "", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(mid.ID, helper.Exit, cfa.Statement, false, "return 1", nil)
	require.NoError(t, err)

	main, err := c.AddFunction("main")
	require.NoError(t, err)
	call, err := c.AddNode("main", cfa.NodeInterior)
	require.NoError(t, err)
	require.NoError(t, c.RemoveEdge(c.Nodes[main.Entry].Outgoing[0]))
	_, err = c.AddEdge(main.Entry, call.ID, cfa.Blank, false, "", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(call.ID, helper.Entry, cfa.FunctionCall, false, "", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(call.ID, main.Exit, cfa.CallToReturn, false, "", nil)
	require.NoError(t, err)

	return c
}

func generousBudget() *budget.Controller {
	globals := []*budget.GlobalLimit{
		{Name: "overall", Kind: budget.Wall, Max: 10 * time.Second},
	}
	return budget.NewController(globals, time.Second, 2.0, 100*time.Millisecond, 500*time.Millisecond)
}

func stingyBudget() *budget.Controller {
	globals := []*budget.GlobalLimit{
		{Name: "overall", Kind: budget.Wall, Max: 500 * time.Millisecond},
	}
	return budget.NewController(globals, time.Second, 2.0, 100*time.Millisecond, 500*time.Millisecond)
}

func verdictVerifier(v analysis.Verdict, target string) analysis.Verifier {
	return analysis.VerifierFunc(func(_ context.Context, _ *cfa.CFA) (analysis.Verdict, string, error) {
		return v, target, nil
	})
}

func TestRun_TrueVerdictReturnsNotYetStarted(t *testing.T) {
	c := buildTwoFunctionCFA(t)
	m := mutator.NewFunctionPruner(c)
	d := driver.New(verdictVerifier(analysis.True, ""), m, generousBudget(), driver.WithOutputDir(t.TempDir()))

	res, err := d.Run(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, driver.NotYetStarted, res.Status)
	require.Equal(t, 0, res.Rounds)
}

func TestRun_ExhaustsMutationsWithoutFeasibilityRechecker(t *testing.T) {
	c := buildTwoFunctionCFA(t)
	m := mutator.NewFunctionPruner(c)
	d := driver.New(verdictVerifier(analysis.False, "target"), m, generousBudget(), driver.WithOutputDir(t.TempDir()))

	res, err := d.Run(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, driver.DoneNoMoreMutations, res.Status)
	require.Equal(t, 2, res.Rounds)
}

func TestRun_BudgetExhaustionTerminatesEarly(t *testing.T) {
	c := buildTwoFunctionCFA(t)
	m := mutator.NewFunctionPruner(c)
	d := driver.New(verdictVerifier(analysis.False, "target"), m, stingyBudget(), driver.WithOutputDir(t.TempDir()))

	res, err := d.Run(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, driver.DoneNoMoreMutations, res.Status)
	require.Equal(t, 1, res.Rounds)
}

// feasibleChecker always reports a restored counterexample as feasible.
type feasibleChecker struct{}

func (feasibleChecker) TempFileBuilder() (string, string)        { return "cex", ".c" }
func (feasibleChecker) CexFileTemplate() (feasibility.PathTemplate, bool) { return feasibility.PathTemplate{}, false }
func (feasibleChecker) Write(_ feasibility.Witness, restored []byte) ([]byte, error) {
	return restored, nil
}
func (feasibleChecker) Decide(_ feasibility.Witness, _ string) (bool, error) { return true, nil }

func TestRun_FalseVerdictConfirmedFeasibleTerminates(t *testing.T) {
	c := buildTwoFunctionCFA(t)
	m := mutator.NewFunctionPruner(c)
	rechecker := feasibility.NewDelegatingRechecker(feasibleChecker{})
	d := driver.New(
		verdictVerifier(analysis.False, "target"), m, generousBudget(),
		driver.WithOutputDir(t.TempDir()),
		driver.WithFeasibilityRechecker(rechecker),
	)

	res, err := d.Run(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, driver.FeasibleFalse, res.Status)
	require.Equal(t, 1, res.Rounds)
	require.NotEmpty(t, res.CexPath)
}

// exceptionVerifier returns Unknown with a fixed exception class/frame for
// the original run, and the same for every mutated round, so every round
// preserves the symptom via FailureSameException (spec.md §8 E1).
func exceptionVerifier(class, frame string) analysis.Verifier {
	return analysis.VerifierFunc(func(_ context.Context, _ *cfa.CFA) (analysis.Verdict, string, error) {
		return analysis.Unknown, "", &analysis.AssertionFailure{Msg: class + "@" + frame}
	})
}

func TestRun_PreservedUnknownExceptionExhaustsMutations(t *testing.T) {
	c := buildTwoFunctionCFA(t)
	m := mutator.NewFunctionPruner(c)
	d := driver.New(exceptionVerifier("AssertionError", "f.c:10"), m, generousBudget(), driver.WithOutputDir(t.TempDir()))

	res, err := d.Run(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, driver.DoneNoMoreMutations, res.Status)
	require.Equal(t, 2, res.Rounds)
}
