package analysis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/budget"
	"github.com/cfamutation/driver/cfa"
)

func limits(d time.Duration) []budget.Limit {
	return []budget.Limit{{Kind: budget.Wall, ToNextCheck: d}}
}

func TestAnalyze_Success(t *testing.T) {
	a := analysis.NewAdapter()
	v := analysis.VerifierFunc(func(ctx context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		return analysis.True, "", nil
	})
	res := a.Analyze(context.Background(), v, nil, limits(time.Second))
	require.Equal(t, analysis.True, res.Verdict)
	require.Nil(t, res.Error)
}

func TestAnalyze_PanicBecomesCapturedError(t *testing.T) {
	a := analysis.NewAdapter()
	v := analysis.VerifierFunc(func(ctx context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		var s []int
		_ = s[5] // index out of range
		return analysis.Unknown, "", nil
	})
	res := a.Analyze(context.Background(), v, nil, limits(time.Second))
	require.Equal(t, analysis.Unknown, res.Verdict)
	require.NotNil(t, res.Error)
	require.Equal(t, "IndexOutOfBoundsException", res.Error.Class)
}

func TestAnalyze_SentinelErrors(t *testing.T) {
	a := analysis.NewAdapter()
	v := analysis.VerifierFunc(func(ctx context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		return analysis.Unknown, "", analysis.ErrStateMachineViolation
	})
	res := a.Analyze(context.Background(), v, nil, limits(time.Second))
	require.Equal(t, "IllegalStateException", res.Error.Class)
}

func TestAnalyze_AssertionFailure(t *testing.T) {
	a := analysis.NewAdapter()
	v := analysis.VerifierFunc(func(ctx context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		return analysis.Unknown, "", &analysis.AssertionFailure{Msg: "x > 0"}
	})
	res := a.Analyze(context.Background(), v, nil, limits(time.Second))
	require.Equal(t, "AssertionError", res.Error.Class)
}

func TestAnalyze_TimeoutBecomesCancelled(t *testing.T) {
	a := analysis.NewAdapter()
	v := analysis.VerifierFunc(func(ctx context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		<-ctx.Done()
		return analysis.Unknown, "", ctx.Err()
	})
	res := a.Analyze(context.Background(), v, nil, limits(10*time.Millisecond))
	require.Equal(t, analysis.Unknown, res.Verdict)
	require.NotNil(t, res.Error)
	require.True(t, res.Error.Cancelled)
}

func TestAnalyze_ParentCancellationPropagates(t *testing.T) {
	a := analysis.NewAdapter()
	parent, cancel := context.WithCancel(context.Background())
	cancel()
	v := analysis.VerifierFunc(func(ctx context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		<-ctx.Done()
		return analysis.Unknown, "", ctx.Err()
	})
	res := a.Analyze(parent, v, nil, limits(time.Second))
	require.True(t, res.Error.Cancelled)
}
