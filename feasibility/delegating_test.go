package feasibility_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/feasibility"
)

type stubProvider struct{ cfa *cfa.CFA }

func (s stubProvider) OriginalCFA() *cfa.CFA { return s.cfa }

func buildOriginal(t *testing.T) *cfa.CFA {
	t.Helper()
	c := cfa.New(cfa.Linux64())
	fn, err := c.AddFunction("helper")
	require.NoError(t, err)
	require.NoError(t, c.RemoveEdge(c.Nodes[fn.Entry].Outgoing[0]))
	_, err = c.AddEdge(fn.Entry, fn.Exit, cfa.Statement, false, "return 0", nil)
	require.NoError(t, err)
	return c
}

// stubChecker always reports the configured verdict and records the
// bytes it was asked to write, without touching the filesystem itself
// (that's DelegatingRechecker's job).
type stubChecker struct {
	feasible  bool
	decideErr error
	written   []byte
	decidedAt string
}

func (s *stubChecker) TempFileBuilder() (string, string)            { return "stub-", ".c" }
func (s *stubChecker) CexFileTemplate() (feasibility.PathTemplate, bool) { return feasibility.PathTemplate{}, false }
func (s *stubChecker) Write(_ feasibility.Witness, restored []byte) ([]byte, error) {
	s.written = restored
	return restored, nil
}
func (s *stubChecker) Decide(_ feasibility.Witness, path string) (bool, error) {
	s.decidedAt = path
	return s.feasible, s.decideErr
}

func TestDelegatingRechecker_FeasibleRoundTrip(t *testing.T) {
	checker := &stubChecker{feasible: true}
	d := feasibility.NewDelegatingRechecker(checker)

	result, path, err := d.CheckCounterexample(
		3,
		[]byte("int main() { return helper(); }\n"),
		feasibility.Witness{Function: "helper"},
		map[string]struct{}{"main": {}},
		stubProvider{cfa: buildOriginal(t)},
		true,
	)
	require.NoError(t, err)
	require.Equal(t, feasibility.Feasible, result)
	require.FileExists(t, path)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "helper(void)")
	require.Equal(t, path, checker.decidedAt)
}

func TestDelegatingRechecker_InfeasibleCleansUpByDefault(t *testing.T) {
	checker := &stubChecker{feasible: false}
	d := feasibility.NewDelegatingRechecker(checker)

	result, path, err := d.CheckCounterexample(
		1,
		[]byte("int main() { return 0; }\n"),
		feasibility.Witness{Function: "helper"},
		nil,
		stubProvider{cfa: buildOriginal(t)},
		false,
	)
	require.NoError(t, err)
	require.Equal(t, feasibility.Infeasible, result)
	require.NoFileExists(t, path)
}

func TestDelegatingRechecker_DecideErrorIsFailed(t *testing.T) {
	checker := &stubChecker{decideErr: assertErr{}}
	d := feasibility.NewDelegatingRechecker(checker)

	result, _, err := d.CheckCounterexample(
		1,
		[]byte("int main() { return 0; }\n"),
		feasibility.Witness{Function: "helper"},
		nil,
		stubProvider{cfa: buildOriginal(t)},
		false,
	)
	require.Equal(t, feasibility.Failed, result)
	require.Error(t, err)
}

func TestDelegatingRechecker_UsesTemplateWhenSet(t *testing.T) {
	dir := t.TempDir()
	checker := &stubChecker{feasible: false}
	d := feasibility.NewDelegatingRechecker(checker)
	d.Template = feasibility.PathTemplate{Pattern: filepath.Join(dir, "cex-round-%d.c")}

	_, path, err := d.CheckCounterexample(
		7,
		[]byte("int main() { return 0; }\n"),
		feasibility.Witness{Function: "helper"},
		nil,
		stubProvider{cfa: buildOriginal(t)},
		false,
	)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "cex-round-7.c"), path)
}

type assertErr struct{}

func (assertErr) Error() string { return "decision failed" }
