package cfa_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/cfa"
)

// buildTrivialFunction returns a CFA with one function f whose body is
// entry -(Blank)-> interior -(Statement)-> exit, the minimal non-trivial
// well-formed shape used across several tests.
func buildTrivialFunction(t *testing.T) (*cfa.CFA, *cfa.Function) {
	t.Helper()
	c := cfa.New(cfa.Linux64())
	fn, err := c.AddFunction("f")
	require.NoError(t, err)

	// AddFunction wires entry->exit directly with Blank; replace that with
	// entry->mid->exit so there is an interior node to exercise.
	require.NoError(t, c.RemoveEdge(c.Nodes[fn.Entry].Outgoing[0]))

	mid, err := c.AddNode("f", cfa.NodeInterior)
	require.NoError(t, err)

	_, err = c.AddEdge(fn.Entry, mid.ID, cfa.Blank, false, "", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(mid.ID, fn.Exit, cfa.Statement, false, "x = 1;", nil)
	require.NoError(t, err)

	return c, fn
}

func TestAddFunction(t *testing.T) {
	c := cfa.New(cfa.Linux64())
	fn, err := c.AddFunction("main")
	require.NoError(t, err)
	require.Equal(t, "main", fn.Name)
	require.True(t, fn.HasExit)
	require.Len(t, c.Nodes[fn.Entry].Outgoing, 1)

	_, err = c.AddFunction("main")
	require.ErrorIs(t, err, cfa.ErrFunctionExists)

	_, err = c.AddFunction("")
	require.ErrorIs(t, err, cfa.ErrEmptyFunctionName)
}

func TestAddEdge_RejectsDuplicatesAndCrossFunction(t *testing.T) {
	c, fn := buildTrivialFunction(t)
	mid := onlyInteriorNode(t, c, fn)

	_, err := c.AddEdge(mid, fn.Exit, cfa.Statement, false, "x = 1;", nil)
	require.ErrorIs(t, err, cfa.ErrDuplicateEdge)

	other, err := c.AddFunction("g")
	require.NoError(t, err)
	_, err = c.AddEdge(mid, other.Entry, cfa.Statement, false, "", nil)
	require.ErrorIs(t, err, cfa.ErrCrossFunctionEdge)
}

func TestRemoveFunction_SeversCrossFunctionEdges(t *testing.T) {
	c, fn := buildTrivialFunction(t)
	callee, err := c.AddFunction("callee")
	require.NoError(t, err)

	mid := onlyInteriorNode(t, c, fn)
	callEdge, err := c.AddEdge(mid, callee.Entry, cfa.FunctionCall, false, "callee()", nil)
	require.NoError(t, err)

	require.NoError(t, c.RemoveFunction("callee"))
	require.Nil(t, c.Functions["callee"])
	_, err = c.Edge(callEdge.ID)
	require.ErrorIs(t, err, cfa.ErrEdgeNotFound)
	require.NotContains(t, c.Nodes[mid].Outgoing, callEdge.ID)
}

func TestClone_IsIndependent(t *testing.T) {
	c, fn := buildTrivialFunction(t)
	clone := c.Clone()

	mid := onlyInteriorNode(t, c, fn)
	require.NoError(t, c.RemoveEdge(c.Nodes[mid].Outgoing[0]))

	// the clone must still have its edge intact.
	cloneMid := onlyInteriorNode(t, clone, clone.Functions[fn.Name])
	require.Len(t, clone.Nodes[cloneMid].Outgoing, 1)
}

func TestFingerprint_StableAndSensitiveToShape(t *testing.T) {
	c1, _ := buildTrivialFunction(t)
	c2, _ := buildTrivialFunction(t)
	require.Equal(t, c1.Fingerprint(), c2.Fingerprint())

	_, err := c2.AddNode("f", cfa.NodeInterior)
	require.NoError(t, err)
	require.NotEqual(t, c1.Fingerprint(), c2.Fingerprint())
}

func TestClone_PreservesNodesAndEdgesButNotIdentity(t *testing.T) {
	c, _ := buildTrivialFunction(t)
	clone := c.Clone()

	if diff := cmp.Diff(c.Nodes, clone.Nodes); diff != "" {
		t.Fatalf("clone's Nodes diverged from original (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.Edges, clone.Edges); diff != "" {
		t.Fatalf("clone's Edges diverged from original (-want +got):\n%s", diff)
	}

	// mutating the clone must never reach back into the original (Open
	// Question decision 1: self-contained CFAs).
	mid, err := clone.AddNode("f", cfa.NodeInterior)
	require.NoError(t, err)
	_, ok := c.Nodes[mid.ID]
	require.False(t, ok, "original CFA must not see the clone's new node")
	require.NotEqual(t, c.Fingerprint(), clone.Fingerprint())
}

func TestMachineModel_Bounds(t *testing.T) {
	m := cfa.Linux64()
	require.True(t, m.InRange(cfa.IntChar, big.NewInt(127)))
	require.False(t, m.InRange(cfa.IntChar, big.NewInt(128)))
	require.True(t, m.InRange(cfa.IntInt, big.NewInt(-2147483648)))
	require.False(t, m.InRange(cfa.IntInt, big.NewInt(2147483648)))
}

func onlyInteriorNode(t *testing.T, c *cfa.CFA, fn *cfa.Function) cfa.NodeID {
	t.Helper()
	for id := range fn.Nodes {
		if n, _ := c.Node(id); n.Kind == cfa.NodeInterior {
			return id
		}
	}
	t.Fatal("no interior node found")
	return 0
}
