package cfacheck_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/cfacheck"
)

// wellFormed builds entry -Blank-> mid -Statement-> exit, the minimal
// non-trivial valid shape, mirroring cfa's own test helper.
func wellFormed(t *testing.T) *cfa.CFA {
	t.Helper()
	c := cfa.New(cfa.Linux64())
	fn, err := c.AddFunction("f")
	require.NoError(t, err)
	require.NoError(t, c.RemoveEdge(c.Nodes[fn.Entry].Outgoing[0]))

	mid, err := c.AddNode("f", cfa.NodeInterior)
	require.NoError(t, err)
	_, err = c.AddEdge(fn.Entry, mid.ID, cfa.Blank, false, "", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(mid.ID, fn.Exit, cfa.Statement, false, "x = 1;", nil)
	require.NoError(t, err)
	return c
}

func TestCheck_WellFormedPasses(t *testing.T) {
	require.NoError(t, cfacheck.Check(wellFormed(t)))
}

func TestCheck_DetectsUnreachableNode(t *testing.T) {
	c := wellFormed(t)
	fn := c.Functions["f"]
	// a node registered in fn.Nodes but never linked by any edge.
	orphan, err := c.AddNode("f", cfa.NodeInterior)
	require.NoError(t, err)
	fn.Nodes[orphan.ID] = struct{}{}

	err = cfacheck.Check(c)
	require.Error(t, err)
	var v *cfacheck.Violation
	require.ErrorAs(t, err, &v)
}

func TestCheck_DetectsDeadEnd(t *testing.T) {
	c := wellFormed(t)
	var mid cfa.NodeID
	for id, n := range c.Nodes {
		if n.Kind == cfa.NodeInterior {
			mid = id
		}
	}
	require.NoError(t, c.RemoveEdge(c.Nodes[mid].Outgoing[0]))

	err := cfacheck.Check(c)
	require.Error(t, err)
}

func TestCheck_DetectsSingleAssumeEdge(t *testing.T) {
	c := wellFormed(t)
	var mid cfa.NodeID
	for id, n := range c.Nodes {
		if n.Kind == cfa.NodeInterior {
			mid = id
		}
	}
	require.NoError(t, c.RemoveEdge(c.Nodes[mid].Outgoing[0]))
	_, err := c.AddEdge(mid, c.Functions["f"].Exit, cfa.Assume, true, "x", nil)
	require.NoError(t, err)

	err = cfacheck.Check(c)
	require.Error(t, err)
}

func TestCheck_AcceptsOppositeAssumeBranches(t *testing.T) {
	c := wellFormed(t)
	fn := c.Functions["f"]
	var mid cfa.NodeID
	for id, n := range c.Nodes {
		if n.Kind == cfa.NodeInterior {
			mid = id
		}
	}
	require.NoError(t, c.RemoveEdge(c.Nodes[mid].Outgoing[0]))

	thenN, err := c.AddNode("f", cfa.NodeInterior)
	require.NoError(t, err)
	_, err = c.AddEdge(mid, thenN.ID, cfa.Assume, true, "x", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(mid, fn.Exit, cfa.Assume, false, "x", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(thenN.ID, fn.Exit, cfa.Statement, false, "y = 1;", nil)
	require.NoError(t, err)

	require.NoError(t, cfacheck.Check(c))
}

func TestCheck_AcceptsFunctionCallSummaryPair(t *testing.T) {
	c := wellFormed(t)
	fn := c.Functions["f"]
	callee, err := c.AddFunction("callee")
	require.NoError(t, err)

	var mid cfa.NodeID
	for id, n := range c.Nodes {
		if n.Kind == cfa.NodeInterior {
			mid = id
		}
	}
	require.NoError(t, c.RemoveEdge(c.Nodes[mid].Outgoing[0]))

	_, err = c.AddEdge(mid, callee.Entry, cfa.FunctionCall, false, "callee()", nil)
	require.NoError(t, err)
	_, err = c.AddEdge(mid, fn.Exit, cfa.CallToReturn, false, "", nil)
	require.NoError(t, err)

	require.NoError(t, cfacheck.Check(c))
}

func TestCheck_DetectsOutOfRangeLiteral(t *testing.T) {
	c := wellFormed(t)
	var mid cfa.NodeID
	for id, n := range c.Nodes {
		if n.Kind == cfa.NodeInterior {
			mid = id
		}
	}
	e, err := c.Edge(c.Nodes[mid].Outgoing[0])
	require.NoError(t, err)
	e.Expr = &cfa.IntLiteral{Value: big.NewInt(1000), Type: cfa.IntChar}

	err = cfacheck.Check(c)
	require.Error(t, err)
}
