package cfacheck_test

import (
	"fmt"
	"testing"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/cfacheck"
)

// chainCFA builds a single function with n interior nodes in a straight
// line, entry -Blank-> n1 -Statement-> n2 -> ... -> exit.
func chainCFA(b *testing.B, n int) *cfa.CFA {
	b.Helper()
	c := cfa.New(cfa.Linux64())
	fn, err := c.AddFunction("f")
	if err != nil {
		b.Fatal(err)
	}
	if err := c.RemoveEdge(c.Nodes[fn.Entry].Outgoing[0]); err != nil {
		b.Fatal(err)
	}
	prev := fn.Entry
	for i := 0; i < n; i++ {
		node, err := c.AddNode("f", cfa.NodeInterior)
		if err != nil {
			b.Fatal(err)
		}
		kind := cfa.Statement
		if prev == fn.Entry {
			kind = cfa.Blank
		}
		if _, err := c.AddEdge(prev, node.ID, kind, false, fmt.Sprintf("s%d;", i), nil); err != nil {
			b.Fatal(err)
		}
		prev = node.ID
	}
	if _, err := c.AddEdge(prev, fn.Exit, cfa.Blank, false, "", nil); err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkCheck(b *testing.B) {
	c := chainCFA(b, 500)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cfacheck.Check(c); err != nil {
			b.Fatal(err)
		}
	}
}
