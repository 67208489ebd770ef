package main

import (
	"context"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/cfa"
)

// demoCFA builds a small three-function call chain ("entry" -> "risky"
// -> "leaf") standing in for the output of an upstream parser this
// binary does not implement (spec.md §1).
func demoCFA() *cfa.CFA {
	c := cfa.New(cfa.Linux64())

	leaf, _ := c.AddFunction("leaf")
	_ = c.RemoveEdge(c.Nodes[leaf.Entry].Outgoing[0])
	leafBody, _ := c.AddNode("leaf", cfa.NodeInterior)
	_, _ = c.AddEdge(leaf.Entry, leafBody.ID, cfa.Blank, false, "", nil)
	_, _ = c.AddEdge(leafBody.ID, leaf.Exit, cfa.Statement, false, "return 0", nil)

	risky, _ := c.AddFunction("risky")
	_ = c.RemoveEdge(c.Nodes[risky.Entry].Outgoing[0])
	riskyCall, _ := c.AddNode("risky", cfa.NodeInterior)
	_, _ = c.AddEdge(risky.Entry, riskyCall.ID, cfa.Blank, false, "", nil)
	_, _ = c.AddEdge(riskyCall.ID, leaf.Entry, cfa.FunctionCall, false, "", nil)
	_, _ = c.AddEdge(riskyCall.ID, risky.Exit, cfa.CallToReturn, false, "", nil)

	entry, _ := c.AddFunction("entry")
	_ = c.RemoveEdge(c.Nodes[entry.Entry].Outgoing[0])
	entryCall, _ := c.AddNode("entry", cfa.NodeInterior)
	_, _ = c.AddEdge(entry.Entry, entryCall.ID, cfa.Blank, false, "", nil)
	_, _ = c.AddEdge(entryCall.ID, risky.Entry, cfa.FunctionCall, false, "", nil)
	_, _ = c.AddEdge(entryCall.ID, entry.Exit, cfa.CallToReturn, false, "", nil)

	return c
}

// demoVerifier reports False with target "leaf" as long as the CFA
// still contains "leaf", standing in for a real program analysis
// (spec.md §1 treats the verifier as opaque).
func demoVerifier() analysis.Verifier {
	return analysis.VerifierFunc(func(_ context.Context, c *cfa.CFA) (analysis.Verdict, string, error) {
		for _, name := range c.FunctionNames() {
			if name == "leaf" {
				return analysis.False, "leaf", nil
			}
		}
		return analysis.True, "", nil
	})
}
