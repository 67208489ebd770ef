package cfa

import (
	"crypto/sha256"
	"fmt"
)

// Clone returns a deep, independent copy of c: a fresh arena with new Node
// and Edge values holding the same IDs, so NodeID/EdgeID remain stable
// across a clone (mutator.FunctionPruner mutates only its clone, so the
// original stays intact for restore_cfa/C5).
//
// Per DESIGN.md's Open Question decision, every CFA handed to the verifier
// is self-contained: Clone never aliases the source's Node/Edge values.
func (c *CFA) Clone() *CFA {
	out := &CFA{
		Functions:  make(map[string]*Function, len(c.Functions)),
		Nodes:      make(map[NodeID]*Node, len(c.Nodes)),
		Edges:      make(map[EdgeID]*Edge, len(c.Edges)),
		Machine:    c.Machine,
		Language:   c.Language,
		nextNodeID: c.nextNodeID,
		nextEdgeID: c.nextEdgeID,
	}
	for id, n := range c.Nodes {
		out.Nodes[id] = &Node{
			ID:       n.ID,
			Function: n.Function,
			Kind:     n.Kind,
			Incoming: append([]EdgeID(nil), n.Incoming...),
			Outgoing: append([]EdgeID(nil), n.Outgoing...),
		}
	}
	for id, e := range c.Edges {
		out.Edges[id] = &Edge{
			ID: e.ID, From: e.From, To: e.To, Kind: e.Kind,
			Branch: e.Branch, Raw: e.Raw, Expr: e.Expr,
		}
	}
	for name, fn := range c.Functions {
		nodes := make(map[NodeID]struct{}, len(fn.Nodes))
		for id := range fn.Nodes {
			nodes[id] = struct{}{}
		}
		out.Functions[name] = &Function{
			Name: fn.Name, Entry: fn.Entry, Exit: fn.Exit, HasExit: fn.HasExit,
			Nodes: nodes, Params: append([]Param(nil), fn.Params...), ReturnType: fn.ReturnType,
		}
	}
	return out
}

// Fingerprint computes a cheap structural digest used by
// internal/roundcache to recognize a CFA shape already analyzed this
// session. It is intentionally coarse (function set plus per-function
// node/edge counts, per SPEC_FULL.md's DOMAIN STACK section) rather than a
// full canonical graph hash: a false negative just costs a redundant
// analysis, never an incorrect result.
func (c *CFA) Fingerprint() string {
	h := sha256.New()
	for _, name := range c.FunctionNames() {
		fn := c.Functions[name]
		fmt.Fprintf(h, "%s:%d:%d;", name, len(fn.Nodes), countOwnEdges(c, fn))
	}
	sum := h.Sum(nil)
	var lo uint64
	for i := 0; i < 8 && i < len(sum); i++ {
		lo |= uint64(sum[i]) << (8 * i)
	}
	return fmt.Sprintf("%016x", lo)
}

func countOwnEdges(c *CFA, fn *Function) int {
	seen := map[EdgeID]struct{}{}
	for nid := range fn.Nodes {
		n, ok := c.Nodes[nid]
		if !ok {
			continue
		}
		for _, eid := range n.Outgoing {
			seen[eid] = struct{}{}
		}
	}
	return len(seen)
}
