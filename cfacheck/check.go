package cfacheck

import "github.com/cfamutation/driver/cfa"

// Check enforces spec.md §3's invariants for every function in c and
// returns the first Violation found, or nil if c is well-formed.
//
// Traversal is BFS from each function's entry using both predecessor and
// successor closures, so unreachable-from-entry nodes that still point
// into the graph are discovered (spec.md §4.2).
func Check(c *cfa.CFA) error {
	for _, name := range c.FunctionNames() {
		fn := c.Functions[name]
		if v := checkReachability(c, fn); v != nil {
			return v
		}
		if v := checkExactlyOneExit(c, fn); v != nil {
			return v
		}
		for nid := range fn.Nodes {
			n, err := c.Node(nid)
			if err != nil {
				return &Violation{Function: name, Node: nid, Reason: "node vanished from arena"}
			}
			if v := checkAdjacencySymmetry(c, n); v != nil {
				return v
			}
			if v := checkNoDuplicateNeighbors(c, n); v != nil {
				return v
			}
			if v := checkNodeShape(c, n); v != nil {
				return v
			}
		}
		if v := checkIntegerLiterals(c, fn); v != nil {
			return v
		}
	}
	return nil
}

// checkReachability verifies fn.Nodes is exactly the set reachable via
// predecessor/successor closure from fn.Entry (invariant 1).
func checkReachability(c *cfa.CFA, fn *cfa.Function) *Violation {
	seen := map[cfa.NodeID]struct{}{fn.Entry: {}}
	queue := []cfa.NodeID{fn.Entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, err := c.Node(id)
		if err != nil {
			continue
		}
		for _, eid := range n.Outgoing {
			if e, err := c.Edge(eid); err == nil {
				if _, ok := seen[e.To]; !ok && c.Nodes[e.To].Function == fn.Name {
					seen[e.To] = struct{}{}
					queue = append(queue, e.To)
				}
			}
		}
		for _, eid := range n.Incoming {
			if e, err := c.Edge(eid); err == nil {
				if _, ok := seen[e.From]; !ok && c.Nodes[e.From].Function == fn.Name {
					seen[e.From] = struct{}{}
					queue = append(queue, e.From)
				}
			}
		}
	}

	if len(seen) != len(fn.Nodes) {
		return &Violation{Function: fn.Name, Node: fn.Entry,
			Reason: "function's node set is not exactly its entry-reachable closure"}
	}
	for id := range seen {
		if _, ok := fn.Nodes[id]; !ok {
			return &Violation{Function: fn.Name, Node: id,
				Reason: "node reachable from entry but absent from function's node set"}
		}
	}
	return nil
}

// checkExactlyOneExit verifies the function has exactly one FunctionExit node.
func checkExactlyOneExit(c *cfa.CFA, fn *cfa.Function) *Violation {
	count := 0
	var last cfa.NodeID
	for id := range fn.Nodes {
		if n, err := c.Node(id); err == nil && n.Kind == cfa.NodeFunctionExit {
			count++
			last = id
		}
	}
	if count != 1 {
		return &Violation{Function: fn.Name, Node: last,
			Reason: "function must have exactly one FunctionExit node"}
	}
	return nil
}

// checkAdjacencySymmetry verifies invariant 2's adjacency-consistency rule:
// every successor's incoming set contains the edge to n, and the converse
// for predecessors.
func checkAdjacencySymmetry(c *cfa.CFA, n *cfa.Node) *Violation {
	for _, eid := range n.Outgoing {
		e, err := c.Edge(eid)
		if err != nil {
			return &Violation{Function: n.Function, Node: n.ID, Reason: "outgoing edge missing from arena"}
		}
		to, err := c.Node(e.To)
		if err != nil || !containsEdge(to.Incoming, eid) {
			return &Violation{Function: n.Function, Node: n.ID,
				Reason: "successor's incoming set does not contain edge back to this node",
				Outgoing: describeEdges(c, n.Outgoing, false)}
		}
	}
	for _, eid := range n.Incoming {
		e, err := c.Edge(eid)
		if err != nil {
			return &Violation{Function: n.Function, Node: n.ID, Reason: "incoming edge missing from arena"}
		}
		from, err := c.Node(e.From)
		if err != nil || !containsEdge(from.Outgoing, eid) {
			return &Violation{Function: n.Function, Node: n.ID,
				Reason: "predecessor's outgoing set does not contain edge from this node",
				Incoming: describeEdges(c, n.Incoming, true)}
		}
	}
	return nil
}

// checkNoDuplicateNeighbors verifies invariant 2's "no duplicate edges or
// duplicate neighbors" rule on a node's outgoing set.
func checkNoDuplicateNeighbors(c *cfa.CFA, n *cfa.Node) *Violation {
	seen := map[cfa.EdgeID]struct{}{}
	pairs := map[[2]any]struct{}{}
	for _, eid := range n.Outgoing {
		if _, dup := seen[eid]; dup {
			return &Violation{Function: n.Function, Node: n.ID, Reason: "duplicate edge ID in outgoing set"}
		}
		seen[eid] = struct{}{}
		e, err := c.Edge(eid)
		if err != nil {
			continue
		}
		key := [2]any{e.To, e.Kind}
		if _, dup := pairs[key]; dup {
			return &Violation{Function: n.Function, Node: n.ID,
				Reason: "duplicate (neighbor, kind) pair in outgoing set",
				Outgoing: describeEdges(c, n.Outgoing, false)}
		}
		pairs[key] = struct{}{}
	}
	return nil
}

// checkNodeShape enforces the per-NodeKind in/out-degree and edge-kind
// rules of spec.md §3 (FunctionEntry/FunctionExit/Termination/other).
func checkNodeShape(c *cfa.CFA, n *cfa.Node) *Violation {
	switch n.Kind {
	case cfa.NodeFunctionEntry:
		for _, eid := range n.Incoming {
			if e, err := c.Edge(eid); err == nil && e.Kind != cfa.FunctionCall {
				return &Violation{Function: n.Function, Node: n.ID,
					Reason: "FunctionEntry incoming edges must all be FunctionCall",
					Incoming: describeEdges(c, n.Incoming, true)}
			}
		}
		if len(n.Outgoing) != 1 {
			return &Violation{Function: n.Function, Node: n.ID,
				Reason: "FunctionEntry must have exactly one outgoing edge",
				Outgoing: describeEdges(c, n.Outgoing, false)}
		}
		if e, err := c.Edge(n.Outgoing[0]); err != nil || e.Kind != cfa.Blank {
			return &Violation{Function: n.Function, Node: n.ID,
				Reason: "FunctionEntry's sole outgoing edge must be Blank",
				Outgoing: describeEdges(c, n.Outgoing, false)}
		}

	case cfa.NodeFunctionExit:
		for _, eid := range n.Outgoing {
			if e, err := c.Edge(eid); err == nil && e.Kind != cfa.FunctionReturn {
				return &Violation{Function: n.Function, Node: n.ID,
					Reason: "FunctionExit outgoing edges must all be FunctionReturn",
					Outgoing: describeEdges(c, n.Outgoing, false)}
			}
		}

	case cfa.NodeTermination:
		if len(n.Incoming) < 1 {
			return &Violation{Function: n.Function, Node: n.ID, Reason: "Termination node requires >=1 incoming edge"}
		}
		if len(n.Outgoing) != 0 {
			return &Violation{Function: n.Function, Node: n.ID,
				Reason: "Termination node must have zero outgoing edges",
				Outgoing: describeEdges(c, n.Outgoing, false)}
		}

	default: // NodeInterior
		return checkInteriorShape(c, n)
	}
	return nil
}

// checkInteriorShape enforces the "other nodes" rule of spec.md §3: >=1
// incoming; outgoing count 0 (error), 1, or 2 with the kind combinations
// spelled out there. The valid 2-outgoing combinations accepted here are
// {Assume, Assume (opposite branches)} or {FunctionCall, CallToReturn}.
func checkInteriorShape(c *cfa.CFA, n *cfa.Node) *Violation {
	if len(n.Incoming) < 1 {
		return &Violation{Function: n.Function, Node: n.ID, Reason: "interior node requires >=1 incoming edge"}
	}

	switch len(n.Outgoing) {
	case 0:
		return &Violation{Function: n.Function, Node: n.ID, Reason: "interior node is a dead end (0 outgoing edges)"}

	case 1:
		e, err := c.Edge(n.Outgoing[0])
		if err != nil {
			return &Violation{Function: n.Function, Node: n.ID, Reason: "outgoing edge missing from arena"}
		}
		switch e.Kind {
		case cfa.Assume:
			return &Violation{Function: n.Function, Node: n.ID, Reason: "single outgoing edge must not be Assume"}
		case cfa.FunctionSummaryStatement:
			return &Violation{Function: n.Function, Node: n.ID, Reason: "bare FunctionSummaryStatement requires a co-present edge"}
		case cfa.FunctionCall:
			return &Violation{Function: n.Function, Node: n.ID, Reason: "FunctionCall requires a co-present CallToReturn summary edge"}
		}
		return nil

	case 2:
		a, errA := c.Edge(n.Outgoing[0])
		b, errB := c.Edge(n.Outgoing[1])
		if errA != nil || errB != nil {
			return &Violation{Function: n.Function, Node: n.ID, Reason: "outgoing edge missing from arena"}
		}
		if a.Kind == cfa.Assume && b.Kind == cfa.Assume {
			if a.Branch == b.Branch {
				return &Violation{Function: n.Function, Node: n.ID,
					Reason: "two Assume outgoing edges must have opposite branch values",
					Outgoing: describeEdges(c, n.Outgoing, false)}
			}
			return nil
		}
		if isCallSummaryPair(a.Kind, b.Kind) {
			return nil
		}
		return &Violation{Function: n.Function, Node: n.ID,
			Reason: "2 outgoing edges must be {Assume,Assume opposite} or {FunctionCall,CallToReturn}",
			Outgoing: describeEdges(c, n.Outgoing, false)}

	default:
		return &Violation{Function: n.Function, Node: n.ID,
			Reason: "more than 2 outgoing edges on an interior node",
			Outgoing: describeEdges(c, n.Outgoing, false)}
	}
}

func isCallSummaryPair(a, b cfa.EdgeKind) bool {
	return (a == cfa.FunctionCall && b == cfa.CallToReturn) ||
		(a == cfa.CallToReturn && b == cfa.FunctionCall)
}

// checkIntegerLiterals enforces the last invariant of spec.md §3: integer
// literals appearing in edge expressions fit their declared integer type.
func checkIntegerLiterals(c *cfa.CFA, fn *cfa.Function) *Violation {
	var violation *Violation
	for nid := range fn.Nodes {
		n, err := c.Node(nid)
		if err != nil {
			continue
		}
		for _, eid := range n.Outgoing {
			e, err := c.Edge(eid)
			if err != nil || e.Expr == nil {
				continue
			}
			cfa.WalkIntLiterals(e.Expr, func(lit *cfa.IntLiteral) {
				if violation != nil {
					return
				}
				if !c.Machine.InRange(lit.Type, lit.Value) {
					violation = &Violation{Function: fn.Name, Node: nid,
						Reason: "integer literal " + lit.Value.String() + " out of range for " + string(lit.Type)}
				}
			})
			if violation != nil {
				return violation
			}
		}
	}
	return violation
}

func containsEdge(ids []cfa.EdgeID, target cfa.EdgeID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
