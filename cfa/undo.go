package cfa

// FunctionUndo captures exactly what RemoveFunctionUndo deleted so
// RestoreFunction can put it back in place, per DESIGN NOTES' "stack of
// Undo records rather than cloning entire CFAs" guidance: a mutator
// running many rounds over a large CFA should not pay for a full deep
// copy on every rollback.
type FunctionUndo struct {
	function *Function
	nodes    map[NodeID]*Node
	edges    map[EdgeID]*Edge
}

// RemoveFunctionUndo behaves like RemoveFunction but returns an undo
// record that RestoreFunction can later use to put the function, its
// nodes, and every edge touching it (including cross-function
// call/return edges) back exactly as they were.
func (c *CFA) RemoveFunctionUndo(name string) (*FunctionUndo, error) {
	fn, ok := c.Functions[name]
	if !ok {
		return nil, ErrFunctionNotFound
	}

	undo := &FunctionUndo{
		function: fn,
		nodes:    make(map[NodeID]*Node, len(fn.Nodes)),
		edges:    make(map[EdgeID]*Edge),
	}
	// Snapshot each node's adjacency before any edge is removed, since
	// RemoveEdge mutates the live Node values in place.
	for nid := range fn.Nodes {
		n, ok := c.Nodes[nid]
		if !ok {
			continue
		}
		snap := *n
		snap.Incoming = append([]EdgeID(nil), n.Incoming...)
		snap.Outgoing = append([]EdgeID(nil), n.Outgoing...)
		undo.nodes[nid] = &snap
	}

	toRemove := map[EdgeID]struct{}{}
	for _, n := range undo.nodes {
		for _, eid := range n.Incoming {
			toRemove[eid] = struct{}{}
		}
		for _, eid := range n.Outgoing {
			toRemove[eid] = struct{}{}
		}
	}
	for eid := range toRemove {
		if e, ok := c.Edges[eid]; ok {
			snap := *e
			undo.edges[eid] = &snap
		}
		_ = c.RemoveEdge(eid)
	}
	for nid := range fn.Nodes {
		delete(c.Nodes, nid)
	}
	delete(c.Functions, name)
	return undo, nil
}

// RestoreFunction reinserts a function removed by RemoveFunctionUndo,
// including reattaching cross-function call/return edges to the
// surviving caller nodes they originally touched.
func (c *CFA) RestoreFunction(undo *FunctionUndo) {
	for id, n := range undo.nodes {
		c.Nodes[id] = n
	}
	c.Functions[undo.function.Name] = undo.function
	for id, e := range undo.edges {
		c.Edges[id] = e
		if from, ok := c.Nodes[e.From]; ok && !containsEdgeID(from.Outgoing, id) {
			from.Outgoing = append(from.Outgoing, id)
		}
		if to, ok := c.Nodes[e.To]; ok && !containsEdgeID(to.Incoming, id) {
			to.Incoming = append(to.Incoming, id)
		}
	}
}

// FunctionName reports which function an undo record would restore, so
// callers can track mutation history without reaching into the record.
func (u *FunctionUndo) FunctionName() string { return u.function.Name }

func containsEdgeID(ids []EdgeID, target EdgeID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
