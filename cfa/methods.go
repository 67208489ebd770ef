package cfa

// AddFunction registers a new function with the given name and returns its
// Entry/Exit nodes, already created and linked by a single Blank edge, per
// spec.md §3: "FunctionEntry: ... exactly one outgoing edge, which is
// Blank" and "FunctionExit: all outgoing edges are FunctionReturn".
//
// Unlike core.Graph (the teacher), CFA is not safe for concurrent mutation:
// spec.md §5 assigns all CFA mutation to the driver's single main thread
// between analysis rounds, so no internal locking is carried here.
func (c *CFA) AddFunction(name string) (*Function, error) {
	if name == "" {
		return nil, ErrEmptyFunctionName
	}
	if _, exists := c.Functions[name]; exists {
		return nil, ErrFunctionExists
	}

	entry := c.newNode(name, NodeFunctionEntry)
	exit := c.newNode(name, NodeFunctionExit)

	fn := &Function{
		Name:    name,
		Entry:   entry.ID,
		Exit:    exit.ID,
		HasExit: true,
		Nodes:   map[NodeID]struct{}{entry.ID: {}, exit.ID: {}},
	}
	c.Functions[name] = fn

	// entry -> exit via a direct Blank edge is the minimal well-formed body;
	// callers that need interior nodes remove this edge (RemoveEdge) and
	// relink through AddNode/AddEdge.
	if _, err := c.addEdgeRaw(entry.ID, exit.ID, Blank, false, "", nil); err != nil {
		return nil, err
	}

	return fn, nil
}

// newNode allocates a fresh node for the named function without linking it.
func (c *CFA) newNode(function string, kind NodeKind) *Node {
	c.nextNodeID++
	n := &Node{ID: c.nextNodeID, Function: function, Kind: kind}
	c.Nodes[n.ID] = n
	return n
}

// AddNode allocates a new interior/termination node belonging to an
// existing function and registers it in the function's node set.
func (c *CFA) AddNode(function string, kind NodeKind) (*Node, error) {
	fn, ok := c.Functions[function]
	if !ok {
		return nil, ErrFunctionNotFound
	}
	n := c.newNode(function, kind)
	fn.Nodes[n.ID] = struct{}{}
	return n, nil
}

// AddEdge connects from->to with the given kind, maintaining both
// endpoints' adjacency lists per spec.md §3's "no duplicate edges or
// duplicate neighbors" invariant. expr/raw carry the edge's C-level
// content (nil/"" for Blank/FunctionCall/FunctionReturn/CallToReturn).
func (c *CFA) AddEdge(from, to NodeID, kind EdgeKind, branch bool, raw string, expr Expr) (*Edge, error) {
	fromN, ok := c.Nodes[from]
	if !ok {
		return nil, ErrNodeNotFound
	}
	toN, ok := c.Nodes[to]
	if !ok {
		return nil, ErrNodeNotFound
	}
	if kind != FunctionCall && kind != FunctionReturn && fromN.Function != toN.Function {
		return nil, ErrCrossFunctionEdge
	}
	for _, eid := range fromN.Outgoing {
		e := c.Edges[eid]
		if e.To == to && e.Kind == kind {
			return nil, ErrDuplicateEdge
		}
	}
	return c.addEdgeRaw(from, to, kind, branch, raw, expr)
}

// addEdgeRaw performs the actual arena insertion and adjacency linking,
// skipping the duplicate-check AddEdge already did (or deliberately
// skips, for AddFunction's initial entry->exit edge).
func (c *CFA) addEdgeRaw(from, to NodeID, kind EdgeKind, branch bool, raw string, expr Expr) (*Edge, error) {
	c.nextEdgeID++
	e := &Edge{ID: c.nextEdgeID, From: from, To: to, Kind: kind, Branch: branch, Raw: raw, Expr: expr}
	c.Edges[e.ID] = e
	c.Nodes[from].Outgoing = append(c.Nodes[from].Outgoing, e.ID)
	c.Nodes[to].Incoming = append(c.Nodes[to].Incoming, e.ID)
	return e, nil
}

// RemoveEdge deletes an edge, unlinking it from both endpoints' adjacency.
// RemoveFunction and RemoveFunctionUndo use it to sever a function's edges.
func (c *CFA) RemoveEdge(id EdgeID) error {
	e, ok := c.Edges[id]
	if !ok {
		return ErrEdgeNotFound
	}
	if from, ok := c.Nodes[e.From]; ok {
		from.Outgoing = removeEdgeID(from.Outgoing, id)
	}
	if to, ok := c.Nodes[e.To]; ok {
		to.Incoming = removeEdgeID(to.Incoming, id)
	}
	delete(c.Edges, id)
	return nil
}

// RemoveFunction deletes a function and every node/edge that belongs to it,
// including FunctionCall/FunctionReturn/CallToReturn edges that cross into
// other functions. mutator.FunctionPruner shrinks a CFA with the undoable
// variant, RemoveFunctionUndo (undo.go), rather than with this function.
func (c *CFA) RemoveFunction(name string) error {
	fn, ok := c.Functions[name]
	if !ok {
		return ErrFunctionNotFound
	}

	// Collect every edge touching any node of this function, in either
	// direction, so cross-function call/return edges are also severed.
	toRemove := map[EdgeID]struct{}{}
	for nid := range fn.Nodes {
		if n, ok := c.Nodes[nid]; ok {
			for _, eid := range n.Incoming {
				toRemove[eid] = struct{}{}
			}
			for _, eid := range n.Outgoing {
				toRemove[eid] = struct{}{}
			}
		}
	}
	for eid := range toRemove {
		_ = c.RemoveEdge(eid)
	}
	for nid := range fn.Nodes {
		delete(c.Nodes, nid)
	}
	delete(c.Functions, name)
	return nil
}

func removeEdgeID(ids []EdgeID, target EdgeID) []EdgeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
