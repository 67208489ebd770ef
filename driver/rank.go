package driver

import (
	"fmt"
	"io"
	"sort"

	"github.com/cfamutation/driver/cfa"
)

// rankedNode is one line of spec.md §6's CFA-node rank file.
type rankedNode struct {
	function string
	id       cfa.NodeID
	degree   int
}

// writeRankedNodes dumps every node of c, ranked by total degree
// (incoming plus outgoing edges) descending, in the "func:Nnum [ x
// count]" format spec.md §6 names for rankedNodesFile. Total degree is
// the cheapest proxy the driver has for "how central a node is to its
// function's control flow" without a verifier-supplied execution trace:
// a node many edges touch is disproportionately affected by any mutation
// nearby, which is the operator's actual question when reading this file.
func writeRankedNodes(w io.Writer, c *cfa.CFA) error {
	ranked := make([]rankedNode, 0, len(c.Nodes))
	for id, n := range c.Nodes {
		ranked = append(ranked, rankedNode{
			function: n.Function,
			id:       id,
			degree:   len(n.Incoming) + len(n.Outgoing),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].degree != ranked[j].degree {
			return ranked[i].degree > ranked[j].degree
		}
		if ranked[i].function != ranked[j].function {
			return ranked[i].function < ranked[j].function
		}
		return ranked[i].id < ranked[j].id
	})

	for _, r := range ranked {
		if _, err := fmt.Fprintf(w, "%s:N%d [ x %d]\n", r.function, r.id, r.degree); err != nil {
			return fmt.Errorf("driver: writing ranked node %s:N%d: %w", r.function, r.id, err)
		}
	}
	return nil
}
