package cfacheck

import (
	"fmt"
	"strings"

	"github.com/cfamutation/driver/cfa"
)

// Violation describes one structural invariant failure. It carries enough
// to be a reproducible bug report against the mutator that produced the
// offending CFA (spec.md §4.2: "a human-readable location (function name,
// node number, adjoining edges textualized)").
type Violation struct {
	Function string
	Node     cfa.NodeID
	Reason   string
	Incoming []string
	Outgoing []string
}

func (v *Violation) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cfacheck: %s: function %q node %d: %s", "invariant violation", v.Function, v.Node, v.Reason)
	if len(v.Incoming) > 0 {
		fmt.Fprintf(&b, " incoming=[%s]", strings.Join(v.Incoming, ", "))
	}
	if len(v.Outgoing) > 0 {
		fmt.Fprintf(&b, " outgoing=[%s]", strings.Join(v.Outgoing, ", "))
	}
	return b.String()
}

// describeEdges renders a node's edges as "Kind->NodeID" fragments, for
// Violation.Incoming/Outgoing.
func describeEdges(c *cfa.CFA, ids []cfa.EdgeID, incoming bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		e, err := c.Edge(id)
		if err != nil {
			out = append(out, fmt.Sprintf("<missing edge %d>", id))
			continue
		}
		if incoming {
			out = append(out, fmt.Sprintf("%s<-N%d", e.Kind, e.From))
		} else {
			out = append(out, fmt.Sprintf("%s->N%d", e.Kind, e.To))
		}
	}
	return out
}
