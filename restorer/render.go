package restorer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cfamutation/driver/cfa"
)

// RenderFunctions translates every named function of c to C source,
// function-by-function, with no header (spec.md §4.5 step 3). Each
// function is reconstructed as a label-and-goto C function: one label per
// CFA node, mirroring how CPAchecker-style tools re-serialize a CFA back
// to compilable C without needing a full structured-statement recovery
// pass.
func RenderFunctions(c *cfa.CFA, names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, name := range sorted {
		fn, ok := c.Functions[name]
		if !ok {
			continue
		}
		renderFunction(&b, c, fn)
	}
	return b.String()
}

func renderFunction(b *strings.Builder, c *cfa.CFA, fn *cfa.Function) {
	fmt.Fprintf(b, "%s %s(%s) {\n", returnTypeOrDefault(fn), fn.Name, renderParams(fn.Params))

	ids := make([]cfa.NodeID, 0, len(fn.Nodes))
	for id := range fn.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := c.Nodes[id]
		fmt.Fprintf(b, "L%d:\n", id)
		renderNodeBody(b, c, n)
	}
	b.WriteString("}\n\n")
}

func renderNodeBody(b *strings.Builder, c *cfa.CFA, n *cfa.Node) {
	switch n.Kind {
	case cfa.NodeFunctionExit:
		b.WriteString("\treturn;\n")
		return
	case cfa.NodeTermination:
		b.WriteString("\t// unreachable: function does not return\n")
		return
	}

	switch len(n.Outgoing) {
	case 1:
		e := c.Edges[n.Outgoing[0]]
		renderStatement(b, e)
		fmt.Fprintf(b, "\tgoto L%d;\n", e.To)

	case 2:
		a := c.Edges[n.Outgoing[0]]
		bb := c.Edges[n.Outgoing[1]]
		if a.Kind == cfa.Assume && bb.Kind == cfa.Assume {
			trueEdge, falseEdge := a, bb
			if !a.Branch {
				trueEdge, falseEdge = bb, a
			}
			cond := trueEdge.Raw
			if trueEdge.Expr != nil {
				cond = trueEdge.Expr.Render()
			}
			fmt.Fprintf(b, "\tif (%s) goto L%d; else goto L%d;\n", cond, trueEdge.To, falseEdge.To)
			return
		}
		call, summary := a, bb
		if a.Kind != cfa.FunctionCall {
			call, summary = bb, a
		}
		renderStatement(b, call)
		fmt.Fprintf(b, "\tgoto L%d;\n", summary.To)

	default:
		// 0 outgoing on a non-exit/termination node is a structural
		// violation cfacheck would already have caught; render nothing.
	}
}

func renderStatement(b *strings.Builder, e *cfa.Edge) {
	switch e.Kind {
	case cfa.Blank, cfa.CallToReturn:
		return
	}
	text := e.Raw
	if e.Expr != nil {
		text = e.Expr.Render()
	}
	if text == "" {
		return
	}
	if !strings.HasSuffix(strings.TrimSpace(text), ";") {
		text += ";"
	}
	fmt.Fprintf(b, "\t%s\n", text)
}

func returnTypeOrDefault(fn *cfa.Function) string {
	if fn.ReturnType != "" {
		return fn.ReturnType
	}
	return "int"
}

func renderParams(params []cfa.Param) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	return strings.Join(parts, ", ")
}
