package cfa

import (
	"fmt"
	"math/big"
)

// Expr is a tagged sum over the small expression language carried by
// Declaration/Statement/Assume edges. cfacheck's integer-literal range
// check (spec.md §3, last invariant) walks it with WalkIntLiterals; the
// restorer renders it back to C text with Render. Per DESIGN NOTES
// ("visitor-style expression walker"), this is an inline recursive match
// over a closed set of variants rather than a visitor-interface pattern.
type Expr interface {
	// Render produces a C source fragment for this expression.
	Render() string
	isExpr()
}

// IntLiteral is an integer constant with a declared C integer type; the
// type determines the range cfacheck.Check enforces for Value.
type IntLiteral struct {
	Value *big.Int
	Type  IntegerType
}

func (l *IntLiteral) Render() string { return l.Value.String() }
func (*IntLiteral) isExpr()          {}

// Var is a bare identifier reference.
type Var struct {
	Name string
}

func (v *Var) Render() string { return v.Name }
func (*Var) isExpr()          {}

// Unary is a prefix unary operator applied to Operand (e.g. "-", "!", "~").
type Unary struct {
	Op      string
	Operand Expr
}

func (u *Unary) Render() string { return u.Op + u.Operand.Render() }
func (*Unary) isExpr()          {}

// Binary is an infix binary operator applied to Left and Right
// (e.g. "+", "<", "&&", "=").
type Binary struct {
	Op          string
	Left, Right Expr
}

func (b *Binary) Render() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.Render(), b.Op, b.Right.Render())
}
func (*Binary) isExpr() {}

// Cast is an explicit C-style cast of Operand to Type.
type Cast struct {
	Type    IntegerType
	Operand Expr
}

func (c *Cast) Render() string {
	return fmt.Sprintf("(%s)%s", string(c.Type), c.Operand.Render())
}
func (*Cast) isExpr() {}

// WalkIntLiterals recursively visits every IntLiteral reachable from e,
// calling visit on each. The recursion is the "inline recursive match"
// DESIGN NOTES calls for: one switch over the closed Expr variant set,
// recursing into each variant's subexpressions.
func WalkIntLiterals(e Expr, visit func(*IntLiteral)) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *IntLiteral:
		visit(v)
	case *Var:
		// no subexpressions
	case *Unary:
		WalkIntLiterals(v.Operand, visit)
	case *Binary:
		WalkIntLiterals(v.Left, visit)
		WalkIntLiterals(v.Right, visit)
	case *Cast:
		WalkIntLiterals(v.Operand, visit)
	}
}
