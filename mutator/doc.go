// Package mutator implements the CFA Mutator (C7): an abstract
// propose/remember/rollback engine over a cfa.CFA, plus one concrete
// strategy, FunctionPruner, that shrinks a CFA by removing whole
// functions one at a time (spec.md §4.7).
package mutator
