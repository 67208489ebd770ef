// Package restorer implements the Counterexample Restorer (C5): for a
// counterexample file produced over a pruned CFA, it appends synthesized
// C definitions of the functions that were absent, so an external
// counterexample checker (package feasibility) reading the file sees a
// complete, compilable translation unit (spec.md §4.5).
package restorer
