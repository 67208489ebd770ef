// Package feasibility implements the Feasibility Rechecker (C6): given a
// reported counterexample, it invokes an external checker (a model
// checker, the same tool under a different configuration, or a concrete
// execution) to decide whether the counterexample is a real program
// execution, on a file that includes the restored functions (package
// restorer) so the checker sees a complete translation unit (spec.md
// §4.6).
package feasibility
