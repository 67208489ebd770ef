// Package cfacheck implements the Structural Invariant Checker (C2):
// verifying that a cfa.CFA is a well-formed per-function graph, per
// spec.md §3 and §4.2.
//
// Check is a pure property checker: it never mutates its argument. The
// driver (package driver) runs it after every mutation round's CFA is
// materialized when running in debug mode.
package cfacheck
