// Package cfa defines the Control-Flow Automaton (CFA) data model shared
// by every component of the mutation driver: per-function directed
// multigraphs of Node/Edge values, a MachineModel describing the C
// numeric-type layout, and the small expression language used by edge
// conditions and declarations.
//
// A CFA is arena-allocated: Nodes and Edges are stored by ID in the CFA,
// and Node/Edge values reference each other by ID rather than by Go
// pointer, so the graph has no reference cycles and can be cloned,
// hashed, or compared for structural equality cheaply (see Clone and
// Fingerprint).
//
// This package is intentionally narrow: it has no notion of rounds,
// mutations, or analysis. Those live in cfacheck, mutator, and driver.
package cfa
