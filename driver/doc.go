// Package driver implements the Mutation Driver (C8): the top-level
// state machine that runs the original analysis, then repeatedly
// mutates, analyzes, classifies, and rolls back or keeps a CFA until
// the mutator is exhausted, a FALSE verdict is confirmed feasible, or a
// resource limit fires (spec.md §4.8).
//
// Run drives the whole loop to completion. Start and Session.Step expose
// the same state machine one round at a time, for callers (such as
// cmd/cfamutate's -interactive mode) that want to pause between rounds.
package driver
