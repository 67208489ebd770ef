// Package budget implements the Budget Controller (C1): derivation of
// per-round resource limits from a global budget and the original run's
// consumption, plus the will_exceed check used to decide whether another
// round is worth starting (spec.md §4.1).
//
// Per spec.md §5, the Controller's only mutable state (the recorded
// original-run duration) is touched exclusively by the driver's main
// thread between rounds; GlobalLimit.Current is likewise updated only
// between rounds, so Controller carries no internal locking.
package budget
