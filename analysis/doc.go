// Package analysis implements the Verifier Adapter (C4): a single-call
// interface that runs one analysis on a given CFA under a resource limit
// and returns an AnalysisResult plus any captured error, never
// propagating the verifier's own exceptions (spec.md §4.4, §7).
//
// The verifier itself is an external dependency the driver treats as
// opaque (spec.md §1); Verifier is the narrow interface this package
// expects it to satisfy, and Adapter is the only component that ever
// calls it directly.
package analysis
