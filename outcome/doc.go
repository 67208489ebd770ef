// Package outcome implements the Outcome Classifier (C3): a pure function
// comparing a round's AnalysisResult against the original run's, producing
// one of a small set of categorical Outcomes the mutation policy (package
// mutator) and the driver branch on (spec.md §4.3).
package outcome
