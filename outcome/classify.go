package outcome

import "github.com/cfamutation/driver/analysis"

// Outcome is the categorical comparison of a round's result to the
// original's, per spec.md §3's sum type.
type Outcome int

const (
	TrueVerdict Outcome = iota
	FalseVerdictSameBug
	FalseVerdictOtherTarget
	UnknownOtherVerdict
	TimeoutUnknown
	FailureSameException
	FailureOtherException
)

func (o Outcome) String() string {
	switch o {
	case TrueVerdict:
		return "TrueVerdict"
	case FalseVerdictSameBug:
		return "FalseVerdictSameBug"
	case FalseVerdictOtherTarget:
		return "FalseVerdictOtherTarget"
	case UnknownOtherVerdict:
		return "UnknownOtherVerdict"
	case TimeoutUnknown:
		return "TimeoutUnknown"
	case FailureSameException:
		return "FailureSameException"
	case FailureOtherException:
		return "FailureOtherException"
	default:
		return "Invalid"
	}
}

// Classify compares current against original and returns the Outcome,
// implementing spec.md §4.3's decision table:
//
//   - current.Verdict == True                       => TrueVerdict
//   - current.Verdict == False                       => FalseVerdictSameBug iff
//     original.Verdict == False and target descriptions are byte-equal,
//     else FalseVerdictOtherTarget
//   - current.Verdict in {Unknown, NotYetStarted}:
//   - current.Error is a cancellation                 => TimeoutUnknown
//   - both sides carry an error, classes match, and
//     (top frames match OR both are empty)            => FailureSameException
//   - only current carries an error                    => FailureOtherException
//   - both carry errors that do not match as above     => FailureOtherException
//   - else                                              => UnknownOtherVerdict
func Classify(current, original *analysis.AnalysisResult) Outcome {
	switch current.Verdict {
	case analysis.True:
		return TrueVerdict
	case analysis.False:
		if original.Verdict == analysis.False && current.Target == original.Target {
			return FalseVerdictSameBug
		}
		return FalseVerdictOtherTarget
	default: // Unknown, NotYetStarted, Done
		return classifyUnknown(current, original)
	}
}

func classifyUnknown(current, original *analysis.AnalysisResult) Outcome {
	if current.Error != nil && current.Error.Cancelled {
		return TimeoutUnknown
	}
	if current.Error != nil && original.Error != nil && current.Error.Class == original.Error.Class {
		sameFrame := current.Error.TopFrame == original.Error.TopFrame
		bothEmpty := current.Error.TopFrame == "" && original.Error.TopFrame == ""
		if sameFrame || bothEmpty {
			return FailureSameException
		}
	}
	if current.Error != nil && original.Error == nil {
		return FailureOtherException
	}
	if current.Error != nil && original.Error != nil {
		// classes differ, or frames differ with neither empty: still "current
		// has an error the original's doesn't explain the same way".
		return FailureOtherException
	}
	return UnknownOtherVerdict
}
