package outcome_test

import (
	"testing"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/outcome"
)

func BenchmarkClassify(b *testing.B) {
	original := &analysis.AnalysisResult{Verdict: analysis.Unknown, Error: &analysis.CapturedError{Class: "E1X", TopFrame: "f:42"}}
	current := &analysis.AnalysisResult{Verdict: analysis.Unknown, Error: &analysis.CapturedError{Class: "E1X", TopFrame: "f:42"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		outcome.Classify(current, original)
	}
}
