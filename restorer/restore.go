package restorer

import (
	"errors"
	"os"
)

// ErrOriginalUnavailable is wrapped into a CounterexampleAnalysisFailed
// when an OriginalProvider has no original CFA to offer (e.g. the driver
// never completed S1 of spec.md §4.8).
var ErrOriginalUnavailable = errors.New("restorer: original CFA unavailable")

// RestoreInto appends the C definitions of every function present in the
// mutator's original CFA but absent from alreadyPresent, preceded by
// Separator, to the file at path (spec.md §4.5).
func RestoreInto(path string, alreadyPresent map[string]struct{}, provider OriginalProvider) error {
	original := provider.OriginalCFA()
	if original == nil {
		return &CounterexampleAnalysisFailed{Cause: ErrOriginalUnavailable}
	}

	var missing []string
	for _, name := range original.FunctionNames() {
		if _, present := alreadyPresent[name]; !present {
			missing = append(missing, name)
		}
	}
	rendered := RenderFunctions(original, missing)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &CounterexampleAnalysisFailed{Cause: err}
	}
	defer f.Close()

	if _, err := f.WriteString(Separator); err != nil {
		return &CounterexampleAnalysisFailed{Cause: err}
	}
	if _, err := f.WriteString(rendered); err != nil {
		return &CounterexampleAnalysisFailed{Cause: err}
	}
	return nil
}
