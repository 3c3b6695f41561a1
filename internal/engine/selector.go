package engine

import "strings"

// RangeOutcome tags how the step range was resolved so the fail-open fallback
// stays visible in logs and metrics.
type RangeOutcome int

// Range resolution outcomes.
const (
	// RangeResolved means the selected bounds were consistent.
	RangeResolved RangeOutcome = iota
	// RangeFallbackFullWorkflow means the bounds crossed and the full step
	// list is used instead. Documented fail-open policy, not a hard failure.
	RangeFallbackFullWorkflow
)

// SelectStepRange resolves the contiguous sub-range of steps bounded by the
// optional step names. Unknown or empty names degrade to the respective end
// of the list; a from bound past the target bound falls back to the full
// workflow.
func SelectStepRange(steps []Step, fromStep string, targetStep string) ([]Step, RangeOutcome) {
	fromIndex := 0
	targetIndex := len(steps)

	if len(fromStep) > 0 {
		for stepIndex := range steps {
			if strings.EqualFold(steps[stepIndex].Name, fromStep) {
				fromIndex = stepIndex
				break
			}
		}
	}
	if len(targetStep) > 0 {
		for stepIndex := range steps {
			if strings.EqualFold(steps[stepIndex].Name, targetStep) {
				targetIndex = stepIndex + 1
				break
			}
		}
	}

	if fromIndex <= targetIndex {
		return steps[fromIndex:targetIndex], RangeResolved
	}
	return steps, RangeFallbackFullWorkflow
}
