package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/serialflow/internal/engine"
)

func namedSteps(names ...string) []engine.Step {
	steps := make([]engine.Step, 0, len(names))
	for _, name := range names {
		steps = append(steps, engine.Step{Name: name, Commands: []string{"echo " + name}})
	}
	return steps
}

func stepNames(steps []engine.Step) []string {
	names := make([]string, 0, len(steps))
	for stepIndex := range steps {
		names = append(names, steps[stepIndex].Name)
	}
	return names
}

func TestSelectStepRange(testInstance *testing.T) {
	fullWorkflow := namedSteps("gendata", "fit", "plot")

	testCases := []struct {
		name            string
		fromStep        string
		targetStep      string
		expectedNames   []string
		expectedOutcome engine.RangeOutcome
	}{
		{
			name:            "no bounds selects everything",
			expectedNames:   []string{"gendata", "fit", "plot"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "from bound drops leading steps",
			fromStep:        "fit",
			expectedNames:   []string{"fit", "plot"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "target bound drops trailing steps",
			targetStep:      "fit",
			expectedNames:   []string{"gendata", "fit"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "matching bounds select a single step",
			fromStep:        "fit",
			targetStep:      "fit",
			expectedNames:   []string{"fit"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "names match case insensitively",
			fromStep:        "FIT",
			targetStep:      "Plot",
			expectedNames:   []string{"fit", "plot"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "unknown from name degrades to the beginning",
			fromStep:        "unknown",
			targetStep:      "fit",
			expectedNames:   []string{"gendata", "fit"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "unknown target name degrades to the end",
			fromStep:        "fit",
			targetStep:      "unknown",
			expectedNames:   []string{"fit", "plot"},
			expectedOutcome: engine.RangeResolved,
		},
		{
			name:            "crossed bounds fall back to the full workflow",
			fromStep:        "plot",
			targetStep:      "gendata",
			expectedNames:   []string{"gendata", "fit", "plot"},
			expectedOutcome: engine.RangeFallbackFullWorkflow,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			selectedSteps, outcome := engine.SelectStepRange(fullWorkflow, testCase.fromStep, testCase.targetStep)
			require.Equal(subTest, testCase.expectedNames, stepNames(selectedSteps))
			require.Equal(subTest, testCase.expectedOutcome, outcome)
		})
	}
}

func TestSelectStepRangeReturnsContiguousSlices(testInstance *testing.T) {
	fullWorkflow := namedSteps("a", "b", "c", "d")

	for fromIndex := 0; fromIndex < len(fullWorkflow); fromIndex++ {
		for targetIndex := fromIndex; targetIndex < len(fullWorkflow); targetIndex++ {
			selectedSteps, outcome := engine.SelectStepRange(fullWorkflow, fullWorkflow[fromIndex].Name, fullWorkflow[targetIndex].Name)
			require.Equal(testInstance, engine.RangeResolved, outcome)
			require.Equal(testInstance, stepNames(fullWorkflow[fromIndex:targetIndex+1]), stepNames(selectedSteps))
		}
	}
}
