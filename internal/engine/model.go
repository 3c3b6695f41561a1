// Package engine drives the sequential execution of a multi-step workflow:
// one command at a time, cache-aware, with exactly one progress event per
// lifecycle transition and a single terminal failure halting the run.
package engine

import "github.com/tyemirov/serialflow/internal/jobspec"

// Step is a named, ordered group of commands sharing one execution
// environment. Names are matched case-insensitively during range selection.
type Step struct {
	Name     string
	Commands []string
	Options  jobspec.Options
}

// Workflow is the immutable declarative input to the driver: an identifier,
// a workspace shared by every step, and the ordered step list.
type Workflow struct {
	UUID      string
	Workspace string
	Steps     []Step
}

// TotalCommandCount sums the commands across every step of the workflow,
// independent of any range selection.
func (workflow Workflow) TotalCommandCount() int {
	totalCommands := 0
	for stepIndex := range workflow.Steps {
		totalCommands += len(workflow.Steps[stepIndex].Commands)
	}
	return totalCommands
}

// RuntimeOptions captures the per-run execution modifiers.
type RuntimeOptions struct {
	// FromStep names the first step to execute; unset or unknown means the beginning.
	FromStep string
	// TargetStep names the last step to execute; unset or unknown means the end.
	TargetStep string
	// DisableCache turns off cache lookups and archive persistence for this run.
	DisableCache bool
}
