package engine

import (
	"errors"
	"fmt"

	"github.com/tyemirov/serialflow/internal/rjc"
)

const (
	driverDependenciesMessageConstant        = "execution driver requires logger, submitter, status checker, cache store, and publisher dependencies"
	pollingIntervalInvalidMessageConstant    = "execution driver requires a positive polling interval"
	workspaceMissingMessageConstant          = "workflow workspace path not provided"
	workflowIdentifierErrorTemplateConstant  = "workflow identifier %q is not a valid UUID"
	submissionErrorMessageTemplateConstant   = "submitting command %q of step %q failed"
	statusQueryErrorMessageTemplateConstant  = "querying status of job %s failed"
	terminalFailureMessageTemplateConstant   = "job %s reached terminal status %s"
	restoreFailureErrorMessageTemplateConst  = "restoring cached result of job %s failed"
)

var (
	// ErrDependenciesIncomplete indicates required collaborators were missing at construction.
	ErrDependenciesIncomplete = errors.New(driverDependenciesMessageConstant)
	// ErrPollingIntervalInvalid indicates the configured polling interval was not positive.
	ErrPollingIntervalInvalid = errors.New(pollingIntervalInvalidMessageConstant)
	// ErrWorkspaceMissing indicates the workflow carried no workspace path.
	ErrWorkspaceMissing = errors.New(workspaceMissingMessageConstant)
)

// WorkflowIdentifierError reports a workflow identifier that is not a UUID.
type WorkflowIdentifierError struct {
	Identifier string
	Cause      error
}

// Error describes the invalid identifier.
func (identifierError WorkflowIdentifierError) Error() string {
	return fmt.Sprintf(workflowIdentifierErrorTemplateConstant, identifierError.Identifier)
}

// Unwrap exposes the underlying parse error.
func (identifierError WorkflowIdentifierError) Unwrap() error {
	return identifierError.Cause
}

// SubmissionError reports a failed job submission. It halts the run before a
// job identifier exists.
type SubmissionError struct {
	StepName string
	Command  string
	Cause    error
}

// Error describes the failed submission.
func (submissionError SubmissionError) Error() string {
	return fmt.Sprintf(submissionErrorMessageTemplateConstant, submissionError.Command, submissionError.StepName)
}

// Unwrap exposes the underlying client error.
func (submissionError SubmissionError) Unwrap() error {
	return submissionError.Cause
}

// StatusQueryError reports a failed status query during polling. There is no
// transient-error tolerance in the loop: the first query error is terminal.
type StatusQueryError struct {
	JobID string
	Cause error
}

// Error describes the failed query.
func (queryError StatusQueryError) Error() string {
	return fmt.Sprintf(statusQueryErrorMessageTemplateConstant, queryError.JobID)
}

// Unwrap exposes the underlying client error.
func (queryError StatusQueryError) Unwrap() error {
	return queryError.Cause
}

// JobTerminalFailureError reports a job that ended failed or stopped. It
// halts the run; no further commands are attempted.
type JobTerminalFailureError struct {
	JobID  string
	Status rjc.Status
}

// Error describes the terminal failure.
func (terminalError JobTerminalFailureError) Error() string {
	return fmt.Sprintf(terminalFailureMessageTemplateConstant, terminalError.JobID, terminalError.Status)
}

// RestoreFailureError reports a failed workspace restore from a cache hit.
// The workspace may be left in a mixed state, so the run halts.
type RestoreFailureError struct {
	JobID string
	Cause error
}

// Error describes the failed restore.
func (restoreError RestoreFailureError) Error() string {
	return fmt.Sprintf(restoreFailureErrorMessageTemplateConst, restoreError.JobID)
}

// Unwrap exposes the underlying cache error.
func (restoreError RestoreFailureError) Unwrap() error {
	return restoreError.Cause
}
