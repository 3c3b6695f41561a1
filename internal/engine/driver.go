package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyemirov/serialflow/internal/cache"
	"github.com/tyemirov/serialflow/internal/config"
	"github.com/tyemirov/serialflow/internal/jobspec"
	"github.com/tyemirov/serialflow/internal/progress"
	"github.com/tyemirov/serialflow/internal/rjc"
)

const (
	stepRangeInconsistentMessageConstant  = "from step must not come after target step, executing full workflow"
	commandStartingMessageConstant        = "executing workflow command"
	cacheRestoredMessageConstant          = "workspace restored from cached result"
	cachePersistFailedMessageConstant     = "workspace archive write failed, continuing without cache entry"
	workflowCompletedMessageConstant      = "workflow completed"
	workflowFailedMessageConstant         = "workflow failed"
	fromStepFieldNameConstant             = "from_step"
	targetStepFieldNameConstant           = "target_step"
	stepFieldNameConstant                 = "step"
	stepNumberFieldNameConstant           = "step_number"
	commandFieldNameConstant              = "command"
	jobIdentifierFieldNameConstant        = "job_id"
	resultPathFieldNameConstant           = "result_path"
	attemptedCommandsFieldNameConstant    = "attempted_commands"
	cachedCommandsFieldNameConstant       = "cached_commands"
)

// CacheStore answers cache lookups and moves workspace trees in and out of
// the archive. Implemented by cache.Client.
type CacheStore interface {
	Lookup(executionContext context.Context, specification jobspec.Specification, stepName string, workspace string) cache.LookupResult
	Restore(resultPath string, workspace string) error
	Persist(jobID string, workspace string) (string, error)
}

// Dependencies configures the collaborators shared by every run of a Driver.
type Dependencies struct {
	Logger        *zap.Logger
	Submitter     rjc.JobSubmitter
	StatusChecker rjc.StatusChecker
	Cache         CacheStore
	Publisher     progress.StatusPublisher
}

// RunStatus identifies the terminal state of one workflow run.
type RunStatus int

// Terminal run states.
const (
	RunStatusCompleted RunStatus = iota + 1
	RunStatusFailed
)

// Outcome captures aggregated metrics for one workflow run.
type Outcome struct {
	Status            RunStatus
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	AttemptedCommands int
	CachedCommands    int
	FailedJobID       string
}

// Driver turns a declarative step list into a deterministic sequence of
// remote job invocations. Commands execute strictly in order on a single
// logical thread of control; the only blocking wait is the status poll.
type Driver struct {
	dependencies Dependencies
	settings     config.Settings
}

// NewDriver validates the collaborators and settings and returns a Driver.
func NewDriver(dependencies Dependencies, settings config.Settings) (*Driver, error) {
	if dependencies.Logger == nil || dependencies.Submitter == nil || dependencies.StatusChecker == nil || dependencies.Cache == nil || dependencies.Publisher == nil {
		return nil, ErrDependenciesIncomplete
	}
	if settings.PollingInterval <= 0 {
		return nil, ErrPollingIntervalInvalid
	}
	return &Driver{dependencies: dependencies, settings: settings}, nil
}

type runSession struct {
	driver       *Driver
	workflow     Workflow
	builder      jobspec.Builder
	reporter     *progress.Reporter
	cacheEnabled bool
}

type commandResult struct {
	cached bool
}

// Run executes the workflow to a terminal state. Any single job failure is
// terminal for the whole run: no retry, no skip-and-continue. Cancelling the
// context aborts a blocked status poll.
func (driver *Driver) Run(executionContext context.Context, workflow Workflow, options RuntimeOptions) (Outcome, error) {
	outcome := Outcome{StartTime: time.Now()}

	if validationError := validateWorkflow(workflow); validationError != nil {
		return driver.finishOutcome(outcome, RunStatusFailed), validationError
	}

	reporter, reporterError := progress.NewReporter(driver.dependencies.Publisher, driver.dependencies.Logger, workflow.UUID, driver.settings.PodName)
	if reporterError != nil {
		return driver.finishOutcome(outcome, RunStatusFailed), reporterError
	}

	reporter.WorkflowStarted(workflow.TotalCommandCount())

	selectedSteps, rangeOutcome := SelectStepRange(workflow.Steps, options.FromStep, options.TargetStep)
	if rangeOutcome == RangeFallbackFullWorkflow {
		driver.dependencies.Logger.Warn(
			stepRangeInconsistentMessageConstant,
			zap.String(fromStepFieldNameConstant, options.FromStep),
			zap.String(targetStepFieldNameConstant, options.TargetStep),
		)
	}

	session := &runSession{
		driver:   driver,
		workflow: workflow,
		builder: jobspec.NewBuilder(jobspec.ExecutionEnvironment{
			WorkflowUUID:      workflow.UUID,
			WorkflowWorkspace: workflow.Workspace,
			CVMFSMounts:       driver.settings.CVMFSMounts,
			DefaultKerberos:   driver.settings.WorkflowKerberos,
		}),
		reporter:     reporter,
		cacheEnabled: driver.settings.CacheEnabled && !options.DisableCache,
	}

	for stepIndex := range selectedSteps {
		step := selectedSteps[stepIndex]
		for commandIndex, command := range step.Commands {
			isLastCommand := stepIndex == len(selectedSteps)-1 && commandIndex == len(step.Commands)-1

			driver.dependencies.Logger.Info(
				commandStartingMessageConstant,
				zap.String(stepFieldNameConstant, step.Name),
				zap.Int(stepNumberFieldNameConstant, stepIndex),
				zap.String(commandFieldNameConstant, command),
			)

			result, commandError := session.executeCommand(executionContext, step, command, isLastCommand)
			if commandError != nil {
				outcome.FailedJobID = failedJobIdentifier(commandError)
				driver.dependencies.Logger.Error(workflowFailedMessageConstant, zap.Error(commandError))
				return driver.finishOutcome(outcome, RunStatusFailed), commandError
			}

			outcome.AttemptedCommands++
			if result.cached {
				outcome.CachedCommands++
			}
		}
	}

	driver.dependencies.Logger.Info(
		workflowCompletedMessageConstant,
		zap.Int(attemptedCommandsFieldNameConstant, outcome.AttemptedCommands),
		zap.Int(cachedCommandsFieldNameConstant, outcome.CachedCommands),
	)
	return driver.finishOutcome(outcome, RunStatusCompleted), nil
}

// executeCommand runs one command through the cache-or-submit decision and
// emits exactly one terminal progress event for it, or exactly one failure
// event when the command fails.
func (session *runSession) executeCommand(executionContext context.Context, step Step, command string, isLastCommand bool) (commandResult, error) {
	specification := session.builder.Build(step.Name, command, step.Options)
	successStatus := progress.WorkflowStatusRunning
	if isLastCommand {
		successStatus = progress.WorkflowStatusFinished
	}

	if session.cacheEnabled {
		lookupResult := session.driver.dependencies.Cache.Lookup(executionContext, specification, step.Name, session.workflow.Workspace)
		if lookupResult.Outcome == cache.OutcomeHit {
			if restoreError := session.driver.dependencies.Cache.Restore(lookupResult.ResultPath, session.workflow.Workspace); restoreError != nil {
				session.reporter.WorkflowFailed(lookupResult.JobID)
				return commandResult{}, RestoreFailureError{JobID: lookupResult.JobID, Cause: restoreError}
			}
			session.driver.dependencies.Logger.Info(
				cacheRestoredMessageConstant,
				zap.String(jobIdentifierFieldNameConstant, lookupResult.JobID),
				zap.String(resultPathFieldNameConstant, lookupResult.ResultPath),
			)
			session.reporter.CacheHit(lookupResult.JobID, successStatus)
			return commandResult{cached: true}, nil
		}
		// OutcomeUnavailable already logged by the cache client; both
		// non-hit outcomes continue as a miss.
	}

	jobID, submitError := session.driver.dependencies.Submitter.Submit(executionContext, specification)
	if submitError != nil {
		session.reporter.WorkflowFailed("")
		return commandResult{}, SubmissionError{StepName: step.Name, Command: command, Cause: submitError}
	}
	session.reporter.JobSubmitted(jobID)

	terminalStatus, pollError := session.driver.awaitTerminal(executionContext, jobID)
	if pollError != nil {
		session.reporter.WorkflowFailed(jobID)
		return commandResult{}, pollError
	}

	if terminalStatus != rjc.StatusFinished {
		session.reporter.WorkflowFailed(jobID)
		return commandResult{}, JobTerminalFailureError{JobID: jobID, Status: terminalStatus}
	}

	var cachingInfo *progress.CachingInfo
	if session.cacheEnabled {
		if archivePath := session.persistArchiveBestEffort(jobID); len(archivePath) > 0 {
			cachingInfo = &progress.CachingInfo{
				JobSpec:     specification,
				JobID:       jobID,
				Workspace:   session.workflow.Workspace,
				StepName:    step.Name,
				ArchivePath: archivePath,
			}
		}
	}
	session.reporter.JobSucceeded(jobID, successStatus, cachingInfo)
	return commandResult{}, nil
}

// persistArchiveBestEffort archives the workspace after a finished job. The
// write error is discarded here and nowhere else: a failed archive must not
// fail a job the remote service already completed.
func (session *runSession) persistArchiveBestEffort(jobID string) string {
	archivePath, persistError := session.driver.dependencies.Cache.Persist(jobID, session.workflow.Workspace)
	if persistError != nil {
		session.driver.dependencies.Logger.Error(
			cachePersistFailedMessageConstant,
			zap.String(jobIdentifierFieldNameConstant, jobID),
			zap.Error(persistError),
		)
		return ""
	}
	return archivePath
}

// awaitTerminal polls the job status at the configured fixed interval until a
// terminal status arrives. The first query happens before any wait; there is
// no backoff, no retry budget, and no loop-level timeout. Query errors
// propagate immediately.
func (driver *Driver) awaitTerminal(executionContext context.Context, jobID string) (rjc.Status, error) {
	status, queryError := driver.dependencies.StatusChecker.CheckStatus(executionContext, jobID)
	if queryError != nil {
		return "", StatusQueryError{JobID: jobID, Cause: queryError}
	}

	for !status.Terminal() {
		select {
		case <-executionContext.Done():
			return "", StatusQueryError{JobID: jobID, Cause: executionContext.Err()}
		case <-time.After(driver.settings.PollingInterval):
		}

		status, queryError = driver.dependencies.StatusChecker.CheckStatus(executionContext, jobID)
		if queryError != nil {
			return "", StatusQueryError{JobID: jobID, Cause: queryError}
		}
	}
	return status, nil
}

func (driver *Driver) finishOutcome(outcome Outcome, status RunStatus) Outcome {
	outcome.Status = status
	outcome.EndTime = time.Now()
	outcome.Duration = outcome.EndTime.Sub(outcome.StartTime)
	return outcome
}

func validateWorkflow(workflow Workflow) error {
	if len(strings.TrimSpace(workflow.Workspace)) == 0 {
		return ErrWorkspaceMissing
	}
	if _, parseError := uuid.Parse(workflow.UUID); parseError != nil {
		return WorkflowIdentifierError{Identifier: workflow.UUID, Cause: parseError}
	}
	return nil
}

func failedJobIdentifier(commandError error) string {
	switch typedError := commandError.(type) {
	case JobTerminalFailureError:
		return typedError.JobID
	case StatusQueryError:
		return typedError.JobID
	case RestoreFailureError:
		return typedError.JobID
	default:
		return ""
	}
}
