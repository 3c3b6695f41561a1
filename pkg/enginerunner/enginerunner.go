package enginerunner

import (
	"context"

	"go.uber.org/zap"

	"github.com/tyemirov/serialflow/internal/config"
	"github.com/tyemirov/serialflow/internal/engine"
)

const (
	runOutcomeMessageConstant          = "workflow run finished"
	workflowFieldNameConstant          = "workflow_uuid"
	runStatusFieldNameConstant         = "run_status"
	durationFieldNameConstant          = "duration"
	attemptedCommandsFieldNameConstant = "attempted_commands"
	cachedCommandsFieldNameConstant    = "cached_commands"
)

// Runner executes a serial workflow to a terminal state.
type Runner interface {
	Run(executionContext context.Context, workflow engine.Workflow, options engine.RuntimeOptions) (engine.Outcome, error)
}

// Factory constructs a Runner from engine dependencies and settings.
type Factory func(engine.Dependencies, config.Settings) Runner

// Resolve returns either the provided factory's runner or a default
// driver-backed runner, decorated with outcome logging.
func Resolve(factory Factory, dependencies engine.Dependencies, settings config.Settings) (Runner, error) {
	var base Runner
	if factory != nil {
		base = factory(dependencies, settings)
	}
	if base == nil {
		driver, driverError := engine.NewDriver(dependencies, settings)
		if driverError != nil {
			return nil, driverError
		}
		base = driver
	}
	return outcomeLoggingRunner{delegate: base, logger: dependencies.Logger}, nil
}

type outcomeLoggingRunner struct {
	delegate Runner
	logger   *zap.Logger
}

func (runner outcomeLoggingRunner) Run(executionContext context.Context, workflow engine.Workflow, options engine.RuntimeOptions) (engine.Outcome, error) {
	outcome, runError := runner.delegate.Run(executionContext, workflow, options)
	if runner.logger != nil {
		runner.logger.Info(
			runOutcomeMessageConstant,
			zap.String(workflowFieldNameConstant, workflow.UUID),
			zap.Int(runStatusFieldNameConstant, int(outcome.Status)),
			zap.Duration(durationFieldNameConstant, outcome.Duration),
			zap.Int(attemptedCommandsFieldNameConstant, outcome.AttemptedCommands),
			zap.Int(cachedCommandsFieldNameConstant, outcome.CachedCommands),
		)
	}
	return outcome, runError
}
