package enginerunner_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/serialflow/internal/cache"
	"github.com/tyemirov/serialflow/internal/config"
	"github.com/tyemirov/serialflow/internal/engine"
	"github.com/tyemirov/serialflow/internal/jobspec"
	"github.com/tyemirov/serialflow/internal/progress"
	"github.com/tyemirov/serialflow/internal/rjc"
	"github.com/tyemirov/serialflow/pkg/enginerunner"
)

type stubSubmitter struct{}

func (stubSubmitter) Submit(_ context.Context, _ jobspec.Specification) (string, error) {
	return "job-1", nil
}

type stubStatusChecker struct{}

func (stubStatusChecker) CheckStatus(_ context.Context, _ string) (rjc.Status, error) {
	return rjc.StatusFinished, nil
}

type stubCacheStore struct{}

func (stubCacheStore) Lookup(_ context.Context, _ jobspec.Specification, _ string, _ string) cache.LookupResult {
	return cache.LookupResult{Outcome: cache.OutcomeMiss}
}

func (stubCacheStore) Restore(_ string, _ string) error { return nil }

func (stubCacheStore) Persist(_ string, _ string) (string, error) { return "", nil }

type stubRunner struct {
	runInvocationCount int
}

func (runner *stubRunner) Run(_ context.Context, _ engine.Workflow, _ engine.RuntimeOptions) (engine.Outcome, error) {
	runner.runInvocationCount++
	return engine.Outcome{Status: engine.RunStatusCompleted}, nil
}

func testDependencies() engine.Dependencies {
	return engine.Dependencies{
		Logger:        zap.NewNop(),
		Submitter:     stubSubmitter{},
		StatusChecker: stubStatusChecker{},
		Cache:         stubCacheStore{},
		Publisher:     progress.NewWriterPublisher(io.Discard),
	}
}

func testSettings() config.Settings {
	return config.Settings{PollingInterval: time.Millisecond}
}

func TestResolveUsesFactoryRunner(testInstance *testing.T) {
	injectedRunner := &stubRunner{}
	factory := func(_ engine.Dependencies, _ config.Settings) enginerunner.Runner {
		return injectedRunner
	}

	runner, resolveError := enginerunner.Resolve(factory, testDependencies(), testSettings())
	require.NoError(testInstance, resolveError)

	_, runError := runner.Run(context.Background(), engine.Workflow{}, engine.RuntimeOptions{})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 1, injectedRunner.runInvocationCount)
}

func TestResolveDefaultsToDriver(testInstance *testing.T) {
	runner, resolveError := enginerunner.Resolve(nil, testDependencies(), testSettings())
	require.NoError(testInstance, resolveError)

	workflow := engine.Workflow{
		UUID:      "88f3f70a-9c34-44fa-a1a8-9c0a5a7d27e4",
		Workspace: "/workspace",
		Steps:     []engine.Step{{Name: "fit", Commands: []string{"echo a"}}},
	}
	outcome, runError := runner.Run(context.Background(), workflow, engine.RuntimeOptions{})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, engine.RunStatusCompleted, outcome.Status)
	require.Equal(testInstance, 1, outcome.AttemptedCommands)
}

func TestResolveSurfacesDriverConstructionErrors(testInstance *testing.T) {
	_, resolveError := enginerunner.Resolve(nil, engine.Dependencies{}, testSettings())
	require.ErrorIs(testInstance, resolveError, engine.ErrDependenciesIncomplete)
}
