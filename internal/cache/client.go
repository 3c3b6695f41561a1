// Package cache decides cache hits for job specifications and moves workspace
// trees in and out of the archive. Lookup outcomes are tagged values so the
// degrade-to-miss policy on service errors stays visible to operators; the
// cache store's entry lifecycle (expiry, deletion) is owned elsewhere.
package cache

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tyemirov/serialflow/internal/jobspec"
	"github.com/tyemirov/serialflow/internal/rjc"
)

const (
	archiveDirectoryNameConstant = "archive"

	lookupDegradedMessageConstant      = "cache lookup degraded to miss after service error"
	hitResultUnusableMessageConstant   = "cache hit discarded, result path missing or empty"
	persistStartingMessageConstant     = "caching workspace result to archive"
	stepFieldNameConstant              = "step"
	jobIdentifierFieldNameConstant     = "job_id"
	resultPathFieldNameConstant        = "result_path"
	archivePathFieldNameConstant       = "archive_path"
	workflowWorkspaceFieldNameConstant = "workflow_workspace"
)

// LookupOutcome tags how a cache lookup resolved.
type LookupOutcome int

// Lookup outcomes. OutcomeUnavailable marks a lookup that degraded to a miss
// because the cache service could not answer; callers continue executing but
// the branch is logged rather than silently folded into OutcomeMiss.
const (
	OutcomeMiss LookupOutcome = iota
	OutcomeHit
	OutcomeUnavailable
)

// LookupResult carries the tagged outcome and, on a hit, the archived result
// location and the identifier of the job that produced it.
type LookupResult struct {
	Outcome    LookupOutcome
	ResultPath string
	JobID      string
}

// Client coordinates cache lookups against the remote service and archive
// copies on the shared filesystem.
type Client struct {
	checker rjc.CacheChecker
	logger  *zap.Logger
}

// NewClient constructs a cache client from its collaborators.
func NewClient(checker rjc.CacheChecker, logger *zap.Logger) (*Client, error) {
	if checker == nil {
		return nil, ErrCheckerNotConfigured
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &Client{checker: checker, logger: logger}, nil
}

// Lookup queries the remote cache for a result matching the specification. A
// hit additionally requires the advertised result path to exist and be
// non-empty; anything else is a miss. Service errors degrade to
// OutcomeUnavailable.
func (client *Client) Lookup(executionContext context.Context, specification jobspec.Specification, stepName string, workspace string) LookupResult {
	checkResult, checkError := client.checker.CheckCache(executionContext, specification.ForCacheLookup(), stepName, workspace)
	if checkError != nil {
		client.logger.Warn(
			lookupDegradedMessageConstant,
			zap.String(stepFieldNameConstant, stepName),
			zap.Error(checkError),
		)
		return LookupResult{Outcome: OutcomeUnavailable}
	}

	if !checkResult.Cached || len(checkResult.ResultPath) == 0 {
		return LookupResult{Outcome: OutcomeMiss}
	}

	if !directoryHasEntries(checkResult.ResultPath) {
		client.logger.Warn(
			hitResultUnusableMessageConstant,
			zap.String(stepFieldNameConstant, stepName),
			zap.String(resultPathFieldNameConstant, checkResult.ResultPath),
		)
		return LookupResult{Outcome: OutcomeMiss}
	}

	return LookupResult{Outcome: OutcomeHit, ResultPath: checkResult.ResultPath, JobID: checkResult.JobID}
}

// Restore recursively copies the cached result tree's contents into the
// workspace, overwriting existing files. The copy is not atomic.
func (client *Client) Restore(resultPath string, workspace string) error {
	if copyError := copyTree(resultPath, workspace); copyError != nil {
		return RestoreError{ResultPath: resultPath, Cause: copyError}
	}
	return nil
}

// Persist deep-copies the workspace into a fresh archive directory named by
// the job identifier, sibling to the workspace, and returns the archive path.
// A pre-existing archive directory is an error: entries are never mutated.
func (client *Client) Persist(jobID string, workspace string) (string, error) {
	archivePath, pathError := filepath.Abs(filepath.Join(workspace, "..", archiveDirectoryNameConstant, jobID))
	if pathError != nil {
		return "", WriteError{ArchivePath: archivePath, Cause: pathError}
	}

	client.logger.Info(
		persistStartingMessageConstant,
		zap.String(jobIdentifierFieldNameConstant, jobID),
		zap.String(workflowWorkspaceFieldNameConstant, workspace),
		zap.String(archivePathFieldNameConstant, archivePath),
	)

	if mkdirError := os.MkdirAll(filepath.Dir(archivePath), 0o755); mkdirError != nil {
		return "", WriteError{ArchivePath: archivePath, Cause: mkdirError}
	}
	if createError := os.Mkdir(archivePath, 0o755); createError != nil {
		return "", WriteError{ArchivePath: archivePath, Cause: createError}
	}

	if copyError := copyTree(workspace, archivePath); copyError != nil {
		return "", WriteError{ArchivePath: archivePath, Cause: copyError}
	}
	return archivePath, nil
}

func directoryHasEntries(directoryPath string) bool {
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return false
	}
	return len(entries) > 0
}
