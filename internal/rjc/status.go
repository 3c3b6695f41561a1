// Package rjc provides the driver-side client of the remote job execution
// service: job submission, single status queries, and cache checks. The
// service itself, its retry policies, and per-job timeouts live on the remote
// side; this client never retries.
package rjc

import (
	"context"

	"github.com/tyemirov/serialflow/internal/jobspec"
)

// Status identifies the lifecycle state reported for a remote job.
type Status string

// Lifecycle states reported by the remote job execution service.
const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
	StatusStopped  Status = "stopped"
)

// Terminal reports whether no further transition can occur for the status.
func (status Status) Terminal() bool {
	switch status {
	case StatusFinished, StatusFailed, StatusStopped:
		return true
	default:
		return false
	}
}

// JobSubmitter hands fully resolved job specifications to the remote
// execution service and returns the opaque job identifier.
type JobSubmitter interface {
	Submit(executionContext context.Context, specification jobspec.Specification) (string, error)
}

// StatusChecker answers single status queries for submitted jobs. Pacing and
// terminal-state detection belong to the caller.
type StatusChecker interface {
	CheckStatus(executionContext context.Context, jobID string) (Status, error)
}

// CacheChecker asks the remote service whether a prior identical job's result
// is reusable without re-execution.
type CacheChecker interface {
	CheckCache(executionContext context.Context, specification jobspec.Specification, stepName string, workspace string) (CacheCheckResult, error)
}

// CacheCheckResult mirrors the remote cache check response. A response
// without a truthy cached field decodes to the zero value, which is a miss,
// never an error.
type CacheCheckResult struct {
	Cached     bool   `mapstructure:"cached"`
	ResultPath string `mapstructure:"result_path"`
	JobID      string `mapstructure:"job_id"`
}
