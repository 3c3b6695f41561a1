// Package progress builds and publishes the workflow status events consumed
// by the external message bus. Delivery guarantees belong to the bus; this
// package only guarantees one publish call per lifecycle transition, in the
// order transitions occur within the process.
package progress

import "github.com/tyemirov/serialflow/internal/jobspec"

// WorkflowStatus encodes workflow-level state for bus consumers.
type WorkflowStatus int

// Workflow status codes, by bus convention.
const (
	WorkflowStatusRunning  WorkflowStatus = 1
	WorkflowStatusFinished WorkflowStatus = 2
	WorkflowStatusFailed   WorkflowStatus = 3
)

// JobBucket counts the job identifiers contributing to one progress bucket.
type JobBucket struct {
	Total  int      `json:"total" yaml:"total"`
	JobIDs []string `json:"job_ids" yaml:"job_ids"`
}

// Counters carries the per-workflow running totals. Buckets absent from a
// transition are omitted from the payload entirely rather than sent as zero.
type Counters struct {
	Total    *JobBucket `json:"total,omitempty" yaml:"total,omitempty"`
	Running  *JobBucket `json:"running,omitempty" yaml:"running,omitempty"`
	Finished *JobBucket `json:"finished,omitempty" yaml:"finished,omitempty"`
	Failed   *JobBucket `json:"failed,omitempty" yaml:"failed,omitempty"`
	Cached   *JobBucket `json:"cached,omitempty" yaml:"cached,omitempty"`
}

// CachingInfo describes a freshly persisted cache entry so downstream
// consumers can index it.
type CachingInfo struct {
	JobSpec     jobspec.Specification `json:"job_spec" yaml:"job_spec"`
	JobID       string                `json:"job_id" yaml:"job_id"`
	Workspace   string                `json:"workflow_workspace" yaml:"workflow_workspace"`
	StepName    string                `json:"step" yaml:"step"`
	ArchivePath string                `json:"cache_dir_path" yaml:"cache_dir_path"`
}

// Message is the structured payload published with each workflow status.
type Message struct {
	Progress    *Counters    `json:"progress,omitempty" yaml:"progress,omitempty"`
	CachingInfo *CachingInfo `json:"caching_info,omitempty" yaml:"caching_info,omitempty"`
	PodName     string       `json:"pod_name,omitempty" yaml:"pod_name,omitempty"`
}

// StatusPublisher delivers workflow status messages to the external bus.
type StatusPublisher interface {
	PublishWorkflowStatus(workflowID string, status WorkflowStatus, message Message) error
}

// SingleJobBucket returns a bucket holding exactly one job identifier.
func SingleJobBucket(jobID string) *JobBucket {
	return &JobBucket{Total: 1, JobIDs: []string{jobID}}
}

// EmptyBucketWithTotal returns a bucket announcing a total before any job ran.
func EmptyBucketWithTotal(total int) *JobBucket {
	return &JobBucket{Total: total, JobIDs: []string{}}
}
