package progress

import (
	"errors"

	"go.uber.org/zap"
)

const (
	publisherNotConfiguredMessageConstant = "progress reporter publisher not configured"
	reporterLoggerMissingMessageConstant  = "progress reporter logger not configured"
	workflowIdentifierMissingMessage      = "progress reporter workflow identifier not provided"

	publishFailedMessageConstant      = "workflow status publish failed"
	startPublishingMessageConstant    = "publishing workflow start"
	workflowFieldNameConstant         = "workflow_uuid"
	statusFieldNameConstant           = "status"
	totalCommandCountFieldNameMessage = "total_commands"
)

var (
	// ErrPublisherNotConfigured indicates the bus publisher dependency was missing.
	ErrPublisherNotConfigured = errors.New(publisherNotConfiguredMessageConstant)
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(reporterLoggerMissingMessageConstant)
	// ErrWorkflowIdentifierMissing indicates the reporter was built without a workflow identifier.
	ErrWorkflowIdentifierMissing = errors.New(workflowIdentifierMissingMessage)
)

// Reporter emits one bus event per workflow lifecycle transition. Publishing
// is fire-and-forget: failures are logged, never propagated, so a flaky bus
// cannot fail a run that the jobs themselves completed.
type Reporter struct {
	publisher  StatusPublisher
	logger     *zap.Logger
	workflowID string
	podName    string
}

// NewReporter constructs a Reporter bound to one workflow.
func NewReporter(publisher StatusPublisher, logger *zap.Logger, workflowID string, podName string) (*Reporter, error) {
	if publisher == nil {
		return nil, ErrPublisherNotConfigured
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if len(workflowID) == 0 {
		return nil, ErrWorkflowIdentifierMissing
	}
	return &Reporter{publisher: publisher, logger: logger, workflowID: workflowID, podName: podName}, nil
}

// WorkflowStarted announces the run before any submission. The total always
// counts commands across the full, unfiltered step list so consumers can
// relate later finished totals to one stable denominator.
func (reporter *Reporter) WorkflowStarted(totalCommandCount int) {
	reporter.logger.Info(
		startPublishingMessageConstant,
		zap.String(workflowFieldNameConstant, reporter.workflowID),
		zap.Int(totalCommandCountFieldNameMessage, totalCommandCount),
	)
	reporter.publish(WorkflowStatusRunning, Message{
		Progress: &Counters{Total: EmptyBucketWithTotal(totalCommandCount)},
		PodName:  reporter.podName,
	})
}

// JobSubmitted records a job entering the running bucket.
func (reporter *Reporter) JobSubmitted(jobID string) {
	reporter.publish(WorkflowStatusRunning, Message{
		Progress: &Counters{Running: SingleJobBucket(jobID)},
	})
}

// JobSucceeded records a finished job. The workflow status is finished only
// for the last command of the last selected step; cachingInfo is attached
// when the result was persisted to the archive.
func (reporter *Reporter) JobSucceeded(jobID string, workflowStatus WorkflowStatus, cachingInfo *CachingInfo) {
	reporter.publish(workflowStatus, Message{
		Progress:    &Counters{Finished: SingleJobBucket(jobID)},
		CachingInfo: cachingInfo,
		PodName:     reporter.podName,
	})
}

// CacheHit records a command satisfied from the cache. The job counts as
// completed work, so its identifier lands in both the finished and cached
// buckets.
func (reporter *Reporter) CacheHit(jobID string, workflowStatus WorkflowStatus) {
	completedJobs := SingleJobBucket(jobID)
	reporter.publish(workflowStatus, Message{
		Progress: &Counters{Finished: completedJobs, Cached: completedJobs},
	})
}

// WorkflowFailed records the terminal failure. An empty job identifier (a
// failure before any submission) omits the failed bucket rather than
// recording a blank identifier.
func (reporter *Reporter) WorkflowFailed(jobID string) {
	counters := &Counters{}
	if len(jobID) > 0 {
		counters.Failed = SingleJobBucket(jobID)
	}
	reporter.publish(WorkflowStatusFailed, Message{Progress: counters})
}

func (reporter *Reporter) publish(status WorkflowStatus, message Message) {
	publishError := reporter.publisher.PublishWorkflowStatus(reporter.workflowID, status, message)
	if publishError != nil {
		reporter.logger.Error(
			publishFailedMessageConstant,
			zap.String(workflowFieldNameConstant, reporter.workflowID),
			zap.Int(statusFieldNameConstant, int(status)),
			zap.Error(publishError),
		)
	}
}
