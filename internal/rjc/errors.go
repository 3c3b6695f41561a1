package rjc

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant     = "job controller client logger not configured"
	baseAddressMissingMessageConstant      = "job controller base address not provided"
	submissionMissingJobIDMessageConstant  = "job submission response carried no job identifier"
	requestErrorMessageTemplateConstant    = "%s request to job controller failed"
	statusCodeErrorMessageTemplateConstant = "%s request to job controller returned status %d"
)

var (
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrBaseAddressMissing indicates the client was built without a service address.
	ErrBaseAddressMissing = errors.New(baseAddressMissingMessageConstant)
	// ErrSubmissionMissingJobID indicates the service accepted a job without identifying it.
	ErrSubmissionMissingJobID = errors.New(submissionMissingJobIDMessageConstant)
)

// RequestError wraps transport-level failures talking to the job controller.
// It is distinct from a legitimate negative answer such as a cache miss.
type RequestError struct {
	Operation string
	Cause     error
}

// Error describes the failed operation.
func (requestError RequestError) Error() string {
	return fmt.Sprintf(requestErrorMessageTemplateConstant, requestError.Operation)
}

// Unwrap exposes the underlying transport error.
func (requestError RequestError) Unwrap() error {
	return requestError.Cause
}

// ServiceStatusError reports a non-success HTTP status from the job controller.
type ServiceStatusError struct {
	Operation  string
	StatusCode int
}

// Error describes the rejected operation.
func (statusError ServiceStatusError) Error() string {
	return fmt.Sprintf(statusCodeErrorMessageTemplateConstant, statusError.Operation, statusError.StatusCode)
}
