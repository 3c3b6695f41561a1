package rjc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/tyemirov/serialflow/internal/jobspec"
)

const (
	submitOperationNameConstant     = "submit"
	statusOperationNameConstant     = "check_status"
	cacheCheckOperationNameConstant = "check_cache"

	jobsPathConstant          = "/jobs"
	jobStatusPathTemplate     = "/jobs/%s/status"
	cachePathConstant         = "/cache"
	contentTypeHeaderConstant = "Content-Type"
	jsonContentTypeConstant   = "application/json"

	requestStartedMessageConstant = "job controller request starting"
	requestFailedMessageConstant  = "job controller request failed"
	operationFieldNameConstant    = "operation"
)

type submissionResponse struct {
	JobID string `mapstructure:"job_id"`
}

type statusResponse struct {
	Status string `mapstructure:"status"`
}

type cacheCheckRequest struct {
	JobSpec           jobspec.Specification `json:"job_spec"`
	StepName          string                `json:"step_name"`
	WorkflowWorkspace string                `json:"workflow_workspace"`
}

// Client speaks HTTP and JSON to the remote job execution service. It
// implements JobSubmitter, StatusChecker, and CacheChecker.
type Client struct {
	baseAddress string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient constructs a Client for the provided base address. A nil HTTP
// client falls back to http.DefaultClient.
func NewClient(baseAddress string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	trimmedAddress := strings.TrimRight(strings.TrimSpace(baseAddress), "/")
	if len(trimmedAddress) == 0 {
		return nil, ErrBaseAddressMissing
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseAddress: trimmedAddress, httpClient: httpClient, logger: logger}, nil
}

// Submit hands the specification to the service and returns the job identifier.
func (client *Client) Submit(executionContext context.Context, specification jobspec.Specification) (string, error) {
	responsePayload, requestError := client.postJSON(executionContext, submitOperationNameConstant, jobsPathConstant, specification)
	if requestError != nil {
		return "", requestError
	}

	var decoded submissionResponse
	if decodeError := mapstructure.Decode(responsePayload, &decoded); decodeError != nil {
		return "", RequestError{Operation: submitOperationNameConstant, Cause: decodeError}
	}
	jobID := strings.TrimSpace(decoded.JobID)
	if len(jobID) == 0 {
		return "", ErrSubmissionMissingJobID
	}
	return jobID, nil
}

// CheckStatus answers a single status query for the identified job.
func (client *Client) CheckStatus(executionContext context.Context, jobID string) (Status, error) {
	statusPath := fmt.Sprintf(jobStatusPathTemplate, jobID)
	responsePayload, requestError := client.getJSON(executionContext, statusOperationNameConstant, statusPath)
	if requestError != nil {
		return "", requestError
	}

	var decoded statusResponse
	if decodeError := mapstructure.Decode(responsePayload, &decoded); decodeError != nil {
		return "", RequestError{Operation: statusOperationNameConstant, Cause: decodeError}
	}
	return Status(strings.TrimSpace(decoded.Status)), nil
}

// CheckCache asks the service whether an identical specification already has
// a usable result. Responses without a truthy cached field decode to a miss.
func (client *Client) CheckCache(executionContext context.Context, specification jobspec.Specification, stepName string, workspace string) (CacheCheckResult, error) {
	requestBody := cacheCheckRequest{JobSpec: specification, StepName: stepName, WorkflowWorkspace: workspace}
	responsePayload, requestError := client.postJSON(executionContext, cacheCheckOperationNameConstant, cachePathConstant, requestBody)
	if requestError != nil {
		return CacheCheckResult{}, requestError
	}

	var decoded CacheCheckResult
	if decodeError := mapstructure.Decode(responsePayload, &decoded); decodeError != nil {
		return CacheCheckResult{}, RequestError{Operation: cacheCheckOperationNameConstant, Cause: decodeError}
	}
	return decoded, nil
}

func (client *Client) postJSON(executionContext context.Context, operationName string, path string, body any) (map[string]any, error) {
	encodedBody, encodeError := json.Marshal(body)
	if encodeError != nil {
		return nil, RequestError{Operation: operationName, Cause: encodeError}
	}

	request, buildError := http.NewRequestWithContext(executionContext, http.MethodPost, client.baseAddress+path, bytes.NewReader(encodedBody))
	if buildError != nil {
		return nil, RequestError{Operation: operationName, Cause: buildError}
	}
	request.Header.Set(contentTypeHeaderConstant, jsonContentTypeConstant)

	return client.execute(operationName, request)
}

func (client *Client) getJSON(executionContext context.Context, operationName string, path string) (map[string]any, error) {
	request, buildError := http.NewRequestWithContext(executionContext, http.MethodGet, client.baseAddress+path, nil)
	if buildError != nil {
		return nil, RequestError{Operation: operationName, Cause: buildError}
	}

	return client.execute(operationName, request)
}

func (client *Client) execute(operationName string, request *http.Request) (map[string]any, error) {
	client.logger.Debug(requestStartedMessageConstant, zap.String(operationFieldNameConstant, operationName))

	response, transportError := client.httpClient.Do(request)
	if transportError != nil {
		client.logger.Error(requestFailedMessageConstant, zap.String(operationFieldNameConstant, operationName), zap.Error(transportError))
		return nil, RequestError{Operation: operationName, Cause: transportError}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		statusError := ServiceStatusError{Operation: operationName, StatusCode: response.StatusCode}
		client.logger.Error(requestFailedMessageConstant, zap.String(operationFieldNameConstant, operationName), zap.Error(statusError))
		return nil, statusError
	}

	responseBytes, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, RequestError{Operation: operationName, Cause: readError}
	}

	responsePayload := map[string]any{}
	if len(bytes.TrimSpace(responseBytes)) > 0 {
		if decodeError := json.Unmarshal(responseBytes, &responsePayload); decodeError != nil {
			return nil, RequestError{Operation: operationName, Cause: decodeError}
		}
	}
	return responsePayload, nil
}
