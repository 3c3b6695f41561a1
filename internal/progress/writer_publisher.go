package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	writerPublisherHeaderTemplateConstant = "-- workflow %s status %d --\n"
	writerPublisherEncodeErrorTemplate    = "encoding workflow status payload failed: %w"
)

// WriterPublisher renders workflow status messages as YAML to a writer. It is
// the human-readable sink used by local runs and tests standing in for the
// external bus.
type WriterPublisher struct {
	mutex  sync.Mutex
	writer io.Writer
}

// NewWriterPublisher constructs a WriterPublisher over the provided writer.
func NewWriterPublisher(writer io.Writer) *WriterPublisher {
	return &WriterPublisher{writer: writer}
}

// PublishWorkflowStatus renders one status message. Implements StatusPublisher.
func (publisher *WriterPublisher) PublishWorkflowStatus(workflowID string, status WorkflowStatus, message Message) error {
	encodedMessage, encodeError := yaml.Marshal(message)
	if encodeError != nil {
		return fmt.Errorf(writerPublisherEncodeErrorTemplate, encodeError)
	}

	publisher.mutex.Lock()
	defer publisher.mutex.Unlock()

	if _, writeError := fmt.Fprintf(publisher.writer, writerPublisherHeaderTemplateConstant, workflowID, status); writeError != nil {
		return writeError
	}
	if _, writeError := io.WriteString(publisher.writer, strings.TrimRight(string(encodedMessage), "\n")+"\n"); writeError != nil {
		return writeError
	}
	return nil
}
