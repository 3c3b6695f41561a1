package cache

import (
	"errors"
	"fmt"
)

const (
	checkerNotConfiguredMessageConstant = "cache client remote checker not configured"
	loggerNotConfiguredMessageConstant  = "cache client logger not configured"
	restoreErrorMessageTemplateConstant = "restoring workspace from cached result %s failed"
	writeErrorMessageTemplateConstant   = "persisting workspace to cache archive %s failed"
)

var (
	// ErrCheckerNotConfigured indicates the remote cache checker dependency was missing.
	ErrCheckerNotConfigured = errors.New(checkerNotConfiguredMessageConstant)
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
)

// RestoreError reports a failed workspace restore from a cached result. The
// copy is not atomic: the workspace may be left in a mixed state, so callers
// must treat the current job as failed rather than retry silently.
type RestoreError struct {
	ResultPath string
	Cause      error
}

// Error describes the failed restore.
func (restoreError RestoreError) Error() string {
	return fmt.Sprintf(restoreErrorMessageTemplateConstant, restoreError.ResultPath)
}

// Unwrap exposes the underlying copy error.
func (restoreError RestoreError) Unwrap() error {
	return restoreError.Cause
}

// WriteError reports a failed workspace archive. Partial archives are not
// usable; the archive directory must not pre-exist.
type WriteError struct {
	ArchivePath string
	Cause       error
}

// Error describes the failed archive write.
func (writeError WriteError) Error() string {
	return fmt.Sprintf(writeErrorMessageTemplateConstant, writeError.ArchivePath)
}

// Unwrap exposes the underlying filesystem error.
func (writeError WriteError) Unwrap() error {
	return writeError.Cause
}
