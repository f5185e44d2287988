package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	URL     string
	Path    string
	Err     error
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.URL != "" || e.Path != "" {
		msg = fmt.Sprintf("%s (url=%s path=%s)", msg, e.URL, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s - %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code, so errors.Is(err, ErrNetwork) works
// on wrapped instances.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error bound to a task
func NewDomainError(code, message string, task DownloadTask, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		URL:     task.SourceURL,
		Path:    task.DestinationPath,
		Err:     err,
	}
}

// Common domain errors
var (
	ErrInvalidTask = &DomainError{
		Code:    "INVALID_TASK",
		Message: "The download task is invalid",
	}

	ErrNetwork = &DomainError{
		Code:    "NETWORK_ERROR",
		Message: "Failed to fetch source",
	}

	ErrFileSystem = &DomainError{
		Code:    "FILESYSTEM_ERROR",
		Message: "Failed to write destination",
	}

	ErrInternal = &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "An internal error occurred",
	}
)

// ErrorCode returns the DomainError code carried by err, or "" if none
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
