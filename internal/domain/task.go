package domain

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// DownloadTask is a single (source URL, destination path) pair to fetch and save.
type DownloadTask struct {
	SourceURL       string
	DestinationPath string
}

// Validate rejects tasks that cannot be executed before any I/O happens
func (t DownloadTask) Validate() error {
	if t.SourceURL == "" {
		return NewDomainError(ErrInvalidTask.Code, "source URL is empty", t, nil)
	}

	u, err := url.Parse(t.SourceURL)
	if err != nil {
		return NewDomainError(ErrInvalidTask.Code, "failed to parse source URL", t, err)
	}

	// Only allow HTTP and HTTPS
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewDomainError(ErrInvalidTask.Code, "only HTTP and HTTPS URLs are supported", t, nil)
	}
	if u.Host == "" {
		return NewDomainError(ErrInvalidTask.Code, "source URL has no host", t, nil)
	}

	if strings.TrimSpace(t.DestinationPath) == "" {
		return NewDomainError(ErrInvalidTask.Code, "destination path is empty", t, nil)
	}

	return nil
}

// String returns "url -> path" for log and error messages
func (t DownloadTask) String() string {
	return t.SourceURL + " -> " + t.DestinationPath
}

// TaskResult describes a completed task. SHA256 is informational only.
type TaskResult struct {
	Task        DownloadTask
	Size        int64
	SHA256      string
	ContentType string
	Duration    time.Duration
}

// Report is the outcome of a FetchAll run
type Report struct {
	Results []TaskResult
	Failed  []error
	Skipped int
}

// OK reports whether every attempted task succeeded
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// FileType is the lower-case destination extension without the dot, used as a
// metrics label ("cab", "pem"); "unknown" when there is none.
func (t DownloadTask) FileType() string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(t.DestinationPath, "\\", "/")))
	if len(ext) <= 1 {
		return "unknown"
	}
	return ext[1:]
}
