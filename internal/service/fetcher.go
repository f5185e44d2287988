package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"time"

	"depfetch/internal/domain"
	"depfetch/internal/pipeline"
	"depfetch/shared/observability"
	"depfetch/shared/storage/types"
)

// Fetcher downloads each task's source and stores it at the task's destination.
// Tasks run one at a time, in order.
type Fetcher struct {
	httpClient      domain.HTTPClient
	storage         types.FileStorage
	logger          observability.Logger
	metrics         observability.Metrics
	continueOnError bool
	taskTimeout     time.Duration
	run             pipeline.TaskFunc
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithContinueOnError keeps going after a failed task instead of stopping
func WithContinueOnError(enabled bool) Option {
	return func(f *Fetcher) {
		f.continueOnError = enabled
	}
}

// WithTaskTimeout bounds every task. Zero means no per-task deadline.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.taskTimeout = timeout
	}
}

// NewFetcher creates a new fetcher
func NewFetcher(
	httpClient domain.HTTPClient,
	storage types.FileStorage,
	logger observability.Logger,
	metrics observability.Metrics,
	opts ...Option,
) *Fetcher {
	f := &Fetcher{
		httpClient: httpClient,
		storage:    storage,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.run = pipeline.Chain(f.fetchOne,
		pipeline.Recovery(logger),
		pipeline.Logging(logger),
		pipeline.Metrics(metrics),
		pipeline.Timeout(f.taskTimeout),
	)

	return f
}

// FetchAll runs tasks sequentially. By default it stops at the first failure
// and returns that task's error; tasks already completed keep their files.
// With continue-on-error every task is attempted and the failures are joined.
func (f *Fetcher) FetchAll(ctx context.Context, tasks []domain.DownloadTask) (*domain.Report, error) {
	report := &domain.Report{}

	if len(tasks) == 0 {
		f.logger.Debug(ctx, "No tasks to fetch", nil)
		return report, nil
	}

	f.logger.Info(ctx, "Starting fetch run", observability.Fields{
		"tasks":             len(tasks),
		"continue_on_error": f.continueOnError,
	})

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, fmt.Errorf("fetch run cancelled: %w", err))
			report.Skipped = len(tasks) - i
			break
		}

		result, err := f.run(ctx, task)
		if err != nil {
			report.Failed = append(report.Failed, err)
			if !f.continueOnError {
				report.Skipped = len(tasks) - i - 1
				break
			}
			continue
		}

		report.Results = append(report.Results, *result)
	}

	f.logger.Info(ctx, "Fetch run finished", observability.Fields{
		"succeeded": len(report.Results),
		"failed":    len(report.Failed),
		"skipped":   report.Skipped,
	})

	return report, errors.Join(report.Failed...)
}

// fetchOne downloads one task and hands the body to storage.
// Failures before or while reading the body are network errors; the rest are
// filesystem errors. Either way the destination is left as it was.
func (f *Fetcher) fetchOne(ctx context.Context, task domain.DownloadTask) (*domain.TaskResult, error) {
	start := time.Now()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	body, headers, err := f.httpClient.Download(ctx, task.SourceURL, nil)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrNetwork.Code, "failed to fetch source", task, err)
	}
	defer body.Close()

	source := &sourceReader{reader: body}
	hasher := sha256.New()

	contentType := headers["Content-Type"]
	written, err := f.storage.Put(ctx, task.DestinationPath, io.TeeReader(source, hasher), types.ObjectMetadata{
		ContentType: contentType,
		SourceURL:   task.SourceURL,
	})
	if err != nil {
		if source.err != nil {
			return nil, domain.NewDomainError(domain.ErrNetwork.Code, "failed to read source body", task, err)
		}
		return nil, domain.NewDomainError(domain.ErrFileSystem.Code,
			fmt.Sprintf("failed to write %s", f.storage.Location(task.DestinationPath)), task, err)
	}

	return &domain.TaskResult{
		Task:        task,
		Size:        written,
		SHA256:      checksum(hasher),
		ContentType: contentType,
		Duration:    time.Since(start),
	}, nil
}

// sourceReader remembers the first non-EOF read error so a failed Put can be
// attributed to the source rather than the sink.
type sourceReader struct {
	reader io.Reader
	err    error
}

// Read implements io.Reader
func (r *sourceReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}

func checksum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
