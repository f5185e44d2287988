package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"

	"depfetch/internal/domain"
	"depfetch/shared/observability"
)

// Recovery converts a panic inside the task into an INTERNAL_ERROR
func Recovery(logger observability.Logger) Middleware {
	return func(next TaskFunc) TaskFunc {
		return func(ctx context.Context, task domain.DownloadTask) (result *domain.TaskResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(ctx, "Panic recovered", fmt.Errorf("%v", r), observability.Fields{
						"url":   task.SourceURL,
						"path":  task.DestinationPath,
						"stack": string(debug.Stack()),
					})
					result = nil
					err = domain.NewDomainError(domain.ErrInternal.Code, fmt.Sprintf("panic: %v", r), task, nil)
				}
			}()

			return next(ctx, task)
		}
	}
}

// Timeout bounds each task with its own deadline. A zero duration disables it.
func Timeout(timeout time.Duration) Middleware {
	return func(next TaskFunc) TaskFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, task domain.DownloadTask) (*domain.TaskResult, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, task)
		}
	}
}

// Logging records the start and the outcome of every task
func Logging(logger observability.Logger) Middleware {
	return func(next TaskFunc) TaskFunc {
		return func(ctx context.Context, task domain.DownloadTask) (*domain.TaskResult, error) {
			start := time.Now()

			logger.Info(ctx, "Fetching", observability.Fields{
				"url":  task.SourceURL,
				"path": task.DestinationPath,
			})

			result, err := next(ctx, task)

			fields := observability.Fields{
				"url":         task.SourceURL,
				"path":        task.DestinationPath,
				"duration_ms": time.Since(start).Milliseconds(),
			}

			if err != nil {
				fields["error_code"] = domain.ErrorCode(err)
				logger.Error(ctx, "Fetch failed", err, fields)
				return result, err
			}

			fields["size"] = result.Size
			fields["size_human"] = humanize.Bytes(uint64(result.Size))
			fields["sha256"] = result.SHA256
			fields["content_type"] = result.ContentType
			logger.Info(ctx, "Fetched", fields)

			return result, nil
		}
	}
}

// Metrics tracks in-flight tasks, durations, outcomes and sizes
func Metrics(metrics observability.Metrics) Middleware {
	return func(next TaskFunc) TaskFunc {
		return func(ctx context.Context, task domain.DownloadTask) (*domain.TaskResult, error) {
			metrics.StartOperation("fetch")
			defer metrics.EndOperation("fetch")

			start := time.Now()
			result, err := next(ctx, task)
			metrics.RecordDuration("fetch", time.Since(start).Seconds())

			if err != nil {
				metrics.RecordError("fetch", errorLabel(err))
				return result, err
			}

			metrics.RecordSuccess("fetch")
			metrics.RecordFileSize(task.FileType(), result.Size)
			return result, nil
		}
	}
}

func errorLabel(err error) string {
	switch domain.ErrorCode(err) {
	case domain.ErrNetwork.Code:
		return "network"
	case domain.ErrFileSystem.Code:
		return "filesystem"
	case domain.ErrInvalidTask.Code:
		return "invalid_task"
	case domain.ErrInternal.Code:
		return "internal"
	default:
		return "unknown"
	}
}
