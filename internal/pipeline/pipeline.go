// Package pipeline wraps the single-task fetch in a chain of middleware.
package pipeline

import (
	"context"

	"depfetch/internal/domain"
)

// TaskFunc executes one download task
type TaskFunc func(ctx context.Context, task domain.DownloadTask) (*domain.TaskResult, error)

// Middleware wraps task functions
type Middleware func(next TaskFunc) TaskFunc

// Chain applies middlewares so that the first one listed is the outermost
func Chain(fn TaskFunc, middlewares ...Middleware) TaskFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	return fn
}
