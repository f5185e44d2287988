// Package types defines the sink contract that fetched bundles are written to.
package types

import (
	"context"
	"errors"
	"io"
)

// ObjectMetadata describes a stored object
type ObjectMetadata struct {
	ContentType  string
	SourceURL    string
	UserMetadata map[string]string
}

// FileStorage stores a fetched body under a destination key.
//
// Put must either leave the complete body at key or leave key untouched;
// partial content is never visible. Errors returned by reader are passed
// through wrapped so callers can tell source failures from sink failures.
type FileStorage interface {
	// Put consumes reader fully and stores it under key, returning the bytes written
	Put(ctx context.Context, key string, reader io.Reader, metadata ObjectMetadata) (int64, error)

	// Location returns a human-readable address for key, e.g. a file path or s3:// URI
	Location(key string) string
}

// Common storage errors
var (
	// ErrEmptyKey is returned when Put is called without a destination
	ErrEmptyKey = errors.New("empty destination key")
)
