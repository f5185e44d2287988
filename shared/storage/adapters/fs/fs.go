package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"depfetch/shared/observability"
	"depfetch/shared/storage/types"
)

// Storage implements FileStorage using the local filesystem.
// Keys are paths relative to basePath; absolute keys are used as-is.
// Parent directories are never created.
type Storage struct {
	basePath string
	fileMode os.FileMode
	logger   observability.Logger
	metrics  observability.Metrics
}

// NewStorage creates a new filesystem-based storage rooted at basePath
func NewStorage(basePath string, logger observability.Logger, metrics observability.Metrics) *Storage {
	return &Storage{
		basePath: basePath,
		fileMode: 0o644,
		logger:   logger.WithFields(observability.Fields{"storage": "filesystem"}),
		metrics:  metrics,
	}
}

// Put streams reader into a temp file next to the destination and renames it
// into place once the body is complete and synced. On any failure the temp
// file is removed and the destination keeps its previous content.
func (s *Storage) Put(ctx context.Context, key string, reader io.Reader, metadata types.ObjectMetadata) (int64, error) {
	if key == "" {
		return 0, types.ErrEmptyKey
	}

	startTime := time.Now()
	s.metrics.StartOperation("storage_put")
	defer s.metrics.EndOperation("storage_put")

	destPath := s.Location(key)
	dir := filepath.Dir(destPath)

	s.logger.Debug(ctx, "Storing file", observability.Fields{
		"path":       destPath,
		"source_url": metadata.SourceURL,
	})

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".*.part")
	if err != nil {
		s.metrics.RecordError("storage_put", "create")
		return 0, fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	bytesWritten, err := io.Copy(tmp, reader)
	if err != nil {
		s.metrics.RecordError("storage_put", "write")
		return bytesWritten, fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		s.metrics.RecordError("storage_put", "sync")
		return bytesWritten, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.metrics.RecordError("storage_put", "close")
		return bytesWritten, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, s.fileMode); err != nil {
		s.metrics.RecordError("storage_put", "chmod")
		return bytesWritten, fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		s.metrics.RecordError("storage_put", "rename")
		return bytesWritten, fmt.Errorf("failed to move file into place: %w", err)
	}
	committed = true

	duration := time.Since(startTime)
	s.logger.Debug(ctx, "File stored successfully", observability.Fields{
		"path":        destPath,
		"bytes":       bytesWritten,
		"duration_ms": duration.Milliseconds(),
	})
	s.metrics.RecordSuccess("storage_put")
	s.metrics.RecordDuration("storage_put", duration.Seconds())

	return bytesWritten, nil
}

// Location resolves key against the base path
func (s *Storage) Location(key string) string {
	key = filepath.FromSlash(key)
	if filepath.IsAbs(key) {
		return filepath.Clean(key)
	}
	return filepath.Join(s.basePath, key)
}
