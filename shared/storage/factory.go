// Package storage selects the sink that fetched bundles are written to.
package storage

import (
	"context"
	"fmt"

	"depfetch/shared/config"
	"depfetch/shared/observability"
	"depfetch/shared/storage/adapters/fs"
	"depfetch/shared/storage/adapters/s3"
	"depfetch/shared/storage/types"
)

// New creates the storage implementation named by cfg.Storage.Provider.
// This is the only place that knows about concrete implementations.
func New(ctx context.Context, cfg *config.Config, logger observability.Logger, metrics observability.Metrics) (types.FileStorage, error) {
	switch cfg.Storage.Provider {
	case config.ProviderFS, "":
		return fs.NewStorage(cfg.Fetch.BaseDir, logger, metrics), nil
	case config.ProviderS3:
		client, err := s3.NewClient(ctx, cfg.Storage.S3, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 storage: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}
