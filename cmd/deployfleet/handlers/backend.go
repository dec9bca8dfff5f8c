package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/state"
)

// openBackend returns where the generated fields live: the local file,
// mirrored to a bucket when configured. Dry runs read the same source into
// memory and never write back.
func openBackend(ctx context.Context, opts *config.Options, logger logr.Logger) (state.Backend, error) {
	var backend state.Backend = state.NewFileBackend(opts.GeneratedFieldsPath)

	if opts.Mirror.Enabled() {
		m := opts.Mirror
		client, err := newS3Client(m.Endpoint, m.Region, m.AccessKey, m.SecretKey, m.PathStyle)
		if err != nil {
			return nil, fmt.Errorf("failed to create state mirror client: %w", err)
		}
		exists, err := client.BucketExists(ctx, m.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check state bucket %s: %w", m.Bucket, err)
		}
		if !exists {
			return nil, fmt.Errorf("state bucket %s does not exist", m.Bucket)
		}
		logger.V(1).Info("mirroring generated fields", "bucket", m.Bucket, "key", m.Key)
		backend = &state.MirrorBackend{
			Primary: backend,
			Replica: state.NewS3Backend(client, m.Bucket, m.Key),
		}
	}

	if !opts.DryRun {
		return backend, nil
	}

	seed, err := backend.Read(ctx)
	if err != nil && !errors.Is(err, state.ErrNotExist) {
		return nil, err
	}
	logger.Info("dry run: generated fields are kept in memory")
	return state.NewMemoryBackend(seed), nil
}
