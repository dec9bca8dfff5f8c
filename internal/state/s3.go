package state

import (
	"context"
	"errors"

	"github.com/imamik/deployfleet/internal/platform/s3"
)

// objectStore is the subset of the S3 client used by S3Backend.
type objectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// S3Backend stores the document as a single object in an S3-compatible
// bucket.
type S3Backend struct {
	client objectStore
	bucket string
	key    string
}

// NewS3Backend returns a backend for bucket/key using client.
func NewS3Backend(client *s3.Client, bucket, key string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, key: key}
}

// Read implements Backend.
func (b *S3Backend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.GetObject(ctx, b.bucket, b.key)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

// Write implements Backend.
func (b *S3Backend) Write(ctx context.Context, data []byte) error {
	return b.client.PutObject(ctx, b.bucket, b.key, data)
}
