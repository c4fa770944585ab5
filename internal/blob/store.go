// Package blob provides a uniform put/get/delete blob interface over
// either a local filesystem directory or S3.
package blob

import "context"

// Store is the uniform blob interface every stage handler and the
// executor's document download path use.
type Store interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}
