package storage

import (
	"context"
	"io"
)

// BlobStore persists uploaded binary assets under opaque keys.
//
// Put returns a fetchable URL for the stored object. Delete reports false
// (and no error) when the key does not exist, so repeated deletes stay
// idempotent.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) (bool, error)
}
