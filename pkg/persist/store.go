// Package persist serializes the graph and lexical index to a durable
// key/value store and restores them at startup.
package persist

import (
	"context"
	"errors"
)

// ErrNotFound indicates a Get for a key that has never been written.
var ErrNotFound = errors.New("key not found")

// BlobStore is opaque blob storage keyed by string.
type BlobStore interface {
	// Put stores the blob under key, overwriting any previous value.
	Put(ctx context.Context, key string, blob []byte) error

	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}
