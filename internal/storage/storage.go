package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Medium.Get when no record is stored under the key.
var ErrNotFound = errors.New("record not found")

// Medium is a durable key-value store addressed by string keys. Values are
// replaced whole; there is no partial update at this boundary.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the record. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
