package store

import (
	"context"
	"errors"
)

// KeyValueStore maps string keys to opaque values. Implementations must be
// safe for concurrent use; each call is atomic for its key only.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrItemNotFound = errors.New("item does not exist")
