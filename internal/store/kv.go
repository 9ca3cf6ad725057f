package store

import "context"

// KV is the persistence port: a key-value store holding the serialized
// transaction blob under a single fixed key.
type KV interface {
	// Get returns the stored value. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put overwrites the value for key.
	Put(ctx context.Context, key string, value []byte) error

	Close() error
}
