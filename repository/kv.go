package repository

import "context"

// KV is the key-value capability asset records are stored behind. Any
// implementation must make SetNX atomic per key: two concurrent writes for
// the same absent key must not both report success.
type KV interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes the value unconditionally.
	Set(ctx context.Context, key string, value []byte) error
	// SetNX writes only if the key is absent and reports whether it wrote.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists all keys starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
