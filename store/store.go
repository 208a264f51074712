package store

import "context"

// Store defines the interface for persisted stage state.
type Store interface {
	// Save writes data under the given key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load returns the data stored under the given key. If the key does not
	// exist it returns an error with code STATE_MISSING.
	Load(ctx context.Context, key string) ([]byte, error)

	// Exists checks whether data is stored under the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the data stored under the given key.
	// Returns nil if the key does not exist.
	Delete(ctx context.Context, key string) error
}
