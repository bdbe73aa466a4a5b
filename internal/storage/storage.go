// Package storage provides the key-value persistence layer that ledger
// state is written through. Backends share a single Store interface so
// the rest of the application never knows whether it is talking to
// process memory, Redis, SQLite or Postgres.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists for the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a minimal key-value store. Values are opaque byte slices;
// callers own serialization.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
