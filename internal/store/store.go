package store

import "context"

// UsersKey is the fixed key holding the shared credential map, a JSON
// object of username to password hash.
const UsersKey = "users"

// Store is the durable key/value surface the room core and auth layer
// consume. Semantics are last-write-wins per key; there are no in-place
// updates or deletes.
type Store interface {
	// Get returns the value for key, or ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put writes the value for key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}
