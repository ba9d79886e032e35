package driven

import "context"

// KeyValueStore is durable client storage for small string values.
// It holds bearer tokens and cached account JSON per role.
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// StorageChange describes a change to one key.
type StorageChange struct {
	Key     string
	Value   string
	Deleted bool
}

// StorageWatcher notifies about key changes, including ones made by other processes.
type StorageWatcher interface {
	// Watch delivers changes to key until ctx is cancelled, then closes the channel.
	// Only changes that alter the stored value are delivered.
	Watch(ctx context.Context, key string) (<-chan StorageChange, error)
}
