package memory

import (
	"context"
	"sync"

	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// Ensure KeyValueStore implements the interfaces.
var (
	_ driven.KeyValueStore  = (*KeyValueStore)(nil)
	_ driven.StorageWatcher = (*KeyValueStore)(nil)
)

// KeyValueStore is an in-memory implementation of driven.KeyValueStore.
// Watchers are notified of changes made through the same store.
type KeyValueStore struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers map[string][]chan driven.StorageChange
}

// NewKeyValueStore creates a new in-memory key/value store.
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		values:   make(map[string]string),
		watchers: make(map[string][]chan driven.StorageChange),
	}
}

// Get returns the value for key and whether it exists.
func (s *KeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, existed := s.values[key]
	s.values[key] = value
	if !existed || old != value {
		s.publishLocked(driven.StorageChange{Key: key, Value: value})
	}
	return nil
}

// Delete removes key.
func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existed := s.values[key]; !existed {
		return nil
	}
	delete(s.values, key)
	s.publishLocked(driven.StorageChange{Key: key, Deleted: true})
	return nil
}

// Watch delivers changes to key until ctx is cancelled.
func (s *KeyValueStore) Watch(ctx context.Context, key string) (<-chan driven.StorageChange, error) {
	ch := make(chan driven.StorageChange, 8)

	s.mu.Lock()
	s.watchers[key] = append(s.watchers[key], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.watchers[key]
		for i, c := range list {
			if c == ch {
				s.watchers[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

// publishLocked sends change to every watcher of its key without blocking.
// Callers must hold s.mu.
func (s *KeyValueStore) publishLocked(change driven.StorageChange) {
	for _, ch := range s.watchers[change.Key] {
		select {
		case ch <- change:
		default:
		}
	}
}
