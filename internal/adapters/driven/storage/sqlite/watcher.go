package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// settleDelay coalesces the burst of file events a single write produces.
const settleDelay = 50 * time.Millisecond

// snapshot is a key's observed value.
type snapshot struct {
	value  string
	exists bool
}

// Watch reports changes to key until ctx ends or the store is closed.
// Changes are detected from file events on the database directory, so writes
// by other processes are observed too; a periodic re-read covers file systems
// that do not deliver events. The current value is not reported.
func (s *Store) Watch(ctx context.Context, key string) (<-chan driven.StorageChange, error) {
	initial, err := s.read(ctx, key)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(s.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	out := make(chan driven.StorageChange, 8)
	go s.watchLoop(ctx, key, initial, fw, out)
	return out, nil
}

func (s *Store) watchLoop(
	ctx context.Context,
	key string,
	last snapshot,
	fw *fsnotify.Watcher,
	out chan<- driven.StorageChange,
) {
	defer close(out)
	defer fw.Close()

	var poll <-chan time.Time
	if s.PollInterval > 0 {
		ticker := time.NewTicker(s.PollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	settle := time.NewTimer(settleDelay)
	if !settle.Stop() {
		<-settle.C
	}
	defer settle.Stop()

	check := func() bool {
		current, err := s.read(ctx, key)
		if err != nil {
			logger.Debug("watch %s: %v", key, err)
			return true
		}
		if current == last {
			return true
		}
		last = current
		change := driven.StorageChange{Key: key, Value: current.value, Deleted: !current.exists}
		select {
		case out <- change:
			return true
		case <-ctx.Done():
			return false
		case <-s.done:
			return false
		}
	}

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if strings.HasPrefix(filepath.Base(ev.Name), base) {
				settle.Reset(settleDelay)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("storage watcher: %v", err)
		case <-settle.C:
			if !check() {
				return
			}
		case <-poll:
			if !check() {
				return
			}
		}
	}
}

// read returns the current snapshot of key.
func (s *Store) read(ctx context.Context, key string) (snapshot, error) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{value: value, exists: ok}, nil
}
