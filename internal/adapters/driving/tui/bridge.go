package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// snapshotBridge carries browser snapshots from service goroutines into the
// Bubbletea loop. It keeps only the newest undelivered snapshot.
type snapshotBridge struct {
	ch          chan domain.BrowseSnapshot
	unsubscribe func()
}

// newSnapshotBridge subscribes to subscribe and buffers what it publishes.
func newSnapshotBridge(subscribe func(func(domain.BrowseSnapshot)) func()) *snapshotBridge {
	b := &snapshotBridge{ch: make(chan domain.BrowseSnapshot, 1)}
	b.unsubscribe = subscribe(b.publish)
	return b
}

// publish replaces any undelivered snapshot with snap.
func (b *snapshotBridge) publish(snap domain.BrowseSnapshot) {
	for {
		select {
		case b.ch <- snap:
			return
		default:
		}
		select {
		case old := <-b.ch:
			if old.Version > snap.Version {
				snap = old
			}
		default:
		}
	}
}

// wait returns a command that delivers the next snapshot. The app re-arms it
// after every BrowseUpdated.
func (b *snapshotBridge) wait() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-b.ch
		if !ok {
			return nil
		}
		return messages.BrowseUpdated{Snapshot: snap}
	}
}

// close stops receiving snapshots.
func (b *snapshotBridge) close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// waitReloaded returns a command that fires PickerReloaded on the next signal
// from ch, or nil when ch is nil.
func waitReloaded(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.PickerReloaded{}
	}
}
