package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure BrowseController implements the interface.
var _ driving.Browser = (*BrowseController)(nil)

// BrowseController resolves the provider list from the search text, category
// and user origin.
//
// Every fetch is tagged with a sequence number and its own context. Issuing a
// new fetch cancels the previous one, and a result is applied only if its
// sequence is still the latest issued.
type BrowseController struct {
	api      driven.UserAPI
	debounce time.Duration
	baseCtx  context.Context
	stop     context.CancelFunc

	mu        sync.Mutex
	filter    domain.FilterState
	providers []domain.Provider
	loading   bool
	lastErr   error
	version   uint64
	issued    uint64
	cancel    context.CancelFunc
	timer     *time.Timer
	timerGen  uint64
	listeners map[int]func(domain.BrowseSnapshot)
	nextID    int
	events    uint64

	notifyMu  sync.Mutex
	delivered uint64
}

// NewBrowseController creates a controller with the given debounce delay.
func NewBrowseController(api driven.UserAPI, debounce time.Duration) *BrowseController {
	ctx, stop := context.WithCancel(context.Background())
	return &BrowseController{
		api:       api,
		debounce:  debounce,
		baseCtx:   ctx,
		stop:      stop,
		filter:    domain.NewFilterState(),
		listeners: make(map[int]func(domain.BrowseSnapshot)),
	}
}

// SetQuery updates the search text and schedules a fetch after the debounce delay.
// Each call restarts the delay.
func (c *BrowseController) SetQuery(query string) {
	c.mu.Lock()
	c.filter.Query = query
	c.timerGen++
	gen := c.timerGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(gen) })
	c.mu.Unlock()
}

func (c *BrowseController) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	snap, ev := c.startLocked()
	c.mu.Unlock()
	c.notify(snap, ev)
}

// SetCategory selects a category and fetches immediately.
func (c *BrowseController) SetCategory(id string) {
	if id == "" {
		id = domain.CategoryAll
	}
	c.mu.Lock()
	c.filter.Category = id
	snap, ev := c.startLocked()
	c.mu.Unlock()
	c.notify(snap, ev)
}

// SetOrigin sets the user coordinate and fetches immediately.
func (c *BrowseController) SetOrigin(p domain.Point) {
	c.mu.Lock()
	c.filter.Origin = &p
	snap, ev := c.startLocked()
	c.mu.Unlock()
	c.notify(snap, ev)
}

// Refresh re-issues the fetch for the current filter immediately.
func (c *BrowseController) Refresh() {
	c.mu.Lock()
	snap, ev := c.startLocked()
	c.mu.Unlock()
	c.notify(snap, ev)
}

// startLocked cancels pending work and launches a fetch for the current filter.
// Callers must hold c.mu.
func (c *BrowseController) startLocked() (domain.BrowseSnapshot, uint64) {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
	}

	c.issued++
	seq := c.issued
	query := c.filter.Resolve()

	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.loading = true

	logger.Debug("browse #%d: %s fetch", seq, query.Kind)
	go c.run(ctx, cancel, seq, query)

	return c.publishLocked()
}

func (c *BrowseController) run(ctx context.Context, cancel context.CancelFunc, seq uint64, query domain.ProviderQuery) {
	defer cancel()
	providers, err := c.fetch(ctx, query)

	c.mu.Lock()
	if seq != c.issued {
		c.mu.Unlock()
		logger.Debug("browse #%d: superseded, discarding result", seq)
		return
	}
	c.loading = false
	c.cancel = nil
	if err != nil {
		c.lastErr = err
		logger.Warn("browse #%d: %v", seq, err)
	} else {
		c.lastErr = nil
		c.providers = providers
		c.version++
		logger.Debug("browse #%d: %d providers", seq, len(providers))
	}
	snap, ev := c.publishLocked()
	c.mu.Unlock()

	c.notify(snap, ev)
}

// Fetch resolves filter once without touching controller state.
func (c *BrowseController) Fetch(ctx context.Context, filter domain.FilterState) ([]domain.Provider, error) {
	if filter.Category == "" {
		filter.Category = domain.CategoryAll
	}
	return c.fetch(ctx, filter.Resolve())
}

func (c *BrowseController) fetch(ctx context.Context, q domain.ProviderQuery) ([]domain.Provider, error) {
	var (
		providers []domain.Provider
		err       error
	)
	switch q.Kind {
	case domain.QuerySearch:
		providers, err = c.api.SearchProviders(ctx, q.Text)
	case domain.QueryCategory:
		providers, err = c.api.ProvidersByCategory(ctx, q.Category)
	default:
		providers, err = c.api.NearbyProviders(ctx, q.Origin)
	}
	if err != nil {
		return nil, fmt.Errorf("%s providers: %w", q.Kind, err)
	}
	if providers == nil {
		providers = []domain.Provider{}
	}
	return providers, nil
}

// PatchRating overwrites the rating of every listed provider whose id matches.
func (c *BrowseController) PatchRating(id string, rating float64) {
	c.mu.Lock()
	if domain.PatchRating(c.providers, id, rating) == 0 {
		c.mu.Unlock()
		return
	}
	c.version++
	snap, ev := c.publishLocked()
	c.mu.Unlock()
	c.notify(snap, ev)
}

// Snapshot returns a copy of the current state.
func (c *BrowseController) Snapshot() domain.BrowseSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// publishLocked stamps a snapshot with the next event number.
func (c *BrowseController) publishLocked() (domain.BrowseSnapshot, uint64) {
	c.events++
	return c.snapshotLocked(), c.events
}

func (c *BrowseController) snapshotLocked() domain.BrowseSnapshot {
	providers := make([]domain.Provider, len(c.providers))
	copy(providers, c.providers)
	filter := c.filter
	if filter.Origin != nil {
		o := *filter.Origin
		filter.Origin = &o
	}
	return domain.BrowseSnapshot{
		Filter:    filter,
		Providers: providers,
		Loading:   c.loading,
		Err:       c.lastErr,
		Version:   c.version,
	}
}

// Subscribe registers fn to be called after every state change.
// Listeners are called one at a time, in event order, and must not call back
// into the controller synchronously.
func (c *BrowseController) Subscribe(fn func(domain.BrowseSnapshot)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// notify delivers snap unless a later event has already been delivered.
func (c *BrowseController) notify(snap domain.BrowseSnapshot, ev uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if ev <= c.delivered {
		return
	}
	c.delivered = ev

	c.mu.Lock()
	fns := make([]func(domain.BrowseSnapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Close cancels pending and in-flight work.
func (c *BrowseController) Close() {
	c.mu.Lock()
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.stop()
}
