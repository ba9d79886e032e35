package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

func settled(c *BrowseController, version uint64) func() bool {
	return func() bool {
		s := c.Snapshot()
		return !s.Loading && s.Version >= version
	}
}

func TestBrowseController_InitialState(t *testing.T) {
	c := NewBrowseController(&mockUserAPI{}, time.Millisecond)
	defer c.Close()

	s := c.Snapshot()
	assert.Equal(t, domain.CategoryAll, s.Filter.Category)
	assert.Empty(t, s.Providers)
	assert.False(t, s.Loading)
}

func TestBrowseController_Refresh_NearbyWhenNoQueryOrCategory(t *testing.T) {
	api := &mockUserAPI{
		nearbyFn: func(_ context.Context, _ *domain.Point) ([]domain.Provider, error) {
			return []domain.Provider{{ID: "p1"}}, nil
		},
	}
	c := NewBrowseController(api, time.Millisecond)
	defer c.Close()

	c.Refresh()

	require.Eventually(t, settled(c, 1), waitFor, tick)
	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "nearby", calls[0].method)
	assert.Len(t, c.Snapshot().Providers, 1)
}

func TestBrowseController_SetCategory_FetchesByCategory(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.SetCategory("electricians")

	require.Eventually(t, settled(c, 1), waitFor, tick)
	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "category", calls[0].method)
	assert.Equal(t, "electricians", calls[0].arg)
	assert.Empty(t, c.Snapshot().Providers)
	assert.NotNil(t, c.Snapshot().Providers)
}

func TestBrowseController_SetCategory_EmptyMeansAll(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.SetCategory("")

	require.Eventually(t, settled(c, 1), waitFor, tick)
	assert.Equal(t, domain.CategoryAll, c.Snapshot().Filter.Category)
	assert.Equal(t, "nearby", api.Calls()[0].method)
}

func TestBrowseController_SetQuery_SearchIgnoresCategory(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, 10*time.Millisecond)
	defer c.Close()

	c.SetCategory("painters")
	require.Eventually(t, settled(c, 1), waitFor, tick)

	c.SetQuery("  pipe fix ")

	require.Eventually(t, settled(c, 2), waitFor, tick)
	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "search", calls[1].method)
	assert.Equal(t, "pipe fix", calls[1].arg)
}

func TestBrowseController_SetQuery_Debounces(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, 50*time.Millisecond)
	defer c.Close()

	c.SetQuery("p")
	c.SetQuery("pl")
	c.SetQuery("plu")

	assert.Empty(t, api.Calls(), "no request before the debounce delay")

	require.Eventually(t, settled(c, 1), waitFor, tick)
	time.Sleep(100 * time.Millisecond)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "plu", calls[0].arg)
}

func TestBrowseController_CategoryCancelsPendingDebounce(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, 50*time.Millisecond)
	defer c.Close()

	c.SetQuery("")
	c.SetCategory("salon")

	require.Eventually(t, settled(c, 1), waitFor, tick)
	time.Sleep(100 * time.Millisecond)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "category", calls[0].method)
}

func TestBrowseController_SetOrigin_PassesCoordinate(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.SetOrigin(domain.Point{Lat: 12.9, Lng: 77.5})

	require.Eventually(t, settled(c, 1), waitFor, tick)
	calls := api.Calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].origin)
	assert.Equal(t, domain.Point{Lat: 12.9, Lng: 77.5}, *calls[0].origin)
}

func TestBrowseController_StaleResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	api := &mockUserAPI{
		categoryFn: func(ctx context.Context, category string) ([]domain.Provider, error) {
			if category == "plumbers" {
				<-release
				return []domain.Provider{{ID: "stale"}}, nil
			}
			return []domain.Provider{{ID: "fresh"}}, nil
		},
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.SetCategory("plumbers")
	c.SetCategory("doctors")

	require.Eventually(t, settled(c, 1), waitFor, tick)
	close(release)
	time.Sleep(50 * time.Millisecond)

	s := c.Snapshot()
	require.Len(t, s.Providers, 1)
	assert.Equal(t, "fresh", s.Providers[0].ID)
	assert.Equal(t, uint64(1), s.Version)
}

func TestBrowseController_NewRequestCancelsOld(t *testing.T) {
	cancelled := make(chan struct{})
	api := &mockUserAPI{
		categoryFn: func(ctx context.Context, category string) ([]domain.Provider, error) {
			if category == "plumbers" {
				<-ctx.Done()
				close(cancelled)
				return nil, ctx.Err()
			}
			return nil, nil
		},
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.SetCategory("plumbers")
	require.Eventually(t, func() bool { return len(api.Calls()) == 1 }, waitFor, tick)
	c.SetCategory("doctors")

	select {
	case <-cancelled:
	case <-time.After(waitFor):
		t.Fatal("superseded request was not cancelled")
	}
	require.Eventually(t, settled(c, 1), waitFor, tick)
	assert.NoError(t, c.Snapshot().Err)
}

func TestBrowseController_FailureKeepsPreviousCollection(t *testing.T) {
	fail := false
	var mu sync.Mutex
	api := &mockUserAPI{
		nearbyFn: func(_ context.Context, _ *domain.Point) ([]domain.Provider, error) {
			mu.Lock()
			defer mu.Unlock()
			if fail {
				return nil, errors.New("boom")
			}
			return []domain.Provider{{ID: "keep"}}, nil
		},
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.Refresh()
	require.Eventually(t, settled(c, 1), waitFor, tick)

	mu.Lock()
	fail = true
	mu.Unlock()
	c.Refresh()

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return !s.Loading && s.Err != nil
	}, waitFor, tick)
	s := c.Snapshot()
	require.Len(t, s.Providers, 1)
	assert.Equal(t, "keep", s.Providers[0].ID)
	assert.Equal(t, uint64(1), s.Version)
}

func TestBrowseController_ListenersNotified(t *testing.T) {
	api := &mockUserAPI{
		nearbyFn: func(_ context.Context, _ *domain.Point) ([]domain.Provider, error) {
			return []domain.Provider{{ID: "p1"}}, nil
		},
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	var mu sync.Mutex
	var got []domain.BrowseSnapshot
	unsubscribe := c.Subscribe(func(s domain.BrowseSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	})

	c.Refresh()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Version == 1
	}, waitFor, tick)

	unsubscribe()
	mu.Lock()
	n := len(got)
	mu.Unlock()

	c.PatchRating("p1", 5)
	mu.Lock()
	assert.Len(t, got, n)
	mu.Unlock()
}

func TestBrowseController_PatchRating(t *testing.T) {
	api := &mockUserAPI{
		nearbyFn: func(_ context.Context, _ *domain.Point) ([]domain.Provider, error) {
			return []domain.Provider{{ID: "p1", Rating: 3}, {ID: "p2", Rating: 2}}, nil
		},
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.Refresh()
	require.Eventually(t, settled(c, 1), waitFor, tick)

	c.PatchRating("p1", 4.5)

	s := c.Snapshot()
	assert.InDelta(t, 4.5, s.Providers[0].Rating, 0.0001)
	assert.InDelta(t, 2.0, s.Providers[1].Rating, 0.0001)
	assert.Equal(t, uint64(2), s.Version)

	c.PatchRating("missing", 1)
	assert.Equal(t, uint64(2), c.Snapshot().Version)
}

func TestBrowseController_SnapshotIsCopy(t *testing.T) {
	api := &mockUserAPI{
		nearbyFn: func(_ context.Context, _ *domain.Point) ([]domain.Provider, error) {
			return []domain.Provider{{ID: "p1", Rating: 3}}, nil
		},
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	c.Refresh()
	require.Eventually(t, settled(c, 1), waitFor, tick)

	s := c.Snapshot()
	s.Providers[0].Rating = 1
	assert.InDelta(t, 3.0, c.Snapshot().Providers[0].Rating, 0.0001)
}

func TestBrowseController_Fetch_UsesSelectionPolicy(t *testing.T) {
	api := &mockUserAPI{}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	_, err := c.Fetch(context.Background(), domain.FilterState{Query: "tutor", Category: "doctors"})
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), domain.FilterState{Category: "doctors"})
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), domain.FilterState{})
	require.NoError(t, err)

	calls := api.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "search", calls[0].method)
	assert.Equal(t, "category", calls[1].method)
	assert.Equal(t, "nearby", calls[2].method)
	assert.Equal(t, uint64(0), c.Snapshot().Version)
}

func TestBrowseController_Fetch_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	api := &mockUserAPI{
		searchFn: func(_ context.Context, _ string) ([]domain.Provider, error) { return nil, boom },
	}
	c := NewBrowseController(api, time.Hour)
	defer c.Close()

	_, err := c.Fetch(context.Background(), domain.FilterState{Query: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "search providers")
}
