package driving

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// Browser drives the provider list: text search, category filter and origin.
type Browser interface {
	// SetQuery updates the search text. The fetch fires after the debounce delay.
	SetQuery(query string)

	// SetCategory selects a category and fetches immediately. "" selects "all".
	SetCategory(id string)

	// SetOrigin sets the user coordinate and fetches immediately.
	SetOrigin(p domain.Point)

	// Refresh re-issues the fetch for the current filter immediately.
	Refresh()

	// Snapshot returns a copy of the current state.
	Snapshot() domain.BrowseSnapshot

	// Subscribe registers fn to be called after every state change.
	// The returned function unregisters it.
	Subscribe(fn func(domain.BrowseSnapshot)) (unsubscribe func())

	// PatchRating overwrites the rating of every listed provider whose id matches.
	PatchRating(id string, rating float64)

	// Fetch resolves filter once, synchronously, without touching controller state.
	Fetch(ctx context.Context, filter domain.FilterState) ([]domain.Provider, error)

	// Close cancels pending and in-flight work.
	Close()
}

// CategoryService provides the category list with counts.
type CategoryService interface {
	// Load fetches counts and returns the merged list.
	// On failure the list is returned with counts unset alongside the error.
	Load(ctx context.Context) ([]domain.Category, error)

	// Categories returns the most recently merged list.
	Categories() []domain.Category
}

// DetailService drives the provider detail dialog.
type DetailService interface {
	// Open fetches one provider. The state ends loaded or empty.
	Open(ctx context.Context, id string) domain.DetailState

	// Rate submits a 1..5 rating for the open provider and returns the new aggregate.
	Rate(ctx context.Context, rating int) (float64, error)

	// State returns the current dialog state.
	State() domain.DetailState

	// Close discards the dialog state.
	Close()
}
