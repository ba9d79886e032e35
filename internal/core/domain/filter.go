package domain

import "strings"

// QueryKind selects which backend listing endpoint a filter state resolves to.
type QueryKind int

// Query kinds, in selection priority order.
const (
	QueryNearby QueryKind = iota
	QuerySearch
	QueryCategory
)

// String returns the string representation.
func (k QueryKind) String() string {
	switch k {
	case QuerySearch:
		return "search"
	case QueryCategory:
		return "category"
	default:
		return "nearby"
	}
}

// ProviderQuery is a resolved listing request.
type ProviderQuery struct {
	Kind     QueryKind
	Text     string
	Category string
	Origin   *Point
}

// FilterState holds the browse inputs.
type FilterState struct {
	Query    string
	Category string
	Origin   *Point
}

// NewFilterState returns the initial state: empty query, category "all".
func NewFilterState() FilterState {
	return FilterState{Category: CategoryAll}
}

// Resolve applies the selection policy: a non-blank query searches and ignores the
// category; otherwise a specific category filters; otherwise providers near Origin.
func (f FilterState) Resolve() ProviderQuery {
	if q := strings.TrimSpace(f.Query); q != "" {
		return ProviderQuery{Kind: QuerySearch, Text: q}
	}
	if f.Category != "" && f.Category != CategoryAll {
		return ProviderQuery{Kind: QueryCategory, Category: f.Category}
	}
	return ProviderQuery{Kind: QueryNearby, Origin: f.Origin}
}

// BrowseSnapshot is a point-in-time copy of the browse controller state.
// Version increases every time the provider collection is replaced or patched.
type BrowseSnapshot struct {
	Filter    FilterState
	Providers []Provider
	Loading   bool
	Err       error
	Version   uint64
}

// DetailStatus is the lifecycle of the provider detail dialog.
type DetailStatus int

// Detail statuses.
const (
	DetailIdle DetailStatus = iota
	DetailLoading
	DetailLoaded
	DetailEmpty
)

// String returns the string representation.
func (s DetailStatus) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailEmpty:
		return "empty"
	default:
		return "idle"
	}
}

// DetailState is the provider detail dialog state.
type DetailState struct {
	Status     DetailStatus
	ProviderID string
	Provider   *Provider
}
