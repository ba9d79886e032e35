package domain

// MarkerKind distinguishes the pins drawn on a map surface.
type MarkerKind int

// Marker kinds.
const (
	MarkerProvider MarkerKind = iota
	MarkerUser
	MarkerSaved
	MarkerCursor
)

// UserMarkerTitle labels the user's own position.
const UserMarkerTitle = "You are here"

// DefaultZoom is the zoom level used when centring on a point.
const DefaultZoom = 15

// MapMarker is one pin on a map surface.
type MapMarker struct {
	Kind       MarkerKind
	Position   Point
	Title      string
	Subtitle   string
	ProviderID string
}

// ProviderMarker builds the pin for a provider: name, one-decimal rating and category.
// ok is false when the provider has no coordinate.
func ProviderMarker(p Provider) (MapMarker, bool) {
	if p.Location == nil {
		return MapMarker{}, false
	}
	return MapMarker{
		Kind:       MarkerProvider,
		Position:   *p.Location,
		Title:      p.Name,
		Subtitle:   "★ " + FormatRating(p.Rating) + " · " + p.Category,
		ProviderID: p.ID,
	}, true
}

// PickerState is the provider location picker state.
// Position and Address always describe the same place.
type PickerState struct {
	Position Point
	Address  string
	Saved    *ProviderLocation
	Busy     bool
}
