package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRating indicates a rating outside the accepted 1..5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrConflict indicates the backend refused to create a duplicate, such as
	// an account for an email that is already registered.
	ErrConflict = errors.New("already exists")

	// ErrNoProviderOpen indicates a rating was submitted with no provider loaded.
	ErrNoProviderOpen = errors.New("no provider open")

	// Authentication Errors.

	// ErrAuthRequired indicates the operation needs a session that does not exist.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnauthorized indicates the backend rejected the bearer token.
	// The session for the affected role has been cleared.
	ErrUnauthorized = errors.New("unauthorized")

	// Location Errors.

	// ErrLocationDenied indicates the user has not permitted location lookup.
	ErrLocationDenied = errors.New("location permission denied")

	// ErrLocationUnavailable indicates no position could be determined.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrGeocoderUnavailable indicates no maps API key is configured.
	ErrGeocoderUnavailable = errors.New("geocoder unavailable")

	// ErrNoCoordinates indicates a location with an absent or empty coordinate
	// array, as stored for providers that have not placed themselves yet.
	ErrNoCoordinates = errors.New("no coordinates")
)
