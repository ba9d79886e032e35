// Package google implements driven.Geocoder against the Google Maps
// Geocoding and Places Text Search web services.
//
// Results are cached in memory and requests are throttled client-side so an
// interactive map that fires a lookup per click stays within quota.
package google
