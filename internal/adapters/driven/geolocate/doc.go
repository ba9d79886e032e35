// Package geolocate provides driven.Geolocator implementations for a
// terminal client, which has no device GPS: a public-IP lookup, a fixed
// coordinate from settings, and a permission gate wrapping either.
package geolocate
