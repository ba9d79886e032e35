package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultLocation is the fallback coordinate used when nothing better is known (New Delhi).
var DefaultLocation = Point{Lat: 28.6139, Lng: 77.2090}

// Point is a WGS84 coordinate.
//
// The backend stores locations as GeoJSON points whose coordinates are ordered
// [lng, lat], while request bodies use {lat, lng}. Point accepts both on decode
// and always encodes as {lat, lng}.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UnmarshalJSON decodes {lat,lng}, {latitude,longitude}, GeoJSON, or a bare [lng,lat] pair.
// A location without coordinates fails with ErrNoCoordinates.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		return p.fromPair(pair)
	}

	var raw struct {
		Lat         *float64  `json:"lat"`
		Lng         *float64  `json:"lng"`
		Latitude    *float64  `json:"latitude"`
		Longitude   *float64  `json:"longitude"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode point: %w", err)
	}

	switch {
	case raw.Coordinates != nil:
		return p.fromPair(raw.Coordinates)
	case raw.Lat != nil && raw.Lng != nil:
		p.Lat, p.Lng = *raw.Lat, *raw.Lng
	case raw.Latitude != nil && raw.Longitude != nil:
		p.Lat, p.Lng = *raw.Latitude, *raw.Longitude
	default:
		return fmt.Errorf("decode point: %w", ErrNoCoordinates)
	}
	return nil
}

func (p *Point) fromPair(pair []float64) error {
	if len(pair) == 0 {
		return fmt.Errorf("decode point: %w", ErrNoCoordinates)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode point: expected [lng, lat], got %d values", len(pair))
	}
	p.Lng, p.Lat = pair[0], pair[1]
	return nil
}

// Valid reports whether the point lies within WGS84 bounds.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// IsZero reports whether the point is the zero value.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// String formats the point as "lat, lng" with five decimals.
func (p Point) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance to q in kilometres.
func (p Point) DistanceKm(q Point) float64 {
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// FormatDistance renders km as "850 m" below one kilometre, otherwise "2.4 km".
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// Place is a named location returned by place search or reverse geocoding.
type Place struct {
	Name             string
	FormattedAddress string
	Location         Point
}

// DecodeOptionalPoint decodes a location that may be missing. null, an empty
// body, and a location without coordinates all decode to nil.
func DecodeOptionalPoint(raw json.RawMessage) (*Point, error) {
	if s := strings.TrimSpace(string(raw)); s == "" || s == "null" {
		return nil, nil
	}
	var p Point
	if err := p.UnmarshalJSON(raw); err != nil {
		if errors.Is(err, ErrNoCoordinates) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ProviderLocation is a provider's saved coordinate and human-readable address.
type ProviderLocation struct {
	Point   Point
	Address string
}

// MarshalJSON encodes the location as the flat {lat,lng,address} request body.
func (l ProviderLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
		Address string  `json:"address"`
	}{l.Point.Lat, l.Point.Lng, l.Address})
}

// UnmarshalJSON accepts the flat body or {location: <point>, address}.
func (l *ProviderLocation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Location json.RawMessage `json:"location"`
		Address  string          `json:"address"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode provider location: %w", err)
	}
	src := data
	if len(raw.Location) > 0 && string(raw.Location) != "null" {
		src = raw.Location
	}
	if err := l.Point.UnmarshalJSON(src); err != nil {
		return err
	}
	l.Address = raw.Address
	return nil
}
