package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure IPGeolocator implements the interface.
var _ driven.Geolocator = (*IPGeolocator)(nil)

const (
	// DefaultIPLookupURL returns the caller's location as JSON.
	DefaultIPLookupURL = "https://ipapi.co/json/"

	// DefaultIPTimeout bounds the lookup.
	DefaultIPTimeout = 5 * time.Second

	// DefaultIPCacheTTL is how long a lookup is reused. The public IP of a
	// laptop rarely changes within a session.
	DefaultIPCacheTTL = 10 * time.Minute

	cacheKey = "self"
)

// ipLocation is the lookup response.
type ipLocation struct {
	IP        string   `json:"ip"`
	City      string   `json:"city"`
	Country   string   `json:"country_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// IPGeolocator approximates the position from the public IP address.
type IPGeolocator struct {
	url    string
	client *http.Client
	cache  *cache.Cache
}

// NewIPGeolocator creates an IP geolocator. An empty lookupURL uses DefaultIPLookupURL.
func NewIPGeolocator(lookupURL string, client *http.Client) *IPGeolocator {
	if lookupURL == "" {
		lookupURL = DefaultIPLookupURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultIPTimeout}
	}
	return &IPGeolocator{
		url:    lookupURL,
		client: client,
		cache:  cache.New(DefaultIPCacheTTL, DefaultIPCacheTTL),
	}
}

// Name identifies the geolocator.
func (g *IPGeolocator) Name() string {
	return domain.GeolocatorIP.String()
}

// Locate returns the approximate position of the public IP.
// Every failure is reported as domain.ErrLocationUnavailable.
func (g *IPGeolocator) Locate(ctx context.Context) (domain.Point, error) {
	if cached, ok := g.cache.Get(cacheKey); ok {
		return cached.(domain.Point), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return domain.Point{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Point{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Point{}, fmt.Errorf("%w: lookup returned status %d", domain.ErrLocationUnavailable, resp.StatusCode)
	}

	var loc ipLocation
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return domain.Point{}, fmt.Errorf("%w: decode lookup: %v", domain.ErrLocationUnavailable, err)
	}
	if loc.Error {
		return domain.Point{}, fmt.Errorf("%w: %s", domain.ErrLocationUnavailable, strings.ToLower(loc.Reason))
	}
	if loc.Latitude == nil || loc.Longitude == nil {
		return domain.Point{}, fmt.Errorf("%w: lookup returned no coordinates", domain.ErrLocationUnavailable)
	}

	p := domain.Point{Lat: *loc.Latitude, Lng: *loc.Longitude}
	if !p.Valid() {
		return domain.Point{}, fmt.Errorf("%w: lookup returned %s", domain.ErrLocationUnavailable, p)
	}

	logger.Debug("ip location: %s (%s, %s)", p, loc.City, loc.Country)
	g.cache.SetDefault(cacheKey, p)
	return p, nil
}
