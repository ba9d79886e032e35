package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure Geocoder implements the interface.
var _ driven.Geocoder = (*Geocoder)(nil)

const (
	// DefaultBaseURL is the Maps web service root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"

	// DefaultCacheTTL is how long lookups are remembered.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	// coordPrecision is the number of decimals used for reverse cache keys (~1 m).
	coordPrecision = 5
)

// Service status values.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
)

// Config configures a Geocoder.
type Config struct {
	// APIKey is the Maps API key. Every call fails with
	// domain.ErrGeocoderUnavailable when it is empty.
	APIKey string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// RequestsPerSecond overrides DefaultRequestsPerSecond.
	RequestsPerSecond float64

	// CacheTTL overrides DefaultCacheTTL.
	CacheTTL time.Duration
}

// Geocoder resolves addresses through the Maps web services.
type Geocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *RateLimiter
	cache   *cache.Cache
}

// New creates a Geocoder.
func New(cfg Config) *Geocoder {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Geocoder{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		client:  client,
		limiter: NewRateLimiter(cfg.RequestsPerSecond),
		cache:   cache.New(ttl, ttl*2),
	}
}

// Available reports whether an API key is configured.
func (g *Geocoder) Available() bool {
	return g.apiKey != ""
}

// apiResult is one entry of a geocode or text search response.
type apiResult struct {
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location domain.Point `json:"location"`
	} `json:"geometry"`
}

// apiResponse is the envelope shared by both services.
type apiResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Results      []apiResult `json:"results"`
}

// ReverseGeocode returns the formatted address of the best match for p.
func (g *Geocoder) ReverseGeocode(ctx context.Context, p domain.Point) (string, error) {
	if !p.Valid() {
		return "", fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidInput)
	}

	latlng := strconv.FormatFloat(p.Lat, 'f', coordPrecision, 64) + "," +
		strconv.FormatFloat(p.Lng, 'f', coordPrecision, 64)
	key := "reverse:" + latlng
	if cached, ok := g.cache.Get(key); ok {
		return cached.(string), nil
	}

	resp, err := g.get(ctx, "/geocode/json", url.Values{"latlng": {latlng}})
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if len(resp.Results) == 0 || resp.Results[0].FormattedAddress == "" {
		return "", fmt.Errorf("reverse geocode %s: %w", latlng, domain.ErrNotFound)
	}

	address := resp.Results[0].FormattedAddress
	g.cache.SetDefault(key, address)
	return address, nil
}

// SearchPlaces finds places matching text, best match first.
// No match is an empty result, not an error.
func (g *Geocoder) SearchPlaces(ctx context.Context, text string) ([]domain.Place, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.Place{}, nil
	}

	key := "search:" + strings.ToLower(text)
	if cached, ok := g.cache.Get(key); ok {
		return append([]domain.Place(nil), cached.([]domain.Place)...), nil
	}

	resp, err := g.get(ctx, "/place/textsearch/json", url.Values{"query": {text}})
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}

	places := make([]domain.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, domain.Place{
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Location:         r.Geometry.Location,
		})
	}

	g.cache.SetDefault(key, places)
	return append([]domain.Place(nil), places...), nil
}

// get performs a throttled request and checks the service status.
func (g *Geocoder) get(ctx context.Context, path string, query url.Values) (*apiResponse, error) {
	if !g.Available() {
		return nil, domain.ErrGeocoderUnavailable
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	logger.Debug("maps: GET %s?%s", path, query.Encode())
	query.Set("key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpResp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, g.limiter.Pause(httpResp)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("maps returned status %d", httpResp.StatusCode)
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch resp.Status {
	case statusOK, statusZeroResults:
		return &resp, nil
	case statusOverQueryLimit:
		return nil, g.limiter.Pause(nil)
	default:
		if resp.ErrorMessage != "" {
			return nil, fmt.Errorf("maps %s: %s", strings.ToLower(resp.Status), resp.ErrorMessage)
		}
		return nil, fmt.Errorf("maps %s", strings.ToLower(resp.Status))
	}
}
