package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// GetUserProfile returns the signed-in user's account.
func (c *Client) GetUserProfile(ctx context.Context) (*domain.Account, error) {
	var raw json.RawMessage
	req := request{method: http.MethodGet, path: "/user/get-user-profile", role: domain.RoleUser, auth: authRequired}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	var a accountJSON
	if err := json.Unmarshal(unwrap(raw, "user", "data"), &a); err != nil {
		return nil, fmt.Errorf("decode user profile: %w", err)
	}
	account := a.account()
	return &account, nil
}

// GetCategoryCounts returns provider counts keyed by category name.
func (c *Client) GetCategoryCounts(ctx context.Context) (map[string]int, error) {
	var raw json.RawMessage
	req := request{method: http.MethodGet, path: "/user/get-category-counts", role: domain.RoleUser, auth: authOptional}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeCounts(raw)
}

// NearbyProviders lists providers near origin. Without an origin the server
// uses the user's stored location.
func (c *Client) NearbyProviders(ctx context.Context, origin *domain.Point) ([]domain.Provider, error) {
	req := request{method: http.MethodGet, path: "/user/get-nearby-providers", role: domain.RoleUser, auth: authOptional}
	if origin != nil {
		req.query = url.Values{
			"lat": {strconv.FormatFloat(origin.Lat, 'f', -1, 64)},
			"lng": {strconv.FormatFloat(origin.Lng, 'f', -1, 64)},
		}
	}
	return c.providers(ctx, req)
}

// SearchProviders performs a free-text search.
func (c *Client) SearchProviders(ctx context.Context, query string) ([]domain.Provider, error) {
	req := request{
		method: http.MethodGet,
		path:   "/user/search-providers",
		query:  url.Values{"query": {query}},
		role:   domain.RoleUser,
		auth:   authOptional,
	}
	return c.providers(ctx, req)
}

// ProvidersByCategory lists providers in one category.
func (c *Client) ProvidersByCategory(ctx context.Context, category string) ([]domain.Provider, error) {
	req := request{
		method: http.MethodGet,
		path:   "/user/get-providers-by-category",
		query:  url.Values{"category": {category}},
		role:   domain.RoleUser,
		auth:   authOptional,
	}
	return c.providers(ctx, req)
}

func (c *Client) providers(ctx context.Context, req request) ([]domain.Provider, error) {
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeProviders(raw)
}

// GetProvider returns one provider's full record.
func (c *Client) GetProvider(ctx context.Context, id string) (*domain.Provider, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: provider id is required", domain.ErrInvalidInput)
	}
	var raw json.RawMessage
	req := request{
		method: http.MethodGet,
		path:   "/user/get-provider-by-id/" + url.PathEscape(id),
		role:   domain.RoleUser,
		auth:   authOptional,
	}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeProvider(raw)
}

// RateProvider submits a rating and returns the new aggregate.
func (c *Client) RateProvider(ctx context.Context, id string, rating int) (float64, error) {
	req, err := jsonRequest(
		http.MethodPost,
		"/user/rate-provider/"+url.PathEscape(id),
		domain.RoleUser,
		authRequired,
		map[string]int{"rating": rating},
	)
	if err != nil {
		return 0, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return 0, err
	}
	return decodeRating(raw)
}

// UpdateUserLocation persists the user's coordinate.
func (c *Client) UpdateUserLocation(ctx context.Context, p domain.Point) error {
	req, err := jsonRequest(http.MethodPost, "/user/update-user-location", domain.RoleUser, authRequired, p)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// GetUserLocation returns the previously saved coordinate, or nil if none.
func (c *Client) GetUserLocation(ctx context.Context) (*domain.Point, error) {
	var raw json.RawMessage
	req := request{method: http.MethodGet, path: "/user/get-user-location", role: domain.RoleUser, auth: authRequired}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodePoint(raw)
}
