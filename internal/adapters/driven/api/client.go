package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.AuthAPI     = (*Client)(nil)
	_ driven.UserAPI     = (*Client)(nil)
	_ driven.ProviderAPI = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultAPIBaseURL
	DefaultTimeout = domain.DefaultTimeoutSeconds * time.Second
)

// HeaderRequestID carries a per-request UUID.
const HeaderRequestID = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the API root (default: http://localhost:3000/api).
	BaseURL string

	// Timeout bounds every request (default: 10s).
	Timeout time.Duration

	// Tokens returns the token source for a role. The source must fail with
	// domain.ErrAuthRequired when the role is signed out.
	Tokens func(role domain.Role) oauth2.TokenSource

	// OnUnauthorized is called when a request sent with the role's token gets a 401.
	OnUnauthorized func(role domain.Role)

	// Transport is the base round tripper (default: http.DefaultTransport).
	Transport http.RoundTripper
}

// authMode says whether an endpoint sends a bearer token.
type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// Client talks to the marketplace backend.
type Client struct {
	baseURL        string
	public         *http.Client
	clients        map[domain.Role]*http.Client
	tokens         func(role domain.Role) oauth2.TokenSource
	onUnauthorized func(role domain.Role)
}

// NewClient creates an API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		public:         &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		clients:        make(map[domain.Role]*http.Client),
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
	}
	if c.tokens != nil {
		for _, role := range domain.Roles() {
			c.clients[role] = &http.Client{
				Timeout: cfg.Timeout,
				Transport: &oauth2.Transport{
					Source: c.tokens(role),
					Base:   cfg.Transport,
				},
			}
		}
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call.
type request struct {
	method      string
	path        string
	query       url.Values
	role        domain.Role
	auth        authMode
	body        io.Reader
	contentType string
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, path string, role domain.Role, auth authMode, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("marshal request: %w", err)
	}
	return request{
		method:      method,
		path:        path,
		role:        role,
		auth:        auth,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

// do sends r and decodes a 2xx JSON response into out, which may be nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	hc, authed, err := c.httpClient(r)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	logger.Debug("%s %s (request %s)", r.method, r.path, requestID)
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	logger.Debug("%s %s -> %d in %s", r.method, r.path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newError(r.method, r.path, resp.StatusCode, body)
		if resp.StatusCode == http.StatusUnauthorized && authed && c.onUnauthorized != nil {
			c.onUnauthorized(r.role)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}

// httpClient picks the client for r and reports whether it sends a token.
func (c *Client) httpClient(r request) (*http.Client, bool, error) {
	if r.auth == authNone {
		return c.public, false, nil
	}

	hc := c.clients[r.role]
	if hc == nil {
		if r.auth == authRequired {
			return nil, false, domain.ErrAuthRequired
		}
		return c.public, false, nil
	}

	if _, err := c.tokens(r.role).Token(); err != nil {
		if r.auth == authRequired {
			return nil, false, err
		}
		return c.public, false, nil
	}
	return hc, true, nil
}
