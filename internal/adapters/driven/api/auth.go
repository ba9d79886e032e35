package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// Login authenticates against the role's public login endpoint.
func (c *Client) Login(ctx context.Context, role domain.Role, creds domain.Credentials) (*domain.AuthResult, error) {
	path := "/public/user-login"
	if role == domain.RoleProvider {
		path = "/public/provider-login"
	}
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	return c.authenticate(ctx, path, body)
}

// SignupUser registers an end-user. The username is the email's local part.
func (c *Client) SignupUser(ctx context.Context, form domain.UserSignup) (*domain.AuthResult, error) {
	body := map[string]string{
		"name":     form.FullName(),
		"email":    form.Email,
		"password": form.Password,
		"username": form.Username(),
	}
	return c.authenticate(ctx, "/public/user-signup", body)
}

// SignupProvider registers a provider.
func (c *Client) SignupProvider(ctx context.Context, form domain.ProviderSignup) (*domain.AuthResult, error) {
	body := map[string]string{"email": form.Email, "password": form.Password}
	return c.authenticate(ctx, "/public/provider-signup", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*domain.AuthResult, error) {
	req, err := jsonRequest(http.MethodPost, path, "", authNone, body)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return &domain.AuthResult{}, nil
	}
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return resp.result(), nil
}
