package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// ProfileImageField is the multipart field carrying the profile image.
const ProfileImageField = "profileImage"

// GetProviderProfile returns the signed-in provider's own record.
func (c *Client) GetProviderProfile(ctx context.Context) (*domain.Provider, error) {
	var raw json.RawMessage
	req := request{
		method: http.MethodGet,
		path:   "/provider/get-provider-profile",
		role:   domain.RoleProvider,
		auth:   authRequired,
	}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeProvider(raw)
}

// UpdateProviderProfile submits the profile as multipart form data with an
// optional image file.
func (c *Client) UpdateProviderProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Provider, error) {
	body, contentType, err := profileForm(update)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	req := request{
		method:      http.MethodPut,
		path:        "/provider/update-provider-profile",
		role:        domain.RoleProvider,
		auth:        authRequired,
		body:        body,
		contentType: contentType,
	}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeProvider(raw)
}

// profileForm encodes update as a multipart body.
func profileForm(update domain.ProfileUpdate) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", update.Name},
		{"mobile", update.Mobile},
		{"category", update.Category},
		{"description", update.Description},
		{"price", strconv.FormatFloat(update.Price, 'f', -1, 64)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", f.name, err)
		}
	}

	if update.ImagePath != "" {
		if err := attachImage(w, update.ImagePath); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func attachImage(w *multipart.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile image: %w", err)
	}
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") && !mtype.Is("image/gif") && !mtype.Is("image/webp") {
		return fmt.Errorf("%w: profile image must be jpeg, png, gif or webp, got %s",
			domain.ErrInvalidInput, mtype.String())
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, ProfileImageField, filepath.Base(path)))
	header.Set("Content-Type", mtype.String())
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write image part: %w", err)
	}
	return nil
}

// SetProviderLocation persists the provider's coordinate and address.
func (c *Client) SetProviderLocation(ctx context.Context, loc domain.ProviderLocation) error {
	req, err := jsonRequest(http.MethodPost, "/provider/set-provider-location", domain.RoleProvider, authRequired, loc)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// GetProviderLocation returns the saved coordinate, or nil if none.
func (c *Client) GetProviderLocation(ctx context.Context) (*domain.ProviderLocation, error) {
	var raw json.RawMessage
	req := request{
		method: http.MethodGet,
		path:   "/provider/get-provider-location",
		role:   domain.RoleProvider,
		auth:   authRequired,
	}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return decodeProviderLocation(raw)
}
