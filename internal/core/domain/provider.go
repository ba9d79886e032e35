package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Provider is a service provider listed in the marketplace.
// The backend owns these records; the client holds read-mostly copies per screen.
type Provider struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty"`
	Category     string  `json:"category"`
	Rating       float64 `json:"rating"`
	Address      string  `json:"address,omitempty"`
	Mobile       string  `json:"mobile,omitempty"`
	Price        float64 `json:"price"`
	ProfileImage string  `json:"profileImage,omitempty"`
	Location     *Point  `json:"location,omitempty"`
	Description  string  `json:"description,omitempty"`
	Available    bool    `json:"isAvailable"`
}

// UnmarshalJSON accepts Mongo-style "_id" identifiers, prices sent as strings,
// and locations with no coordinates yet, which leave Location nil.
func (p *Provider) UnmarshalJSON(data []byte) error {
	type alias Provider
	aux := struct {
		*alias
		MongoID  string          `json:"_id"`
		Price    json.RawMessage `json:"price"`
		Location json.RawMessage `json:"location"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode provider: %w", err)
	}
	if p.ID == "" {
		p.ID = aux.MongoID
	}

	price, err := decodeNumber(aux.Price)
	if err != nil {
		return fmt.Errorf("decode provider price: %w", err)
	}
	p.Price = price

	loc, err := DecodeOptionalPoint(aux.Location)
	if err != nil {
		return fmt.Errorf("decode provider location: %w", err)
	}
	p.Location = loc
	return nil
}

// decodeNumber reads a JSON number or numeric string. Empty or null decodes to zero.
func decodeNumber(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, err
		}
		if strings.TrimSpace(str) == "" {
			return 0, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(str), 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// RatingLabel formats the rating rounded to one decimal.
func (p *Provider) RatingLabel() string {
	return FormatRating(p.Rating)
}

// FormatRating formats a rating rounded to one decimal.
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// ImageURL resolves the profile image reference against the image base URL.
// Absolute references are returned unchanged. Returns "" when there is no image.
func (p *Provider) ImageURL(base string) string {
	ref := strings.TrimSpace(p.ProfileImage)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || base == "" {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

// PatchRating sets Rating on every provider whose ID equals id and returns how many matched.
func PatchRating(providers []Provider, id string, rating float64) int {
	n := 0
	for i := range providers {
		if providers[i].ID == id {
			providers[i].Rating = rating
			n++
		}
	}
	return n
}

// Rating bounds accepted by the backend.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating returns ErrInvalidRating when r is outside MinRating..MaxRating.
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// ProfileUpdate is the provider-editable part of a profile.
// ImagePath, when set, names a local file uploaded as the new profile image.
type ProfileUpdate struct {
	Name        string
	Mobile      string
	Category    string
	Description string
	Price       float64
	ImagePath   string
}

// Validate checks the fields the backend requires.
func (u ProfileUpdate) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(u.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if u.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

// ProfileFromProvider builds an update pre-filled from an existing profile.
func ProfileFromProvider(p *Provider) ProfileUpdate {
	if p == nil {
		return ProfileUpdate{}
	}
	return ProfileUpdate{
		Name:        p.Name,
		Mobile:      p.Mobile,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
	}
}
