package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// unwrap returns the value under the first present key when raw is an object
// holding one of keys, otherwise raw itself.
func unwrap(raw json.RawMessage, keys ...string) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	for _, k := range keys {
		if v, ok := envelope[k]; ok {
			return v
		}
	}
	return trimmed
}

// isNull reports whether raw is empty or JSON null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeProviders accepts {"providers":[...]}, {"data":[...]} or a bare array.
func decodeProviders(raw json.RawMessage) ([]domain.Provider, error) {
	list := unwrap(raw, "providers", "data", "results")
	if isNull(list) {
		return []domain.Provider{}, nil
	}
	var providers []domain.Provider
	if err := json.Unmarshal(list, &providers); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}
	if providers == nil {
		providers = []domain.Provider{}
	}
	return providers, nil
}

// decodeProvider accepts {"provider":{...}} or a bare object.
func decodeProvider(raw json.RawMessage) (*domain.Provider, error) {
	obj := unwrap(raw, "provider", "data")
	if isNull(obj) {
		return nil, nil
	}
	var p domain.Provider
	if err := json.Unmarshal(obj, &p); err != nil {
		return nil, fmt.Errorf("decode provider: %w", err)
	}
	return &p, nil
}

// countEntry is one element of an array-shaped count response.
type countEntry struct {
	ID       string `json:"_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// decodeCounts accepts {"counts":{...}}, a bare name->count object, or an
// array of {_id|category|name, count}.
func decodeCounts(raw json.RawMessage) (map[string]int, error) {
	body := bytes.TrimSpace(unwrap(raw, "counts", "categoryCounts", "data"))
	if isNull(body) {
		return map[string]int{}, nil
	}

	if body[0] == '[' {
		var entries []countEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decode category counts: %w", err)
		}
		counts := make(map[string]int, len(entries))
		for _, e := range entries {
			name := firstNonEmpty(e.Category, e.Name, e.ID)
			if name == "" {
				continue
			}
			counts[name] += e.Count
		}
		return counts, nil
	}

	var counts map[string]int
	if err := json.Unmarshal(body, &counts); err != nil {
		return nil, fmt.Errorf("decode category counts: %w", err)
	}
	if counts == nil {
		counts = map[string]int{}
	}
	return counts, nil
}

// decodeRating accepts {"rating":4.5}, {"averageRating":4.5} or {"provider":{"rating":4.5}}.
func decodeRating(raw json.RawMessage) (float64, error) {
	var payload struct {
		Rating        *float64         `json:"rating"`
		AverageRating *float64         `json:"averageRating"`
		Provider      *domain.Provider `json:"provider"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("decode rating: %w", err)
	}
	switch {
	case payload.Rating != nil:
		return *payload.Rating, nil
	case payload.AverageRating != nil:
		return *payload.AverageRating, nil
	case payload.Provider != nil:
		return payload.Provider.Rating, nil
	}
	return 0, fmt.Errorf("decode rating: %w", errMissingField("rating"))
}

// decodePoint accepts {"location":<point>} or a bare point. A missing, zero or
// coordinate-less location decodes to nil.
func decodePoint(raw json.RawMessage) (*domain.Point, error) {
	body := unwrap(unwrap(raw, "location", "user"), "location")
	if isNull(body) {
		return nil, nil
	}
	p, err := domain.DecodeOptionalPoint(body)
	if err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	if p == nil || p.IsZero() {
		return nil, nil
	}
	return p, nil
}

// decodeProviderLocation accepts {"location":..., "address":...}, a flat
// {lat,lng,address}, or either wrapped in {"provider":...}. A provider that has
// not set coordinates yet decodes to nil.
func decodeProviderLocation(raw json.RawMessage) (*domain.ProviderLocation, error) {
	body := unwrap(raw, "provider", "data")
	if isNull(body) {
		return nil, nil
	}
	var loc domain.ProviderLocation
	if err := json.Unmarshal(body, &loc); err != nil {
		if errors.Is(err, domain.ErrNoCoordinates) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode provider location: %w", err)
	}
	if loc.Point.IsZero() {
		return nil, nil
	}
	return &loc, nil
}

// accountJSON is the loose shape of user and provider records in auth responses.
type accountJSON struct {
	ID        string `json:"id"`
	MongoID   string `json:"_id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (a accountJSON) account() domain.Account {
	name := a.Name
	if name == "" {
		name = strings.TrimSpace(a.FirstName + " " + a.LastName)
	}
	return domain.Account{
		ID:    firstNonEmpty(a.ID, a.MongoID),
		Name:  name,
		Email: a.Email,
	}
}

// authResponse is the login/signup response. Account fields may sit at the
// top level or under "user" or "provider".
type authResponse struct {
	Token    string       `json:"token"`
	User     *accountJSON `json:"user"`
	Provider *accountJSON `json:"provider"`
	accountJSON
}

func (r authResponse) result() *domain.AuthResult {
	account := r.accountJSON.account()
	for _, nested := range []*accountJSON{r.User, r.Provider} {
		if nested == nil {
			continue
		}
		n := nested.account()
		account.ID = firstNonEmpty(account.ID, n.ID)
		account.Name = firstNonEmpty(account.Name, n.Name)
		account.Email = firstNonEmpty(account.Email, n.Email)
	}
	return &domain.AuthResult{Token: r.Token, Account: account}
}

type errMissingField string

func (e errMissingField) Error() string {
	return fmt.Sprintf("missing %q field", string(e))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
