package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// defaultLimit caps search results when the caller gives no limit.
const defaultLimit = 20

// SearchInput is the input schema for the search_providers tool.
type SearchInput struct {
	Query    string   `json:"query,omitempty" jsonschema:"free text matched against provider names and services; overrides category"`
	Category string   `json:"category,omitempty" jsonschema:"category id or name, e.g. plumbers"`
	Lat      *float64 `json:"lat,omitempty" jsonschema:"latitude to search near"`
	Lng      *float64 `json:"lng,omitempty" jsonschema:"longitude to search near"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// SearchOutput is the output schema for the search_providers tool.
type SearchOutput struct {
	Providers []ProviderOutput `json:"providers"`
	Count     int              `json:"count"`
	Total     int              `json:"total"`
}

// ProviderOutput is a provider as returned to the assistant.
type ProviderOutput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Rating      string   `json:"rating"`
	Price       float64  `json:"price,omitempty"`
	Address     string   `json:"address,omitempty"`
	Mobile      string   `json:"mobile,omitempty"`
	Description string   `json:"description,omitempty"`
	Available   bool     `json:"available"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// ProviderInput identifies one provider.
type ProviderInput struct {
	ID string `json:"id" jsonschema:"the provider id"`
}

// RateInput is the input schema for the rate_provider tool.
type RateInput struct {
	ID     string `json:"id" jsonschema:"the provider id"`
	Rating int    `json:"rating" jsonschema:"stars from 1 to 5"`
}

// RateOutput reports the provider's new average.
type RateOutput struct {
	ID      string `json:"id"`
	Rating  int    `json:"rating"`
	Average string `json:"average"`
}

// CategoryOutput is one category with its provider count.
type CategoryOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count *int   `json:"count"`
}

// CategoriesOutput is the output schema for the category_counts tool.
type CategoriesOutput struct {
	Categories []CategoryOutput `json:"categories"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_providers",
		Description: "Search local service providers by text, category or location",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_provider",
		Description: "Get the full details of one provider",
	}, s.handleGetProvider)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rate_provider",
		Description: "Rate a provider from 1 to 5 stars as the logged-in user",
	}, s.handleRate)

	if s.ports.Categories != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "category_counts",
			Description: "List service categories with how many providers each has",
		}, s.handleCategories)
	}
}

// handleSearch handles the search_providers tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filter := domain.NewFilterState()
	filter.Query = input.Query
	if input.Category != "" {
		c, ok := domain.FindCategory(domain.DefaultCategories(), input.Category)
		if !ok {
			return nil, SearchOutput{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
		}
		filter.Category = c.ID
	}
	if (input.Lat == nil) != (input.Lng == nil) {
		return nil, SearchOutput{}, fmt.Errorf("%w: lat and lng must be given together", domain.ErrInvalidInput)
	}
	if input.Lat != nil {
		origin := domain.Point{Lat: *input.Lat, Lng: *input.Lng}
		if !origin.Valid() {
			return nil, SearchOutput{}, fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidInput)
		}
		filter.Origin = &origin
	}

	providers, err := s.ports.Browser.Fetch(ctx, filter)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("searching providers: %w", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	output := SearchOutput{Total: len(providers)}
	if len(providers) > limit {
		providers = providers[:limit]
	}
	output.Providers = make([]ProviderOutput, len(providers))
	for i := range providers {
		output.Providers[i] = s.toOutput(&providers[i], filter.Origin)
	}
	output.Count = len(output.Providers)

	return nil, output, nil
}

// handleGetProvider handles the get_provider tool invocation.
func (s *Server) handleGetProvider(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProviderInput,
) (*mcp.CallToolResult, ProviderOutput, error) {
	p, err := s.provider(ctx, input.ID)
	if err != nil {
		return nil, ProviderOutput{}, err
	}
	return nil, s.toOutput(p, nil), nil
}

// handleRate handles the rate_provider tool invocation.
func (s *Server) handleRate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RateInput,
) (*mcp.CallToolResult, RateOutput, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, RateOutput{}, err
	}

	s.detailMu.Lock()
	defer s.detailMu.Unlock()
	defer s.ports.Detail.Close()

	state := s.ports.Detail.Open(ctx, input.ID)
	if state.Status != domain.DetailLoaded {
		return nil, RateOutput{}, fmt.Errorf("provider %s: %w", input.ID, domain.ErrNotFound)
	}
	avg, err := s.ports.Detail.Rate(ctx, input.Rating)
	if err != nil {
		return nil, RateOutput{}, fmt.Errorf("rating provider: %w", err)
	}
	return nil, RateOutput{ID: input.ID, Rating: input.Rating, Average: domain.FormatRating(avg)}, nil
}

// handleCategories handles the category_counts tool invocation.
func (s *Server) handleCategories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CategoriesOutput, error) {
	return nil, CategoriesOutput{Categories: s.categories(ctx)}, nil
}

// provider fetches one provider through the detail service.
func (s *Server) provider(ctx context.Context, id string) (*domain.Provider, error) {
	s.detailMu.Lock()
	defer s.detailMu.Unlock()
	defer s.ports.Detail.Close()

	state := s.ports.Detail.Open(ctx, id)
	if state.Status != domain.DetailLoaded || state.Provider == nil {
		return nil, fmt.Errorf("provider %s: %w", id, domain.ErrNotFound)
	}
	p := *state.Provider
	return &p, nil
}

// categories loads the counts. A failed load still lists the categories.
func (s *Server) categories(ctx context.Context) []CategoryOutput {
	cats, err := s.ports.Categories.Load(ctx)
	if err != nil {
		cats = s.ports.Categories.Categories()
	}
	out := make([]CategoryOutput, len(cats))
	for i, c := range cats {
		out[i] = CategoryOutput{ID: c.ID, Name: c.Name, Count: c.Count}
	}
	return out
}

func (s *Server) toOutput(p *domain.Provider, origin *domain.Point) ProviderOutput {
	out := ProviderOutput{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Rating:      p.RatingLabel(),
		Price:       p.Price,
		Address:     p.Address,
		Mobile:      p.Mobile,
		Description: p.Description,
		Available:   p.Available,
		ImageURL:    p.ImageURL(s.ports.ImageBaseURL),
	}
	if p.Location != nil {
		lat, lng := p.Location.Lat, p.Location.Lng
		out.Lat, out.Lng = &lat, &lng
		if origin != nil {
			d := origin.DistanceKm(*p.Location)
			out.DistanceKm = &d
		}
	}
	return out
}
