package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for service providers",
	Long: `Lists providers matching a free-text query.

Without a query, --category lists one category, and otherwise the providers
nearest to --near (or to your saved location) are shown. A query always
searches every category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List service categories with provider counts",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Show and rate providers",
}

var providerShowCmd = &cobra.Command{
	Use:   "show [provider-id]",
	Short: "Show one provider's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviderShow,
}

var providerRateCmd = &cobra.Command{
	Use:   "rate [provider-id] [1-5]",
	Short: "Rate a provider",
	Long:  `Submits a rating from 1 to 5 stars. Requires a user login.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runProviderRate,
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find your location and save it to your account",
	Long: `Looks up your current position with the configured geolocator and, when
signed in, saves it as your location so 'search' shows nearby providers.`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

var (
	searchCategory string
	searchNear     string
	searchJSON     bool
	categoriesJSON bool
	providerJSON   bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "only list this category")
	searchCmd.Flags().StringVar(&searchNear, "near", "", `origin as "lat,lng"`)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "output categories as JSON")
	providerShowCmd.Flags().BoolVar(&providerJSON, "json", false, "output the provider as JSON")

	providerCmd.AddCommand(providerShowCmd, providerRateCmd)
	rootCmd.AddCommand(searchCmd, categoriesCmd, providerCmd, locateCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if browser == nil {
		return errNotConfigured("browse controller")
	}

	filter := domain.NewFilterState()
	if len(args) == 1 {
		filter.Query = args[0]
	}
	if searchCategory != "" {
		c, ok := domain.FindCategory(domain.DefaultCategories(), searchCategory)
		if !ok {
			return fmt.Errorf("unknown category %q", searchCategory)
		}
		filter.Category = c.ID
	}
	if searchNear != "" {
		p, err := parsePoint(searchNear)
		if err != nil {
			return err
		}
		filter.Origin = &p
	}

	providers, err := browser.Fetch(commandContext(cmd), filter)
	if err != nil {
		return fail("search failed", err)
	}

	if searchJSON {
		return outputJSON(cmd, providers)
	}
	outputProviderTable(cmd, providers)
	return nil
}

func outputProviderTable(cmd *cobra.Command, providers []domain.Provider) {
	if len(providers) == 0 {
		cmd.Println("No providers found.")
		return
	}

	for i := range providers {
		p := &providers[i]
		cmd.Printf("  [%d] %s  ★ %s  %s\n", i+1, p.Name, p.RatingLabel(), p.Category)
		cmd.Printf("      ID: %s\n", p.ID)
		if p.Address != "" {
			cmd.Printf("      %s\n", p.Address)
		}
		if p.Price > 0 {
			cmd.Printf("      From ₹%s\n", formatPrice(p.Price))
		}
	}
	cmd.Printf("\n%d provider(s)\n", len(providers))
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if categoryService == nil {
		return errNotConfigured("category service")
	}

	categories, err := categoryService.Load(commandContext(cmd))
	if err != nil {
		cmd.PrintErrf("Warning: provider counts unavailable: %v\n", fail("load counts", err))
	}

	if categoriesJSON {
		type entry struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Count *int   `json:"count"`
		}
		out := make([]entry, len(categories))
		for i, c := range categories {
			out[i] = entry{ID: c.ID, Name: c.Name, Count: c.Count}
		}
		return outputJSON(cmd, out)
	}

	for _, c := range categories {
		cmd.Printf("  %s %-14s %-16s %s\n", c.Icon, c.ID, c.Name, c.CountLabel())
	}
	return nil
}

func runProviderShow(cmd *cobra.Command, args []string) error {
	if detailService == nil {
		return errNotConfigured("detail service")
	}

	state := detailService.Open(commandContext(cmd), args[0])
	if state.Status != domain.DetailLoaded || state.Provider == nil {
		return fmt.Errorf("no details found for provider %s", args[0])
	}

	if providerJSON {
		return outputJSON(cmd, state.Provider)
	}
	outputProviderDetail(cmd, state.Provider, imageBaseURL())
	return nil
}

func outputProviderDetail(cmd *cobra.Command, p *domain.Provider, imageBase string) {
	cmd.Printf("%s\n", p.Name)
	cmd.Printf("  Category:  %s\n", p.Category)
	cmd.Printf("  Rating:    ★ %s\n", p.RatingLabel())
	if p.Price > 0 {
		cmd.Printf("  Price:     ₹%s\n", formatPrice(p.Price))
	}
	if p.Mobile != "" {
		cmd.Printf("  Mobile:    %s\n", p.Mobile)
	}
	if p.Address != "" {
		cmd.Printf("  Address:   %s\n", p.Address)
	}
	if p.Location != nil {
		cmd.Printf("  Location:  %s\n", p.Location)
	}
	availability := "unavailable"
	if p.Available {
		availability = "available"
	}
	cmd.Printf("  Status:    %s\n", availability)
	if img := p.ImageURL(imageBase); img != "" {
		cmd.Printf("  Image:     %s\n", img)
	}
	if p.Description != "" {
		cmd.Printf("\n  %s\n", p.Description)
	}
}

func runProviderRate(cmd *cobra.Command, args []string) error {
	if detailService == nil {
		return errNotConfigured("detail service")
	}

	rating, err := strconv.Atoi(args[1])
	if err != nil || domain.ValidateRating(rating) != nil {
		return domain.ErrInvalidRating
	}

	ctx := commandContext(cmd)
	state := detailService.Open(ctx, args[0])
	if state.Status != domain.DetailLoaded {
		return fmt.Errorf("no details found for provider %s", args[0])
	}

	avg, err := detailService.Rate(ctx, rating)
	if err != nil {
		return fail("rating failed", err)
	}
	cmd.Printf("Rated %s %d★. New average: %s\n", state.Provider.Name, rating, domain.FormatRating(avg))
	return nil
}

func runLocate(cmd *cobra.Command, _ []string) error {
	if locationService == nil {
		return errNotConfigured("location service")
	}

	p, err := locationService.UseMyLocation(commandContext(cmd))
	if err != nil {
		return fail("locate failed", err)
	}
	cmd.Printf("You are at %s\n", p)
	if sessionService != nil && !sessionService.Current(domain.RoleUser).Authenticated() {
		cmd.Println("Log in to save this location to your account.")
	}
	return nil
}

// parsePoint parses "lat,lng".
func parsePoint(s string) (domain.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Point{}, fmt.Errorf("%w: expected \"lat,lng\", got %q", domain.ErrInvalidInput, s)
	}
	return parseLatLng(parts[0], parts[1])
}

// parseLatLng parses a coordinate pair and checks its range.
func parseLatLng(latText, lngText string) (domain.Point, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("%w: latitude %q", domain.ErrInvalidInput, latText)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngText), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("%w: longitude %q", domain.ErrInvalidInput, lngText)
	}
	p := domain.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return domain.Point{}, fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidInput)
	}
	return p, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// imageBaseURL returns the configured image root, or "".
func imageBaseURL() string {
	if settingsService == nil {
		return ""
	}
	settings, err := settingsService.Get()
	if err != nil {
		return ""
	}
	return settings.API.ImageBaseURL
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
