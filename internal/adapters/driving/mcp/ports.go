package mcp

import (
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Browser runs one-off provider queries.
	Browser driving.Browser

	// Detail fetches and rates single providers.
	Detail driving.DetailService

	// Categories provides category counts. Optional.
	Categories driving.CategoryService

	// ImageBaseURL resolves relative profile images.
	ImageBaseURL string

	// Version is reported to clients. Empty means DefaultVersion.
	Version string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Browser == nil {
		return ErrMissingBrowser
	}
	if p.Detail == nil {
		return ErrMissingDetailService
	}
	return nil
}
