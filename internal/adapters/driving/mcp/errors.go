// Package mcp provides an MCP (Model Context Protocol) server adapter for localfinder.
// It lets AI assistants search providers, read their details and rate them.
package mcp

import "errors"

var (
	// ErrMissingBrowser is returned when the browse controller is not provided.
	ErrMissingBrowser = errors.New("mcp: browser is required")

	// ErrMissingDetailService is returned when the detail service is not provided.
	ErrMissingDetailService = errors.New("mcp: detail service is required")
)
