// Package forms holds the input forms shared by the CLI, the TUI and the MCP
// server, with field validation and user-facing error text.
package forms
