// Package file provides the TOML configuration store.
//
// Keys are dot-separated ("api.base_url") and are written as TOML tables, so
// the file on disk reads:
//
//	[api]
//	base_url = "http://localhost:3000/api"
package file
