// Package env overlays environment variables on another configuration store.
//
// Every key can be overridden with LOCALFINDER_<KEY>, where the key is
// upper-cased and dots become underscores (api.timeout_seconds is read from
// LOCALFINDER_API_TIMEOUT_SECONDS). A few keys also have short names and the
// names used by the web front-end's build, so an existing .env file works
// unchanged.
package env
