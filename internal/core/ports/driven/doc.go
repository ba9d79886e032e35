// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AuthAPI: Public login and signup endpoints
//   - UserAPI: End-user endpoints (listing, detail, rating, user location)
//   - ProviderAPI: Provider endpoints (own profile, own location)
//   - KeyValueStore: Durable client storage for tokens and cached accounts
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - StorageWatcher: Change notifications for KeyValueStore keys. Without it,
//     token changes made by another process are not observed.
//   - Geolocator: Position lookup. Without it, "use my location" is unavailable.
//   - Geocoder: Reverse geocoding and place search. Without it, picked
//     coordinates are labelled with their numeric value.
//   - TokenInspector: Token expiry inspection. Without it, stored tokens are
//     trusted until the backend rejects them.
//   - MapSurface: A drawable map. Map sync tracks state without one.
package driven
