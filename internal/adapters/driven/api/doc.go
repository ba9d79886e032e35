// Package api implements the marketplace REST client.
//
// One Client serves the public, end-user and provider endpoints. Requests on
// a role's endpoints carry that role's bearer token through an oauth2
// transport, and a 401 on them clears the role's session through the
// OnUnauthorized hook.
package api
