// Package auth adapts stored sessions to HTTP bearer authentication and
// inspects session tokens.
package auth
