package driven

import "time"

// TokenInspector reads metadata from bearer tokens without verifying them.
type TokenInspector interface {
	// Expiry returns the token's expiry time. ok is false when the token
	// carries no expiry or cannot be parsed.
	Expiry(token string) (expiry time.Time, ok bool)

	// Subject returns the account identifier the token was issued for, or "".
	Subject(token string) string
}
