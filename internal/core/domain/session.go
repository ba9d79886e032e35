package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role distinguishes the two independent sessions a client may hold.
type Role string

// Session roles.
const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
)

// Roles returns every role in a stable order.
func Roles() []Role {
	return []Role{RoleUser, RoleProvider}
}

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleProvider
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// TokenKey is the storage key holding the role's bearer token.
func (r Role) TokenKey() string {
	if r == RoleProvider {
		return "providerToken"
	}
	return "token"
}

// ProfileKey is the storage key holding the role's cached account JSON.
func (r Role) ProfileKey() string {
	if r == RoleProvider {
		return "provider"
	}
	return "user"
}

// Account identifies the person behind a session.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is an authenticated session for one role.
type Session struct {
	Role      Role      `json:"role"`
	Account   Account   `json:"account"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Credentials are the login form inputs.
type Credentials struct {
	Email    string
	Password string
}

// AuthResult is what the backend returns on login or signup.
// Account fields are optional; callers fall back to the submitted input.
type AuthResult struct {
	Token   string
	Account Account
}

// UserSignup is the end-user registration form.
type UserSignup struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// FullName joins first and last name with a single space.
func (u UserSignup) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Username derives the account username from the email's local part.
func (u UserSignup) Username() string {
	return UsernameFromEmail(u.Email)
}

// ProviderSignup is the provider registration form.
type ProviderSignup struct {
	Email    string
	Password string
}

// UsernameFromEmail returns the part of email before '@'.
func UsernameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// NameFromEmail is the display-name fallback used when the backend omits one.
func NameFromEmail(email string) string {
	local := UsernameFromEmail(email)
	if local == "" {
		return ""
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// PasswordCheck reports which password strength rules are satisfied.
type PasswordCheck struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// CheckPassword evaluates pw against the strength rules.
func CheckPassword(pw string) PasswordCheck {
	var c PasswordCheck
	c.Length = len([]rune(pw)) >= MinPasswordLength
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= '0' && r <= '9':
			c.Number = true
		}
	}
	return c
}

// Met returns true when every rule holds.
func (c PasswordCheck) Met() bool {
	return c.Length && c.Uppercase && c.Lowercase && c.Number
}

// Missing lists the unmet rules in human-readable form.
func (c PasswordCheck) Missing() []string {
	var out []string
	if !c.Length {
		out = append(out, fmt.Sprintf("at least %d characters", MinPasswordLength))
	}
	if !c.Uppercase {
		out = append(out, "an uppercase letter")
	}
	if !c.Lowercase {
		out = append(out, "a lowercase letter")
	}
	if !c.Number {
		out = append(out, "a number")
	}
	return out
}
