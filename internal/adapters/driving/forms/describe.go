package forms

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// User-facing failure messages.
const (
	MsgAccountExists  = "An account with this email already exists."
	MsgCheckInput     = "Please check your information and try again."
	MsgTimeout        = "Request timed out. Please check your connection and try again."
	MsgNetwork        = "Network error. Please check your connection and try again."
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgLoginRequired  = "Please log in first."
	MsgGeneric        = "An error occurred. Please try again."
)

// serverMessager is implemented by backend errors that carry the server's text.
type serverMessager interface {
	ServerMessage() string
}

// Describe turns err into a message suitable for a status line.
// Validation failures and server-provided messages are shown as is.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var sm serverMessager
	if errors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return MsgTimeout
	case errors.Is(err, domain.ErrConflict):
		return MsgAccountExists
	case errors.Is(err, domain.ErrInvalidInput):
		return MsgCheckInput
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, domain.ErrAuthRequired):
		return MsgLoginRequired
	case errors.Is(err, domain.ErrLocationDenied),
		errors.Is(err, domain.ErrLocationUnavailable),
		errors.Is(err, domain.ErrGeocoderUnavailable),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrNoProviderOpen):
		return capitalise(rootMessage(err))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return MsgNetwork
	}
	return MsgGeneric
}

// rootMessage returns the message of the domain sentinel wrapped by err.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrLocationDenied,
		domain.ErrLocationUnavailable,
		domain.ErrGeocoderUnavailable,
		domain.ErrInvalidRating,
		domain.ErrNoProviderOpen,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
