package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// Error is a non-2xx response from the backend.
type Error struct {
	// Method and Path identify the request.
	Method string
	Path   string

	// Status is the HTTP status code.
	Status int

	// Message is the server's "message" or "error" field, if present.
	Message string

	// Err is the matching domain error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, msg, e.Status)
}

// Unwrap returns the matching domain error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ServerMessage returns the message the backend sent, or "".
func (e *Error) ServerMessage() string {
	return e.Message
}

// newError builds an Error from a response body.
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status, Message: serverMessage(body)}
	switch status {
	case http.StatusUnauthorized:
		e.Err = domain.ErrUnauthorized
	case http.StatusNotFound:
		e.Err = domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Err = domain.ErrInvalidInput
	case http.StatusConflict:
		e.Err = domain.ErrConflict
	}
	return e
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
