package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Error is a server-reported failure: the backend answered with a non-2xx
// status and, usually, a structured message. Transport failures (request
// never reached the server, unreadable response) are plain wrapped errors.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// newError extracts the server's message from an error body. Auth endpoints
// report under "message", survey endpoints under "error".
func newError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	e := &Error{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			e.Message = payload.Message
		} else {
			e.Message = payload.Err
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

// IsUnauthorized reports whether err is a server rejection with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
