package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies a normalized API error.
type Kind string

const (
	// KindAuth covers rejected credentials, duplicate registrations, and
	// expired or invalid tokens. Never retried automatically.
	KindAuth Kind = "auth"
	// KindValidation covers failures caught before any network call.
	KindValidation Kind = "validation"
	// KindTransport covers network failures, timeouts, malformed responses,
	// and any other non-success status.
	KindTransport Kind = "transport"
)

const fallbackMessage = "Request failed"

// Error is the single normalized error carried out of every API call.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for pre-response failures
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsAuth reports whether err is a normalized auth error.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsNotFound reports whether err carries a 404 status. The poller treats this
// the same as any other failed attempt; it exists for callers that want to
// render "not ready" differently.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ValidationError builds a local validation failure that never touched the network.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// errorBody matches the shapes the backend is known to produce.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// normalizeStatus converts a non-success response into an Error, drawing the
// message from the structured detail field, then the structured message field,
// then a generic fallback.
func normalizeStatus(status int, body []byte) *Error {
	message := fallbackMessage
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Detail != "":
			message = parsed.Detail
		case parsed.Message != "":
			message = parsed.Message
		case parsed.Error.Message != "":
			message = parsed.Error.Message
		}
	}

	kind := KindTransport
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
		kind = KindAuth
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// normalizeTransport wraps a transport-layer failure.
func normalizeTransport(err error) *Error {
	message := fallbackMessage
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &Error{Kind: KindTransport, Message: message}
}
