// Package apperr centralizes the service error taxonomy and its HTTP mapping,
// so handlers never hand-pick status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindUnexpected is the catch-all for failures with no better home.
	KindUnexpected Kind = iota
	// KindValidation covers malformed or missing input.
	KindValidation
	// KindAuthentication covers missing or invalid caller identity.
	KindAuthentication
	// KindAuthorization covers authenticated callers acting outside their rights.
	KindAuthorization
	// KindNotFound covers absent referenced entities.
	KindNotFound
	// KindPersistence covers durable-store failures. The store's message is
	// passed through and surfaced as a 400, matching the legacy edge functions.
	KindPersistence
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error     { return &Error{Kind: KindValidation, Message: msg} }
func Authentication(msg string) error { return &Error{Kind: KindAuthentication, Message: msg} }
func Authorization(msg string) error  { return &Error{Kind: KindAuthorization, Message: msg} }
func NotFound(msg string) error       { return &Error{Kind: KindNotFound, Message: msg} }

// Persistence wraps a store error, keeping its message visible.
func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Message: "storage failure", Err: err}
}

// KindOf extracts the kind of an error, defaulting to KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// HTTPStatus maps an error onto its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindPersistence:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the error text exposed to clients. Unexpected failures get
// a generic message; everything else keeps its own.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindPersistence && e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
	return "unexpected error"
}
