package bff

import (
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
)

// CodeOf classifies a client error for the toast and status mapping.
func CodeOf(err error) pkgerrors.Code {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnauthorized) {
		return pkgerrors.CodeUnauthorized
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code()
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return pkgerrors.CodeDependency
}

// Wrap attaches a user-facing message to a failed call while keeping the
// upstream classification. The cause stays reachable through errors.Is.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(CodeOf(err), err, message)
}

// WrapServerMessage is Wrap, except that a client error (4xx) carrying a
// server message surfaces that message instead of fallback.
func WrapServerMessage(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError && apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.Status) {
		return pkgerrors.Wrap(apiErr.Code(), err, apiErr.Message)
	}
	return Wrap(err, fallback)
}
