package service

import (
	"errors"
	"fmt"

	"github.com/vbonduro/guides/internal/store"
)

// Error kinds. The web layer maps each to an HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid request")
)

// Error is a failure with a message safe to show to API callers.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error  { return newError(ErrNotFound, format, args...) }
func forbidden(format string, args ...any) error { return newError(ErrForbidden, format, args...) }
func invalid(format string, args ...any) error   { return newError(ErrInvalid, format, args...) }

var (
	errGuideNotFound = notFound("guide not found")
	errUserNotFound  = notFound("user not found")
	errBadLogin      = newError(ErrUnauthorized, "invalid username or password")
	errInactive      = forbidden("account is banned or deactivated")
)

// storeErr converts store sentinels into service kinds so callers only need
// to check one set of errors.
func storeErr(err error, notFoundErr error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFoundErr
	case errors.Is(err, store.ErrConflict):
		return newError(ErrConflict, "conflicting write")
	}
	return err
}
