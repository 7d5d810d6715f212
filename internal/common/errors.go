// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these
// values: every specific error wraps exactly one of the kind errors.
package common

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorConflict     = errors.New("conflict")
	ErrorNotFound     = errors.New("not found")
	ErrorInternal     = errors.New("internal error")
)

// Validation errors.
var (
	ErrEmptyText          = fmt.Errorf("%w: task is required", ErrorValidation)
	ErrNoFieldsToUpdate   = fmt.Errorf("%w: nothing to update", ErrorValidation)
	ErrMissingTaskID      = fmt.Errorf("%w: todo id is required", ErrorValidation)
	ErrMissingCredentials = fmt.Errorf("%w: email and password are required", ErrorValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password is too long", ErrorValidation)
)

// Auth errors.
var (
	ErrUnauthenticated     = fmt.Errorf("%w: authentication required", ErrorUnauthorized)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrorUnauthorized)
	ErrInvalidToken        = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired        = fmt.Errorf("%w: token expired", ErrorUnauthorized)
	ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", ErrorUnauthorized)
)

// Conflict errors.
var (
	ErrDuplicateEmail = fmt.Errorf("%w: email is already registered", ErrorConflict)
)

// Kind returns the kind error err belongs to, or ErrorInternal when err
// matches none of them. Kind(nil) is nil.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range []error{ErrorValidation, ErrorUnauthorized, ErrorConflict, ErrorNotFound} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrorInternal
}
