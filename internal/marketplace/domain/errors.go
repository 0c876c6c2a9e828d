package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("action forbidden")
	ErrBackend           = errors.New("backend failure")
	ErrPartialFailure    = errors.New("partial failure")

	ErrListingNotFound  = fmt.Errorf("listing %w", ErrNotFound)
	ErrProfileNotFound  = fmt.Errorf("profile %w", ErrNotFound)
	ErrNotFavorited     = fmt.Errorf("favorite %w", ErrNotFound)
	ErrAlreadyFavorited = fmt.Errorf("favorite %w", ErrDuplicate)
)

// BackendError wraps an opaque failure reported by an external store.
func BackendError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrBackend, op, err)
}

// PartialFailureError reports a multi-step workflow that stopped after some
// steps had already been applied.
type PartialFailureError struct {
	Step            string
	Cause           error
	CompensationErr error
}

func (e *PartialFailureError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("partial failure at %s: %v (compensation failed: %v)", e.Step, e.Cause, e.CompensationErr)
	}
	return fmt.Sprintf("partial failure at %s: %v", e.Step, e.Cause)
}

func (e *PartialFailureError) Unwrap() error { return e.Cause }

func (e *PartialFailureError) Is(target error) bool { return target == ErrPartialFailure }

type AuthErrorCode string

const (
	AuthEmailInUse         AuthErrorCode = "email_in_use"
	AuthInvalidEmail       AuthErrorCode = "invalid_email"
	AuthWeakPassword       AuthErrorCode = "weak_password"
	AuthAccountDisabled    AuthErrorCode = "account_disabled"
	AuthInvalidCredentials AuthErrorCode = "invalid_credentials"
	AuthNoCurrentUser      AuthErrorCode = "no_current_user"
	AuthUnknown            AuthErrorCode = "unknown"
)

var authMessages = map[AuthErrorCode]string{
	AuthEmailInUse:         "email address is already in use",
	AuthInvalidEmail:       "invalid email address",
	AuthWeakPassword:       "password is too weak",
	AuthAccountDisabled:    "account has been disabled",
	AuthInvalidCredentials: "email or password is incorrect",
	AuthNoCurrentUser:      "no authenticated user",
	AuthUnknown:            "authentication failed",
}

// AuthError is the identity gateway failure. Two AuthErrors match under
// errors.Is when their codes are equal.
type AuthError struct {
	Code AuthErrorCode
	Err  error
}

func NewAuthError(code AuthErrorCode, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

// Message is the client-safe text for the code, without the cause.
func (e *AuthError) Message() string {
	if msg, ok := authMessages[e.Code]; ok {
		return msg
	}
	return authMessages[AuthUnknown]
}

func (e *AuthError) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

var (
	ErrEmailInUse         = &AuthError{Code: AuthEmailInUse}
	ErrInvalidEmail       = &AuthError{Code: AuthInvalidEmail}
	ErrWeakPassword       = &AuthError{Code: AuthWeakPassword}
	ErrAccountDisabled    = &AuthError{Code: AuthAccountDisabled}
	ErrInvalidCredentials = &AuthError{Code: AuthInvalidCredentials}
	ErrNoCurrentUser      = &AuthError{Code: AuthNoCurrentUser}
	ErrAuthUnknown        = &AuthError{Code: AuthUnknown}
)
