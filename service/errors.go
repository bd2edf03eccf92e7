// file: service/errors.go

package service

import "errors"

// ErrVerificationFailed is returned for every token that cannot be trusted:
// malformed, wrongly signed, unsupported algorithm, expired or not yet
// valid. The cause is deliberately not exposed.
var ErrVerificationFailed = errors.New("token verification failed")

// AuthenticationError means the credential did not resolve to an identity.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// AuthorizationError means the identity's role is not allowed.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "authorization failed: " + e.Reason
}

var (
	ErrInvalidOrExpiredToken = &AuthenticationError{Reason: "invalid_or_expired"}
	ErrMissingClaims         = &AuthenticationError{Reason: "missing_claims"}
	ErrForbidden             = &AuthorizationError{Reason: "forbidden"}
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrNicknameAlreadyExists = errors.New("nickname already exists")
	ErrInvalidCredentials    = errors.New("incorrect email or password")
	ErrAccountLocked         = errors.New("account locked due to too many failed login attempts")
)
