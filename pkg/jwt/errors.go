package jwt

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned for malformed or structurally invalid tokens.
	ErrInvalidToken = errors.New("token is malformed or invalid")
	// ErrInvalidSignature is returned when signature verification fails.
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrExpiredToken is returned when the token is past its expiration.
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidIssuer is returned on issuer mismatch.
	ErrInvalidIssuer = errors.New("token issuer is invalid")
	// ErrInvalidPermissions is returned when the token audience does not
	// satisfy the required permissions.
	ErrInvalidPermissions = errors.New("token permissions are insufficient")
	// ErrInvalidSubject is returned on subject mismatch.
	ErrInvalidSubject = errors.New("token subject is invalid")
	// ErrInvalidExpiration is returned when an issuance TTL is zero or negative.
	ErrInvalidExpiration = errors.New("token expiration must be positive")
	// ErrSigningFailed is returned when the token cannot be signed or encoded.
	ErrSigningFailed = errors.New("token signing failed")
	// ErrUnsupportedAlgorithm is returned for algorithms outside the
	// HS/RS families.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Error codes attached to validation failures.
const (
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidSignature   = "INVALID_TOKEN_SIGNATURE"
	CodeExpiredToken       = "EXPIRED_TOKEN"
	CodeInvalidIssuer      = "INVALID_TOKEN_ISSUER"
	CodeInvalidPermissions = "INVALID_TOKEN_PERMISSIONS"
	CodeInvalidSubject     = "INVALID_TOKEN_SUBJECT"
)

// ValidationError decorates a sentinel error with a machine-readable code
// and structured metadata for the HTTP layer.
type ValidationError struct {
	Code string
	Meta map[string]any

	err error
}

func newValidationError(sentinel error, code string, meta map[string]any) *ValidationError {
	return &ValidationError{Code: code, Meta: meta, err: sentinel}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.err.Error())
}

func (e *ValidationError) Unwrap() error { return e.err }
