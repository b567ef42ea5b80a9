package session

import "errors"

var (
	// ErrUnsupportedType is returned when a token operation is attempted
	// for a type with no signing profile (e.g. anonymous).
	ErrUnsupportedType = errors.New("session: unsupported session type")

	// ErrEncryptionKeyRequired is returned when an api token carries
	// secureData without an explicit encryption key.
	ErrEncryptionKeyRequired = errors.New("session: api tokens with secureData require an encryption key")

	// ErrAccessTokenTTL is returned when an access token expiration
	// exceeds the one-hour cap.
	ErrAccessTokenTTL = errors.New("session: access token expiration exceeds 1h")

	// ErrRefreshTokenTTL is returned when a refresh token expiration is
	// shorter than a day.
	ErrRefreshTokenTTL = errors.New("session: refresh token expiration is too short")

	// ErrMissingRefreshToken is returned when neither the arguments nor
	// the request cookies carry a refresh token.
	ErrMissingRefreshToken = errors.New("session: refresh token is missing")

	// ErrNotRefreshToken is returned when an access token is presented
	// where a refresh token is required.
	ErrNotRefreshToken = errors.New("session: token does not embed access options")

	// ErrTokenRevoked is returned when the presented token is blocklisted.
	ErrTokenRevoked = errors.New("The provided token has been revoked or is blocklisted.")
)
