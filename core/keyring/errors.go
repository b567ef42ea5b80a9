package keyring

import "errors"

var (
	// ErrKeyNotFound is returned when no key material exists for the
	// requested name. This is a configuration fault; guards surface it as
	// an internal server error.
	ErrKeyNotFound = errors.New("keyring: key not found in environment")

	// ErrInvalidKeyMaterial is returned when asymmetric key material is not
	// valid base64.
	ErrInvalidKeyMaterial = errors.New("keyring: invalid base64 key material")

	// ErrInvalidRotationCycle is returned when JWK_ROTATION_CYCLE cannot be
	// parsed.
	ErrInvalidRotationCycle = errors.New("keyring: invalid rotation cycle")
)
