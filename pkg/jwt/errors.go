package jwt

import "errors"

var (
	// ErrMissingSigningKey indicates the service was constructed without a signing key.
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	// ErrSigningKeyTooShort indicates the signing key does not meet the minimum length.
	ErrSigningKeyTooShort = errors.New("jwt: signing key must be at least 32 bytes")
	// ErrTokenExpired indicates a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = errors.New("jwt: token expired")
	// ErrTokenInvalid indicates a malformed token or a signature mismatch.
	ErrTokenInvalid = errors.New("jwt: invalid token")
)
