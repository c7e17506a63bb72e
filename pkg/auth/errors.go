package auth

import "errors"

// General errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Registration and login errors
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrEmailTaken       = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown identifier, missing password,
	// and hash mismatch alike; callers must not distinguish them.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many attempts, try again later")
)

// Ephemeral token errors
var (
	ErrTokenNotFound         = errors.New("token not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// Password lifecycle errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordUnchanged  = errors.New("new password must be different from current password")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrAlreadyHasPassword = errors.New("account already has a password")
)

// OAuth errors
var (
	ErrProviderLinked         = errors.New("provider identity already linked to an account")
	ErrLinkNotFound           = errors.New("no provider link found")
	ErrOnlyLoginMethod        = errors.New("cannot unlink the only login method: set a password first")
	ErrProviderExchangeFailed = errors.New("provider code exchange failed")
)

// Account deletion errors
var (
	ErrConfirmationMismatch = errors.New(`confirmation phrase must be "DELETE"`)
)
