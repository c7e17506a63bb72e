package password

import "errors"

var (
	// ErrEmptyPassword indicates an attempt to hash an empty string.
	ErrEmptyPassword = errors.New("password must not be empty")
)
