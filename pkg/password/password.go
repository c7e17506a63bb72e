package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Codec hashes and verifies passwords. The zero value is not usable;
// construct with NewCodec.
type Codec struct {
	cost int
}

// Option configures a Codec during construction.
type Option func(*Codec)

// WithCost sets the bcrypt cost factor. Values outside the bcrypt
// supported range fall back to the library default at hash time.
func WithCost(cost int) Option {
	return func(c *Codec) {
		c.cost = cost
	}
}

// NewCodec creates a password codec with bcrypt defaults.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hash returns a salted bcrypt hash of the plaintext. Each call uses a
// fresh random salt, so hashing the same input twice yields different blobs.
func (c *Codec) Hash(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether plaintext matches the stored hash.
// Malformed or empty hashes verify as false rather than erroring,
// so callers can treat absent credentials as a plain mismatch.
func (c *Codec) Verify(plaintext string, hash []byte) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}
