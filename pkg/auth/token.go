package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// ephemeralTokenBytes gives 256 bits of entropy per token. Possession is the
// only authorization check on these tokens, so the space must be large
// enough that guessing is hopeless and exact-match lookup leaks nothing.
const ephemeralTokenBytes = 32

// generateToken produces a URL-safe single-purpose secret for email
// verification and password reset flows.
func generateToken() (string, error) {
	b := make([]byte, ephemeralTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// randomSuffix produces a short random tag used as the last-resort username
// disambiguator when the timestamp suffix also collides.
func randomSuffix() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate suffix: %w", err)
	}
	return hex.EncodeToString(b), nil
}
