package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signingMethod is fixed to HMAC-SHA256. The parser rejects tokens signed
// with any other algorithm to prevent algorithm confusion attacks.
var signingMethod = jwt.SigningMethodHS256

// Config holds token service configuration.
type Config struct {
	SigningKey  string        `env:"JWT_SIGNING_KEY,required"`
	AccessTTL   time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	ExtendedTTL time.Duration `env:"JWT_EXTENDED_TTL" envDefault:"720h"` // "remember me" sessions
}

// Claims is the payload embedded in every issued bearer token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies bearer tokens with a process-wide symmetric key.
// The key is loaded once at construction and never rotated at runtime, so the
// service is safe for concurrent use without synchronization.
type Service struct {
	signingKey  []byte
	accessTTL   time.Duration
	extendedTTL time.Duration
	parser      *jwt.Parser
	lax         *jwt.Parser // signature-checked, expiry ignored; used by Reissue
}

// New creates a token service from the given configuration.
// Keys shorter than 32 bytes are rejected outright rather than warned about.
func New(cfg Config) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	if len(cfg.SigningKey) < 32 {
		return nil, ErrSigningKeyTooShort
	}

	s := &Service{
		signingKey:  []byte(cfg.SigningKey),
		accessTTL:   cfg.AccessTTL,
		extendedTTL: cfg.ExtendedTTL,
		parser:      jwt.NewParser(jwt.WithValidMethods([]string{signingMethod.Alg()})),
		lax: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	if s.accessTTL <= 0 {
		s.accessTTL = 24 * time.Hour
	}
	if s.extendedTTL <= 0 {
		s.extendedTTL = 30 * 24 * time.Hour
	}
	return s, nil
}

// Issue creates a signed token for the given identity. The extended TTL is
// selected when rememberMe is set, matching the login "remember me" flag.
func (s *Service) Issue(userID, username, role string, rememberMe bool) (string, time.Time, error) {
	ttl := s.accessTTL
	if rememberMe {
		ttl = s.extendedTTL
	}
	return s.issue(userID, username, role, ttl)
}

// IssueExtended creates a signed token with the extended TTL regardless of
// any flag. OAuth logins always get long-lived sessions.
func (s *Service) IssueExtended(userID, username, role string) (string, time.Time, error) {
	return s.issue(userID, username, role, s.extendedTTL)
}

func (s *Service) issue(userID, username, role string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify validates a token and returns its claims. The error distinguishes
// a correctly signed but expired token (ErrTokenExpired) from a malformed or
// tampered one (ErrTokenInvalid); callers branch on this to decide whether a
// refresh flow is legitimate.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Reissue re-signs the identity carried by a token with a fresh access TTL,
// ignoring the expiry check so that recently expired sessions can be renewed.
// The signature is still fully verified: a tampered token is never honored.
func (s *Service) Reissue(tokenString string) (string, time.Time, error) {
	claims := &Claims{}
	if _, err := s.lax.ParseWithClaims(tokenString, claims, s.keyFunc); err != nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	return s.issue(claims.UserID, claims.Username, claims.Role, s.accessTTL)
}

func (s *Service) keyFunc(token *jwt.Token) (any, error) {
	return s.signingKey, nil
}
