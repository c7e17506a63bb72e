package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fundscope/authd/pkg/email"
	"github.com/fundscope/authd/pkg/jwt"
	"github.com/fundscope/authd/pkg/logger"
	"github.com/fundscope/authd/pkg/password"
	"github.com/fundscope/authd/pkg/ratelimiter"
)

// minPasswordLength is the only strength rule enforced on passwords.
const minPasswordLength = 6

// Identity orchestrates account registration, authentication, and credential
// lifecycle over the storage interfaces.
type Identity interface {
	Register(ctx context.Context, username, plaintext, emailAddr string) (*Account, error)
	LoginWithPassword(ctx context.Context, identifier, plaintext string, rememberMe bool) (*Session, error)
	LoginWithOAuth(ctx context.Context, profile ProviderProfile, session ProviderSession) (*Session, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*Account, error)
	VerifyEmail(ctx context.Context, token string) (*Account, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error
	SetPassword(ctx context.Context, accountID uuid.UUID, newPassword string) error
	UnlinkOAuth(ctx context.Context, accountID uuid.UUID, provider string) error
	DeleteAccount(ctx context.Context, accountID uuid.UUID, plaintext, confirmation string) (string, error)
	Profile(ctx context.Context, accountID uuid.UUID) (*Profile, error)
}

type service struct {
	accounts AccountStore
	links    OAuthLinkStore
	codec    *password.Codec
	tokens   *jwt.Service
	mailer   *email.Mailer
	limiter  ratelimiter.RateLimiter
	logger   *slog.Logger

	resetTokenTTL time.Duration
	now           func() time.Time
}

// Option configures the identity service during construction.
type Option func(*service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *service) {
		s.logger = l
	}
}

// WithMailer attaches the email capability. Without it, verification and
// reset tokens are still issued and stored; only delivery is skipped.
func WithMailer(m *email.Mailer) Option {
	return func(s *service) {
		s.mailer = m
	}
}

// WithPasswordCodec overrides the password codec, mainly to lower the bcrypt
// cost in tests.
func WithPasswordCodec(c *password.Codec) Option {
	return func(s *service) {
		s.codec = c
	}
}

// WithRateLimiter throttles registration and password login attempts.
// Without it, no limit is applied; ratelimiter.LoginConfig carries the
// standard five-per-minute preset.
func WithRateLimiter(rl ratelimiter.RateLimiter) Option {
	return func(s *service) {
		s.limiter = rl
	}
}

// WithResetTokenTTL sets the lifetime of password reset tokens.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.resetTokenTTL = ttl
	}
}

// WithClock overrides the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates the identity service. Defaults: bcrypt default cost,
// one hour reset token TTL, discard logger, no mailer.
func NewService(accounts AccountStore, links OAuthLinkStore, tokens *jwt.Service, opts ...Option) Identity {
	s := &service{
		accounts:      accounts,
		links:         links,
		codec:         password.NewCodec(),
		tokens:        tokens,
		logger:        logger.NewDiscard(),
		resetTokenTTL: 1 * time.Hour,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// allowAttempt consults the optional rate limiter. The limiter is a guard,
// not a dependency: an unreachable limiter store logs a warning and lets the
// attempt through rather than locking every caller out.
func (s *service) allowAttempt(ctx context.Context, key string) error {
	if s.limiter == nil {
		return nil
	}
	result, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "rate limiter unavailable",
			logger.Error(err),
			logger.Component("identity"),
		)
		return nil
	}
	if !result.Allowed() {
		return ErrTooManyAttempts
	}
	return nil
}

// validateNewPassword applies the single length rule shared by every path
// that installs a password.
func validateNewPassword(plaintext string) error {
	if len(plaintext) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
