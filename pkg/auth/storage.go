package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore is the durable record of identity, one row per account.
//
// Every method is a single atomic unit against the backing store. The
// Consume* methods in particular combine lookup, clearing, and the dependent
// flag or hash write in one operation, so of two concurrent consumers of the
// same token exactly one succeeds and the other observes ErrTokenNotFound.
//
// Implementations map uniqueness violations to ErrUsernameTaken or
// ErrEmailTaken, absent rows to ErrAccountNotFound or ErrTokenNotFound, and
// any transient backend fault to a wrapped ErrStorageUnavailable.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// TouchLastLogin records a successful authentication.
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// UpdatePasswordHash replaces the stored hash and, in the same unit,
	// sets has_password true and oauth_only false.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error

	// SetVerificationToken overwrites any outstanding verification token.
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error

	// ConsumeVerificationToken clears the token and flips email_verified
	// true as one unit, returning the affected account.
	ConsumeVerificationToken(ctx context.Context, token string) (*Account, error)

	// SetResetToken overwrites any outstanding reset token together with
	// its expiry.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// ConsumeResetToken atomically matches an unexpired reset token, clears
	// it, and installs the new password hash (setting has_password true and
	// oauth_only false). Expired or already-consumed tokens yield
	// ErrTokenNotFound and no mutation.
	ConsumeResetToken(ctx context.Context, token string, newHash []byte, now time.Time) (*Account, error)

	// DeleteAccount removes the account; provider links cascade.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// OAuthLinkStore maps provider identities to accounts.
type OAuthLinkStore interface {
	GetLink(ctx context.Context, provider, providerUserID string) (*OAuthLink, error)
	ListLinksByAccount(ctx context.Context, accountID uuid.UUID) ([]OAuthLink, error)

	// CreateLink fails with ErrProviderLinked when the provider identity is
	// already bound to an account.
	CreateLink(ctx context.Context, link *OAuthLink) error

	// RefreshSession updates the provider-side tokens on an existing link.
	RefreshSession(ctx context.Context, provider, providerUserID string, session ProviderSession) error

	// DeleteLink removes one provider's link from an account, returning
	// ErrLinkNotFound when none exists.
	DeleteLink(ctx context.Context, accountID uuid.UUID, provider string) error
}
