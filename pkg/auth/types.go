package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of authorization roles, assigned at creation.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DeleteConfirmationPhrase must be typed verbatim to delete an account.
const DeleteConfirmationPhrase = "DELETE"

// Account is the durable record of one registered identity.
//
// HasPassword and PasswordHash move together: HasPassword is true exactly
// when PasswordHash holds a valid hash. OAuthOnly is a derived flag,
// recomputed on every password or link mutation, true only while the account
// has no password and at least one provider link.
type Account struct {
	ID            uuid.UUID
	Username      string
	Email         string // empty when absent
	PasswordHash  []byte
	HasPassword   bool
	OAuthOnly     bool
	EmailVerified bool

	// At most one live instance of each ephemeral token. The verification
	// token is single-use and unexpiring; the reset token expires.
	VerificationToken string
	ResetToken        string
	ResetTokenExpires time.Time

	Role      Role
	CreatedAt time.Time
	LastLogin time.Time // zero until the first successful authentication
}

// OAuthLink maps one provider identity to an account. The composite key
// (Provider, ProviderUserID) is immutable once created; the session fields
// are refreshed on every login through that provider. Links share their
// account's lifetime: deleting the account cascades to its links.
type OAuthLink struct {
	Provider       string
	ProviderUserID string
	AccountID      uuid.UUID
	ProviderEmail  string
	Session        ProviderSession
	CreatedAt      time.Time
}

// ProviderSession holds the provider-side tokens captured at login.
type ProviderSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// ProviderProfile is the normalized identity a provider adapter resolves
// from an authorization code.
type ProviderProfile struct {
	Provider       string
	ProviderUserID string
	Email          string
	EmailVerified  bool
}

// Session is the result of a successful login: a signed bearer token, its
// expiry, and the authenticated account.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *Account
}

// Profile is the account summary exposed to authenticated clients.
type Profile struct {
	ID            uuid.UUID
	Username      string
	Email         string
	Role          Role
	EmailVerified bool
	HasPassword   bool
	Providers     []string
	CreatedAt     time.Time
	LastLogin     time.Time
}
