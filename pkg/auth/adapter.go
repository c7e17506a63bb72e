package auth

import "context"

// ProviderAdapter abstracts one OAuth provider. Adapters handle the
// authorization-code dance and profile normalization; the identity service
// never sees provider-specific payloads.
type ProviderAdapter interface {
	// ProviderID returns the stable provider identifier stored on links.
	ProviderID() string

	// AuthURL builds the provider's authorization URL carrying the given
	// anti-CSRF state token.
	AuthURL(state string) (string, error)

	// ResolveProfile exchanges the authorization code for the provider's
	// view of the user plus the provider-side session tokens.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, ProviderSession, error)
}
