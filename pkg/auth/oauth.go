package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fundscope/authd/pkg/logger"
	"github.com/fundscope/authd/pkg/sanitizer"
)

// LoginWithOAuth signs in a resolved provider identity, taking one of three
// paths: an existing link logs straight in, an unlinked identity whose email
// matches an existing account gets linked to it, and anything else becomes a
// fresh OAuth-only account. The provider session is persisted on the link in
// all three cases.
func (s *service) LoginWithOAuth(ctx context.Context, profile ProviderProfile, session ProviderSession) (*Session, error) {
	if profile.Provider == "" || profile.ProviderUserID == "" {
		return nil, ErrProviderExchangeFailed
	}
	profile.Email = sanitizer.NormalizeEmail(profile.Email)

	link, err := s.links.GetLink(ctx, profile.Provider, profile.ProviderUserID)
	switch {
	case err == nil:
		return s.loginLinkedAccount(ctx, link, session)
	case errors.Is(err, ErrLinkNotFound):
		// fall through to email match or account creation
	default:
		return nil, err
	}

	if profile.Email != "" {
		account, err := s.accounts.GetAccountByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			return s.linkExistingAccount(ctx, account, profile, session)
		case errors.Is(err, ErrAccountNotFound):
			// fall through to account creation
		default:
			return nil, err
		}
	}

	return s.createOAuthAccount(ctx, profile, session)
}

// UnlinkOAuth removes one provider link. An account whose links are its only
// way in keeps its last link: the caller must set a password first.
func (s *service) UnlinkOAuth(ctx context.Context, accountID uuid.UUID, provider string) error {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	links, err := s.links.ListLinksByAccount(ctx, accountID)
	if err != nil {
		return err
	}

	var found bool
	for _, l := range links {
		if l.Provider == provider {
			found = true
			break
		}
	}
	if !found {
		return ErrLinkNotFound
	}

	if !account.HasPassword && len(links) == 1 {
		return ErrOnlyLoginMethod
	}

	if err := s.links.DeleteLink(ctx, accountID, provider); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "oauth provider unlinked",
		logger.UserID(accountID.String()),
		logger.Provider(provider),
		logger.Component("identity"),
	)

	return nil
}

func (s *service) loginLinkedAccount(ctx context.Context, link *OAuthLink, session ProviderSession) (*Session, error) {
	if err := s.links.RefreshSession(ctx, link.Provider, link.ProviderUserID, session); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetAccountByID(ctx, link.AccountID)
	if err != nil {
		return nil, err
	}

	return s.issueOAuthSession(ctx, account, link.Provider, "oauth login successful")
}

func (s *service) linkExistingAccount(ctx context.Context, account *Account, profile ProviderProfile, session ProviderSession) (*Session, error) {
	link := &OAuthLink{
		Provider:       profile.Provider,
		ProviderUserID: profile.ProviderUserID,
		AccountID:      account.ID,
		ProviderEmail:  profile.Email,
		Session:        session,
		CreatedAt:      s.now(),
	}
	if err := s.links.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "oauth provider linked by email match",
		logger.UserID(account.ID.String()),
		logger.Provider(profile.Provider),
		logger.Event("linked_by_email_match"),
		logger.Component("identity"),
	)

	return s.issueOAuthSession(ctx, account, profile.Provider, "oauth login successful")
}

func (s *service) createOAuthAccount(ctx context.Context, profile ProviderProfile, session ProviderSession) (*Session, error) {
	account := &Account{
		ID:          uuid.New(),
		Email:       profile.Email,
		HasPassword: false,
		OAuthOnly:   true,
		// The provider vouches for the address; provider-created accounts
		// never go through the verification-token flow.
		EmailVerified: true,
		Role:          RoleUser,
		CreatedAt:     s.now(),
	}

	// Usernames derive from the provider email and collide with regular
	// registrations: retry once with a timestamp suffix, then with random
	// suffixes. The attempt budget keeps a pathological store from turning
	// this into a spin loop.
	base := deriveUsername(profile)
	account.Username = base
	for attempt := 0; ; attempt++ {
		err := s.accounts.CreateAccount(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		switch {
		case attempt == 0:
			account.Username = fmt.Sprintf("%s_%d", base, s.now().Unix())
		case attempt >= maxUsernameAttempts:
			return nil, err
		default:
			suffix, err := randomSuffix()
			if err != nil {
				return nil, err
			}
			account.Username = fmt.Sprintf("%s_%s", base, suffix)
		}
	}

	link := &OAuthLink{
		Provider:       profile.Provider,
		ProviderUserID: profile.ProviderUserID,
		AccountID:      account.ID,
		ProviderEmail:  profile.Email,
		Session:        session,
		CreatedAt:      s.now(),
	}
	if err := s.links.CreateLink(ctx, link); err != nil {
		// Without the link the account is unreachable, remove it.
		if delErr := s.accounts.DeleteAccount(ctx, account.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to clean up account after link failure",
				logger.UserID(account.ID.String()),
				logger.Error(delErr),
				logger.Component("identity"),
			)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "oauth account created",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Provider(profile.Provider),
		logger.Component("identity"),
	)

	return s.issueOAuthSession(ctx, account, profile.Provider, "oauth login successful")
}

func (s *service) issueOAuthSession(ctx context.Context, account *Account, provider, event string) (*Session, error) {
	if err := s.touchLastLogin(ctx, account); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueExtended(account.ID.String(), account.Username, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, event,
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Provider(provider),
		logger.Component("identity"),
	)

	return &Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// maxUsernameAttempts bounds collision retries during OAuth account creation.
const maxUsernameAttempts = 5

// deriveUsername picks a username for a brand-new OAuth account: the email
// local part when present, otherwise the provider identity itself.
func deriveUsername(profile ProviderProfile) string {
	if profile.Email != "" {
		if at := strings.Index(profile.Email, "@"); at > 0 {
			return profile.Email[:at]
		}
	}
	return fmt.Sprintf("%s_%s", profile.Provider, profile.ProviderUserID)
}
