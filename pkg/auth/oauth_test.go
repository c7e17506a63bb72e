package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProfile() ProviderProfile {
	return ProviderProfile{
		Provider:       ProviderGoogle,
		ProviderUserID: "google-123",
		Email:          "alice@example.com",
		EmailVerified:  true,
	}
}

func testProviderSession() ProviderSession {
	return ProviderSession{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func TestService_LoginWithOAuth(t *testing.T) {
	t.Parallel()

	t.Run("existing link logs straight in", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		account := &Account{ID: uuid.New(), Username: "alice", OAuthOnly: true, Role: RoleUser}
		link := &OAuthLink{Provider: ProviderGoogle, ProviderUserID: "google-123", AccountID: account.ID}
		session := testProviderSession()

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(link, nil)
		links.On("RefreshSession", mock.Anything, ProviderGoogle, "google-123", session).Return(nil)
		accounts.On("GetAccountByID", mock.Anything, account.ID).Return(account, nil)
		accounts.On("TouchLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time")).Return(nil)

		got, err := svc.LoginWithOAuth(context.Background(), testProfile(), session)
		require.NoError(t, err)
		assert.NotEmpty(t, got.Token)
		assert.Equal(t, account.ID, got.Account.ID)
		assert.True(t, got.ExpiresAt.After(time.Now().Add(29*24*time.Hour)), "oauth sessions are long-lived")

		links.AssertExpectations(t)
		accounts.AssertExpectations(t)
	})

	t.Run("matching email links provider to existing account", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		account := &Account{
			ID:          uuid.New(),
			Username:    "alice",
			Email:       "alice@example.com",
			HasPassword: true,
			Role:        RoleUser,
		}

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(nil, ErrLinkNotFound)
		accounts.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(account, nil)
		links.On("CreateLink", mock.Anything, mock.MatchedBy(func(l *OAuthLink) bool {
			return l.AccountID == account.ID &&
				l.Provider == ProviderGoogle &&
				l.ProviderUserID == "google-123" &&
				l.ProviderEmail == "alice@example.com"
		})).Return(nil)
		accounts.On("TouchLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time")).Return(nil)

		got, err := svc.LoginWithOAuth(context.Background(), testProfile(), testProviderSession())
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.Account.ID)

		links.AssertExpectations(t)
		accounts.AssertExpectations(t)
	})

	t.Run("unknown identity creates oauth-only account", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(nil, ErrLinkNotFound)
		accounts.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, ErrAccountNotFound)
		accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *Account) bool {
			return a.Username == "alice" &&
				a.Email == "alice@example.com" &&
				!a.HasPassword &&
				a.OAuthOnly &&
				a.EmailVerified
		})).Return(nil)
		links.On("CreateLink", mock.Anything, mock.AnythingOfType("*auth.OAuthLink")).Return(nil)
		accounts.On("TouchLastLogin", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(nil)

		got, err := svc.LoginWithOAuth(context.Background(), testProfile(), testProviderSession())
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Account.Username)

		accounts.AssertExpectations(t)
		links.AssertExpectations(t)
	})

	t.Run("provider account is verified even when the provider says otherwise", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		profile := testProfile()
		profile.EmailVerified = false

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(nil, ErrLinkNotFound)
		accounts.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, ErrAccountNotFound)
		accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *Account) bool {
			return a.EmailVerified
		})).Return(nil)
		links.On("CreateLink", mock.Anything, mock.AnythingOfType("*auth.OAuthLink")).Return(nil)
		accounts.On("TouchLastLogin", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(nil)

		got, err := svc.LoginWithOAuth(context.Background(), profile, testProviderSession())
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Account.Username)

		accounts.AssertExpectations(t)
		links.AssertExpectations(t)
	})

	t.Run("taken username gets a suffixed retry", func(t *testing.T) {
		t.Parallel()

		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links, WithClock(func() time.Time { return fixed }))

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(nil, ErrLinkNotFound)
		accounts.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, ErrAccountNotFound)
		accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *Account) bool {
			return a.Username == "alice"
		})).Return(ErrUsernameTaken).Once()
		accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *Account) bool {
			return a.Username == "alice_1748779200"
		})).Return(nil).Once()
		links.On("CreateLink", mock.Anything, mock.AnythingOfType("*auth.OAuthLink")).Return(nil)
		accounts.On("TouchLastLogin", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(nil)

		got, err := svc.LoginWithOAuth(context.Background(), testProfile(), testProviderSession())
		require.NoError(t, err)
		assert.Equal(t, "alice_1748779200", got.Account.Username)

		accounts.AssertExpectations(t)
	})

	t.Run("gives up when every username candidate is taken", func(t *testing.T) {
		t.Parallel()

		// A frozen clock makes the timestamp suffix constant, which is the
		// worst case for the retry loop; it must still terminate.
		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links, WithClock(func() time.Time { return fixed }))

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(nil, ErrLinkNotFound)
		accounts.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, ErrAccountNotFound)
		accounts.On("CreateAccount", mock.Anything, mock.Anything).Return(ErrUsernameTaken)

		_, err := svc.LoginWithOAuth(context.Background(), testProfile(), testProviderSession())
		require.ErrorIs(t, err, ErrUsernameTaken)
		links.AssertNotCalled(t, "CreateLink", mock.Anything, mock.Anything)
	})

	t.Run("cleans up account when link creation fails", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		links.On("GetLink", mock.Anything, ProviderGoogle, "google-123").Return(nil, ErrLinkNotFound)
		accounts.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, ErrAccountNotFound)
		accounts.On("CreateAccount", mock.Anything, mock.Anything).Return(nil)
		links.On("CreateLink", mock.Anything, mock.Anything).Return(ErrProviderLinked)
		accounts.On("DeleteAccount", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := svc.LoginWithOAuth(context.Background(), testProfile(), testProviderSession())
		require.ErrorIs(t, err, ErrProviderLinked)

		accounts.AssertExpectations(t)
	})

	t.Run("rejects empty provider identity", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &MockAccountStore{}, &MockOAuthLinkStore{})

		_, err := svc.LoginWithOAuth(context.Background(), ProviderProfile{Provider: ProviderGoogle}, ProviderSession{})
		require.ErrorIs(t, err, ErrProviderExchangeFailed)
	})
}

func TestService_UnlinkOAuth(t *testing.T) {
	t.Parallel()

	t.Run("unlinks when a password remains", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		acc := &Account{ID: uuid.New(), HasPassword: true}
		accounts.On("GetAccountByID", mock.Anything, acc.ID).Return(acc, nil)
		links.On("ListLinksByAccount", mock.Anything, acc.ID).Return([]OAuthLink{
			{Provider: ProviderGoogle, AccountID: acc.ID},
		}, nil)
		links.On("DeleteLink", mock.Anything, acc.ID, ProviderGoogle).Return(nil)

		require.NoError(t, svc.UnlinkOAuth(context.Background(), acc.ID, ProviderGoogle))

		links.AssertExpectations(t)
	})

	t.Run("refuses to strand an oauth-only account", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		acc := &Account{ID: uuid.New(), OAuthOnly: true}
		accounts.On("GetAccountByID", mock.Anything, acc.ID).Return(acc, nil)
		links.On("ListLinksByAccount", mock.Anything, acc.ID).Return([]OAuthLink{
			{Provider: ProviderGoogle, AccountID: acc.ID},
		}, nil)

		err := svc.UnlinkOAuth(context.Background(), acc.ID, ProviderGoogle)
		require.ErrorIs(t, err, ErrOnlyLoginMethod)
		links.AssertNotCalled(t, "DeleteLink", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unlink allowed after a password is set", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		acc := &Account{ID: uuid.New(), OAuthOnly: true}
		accounts.On("GetAccountByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		accounts.On("UpdatePasswordHash", mock.Anything, acc.ID, mock.AnythingOfType("[]uint8")).Return(nil)
		require.NoError(t, svc.SetPassword(context.Background(), acc.ID, "newpass1"))

		withPassword := &Account{ID: acc.ID, HasPassword: true}
		accounts.On("GetAccountByID", mock.Anything, acc.ID).Return(withPassword, nil)
		links.On("ListLinksByAccount", mock.Anything, acc.ID).Return([]OAuthLink{
			{Provider: ProviderGoogle, AccountID: acc.ID},
		}, nil)
		links.On("DeleteLink", mock.Anything, acc.ID, ProviderGoogle).Return(nil)

		require.NoError(t, svc.UnlinkOAuth(context.Background(), acc.ID, ProviderGoogle))
	})

	t.Run("missing link reports not found", func(t *testing.T) {
		t.Parallel()

		accounts := &MockAccountStore{}
		links := &MockOAuthLinkStore{}
		svc := newTestService(t, accounts, links)

		acc := &Account{ID: uuid.New(), HasPassword: true}
		accounts.On("GetAccountByID", mock.Anything, acc.ID).Return(acc, nil)
		links.On("ListLinksByAccount", mock.Anything, acc.ID).Return([]OAuthLink{}, nil)

		err := svc.UnlinkOAuth(context.Background(), acc.ID, ProviderGoogle)
		require.ErrorIs(t, err, ErrLinkNotFound)
	})
}
