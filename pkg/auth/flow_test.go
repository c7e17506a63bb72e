package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Walks one account from registration through login and email verification,
// checking that the issued token carries the registered identity.
func TestRegisterLoginVerifyFlow(t *testing.T) {
	t.Parallel()

	accounts := &MockAccountStore{}
	tokens := newTestTokenService(t)
	svc := newTestService(t, accounts, &MockOAuthLinkStore{})

	var stored *Account
	accounts.On("CreateAccount", mock.Anything, mock.AnythingOfType("*auth.Account")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Account)
		}).Return(nil)

	registered, err := svc.Register(context.Background(), "bob", "pw123456", "bob@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEmpty(t, stored.VerificationToken)

	accounts.On("GetAccountByUsername", mock.Anything, "bob").Return(stored, nil)
	accounts.On("TouchLastLogin", mock.Anything, stored.ID, mock.AnythingOfType("time.Time")).Return(nil)

	session, err := svc.LoginWithPassword(context.Background(), "bob", "pw123456", false)
	require.NoError(t, err)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, registered.ID.String(), claims.UserID)
	assert.Equal(t, string(RoleUser), claims.Role)

	verified := &Account{ID: stored.ID, Username: "bob", Email: "bob@x.com", EmailVerified: true}
	accounts.On("ConsumeVerificationToken", mock.Anything, stored.VerificationToken).
		Return(verified, nil).Once()
	accounts.On("ConsumeVerificationToken", mock.Anything, stored.VerificationToken).
		Return(nil, ErrTokenNotFound)

	got, err := svc.VerifyEmail(context.Background(), stored.VerificationToken)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	_, err = svc.VerifyEmail(context.Background(), stored.VerificationToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	accounts.AssertExpectations(t)
}

// A registration collision must not disturb the first account.
func TestRegisterConflictLeavesFirstAccountIntact(t *testing.T) {
	t.Parallel()

	accounts := &MockAccountStore{}
	svc := newTestService(t, accounts, &MockOAuthLinkStore{})

	first := &Account{ID: uuid.New(), Username: "alice", HasPassword: true}
	accounts.On("CreateAccount", mock.Anything, mock.Anything).Return(ErrUsernameTaken)
	accounts.On("GetAccountByUsername", mock.Anything, "alice").Return(first, nil)

	_, err := svc.Register(context.Background(), "alice", "secret1", "")
	require.ErrorIs(t, err, ErrUsernameTaken)

	got, err := accounts.GetAccountByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	accounts.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "DeleteAccount", mock.Anything, mock.Anything)
}
