package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) CreateAccount(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAccountStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockAccountStore) SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockAccountStore) ConsumeVerificationToken(ctx context.Context, token string) (*Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, id, token, expiresAt)
	return args.Error(0)
}

func (m *MockAccountStore) ConsumeResetToken(ctx context.Context, token string, newHash []byte, now time.Time) (*Account, error) {
	args := m.Called(ctx, token, newHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAccountStore) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOAuthLinkStore is a mock implementation of OAuthLinkStore.
type MockOAuthLinkStore struct {
	mock.Mock
}

func (m *MockOAuthLinkStore) GetLink(ctx context.Context, provider, providerUserID string) (*OAuthLink, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OAuthLink), args.Error(1)
}

func (m *MockOAuthLinkStore) ListLinksByAccount(ctx context.Context, accountID uuid.UUID) ([]OAuthLink, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OAuthLink), args.Error(1)
}

func (m *MockOAuthLinkStore) CreateLink(ctx context.Context, link *OAuthLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockOAuthLinkStore) RefreshSession(ctx context.Context, provider, providerUserID string, session ProviderSession) error {
	args := m.Called(ctx, provider, providerUserID, session)
	return args.Error(0)
}

func (m *MockOAuthLinkStore) DeleteLink(ctx context.Context, accountID uuid.UUID, provider string) error {
	args := m.Called(ctx, accountID, provider)
	return args.Error(0)
}
