package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fundscope/authd/pkg/logger"
)

// VerifyEmail consumes a verification token and marks the account's email
// verified. The token is single-use: a second presentation, concurrent or
// later, fails with ErrInvalidOrExpiredToken.
func (s *service) VerifyEmail(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	account, err := s.accounts.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "email verified",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Component("identity"),
	)

	return account, nil
}

// DeleteAccount permanently removes the account and, by cascade, its provider
// links. It demands both the literal confirmation phrase and the current
// password; the phrase check runs first so a typo never costs a bcrypt round.
// The removed username is returned for the caller's farewell message.
func (s *service) DeleteAccount(ctx context.Context, accountID uuid.UUID, plaintext, confirmation string) (string, error) {
	if confirmation != DeleteConfirmationPhrase {
		return "", ErrConfirmationMismatch
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	if !account.HasPassword || !s.codec.Verify(plaintext, account.PasswordHash) {
		return "", ErrIncorrectPassword
	}

	if err := s.accounts.DeleteAccount(ctx, account.ID); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "account deleted",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Component("identity"),
	)

	return account.Username, nil
}

// Profile assembles the account summary shown to the authenticated client,
// including which providers are currently linked.
func (s *service) Profile(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	links, err := s.links.ListLinksByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	providers := make([]string, 0, len(links))
	for _, l := range links {
		providers = append(providers, l.Provider)
	}

	return &Profile{
		ID:            account.ID,
		Username:      account.Username,
		Email:         account.Email,
		Role:          account.Role,
		EmailVerified: account.EmailVerified,
		HasPassword:   account.HasPassword,
		Providers:     providers,
		CreatedAt:     account.CreatedAt,
		LastLogin:     account.LastLogin,
	}, nil
}
