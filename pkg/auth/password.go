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

// Register creates a password-backed account. When an email address is
// supplied a verification token is stored with the new account and the
// verification email is sent best-effort: a delivery failure never rolls
// back account creation, the stored token stays valid for a later resend.
func (s *service) Register(ctx context.Context, username, plaintext, emailAddr string) (*Account, error) {
	username = sanitizer.NormalizeUsername(username)
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := s.allowAttempt(ctx, "register:"+username); err != nil {
		return nil, err
	}
	if err := validateNewPassword(plaintext); err != nil {
		return nil, err
	}

	hash, err := s.codec.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        emailAddr,
		PasswordHash: hash,
		HasPassword:  true,
		OAuthOnly:    false,
		Role:         RoleUser,
		CreatedAt:    s.now(),
	}

	if emailAddr != "" {
		token, err := generateToken()
		if err != nil {
			return nil, err
		}
		account.VerificationToken = token
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "new account registered",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Component("identity"),
	)

	if account.VerificationToken != "" {
		s.sendVerificationEmail(ctx, account)
	}

	return account, nil
}

// LoginWithPassword authenticates by username or email; the identifier is
// treated as an email when it contains '@'. All failure causes collapse into
// ErrInvalidCredentials so responses never reveal whether the account exists.
func (s *service) LoginWithPassword(ctx context.Context, identifier, plaintext string, rememberMe bool) (*Session, error) {
	if err := s.allowAttempt(ctx, "login:"+sanitizer.ToLower(sanitizer.Trim(identifier))); err != nil {
		return nil, err
	}

	account, err := s.lookupByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth-only accounts carry no hash; Verify treats the absent hash as a
	// plain mismatch rather than a distinct failure.
	if !account.HasPassword || !s.codec.Verify(plaintext, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.touchLastLogin(ctx, account); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(account.ID.String(), account.Username, string(account.Role), rememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "password login successful",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Component("identity"),
	)

	return &Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// ForgotPassword issues a reset token for the address when it belongs to an
// account. It returns nil either way: the caller's response must not reveal
// whether the email is registered.
func (s *service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	account, err := s.accounts.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		return err
	}

	token, err := generateToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(s.resetTokenTTL)
	if err := s.accounts.SetResetToken(ctx, account.ID, token, expiresAt); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset token issued",
		logger.UserID(account.ID.String()),
		logger.Component("identity"),
	)

	if s.mailer != nil && s.mailer.Configured() {
		if err := s.mailer.SendPasswordResetEmail(ctx, account.Email, token); err != nil {
			s.logger.ErrorContext(ctx, "failed to send password reset email",
				logger.UserID(account.ID.String()),
				logger.Error(err),
				logger.Component("identity"),
			)
		}
	}

	return nil
}

// ResetPassword consumes a reset token and installs the new password. The
// consumption and hash write are one atomic storage operation, so a replayed
// or concurrently raced token fails with ErrInvalidOrExpiredToken.
//
// An OAuth-only account that completes this flow gains a password and stops
// being OAuth-only; the reset email serving as proof of mailbox ownership.
func (s *service) ResetPassword(ctx context.Context, token, newPassword string) (*Account, error) {
	if err := validateNewPassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := s.codec.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accounts.ConsumeResetToken(ctx, token, hash, s.now())
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "password reset successful",
		logger.UserID(account.ID.String()),
		logger.Component("identity"),
	)

	return account, nil
}

// ChangePassword replaces the password after verifying the current one.
// OAuth-only accounts fail the verification the same way a wrong password
// does; there is no current password to prove.
func (s *service) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.HasPassword || !s.codec.Verify(currentPassword, account.PasswordHash) {
		return ErrIncorrectPassword
	}

	hash, err := s.codec.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Component("identity"),
	)

	if account.Email != "" && s.mailer != nil && s.mailer.Configured() {
		if err := s.mailer.SendPasswordChangedEmail(ctx, account.Email, account.Username); err != nil {
			s.logger.ErrorContext(ctx, "failed to send password changed notification",
				logger.UserID(account.ID.String()),
				logger.Error(err),
				logger.Component("identity"),
			)
		}
	}

	return nil
}

// SetPassword establishes a first password for an OAuth-only account,
// turning it into a hybrid account that can also log in directly.
func (s *service) SetPassword(ctx context.Context, accountID uuid.UUID, newPassword string) error {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.HasPassword {
		return ErrAlreadyHasPassword
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	hash, err := s.codec.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password established for oauth account",
		logger.UserID(account.ID.String()),
		logger.Username(account.Username),
		logger.Component("identity"),
	)

	return nil
}

func (s *service) lookupByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	identifier = sanitizer.Trim(identifier)
	if strings.Contains(identifier, "@") {
		return s.accounts.GetAccountByEmail(ctx, sanitizer.NormalizeEmail(identifier))
	}
	return s.accounts.GetAccountByUsername(ctx, identifier)
}

func (s *service) touchLastLogin(ctx context.Context, account *Account) error {
	at := s.now()
	if err := s.accounts.TouchLastLogin(ctx, account.ID, at); err != nil {
		return err
	}
	account.LastLogin = at
	return nil
}

func (s *service) sendVerificationEmail(ctx context.Context, account *Account) {
	if s.mailer == nil || !s.mailer.Configured() {
		return
	}
	if err := s.mailer.SendVerificationEmail(ctx, account.Email, account.Username, account.VerificationToken); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			logger.UserID(account.ID.String()),
			logger.Error(err),
			logger.Component("identity"),
		)
	}
}
