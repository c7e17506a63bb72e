package authpg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fundscope/authd/pkg/auth"
	"github.com/fundscope/authd/pkg/pg"
)

const accountColumns = `id, username, email, password_hash, has_password, oauth_only,
	email_verified, verification_token, reset_token, reset_token_expires,
	role, created_at, last_login`

func (s *Store) CreateAccount(ctx context.Context, account *auth.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, has_password,
			oauth_only, email_verified, verification_token, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.HasPassword, account.OAuthOnly, account.EmailVerified,
		account.VerificationToken, account.Role, account.CreatedAt,
	)
	if err != nil {
		return mapAccountConflict(err)
	}
	return nil
}

func (s *Store) GetAccountByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	return s.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return s.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	// Accounts without an email store '' and must never match here.
	if email == "" {
		return nil, auth.ErrAccountNotFound
	}
	return s.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateAccount(ctx, `UPDATE accounts SET last_login = $2 WHERE id = $1`, id, at)
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	return s.updateAccount(ctx, `
		UPDATE accounts
		SET password_hash = $2, has_password = TRUE, oauth_only = FALSE
		WHERE id = $1`, id, hash)
}

func (s *Store) SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.updateAccount(ctx, `UPDATE accounts SET verification_token = $2 WHERE id = $1`, id, token)
}

// ConsumeVerificationToken clears the token and marks the email verified in
// one conditional update, so only one of any concurrent presenters wins.
func (s *Store) ConsumeVerificationToken(ctx context.Context, token string) (*auth.Account, error) {
	if token == "" {
		return nil, auth.ErrTokenNotFound
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE accounts
		SET verification_token = '', email_verified = TRUE
		WHERE verification_token = $1
		RETURNING `+accountColumns,
		token,
	)
	account, err := scanAccount(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, storageErr(err)
	}
	return account, nil
}

func (s *Store) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	return s.updateAccount(ctx, `
		UPDATE accounts
		SET reset_token = $2, reset_token_expires = $3
		WHERE id = $1`, id, token, expiresAt)
}

// ConsumeResetToken matches an unexpired token, clears it, and installs the
// new hash as one conditional update. An expired or already-consumed token
// matches no row and mutates nothing.
func (s *Store) ConsumeResetToken(ctx context.Context, token string, newHash []byte, now time.Time) (*auth.Account, error) {
	if token == "" {
		return nil, auth.ErrTokenNotFound
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE accounts
		SET reset_token = '', reset_token_expires = NULL,
			password_hash = $2, has_password = TRUE, oauth_only = FALSE
		WHERE reset_token = $1 AND reset_token_expires > $3
		RETURNING `+accountColumns,
		token, newHash, now,
	)
	account, err := scanAccount(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, storageErr(err)
	}
	return account, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.updateAccount(ctx, `DELETE FROM accounts WHERE id = $1`, id)
}

func (s *Store) getAccount(ctx context.Context, query string, arg any) (*auth.Account, error) {
	account, err := scanAccount(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, storageErr(err)
	}
	return account, nil
}

func (s *Store) updateAccount(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		account           auth.Account
		resetTokenExpires pgtype.Timestamptz
		lastLogin         pgtype.Timestamptz
	)
	err := row.Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.HasPassword, &account.OAuthOnly, &account.EmailVerified,
		&account.VerificationToken, &account.ResetToken, &resetTokenExpires,
		&account.Role, &account.CreatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}
	if resetTokenExpires.Valid {
		account.ResetTokenExpires = resetTokenExpires.Time
	}
	if lastLogin.Valid {
		account.LastLogin = lastLogin.Time
	}
	return &account, nil
}
