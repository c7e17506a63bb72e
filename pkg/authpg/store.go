// Package authpg provides the PostgreSQL-backed account and OAuth link
// storage used by the identity service.
package authpg

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundscope/authd/pkg/auth"
	"github.com/fundscope/authd/pkg/pg"
)

// Store implements auth.AccountStore and auth.OAuthLinkStore over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// mapAccountConflict resolves a unique violation on the accounts table to the
// specific conflict by constraint name.
func mapAccountConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return auth.ErrEmailTaken
		}
		return auth.ErrUsernameTaken
	}
	return storageErr(err)
}

// storageErr wraps backend faults so callers can match them as one class
// without losing the driver detail.
func storageErr(err error) error {
	if pg.IsNotFoundError(err) {
		return err
	}
	return errors.Join(auth.ErrStorageUnavailable, err)
}

var (
	_ auth.AccountStore   = (*Store)(nil)
	_ auth.OAuthLinkStore = (*Store)(nil)
)
