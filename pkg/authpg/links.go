package authpg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fundscope/authd/pkg/auth"
	"github.com/fundscope/authd/pkg/pg"
)

const linkColumns = `provider, provider_user_id, account_id, provider_email,
	access_token, refresh_token, session_expires, created_at`

func (s *Store) GetLink(ctx context.Context, provider, providerUserID string) (*auth.OAuthLink, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+linkColumns+`
		FROM oauth_links
		WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID,
	)
	link, err := scanLink(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrLinkNotFound
		}
		return nil, storageErr(err)
	}
	return link, nil
}

func (s *Store) ListLinksByAccount(ctx context.Context, accountID uuid.UUID) ([]auth.OAuthLink, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+linkColumns+`
		FROM oauth_links
		WHERE account_id = $1
		ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var links []auth.OAuthLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, storageErr(err)
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return links, nil
}

func (s *Store) CreateLink(ctx context.Context, link *auth.OAuthLink) error {
	var expiresAt pgtype.Timestamptz
	if !link.Session.ExpiresAt.IsZero() {
		expiresAt = pgtype.Timestamptz{Time: link.Session.ExpiresAt, Valid: true}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO oauth_links (provider, provider_user_id, account_id,
			provider_email, access_token, refresh_token, session_expires, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		link.Provider, link.ProviderUserID, link.AccountID, link.ProviderEmail,
		link.Session.AccessToken, link.Session.RefreshToken, expiresAt, link.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrProviderLinked
		}
		if pg.IsForeignKeyViolationError(err) {
			return auth.ErrAccountNotFound
		}
		return storageErr(err)
	}
	return nil
}

func (s *Store) RefreshSession(ctx context.Context, provider, providerUserID string, session auth.ProviderSession) error {
	var expiresAt pgtype.Timestamptz
	if !session.ExpiresAt.IsZero() {
		expiresAt = pgtype.Timestamptz{Time: session.ExpiresAt, Valid: true}
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE oauth_links
		SET access_token = $3, refresh_token = $4, session_expires = $5
		WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID, session.AccessToken, session.RefreshToken, expiresAt,
	)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrLinkNotFound
	}
	return nil
}

func (s *Store) DeleteLink(ctx context.Context, accountID uuid.UUID, provider string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM oauth_links
		WHERE account_id = $1 AND provider = $2`,
		accountID, provider,
	)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrLinkNotFound
	}
	return nil
}

func scanLink(row pgx.Row) (*auth.OAuthLink, error) {
	var (
		link           auth.OAuthLink
		sessionExpires pgtype.Timestamptz
	)
	err := row.Scan(
		&link.Provider, &link.ProviderUserID, &link.AccountID, &link.ProviderEmail,
		&link.Session.AccessToken, &link.Session.RefreshToken, &sessionExpires,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sessionExpires.Valid {
		link.Session.ExpiresAt = sessionExpires.Time
	}
	return &link, nil
}
