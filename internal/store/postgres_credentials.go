package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftrightonce/url-shortener/internal/credential"
)

// PostgresCredentials is the PostgreSQL implementation of
// credential.Repository.
type PostgresCredentials struct {
	pool *pgxpool.Pool
}

// NewPostgresCredentials creates a PostgreSQL-backed credential repository.
func NewPostgresCredentials(pool *pgxpool.Pool) *PostgresCredentials {
	return &PostgresCredentials{pool: pool}
}

func (p *PostgresCredentials) Insert(ctx context.Context, cred *credential.Credential) error {
	query := `
		INSERT INTO credentials (public_id, secret, domain)
		VALUES ($1, $2, $3)
	`

	_, err := p.pool.Exec(ctx, query, cred.PublicID, cred.Secret, cred.Domain)
	if err != nil {
		if name := constraintName(err); name != "" {
			return fmt.Errorf("%w: %s", credential.ErrExists, name)
		}

		return err
	}

	return nil
}

func (p *PostgresCredentials) GetByToken(ctx context.Context, publicID, secret string) (*credential.Credential, error) {
	query := `
		SELECT internal_id, public_id, secret, domain
		FROM credentials
		WHERE public_id = $1 AND secret = $2
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, publicID, secret))
}

func (p *PostgresCredentials) GetByPublicID(ctx context.Context, publicID string) (*credential.Credential, error) {
	query := `
		SELECT internal_id, public_id, secret, domain
		FROM credentials
		WHERE public_id = $1
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, publicID))
}

func (p *PostgresCredentials) GetByInternalID(ctx context.Context, internalID int64) (*credential.Credential, error) {
	query := `
		SELECT internal_id, public_id, secret, domain
		FROM credentials
		WHERE internal_id = $1
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, internalID))
}

func (p *PostgresCredentials) scanOne(row pgx.Row) (*credential.Credential, error) {
	var cred credential.Credential

	err := row.Scan(
		&cred.InternalID,
		&cred.PublicID,
		&cred.Secret,
		&cred.Domain,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, credential.ErrNotFound
		}

		return nil, err
	}

	return &cred, nil
}

// Compile-time check.
var _ credential.Repository = (*PostgresCredentials)(nil)
