package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
)

// PostgresLinks is the PostgreSQL implementation of shortener.Repository.
// The unique constraints on public_id, content_hash, and short_code are the
// authority for uniqueness; violations are mapped to the repository's typed
// sentinel errors so the service can recover.
type PostgresLinks struct {
	pool *pgxpool.Pool
}

// NewPostgresLinks creates a PostgreSQL-backed link repository.
func NewPostgresLinks(pool *pgxpool.Pool) *PostgresLinks {
	return &PostgresLinks{pool: pool}
}

func (p *PostgresLinks) Insert(ctx context.Context, link *shortener.Link) error {
	query := `
		INSERT INTO links (public_id, content_hash, short_code, expires_at, raw_url)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		link.PublicID,
		link.ContentHash,
		link.ShortCode,
		link.ExpiresAt,
		link.RawURL,
	)
	if err != nil {
		switch constraintName(err) {
		case "links_content_hash_key":
			return fmt.Errorf("%w: %s", shortener.ErrHashExists, link.ContentHash)
		case "links_short_code_key":
			return fmt.Errorf("%w: %s", shortener.ErrCodeExists, link.ShortCode)
		}

		return err
	}

	return nil
}

func (p *PostgresLinks) GetByCode(ctx context.Context, code string) (*shortener.Link, error) {
	return p.getOneBy(ctx, "short_code", code)
}

func (p *PostgresLinks) GetByHash(ctx context.Context, hash string) (*shortener.Link, error) {
	return p.getOneBy(ctx, "content_hash", hash)
}

func (p *PostgresLinks) GetByPublicID(ctx context.Context, publicID string) (*shortener.Link, error) {
	return p.getOneBy(ctx, "public_id", publicID)
}

func (p *PostgresLinks) getOneBy(ctx context.Context, column, value string) (*shortener.Link, error) {
	query := fmt.Sprintf(`
		SELECT internal_id, public_id, content_hash, short_code, expires_at, raw_url
		FROM links
		WHERE %s = $1
	`, column)

	var link shortener.Link

	err := p.pool.QueryRow(ctx, query, value).Scan(
		&link.InternalID,
		&link.PublicID,
		&link.ContentHash,
		&link.ShortCode,
		&link.ExpiresAt,
		&link.RawURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresLinks) DeleteExpired(ctx context.Context, nowMillis int64) ([]string, error) {
	query := `
		DELETE FROM links
		WHERE expires_at > 0 AND expires_at < $1
		RETURNING short_code
	`

	rows, err := p.pool.Query(ctx, query, nowMillis)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}

		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// Compile-time check.
var _ shortener.Repository = (*PostgresLinks)(nil)
