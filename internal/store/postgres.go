// Package store provides the persistence gateway: PostgreSQL and in-memory
// implementations of the link and credential repositories, plus a Redis
// cache decorator for the link read path.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/shiftrightonce/url-shortener/internal/store/migrations"
)

const uniqueViolation = "23505"

// lockTimeout bounds how long a write waits on a contended row before the
// store fails it instead of blocking indefinitely.
const lockTimeout = "5s"

// Postgres owns the connection pool and vends the per-table repositories.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.ConnConfig.RuntimeParams["lock_timeout"] = lockTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// RunMigrations applies the embedded schema migrations. It uses a separate
// database/sql connection because goose speaks database/sql, not pgx.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Links returns the PostgreSQL link repository.
func (p *Postgres) Links() *PostgresLinks {
	return &PostgresLinks{pool: p.pool}
}

// Credentials returns the PostgreSQL credential repository.
func (p *Postgres) Credentials() *PostgresCredentials {
	return &PostgresCredentials{pool: p.pool}
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *Postgres) Shutdown() error {
	p.pool.Close()
	return nil
}

// constraintName extracts the violated unique-constraint name, or "" when
// the error is not a unique violation.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}

	return ""
}
