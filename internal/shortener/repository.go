package shortener

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no link matches the lookup key.
	ErrNotFound = errors.New("link not found")

	// ErrHashExists is returned by Insert when another link already holds
	// the content hash. The store enforces this with a unique constraint;
	// callers recover by re-reading the winning row.
	ErrHashExists = errors.New("content hash already exists")

	// ErrCodeExists is returned by Insert when the short code is taken.
	// Callers recover by regenerating the code.
	ErrCodeExists = errors.New("short code already exists")
)

// Repository defines the storage operations for links. Uniqueness of
// PublicID, ContentHash, and ShortCode is enforced by the store itself,
// not by the caller's lookups.
type Repository interface {
	// Insert persists a new link. Returns ErrHashExists or ErrCodeExists
	// on the corresponding unique-constraint violation.
	Insert(ctx context.Context, link *Link) error
	GetByCode(ctx context.Context, code string) (*Link, error)
	GetByHash(ctx context.Context, hash string) (*Link, error)
	GetByPublicID(ctx context.Context, publicID string) (*Link, error)

	// DeleteExpired removes every link with 0 < expires_at < nowMillis and
	// returns the short codes of the removed rows.
	DeleteExpired(ctx context.Context, nowMillis int64) ([]string, error)
}
