package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftrightonce/url-shortener/internal/ident"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput is returned for an empty raw URL or a non-future expiry.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage is returned for persistence failures other than the
	// uniqueness races handled internally.
	ErrStorage = errors.New("storage failure")

	// ErrRetriesExhausted is returned when no free short code was found
	// within the retry budget.
	ErrRetriesExhausted = errors.New("short code retries exhausted")
)

// maxCodeAttempts bounds the collision retry loop. With a 6-character
// alphanumeric code space this is a liveness safeguard, not something
// expected to trip at normal volumes.
const maxCodeAttempts = 10

// Service implements link creation, resolution, and pruning against a
// Repository.
type Service struct {
	repo        Repository
	newPublicID func() string
	newCode     ident.CodeGenerator
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates a link service.
func NewService(repo Repository, newCode ident.CodeGenerator, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		newPublicID: ident.NewPublicID,
		newCode:     newCode,
		now:         time.Now,
		logger:      logger,
	}
}

// Create stores a short link for rawURL, or returns the existing record when
// the same URL was submitted before. Creation is idempotent per raw URL: a
// dedup hit returns the stored record unchanged, including its expiry.
func (s *Service) Create(ctx context.Context, rawURL string, expiresAt int64) (*Link, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: raw url must not be empty", ErrInvalidInput)
	}

	if expiresAt != 0 && expiresAt <= s.now().UnixMilli() {
		return nil, fmt.Errorf("%w: expiry must be in the future", ErrInvalidInput)
	}

	hash := ident.ContentHash(rawURL)

	// Fast path; the unique constraint on insert is the actual guarantee.
	existing, err := s.repo.GetByHash(ctx, hash)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: lookup by hash: %v", ErrStorage, err)
	}

	for range maxCodeAttempts {
		link := &Link{
			PublicID:    s.newPublicID(),
			ContentHash: hash,
			ShortCode:   s.newCode(),
			RawURL:      rawURL,
			ExpiresAt:   expiresAt,
		}

		err := s.repo.Insert(ctx, link)

		switch {
		case err == nil:
			// Re-read so generated fields reflect storage state.
			created, err := s.repo.GetByPublicID(ctx, link.PublicID)
			if err != nil {
				return nil, fmt.Errorf("%w: re-read after insert: %v", ErrStorage, err)
			}

			return created, nil

		case errors.Is(err, ErrHashExists):
			// Lost the race against a concurrent create of the same URL;
			// the winning row is authoritative.
			s.logger.Info("duplicate content hash on insert",
				zap.String("hash", hash),
			)

			winner, err := s.repo.GetByHash(ctx, hash)
			if err != nil {
				return nil, fmt.Errorf("%w: re-read after conflict: %v", ErrStorage, err)
			}

			return winner, nil

		case errors.Is(err, ErrCodeExists):
			s.logger.Info("short code collision, regenerating",
				zap.String("code", link.ShortCode),
			)

		default:
			return nil, fmt.Errorf("%w: insert link: %v", ErrStorage, err)
		}
	}

	return nil, ErrRetriesExhausted
}

// Resolve returns the link for the given short code. Expiry is not checked
// here: an expired-but-unpruned link still resolves, removal is owned by the
// prune pass.
func (s *Service) Resolve(ctx context.Context, code string) (*Link, error) {
	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: lookup by code: %v", ErrStorage, err)
	}

	return link, nil
}

// Prune deletes every link whose expiry is set and in the past relative to
// now. Idempotent; safe to run concurrently with creates. Returns the number
// of removed links.
func (s *Service) Prune(ctx context.Context, now time.Time) (int, error) {
	codes, err := s.repo.DeleteExpired(ctx, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("%w: delete expired: %v", ErrStorage, err)
	}

	if len(codes) > 0 {
		s.logger.Info("pruned expired links", zap.Int("count", len(codes)))
	}

	return len(codes), nil
}
