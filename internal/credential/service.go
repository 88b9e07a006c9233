package credential

import (
	"context"
	"errors"

	"github.com/shiftrightonce/url-shortener/internal/ident"
	"go.uber.org/zap"
)

// Service mints and validates bearer tokens bound to a domain.
type Service struct {
	repo        Repository
	newPublicID func() string
	logger      *zap.Logger
}

// NewService creates a credential service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		newPublicID: ident.NewPublicID,
		logger:      logger,
	}
}

// Issue creates a credential for the domain and returns it with the raw
// secret. This is the only time the secret is available in full; surface the
// composite token to the operator immediately.
func (s *Service) Issue(ctx context.Context, domain string) (*Credential, error) {
	publicID := s.newPublicID()

	cred := &Credential{
		PublicID: publicID,
		// The secret is a hash over the public id and a second fresh id,
		// giving a value as unique as the ids themselves.
		Secret: ident.ContentHash(publicID + TokenSeparator + s.newPublicID()),
		Domain: domain,
	}

	if err := s.repo.Insert(ctx, cred); err != nil {
		return nil, storageErr("insert", err)
	}

	// Re-read so the storage-assigned internal id is populated.
	created, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, storageErr("re-read after insert", err)
	}

	s.logger.Info("issued credential",
		zap.String("publicId", created.PublicID),
		zap.String("domain", created.Domain),
	)

	return created, nil
}

// Validate checks a composite bearer token and returns the matching
// credential. It fails with ErrUnauthenticated when the token is malformed
// or no stored credential matches both parts exactly.
func (s *Service) Validate(ctx context.Context, token string) (*Credential, error) {
	publicID, secret := SplitToken(token)
	if publicID == "" || secret == "" {
		return nil, ErrUnauthenticated
	}

	cred, err := s.repo.GetByToken(ctx, publicID, secret)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}

		return nil, storageErr("lookup by token", err)
	}

	return cred, nil
}

// FindByPublicID looks up a credential by its public id. Internal helper for
// save/update paths; not exposed over the API.
func (s *Service) FindByPublicID(ctx context.Context, publicID string) (*Credential, error) {
	return s.repo.GetByPublicID(ctx, publicID)
}

// FindByInternalID looks up a credential by its storage identity. Internal
// helper; not exposed over the API.
func (s *Service) FindByInternalID(ctx context.Context, internalID int64) (*Credential, error) {
	return s.repo.GetByInternalID(ctx, internalID)
}
