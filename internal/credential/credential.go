// Package credential issues and validates the two-part bearer tokens that
// gate link creation. A token is the concatenation "publicID|secret"; it is
// surfaced to the operator once, at issuance.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TokenSeparator joins the public id and the secret in the composite token.
const TokenSeparator = "|"

var (
	// ErrUnauthenticated is returned for a malformed or unmatched token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when no credential matches the lookup key.
	ErrNotFound = errors.New("credential not found")

	// ErrExists is returned by Insert on a unique-constraint violation for
	// the public id or the secret.
	ErrExists = errors.New("credential already exists")
)

// Credential authorizes minting links under a domain.
type Credential struct {
	// InternalID is the storage-assigned identity; never exposed.
	InternalID int64
	// PublicID is the externally visible, time-ordered identifier.
	PublicID string
	// Secret is the high-entropy half of the bearer token. Only available
	// in full at issuance; treat any later copy as redacted.
	Secret string
	// Domain is the redirect host this credential mints links under.
	Domain string
}

// Token returns the composite bearer token.
func (c *Credential) Token() string {
	return c.PublicID + TokenSeparator + c.Secret
}

// SplitToken splits a bearer token on the first separator. Either part may
// come back empty; callers must treat that as malformed.
func SplitToken(token string) (publicID, secret string) {
	publicID, secret, _ = strings.Cut(token, TokenSeparator)
	return publicID, secret
}

// Repository defines the storage operations for credentials. Uniqueness of
// PublicID and Secret is enforced by the store.
type Repository interface {
	Insert(ctx context.Context, cred *Credential) error
	GetByToken(ctx context.Context, publicID, secret string) (*Credential, error)
	GetByPublicID(ctx context.Context, publicID string) (*Credential, error)
	GetByInternalID(ctx context.Context, internalID int64) (*Credential, error)
}

// storageErr marks unexpected persistence failures on the credential path.
func storageErr(op string, err error) error {
	return fmt.Errorf("credential storage: %s: %w", op, err)
}
