package store

import (
	"context"
	"sync"

	"github.com/shiftrightonce/url-shortener/internal/credential"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
)

// MemoryLinks is an in-memory implementation of shortener.Repository. It
// mirrors the PostgreSQL unique-constraint behavior, returning the same
// sentinel errors on conflicting inserts.
type MemoryLinks struct {
	mu       sync.RWMutex
	byCode   map[string]*shortener.Link
	byHash   map[string]*shortener.Link
	byPublic map[string]*shortener.Link
	nextID   int64
}

// NewMemoryLinks creates an in-memory link repository.
func NewMemoryLinks() *MemoryLinks {
	return &MemoryLinks{
		byCode:   make(map[string]*shortener.Link),
		byHash:   make(map[string]*shortener.Link),
		byPublic: make(map[string]*shortener.Link),
	}
}

func (m *MemoryLinks) Insert(_ context.Context, link *shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byHash[link.ContentHash]; ok {
		return shortener.ErrHashExists
	}

	if _, ok := m.byCode[link.ShortCode]; ok {
		return shortener.ErrCodeExists
	}

	m.nextID++

	stored := *link
	stored.InternalID = m.nextID

	m.byCode[stored.ShortCode] = &stored
	m.byHash[stored.ContentHash] = &stored
	m.byPublic[stored.PublicID] = &stored

	return nil
}

func (m *MemoryLinks) GetByCode(_ context.Context, code string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyLink(m.byCode[code])
}

func (m *MemoryLinks) GetByHash(_ context.Context, hash string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyLink(m.byHash[hash])
}

func (m *MemoryLinks) GetByPublicID(_ context.Context, publicID string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyLink(m.byPublic[publicID])
}

func (m *MemoryLinks) DeleteExpired(_ context.Context, nowMillis int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var codes []string

	for code, link := range m.byCode {
		if link.Expired(nowMillis) {
			delete(m.byCode, code)
			delete(m.byHash, link.ContentHash)
			delete(m.byPublic, link.PublicID)

			codes = append(codes, code)
		}
	}

	return codes, nil
}

func copyLink(link *shortener.Link) (*shortener.Link, error) {
	if link == nil {
		return nil, shortener.ErrNotFound
	}

	c := *link

	return &c, nil
}

// MemoryCredentials is an in-memory implementation of credential.Repository.
type MemoryCredentials struct {
	mu         sync.RWMutex
	byPublic   map[string]*credential.Credential
	bySecret   map[string]*credential.Credential
	byInternal map[int64]*credential.Credential
	nextID     int64
}

// NewMemoryCredentials creates an in-memory credential repository.
func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{
		byPublic:   make(map[string]*credential.Credential),
		bySecret:   make(map[string]*credential.Credential),
		byInternal: make(map[int64]*credential.Credential),
	}
}

func (m *MemoryCredentials) Insert(_ context.Context, cred *credential.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byPublic[cred.PublicID]; ok {
		return credential.ErrExists
	}

	if _, ok := m.bySecret[cred.Secret]; ok {
		return credential.ErrExists
	}

	m.nextID++

	stored := *cred
	stored.InternalID = m.nextID

	m.byPublic[stored.PublicID] = &stored
	m.bySecret[stored.Secret] = &stored
	m.byInternal[stored.InternalID] = &stored

	return nil
}

func (m *MemoryCredentials) GetByToken(_ context.Context, publicID, secret string) (*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, ok := m.byPublic[publicID]
	if !ok || cred.Secret != secret {
		return nil, credential.ErrNotFound
	}

	return copyCredential(cred)
}

func (m *MemoryCredentials) GetByPublicID(_ context.Context, publicID string) (*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyCredential(m.byPublic[publicID])
}

func (m *MemoryCredentials) GetByInternalID(_ context.Context, internalID int64) (*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyCredential(m.byInternal[internalID])
}

func copyCredential(cred *credential.Credential) (*credential.Credential, error) {
	if cred == nil {
		return nil, credential.ErrNotFound
	}

	c := *cred

	return &c, nil
}

// Compile-time checks.
var (
	_ shortener.Repository  = (*MemoryLinks)(nil)
	_ credential.Repository = (*MemoryCredentials)(nil)
)
