// Package handlers exposes the HTTP operations: authenticated link creation
// and public short-code resolution.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shiftrightonce/url-shortener/internal/credential"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

type credentialKey struct{}

// ContextWithCredential stashes the authenticated credential in the context.
func ContextWithCredential(ctx context.Context, cred *credential.Credential) context.Context {
	return context.WithValue(ctx, credentialKey{}, cred)
}

// CredentialFromContext extracts the authenticated credential, or nil.
func CredentialFromContext(ctx context.Context) *credential.Credential {
	if cred, ok := ctx.Value(credentialKey{}).(*credential.Credential); ok {
		return cred
	}

	return nil
}

// URLHandler handles link creation and resolution.
type URLHandler struct {
	links  *shortener.Service
	logger *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(links *shortener.Service, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		links:  links,
		logger: logger,
	}
}

// Generate creates (or dedup-returns) a short link under the authenticated
// credential's domain.
func (h *URLHandler) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	cred := CredentialFromContext(ctx)
	if cred == nil {
		// The auth middleware guards this operation; missing credential
		// means it was bypassed.
		return nil, huma.Error401Unauthorized("unauthenticated")
	}

	link, err := h.links.Create(ctx, req.Body.Raw, req.Body.Expires)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidInput):
			return nil, huma.Error400BadRequest("invalid_input", err)
		case errors.Is(err, shortener.ErrRetriesExhausted):
			h.logger.Error("short code space exhausted", zap.Error(err))
			return nil, huma.Error500InternalServerError("exhausted_retries", err)
		default:
			h.logger.Error("link creation failed", zap.Error(err))
			return nil, huma.Error500InternalServerError("storage_failure")
		}
	}

	resp := &GenerateResponse{}
	resp.Body.ID = link.PublicID
	resp.Body.URL = strings.TrimRight(cred.Domain, "/") + "/" + link.ShortCode
	resp.Body.Expires = link.ExpiresAt

	return resp, nil
}

// Redirect resolves a short code to its original URL. Expired-but-unpruned
// links still resolve; see the prune pass.
func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.links.Resolve(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("not_found")
		}

		h.logger.Error("resolve failed", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("storage_failure")
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = link.RawURL

	return resp, nil
}
