// Package middleware provides the huma middlewares of the service.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shiftrightonce/url-shortener/internal/credential"
	"github.com/shiftrightonce/url-shortener/internal/handlers"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// BearerAuth returns a middleware that validates the composite bearer token
// and attaches the owning credential to the request context. Requests with a
// missing, malformed, or unmatched token are rejected with 401.
func BearerAuth(
	api huma.API,
	creds *credential.Service,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cred, err := creds.Validate(ctx.Context(), bearerToken(ctx.Header("Authorization")))
		if err != nil {
			if !errors.Is(err, credential.ErrUnauthenticated) {
				logger.Error("credential lookup failed", zap.Error(err))
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "storage_failure")

				return
			}

			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized,
				"unauthenticated", errors.New("missing or invalid bearer token"))

			return
		}

		next(huma.WithContext(ctx, handlers.ContextWithCredential(ctx.Context(), cred)))
	}
}

// bearerToken strips the scheme from an Authorization header value; returns
// "" when the scheme is absent or not Bearer.
func bearerToken(header string) string {
	if len(header) <= len(bearerPrefix) {
		return ""
	}

	if !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}
