package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the URL shortener routes. The auth middleware is
// applied only to the creation endpoint; resolution is public.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, auth func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-short-url",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate",
		Summary:     "Create short URL",
		Description: "Creates a short link for the submitted URL, or returns the existing one when the URL was submitted before.",
		Tags:        []string{"URLs"},
		Security: []map[string][]string{
			{"bearer": {}},
		},
		Middlewares: huma.Middlewares{auth},
	}, urlHandler.Generate)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL stored under the short code.",
		Tags:        []string{"URLs"},
	}, urlHandler.Redirect)
}
