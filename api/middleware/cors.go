package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies the configured origin allow-list. Browser clients need the
// token, request id and replay headers exposed to read them.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", idempotencyHeader, requestIDHeader},
		ExposedHeaders: []string{
			requestIDHeader, "Content-Disposition", "Retry-After",
			"X-Stockroom-Token", "Idempotent-Replayed",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
