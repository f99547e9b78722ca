package api

import (
	"net/http"

	"github.com/rs/cors"
)

// WithCORS wraps h so browsers on the allowed origins can call the API.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders: []string{traceIDHeader},
	})
	return c.Handler(h)
}
