package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows the configured browser origin to call the API with cookies.
// An empty origin disables the middleware.
func CORS(origin string) Middleware {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(origin, ","),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
