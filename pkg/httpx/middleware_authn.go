package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

// TokenCookieName is the cookie the web client keeps its access token in.
const TokenCookieName = "token"

// TokenFromRequest pulls a bearer token from the Authorization header, falling
// back to the token cookie. allowQuery also accepts ?token= which browsers
// need for websocket upgrades since they cannot set headers there.
func TokenFromRequest(r *http.Request, allowQuery bool) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}

	if allowQuery {
		if tok := r.URL.Query().Get("token"); tok != "" {
			return tok
		}
	}

	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// AuthnMiddleware rejects requests without a valid access token and stores
// the verified claims in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := TokenFromRequest(r, false)
			if raw == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = ContextWithClaims(ctx, claims)
			ctx = slogx.WithUserID(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin only lets callers holding the ADMIN role through. It must run
// after AuthnMiddleware.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if !claims.IsAdmin() {
				WriteError(w, http.StatusForbidden, "forbidden", "Administrator role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
