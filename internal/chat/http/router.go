package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/tabchat/api/chat" // Swagger docs
	"github.com/aussiebroadwan/tabchat/internal/chat/realtime"
	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AccountService *service.AccountService
	InviteService  *service.InviteService
	AdminService   *service.AdminService

	// Presence feeds the online count on /readyz. Gateway serves /v1/realtime.
	Presence *realtime.Presence
	Gateway  http.Handler

	// Cookie carries the token cookie settings.
	Cookie CookieConfig
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Cookie:       CookieConfig{TTL: jwtx.DefaultAccessTokenTTL},
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// Use appends global middleware. Later entries run closer to the handler.
func (r *Router) Use(mws ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvites()
	r.registerAdmin()
	r.registerRealtime()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TabChat API
//	@version		0.1.0
//	@description	Invite-gated accounts, referral trees and the realtime gateway for TabChat.
//	@description
//	@description				Tokens are HS256 JWTs. Browsers may rely on the httpOnly "token" cookie instead of the header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tabchat
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:4000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AccountService: r.AccountService, Cookie: r.Cookie}

	// Public account endpoints - strict rate limit by IP (password guessing, invite probing)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Logout only clears the cookie, no token required
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InviteHandler{InviteService: r.InviteService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/invites", secured(h.HandleIssue))
	r.Mux.Handle("GET /v1/invites", secured(h.HandleList))
	r.Mux.Handle("GET /v1/invites/tree", secured(h.HandleTree))
	r.Mux.Handle("POST /v1/invites/{code}/revoke", secured(h.HandleRevoke))

	// GET /v1/invites/{code} - public, the signup page checks a code before showing the form
	r.Mux.Handle("GET /v1/invites/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		AdminService:   r.AdminService,
		InviteService:  r.InviteService,
		AccountService: r.AccountService,
		Cookie:         r.Cookie,
	}

	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	r.Mux.Handle("POST /v1/admin/bootstrap",
		httpx.Chain(http.HandlerFunc(h.HandleBootstrap),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/config", admin(h.HandleGetConfig))
	r.Mux.Handle("PATCH /v1/admin/config", admin(h.HandleSetConfig))
	r.Mux.Handle("POST /v1/admin/users/{id}/invites/adjust", admin(h.HandleAdjustQuota))
	r.Mux.Handle("POST /v1/admin/invites/reset", admin(h.HandleResetQuotas))
}

func (r *Router) registerRealtime() {
	if r.Gateway == nil {
		return
	}

	// The gateway authenticates itself so it can accept ?token= from browsers
	r.Mux.Handle("GET /v1/realtime",
		httpx.Chain(r.Gateway,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Presence, r.Gateway != nil),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
