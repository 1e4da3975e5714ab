package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

type AuthHandler struct {
	AccountService *service.AccountService
	Cookie         CookieConfig
}

// HandleRegister godoc
//
//	@Summary		Register with an invite
//	@Description	Creates a USER account by consuming an invite code. The account and the consumption commit together.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chatsdk.RegisterRequest	true	"Registration"
//	@Success		201		{object}	chatsdk.AuthResponse	"user, token"
//	@Failure		400		{object}	chatsdk.ErrorResponse	"Invalid fields or unusable invite"
//	@Failure		404		{object}	chatsdk.ErrorResponse	"Invite not found"
//	@Failure		409		{object}	chatsdk.ErrorResponse	"Email or username taken, or invite already used"
//	@Failure		410		{object}	chatsdk.ErrorResponse	"Invite expired"
//	@Failure		429		{object}	chatsdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req chatsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, token, err := h.AccountService.Register(r.Context(), domain.Registration{
		InviteCode:  strings.TrimSpace(req.InviteCode),
		Email:       strings.TrimSpace(req.Email),
		Username:    strings.TrimSpace(req.Username),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, token)
	httpx.WriteJSON(w, http.StatusCreated, chatsdk.AuthResponse{User: toUserResponse(user), Token: token})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Checks a password against the account named by email or username and returns a fresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chatsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	chatsdk.AuthResponse	"user, token"
//	@Failure		400		{object}	chatsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	chatsdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	chatsdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req chatsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, token, err := h.AccountService.Login(r.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, token)
	httpx.WriteJSON(w, http.StatusOK, chatsdk.AuthResponse{User: toUserResponse(user), Token: token})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the token cookie. Bearer tokens stay valid until they expire.
//	@Tags			Auth
//	@Success		204
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookie.clear(w)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe godoc
//
//	@Summary		Current user
//	@Description	Returns the stored account behind the presented token.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	chatsdk.UserResponse
//	@Failure		401	{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		404	{object}	chatsdk.ErrorResponse	"Account no longer exists"
//	@Security		BearerAuth
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.AccountService.Me(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Debug("me lookup failed", slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
