package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

type AdminHandler struct {
	AdminService   *service.AdminService
	InviteService  *service.InviteService
	AccountService *service.AccountService
	Cookie         CookieConfig
}

// HandleBootstrap godoc
//
//	@Summary		Bootstrap the first administrator
//	@Description	Creates the first ADMIN account when the configured bootstrap secret matches. Refused once any admin exists.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chatsdk.BootstrapRequest	true	"Secret and admin account"
//	@Success		201		{object}	chatsdk.AuthResponse		"user, token"
//	@Failure		400		{object}	chatsdk.ErrorResponse		"Invalid fields"
//	@Failure		403		{object}	chatsdk.ErrorResponse		"Bootstrap secret missing or wrong"
//	@Failure		409		{object}	chatsdk.ErrorResponse		"An administrator already exists"
//	@Router			/v1/admin/bootstrap [post].
func (h *AdminHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	var req chatsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.AdminService.Bootstrap(r.Context(), domain.BootstrapData{
		Secret:      req.Secret,
		Email:       strings.TrimSpace(req.Email),
		Username:    strings.TrimSpace(req.Username),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.AccountService.IssueToken(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, token)
	httpx.WriteJSON(w, http.StatusCreated, chatsdk.AuthResponse{User: toUserResponse(user), Token: token})
}

// HandleGetConfig godoc
//
//	@Summary		Read app config
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	chatsdk.AppConfigResponse
//	@Failure		401	{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	chatsdk.ErrorResponse	"Administrator role required"
//	@Security		BearerAuth
//	@Router			/v1/admin/config [get].
func (h *AdminHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.AdminService.GetConfig(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chatsdk.AppConfigResponse{
		DefaultInvitesPerUser: cfg.DefaultInvitesPerUser,
		UpdatedAt:             cfg.UpdatedAt,
	})
}

// HandleSetConfig godoc
//
//	@Summary		Update app config
//	@Description	Sets the invite quota handed to accounts created from now on. Existing users keep their quota.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chatsdk.AppConfigRequest	true	"New default"
//	@Success		200		{object}	chatsdk.AppConfigResponse
//	@Failure		400		{object}	chatsdk.ErrorResponse	"Value out of range"
//	@Failure		401		{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	chatsdk.ErrorResponse	"Administrator role required"
//	@Security		BearerAuth
//	@Router			/v1/admin/config [patch].
func (h *AdminHandler) HandleSetConfig(w http.ResponseWriter, r *http.Request) {
	var req chatsdk.AppConfigRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cfg, err := h.AdminService.SetDefaultInvites(r.Context(), *req.DefaultInvitesPerUser)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chatsdk.AppConfigResponse{
		DefaultInvitesPerUser: cfg.DefaultInvitesPerUser,
		UpdatedAt:             cfg.UpdatedAt,
	})
}

// HandleAdjustQuota godoc
//
//	@Summary		Adjust one user's invites
//	@Description	Adds amount (which may be negative) to the user's remaining invites, flooring at zero.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		chatsdk.QuotaAdjustRequest	true	"Delta"
//	@Success		200		{object}	chatsdk.QuotaAdjustResponse
//	@Failure		400		{object}	chatsdk.ErrorResponse	"Amount out of range"
//	@Failure		403		{object}	chatsdk.ErrorResponse	"Administrator role required"
//	@Failure		404		{object}	chatsdk.ErrorResponse	"User not found"
//	@Security		BearerAuth
//	@Router			/v1/admin/users/{id}/invites/adjust [post].
func (h *AdminHandler) HandleAdjustQuota(w http.ResponseWriter, r *http.Request) {
	var req chatsdk.QuotaAdjustRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	userID := r.PathValue("id")
	remaining, err := h.InviteService.AdjustQuota(r.Context(), userID, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chatsdk.QuotaAdjustResponse{UserID: userID, InvitesRemaining: remaining})
}

// HandleResetQuotas godoc
//
//	@Summary		Reset every user's invites
//	@Description	Overwrites the remaining invites of every account with value.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chatsdk.QuotaResetRequest	true	"New quota"
//	@Success		200		{object}	chatsdk.QuotaResetResponse
//	@Failure		400		{object}	chatsdk.ErrorResponse	"Value out of range"
//	@Failure		403		{object}	chatsdk.ErrorResponse	"Administrator role required"
//	@Security		BearerAuth
//	@Router			/v1/admin/invites/reset [post].
func (h *AdminHandler) HandleResetQuotas(w http.ResponseWriter, r *http.Request) {
	var req chatsdk.QuotaResetRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	n, err := h.InviteService.ResetAllQuotas(r.Context(), *req.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chatsdk.QuotaResetResponse{UsersUpdated: n})
}
