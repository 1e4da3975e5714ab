package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

type InviteHandler struct {
	InviteService *service.InviteService
}

// HandleIssue godoc
//
//	@Summary		Issue an invite
//	@Description	Spends one of the caller's invites and returns a new code. expiresInDays defaults to 7.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chatsdk.InviteRequest	false	"Optional invitee email and lifetime"
//	@Success		201		{object}	chatsdk.InviteResponse
//	@Failure		400		{object}	chatsdk.ErrorResponse	"Invalid expiry or email"
//	@Failure		401		{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	chatsdk.ErrorResponse	"No invites remaining"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatsdk.InviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	inv, err := h.InviteService.Issue(ctx, httpx.UserIDFromContext(ctx), strings.TrimSpace(req.Email), req.ExpiresInDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInviteResponse(inv, h.InviteService.Now()))
}

// HandleList godoc
//
//	@Summary		List my invites
//	@Description	Every invite the caller has issued, newest first, with its derived state.
//	@Tags			Invites
//	@Produce		json
//	@Success		200	{object}	chatsdk.InviteListResponse
//	@Failure		401	{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Security		BearerAuth
//	@Router			/v1/invites [get].
func (h *InviteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invites, err := h.InviteService.ListMine(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := h.InviteService.Now()
	resp := chatsdk.InviteListResponse{Invites: make([]chatsdk.InviteResponse, 0, len(invites))}
	for _, inv := range invites {
		resp.Invites = append(resp.Invites, toInviteResponse(inv, now))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRevoke godoc
//
//	@Summary		Revoke an invite
//	@Description	Cancels an unused invite and gives the quota back. Only the inviter may revoke.
//	@Tags			Invites
//	@Param			code	path	string	true	"Invite code"
//	@Success		204
//	@Failure		401	{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	chatsdk.ErrorResponse	"Invite belongs to another user"
//	@Failure		404	{object}	chatsdk.ErrorResponse	"Invite not found"
//	@Failure		409	{object}	chatsdk.ErrorResponse	"Invite already consumed or revoked"
//	@Security		BearerAuth
//	@Router			/v1/invites/{code}/revoke [post].
func (h *InviteHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.InviteService.Revoke(ctx, r.PathValue("code"), httpx.UserIDFromContext(ctx)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleValidate godoc
//
//	@Summary		Check an invite code
//	@Description	Public. Reports whether a code can be used right now. Unusable codes answer 200 with valid=false and a reason.
//	@Tags			Invites
//	@Produce		json
//	@Param			code	path		string	true	"Invite code"
//	@Success		200		{object}	chatsdk.InviteValidationResponse
//	@Failure		429		{object}	chatsdk.ErrorResponse	"Rate limited"
//	@Router			/v1/invites/{code} [get].
func (h *InviteHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	v, err := h.InviteService.Validate(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toValidationResponse(v))
}

// HandleTree godoc
//
//	@Summary		Referral tree
//	@Description	Who joined through the caller's invites, and who they invited in turn. Admins may pass root to trace any user.
//	@Tags			Invites
//	@Produce		json
//	@Param			root	query		string	false	"Root user id (admin only when not the caller)"
//	@Success		200		{object}	chatsdk.ReferralTreeResponse
//	@Failure		401		{object}	chatsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	chatsdk.ErrorResponse	"Tracing another user requires the admin role"
//	@Failure		404		{object}	chatsdk.ErrorResponse	"Root user not found"
//	@Security		BearerAuth
//	@Router			/v1/invites/tree [get].
func (h *InviteHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := httpx.UserIDFromContext(ctx)

	root := strings.TrimSpace(r.URL.Query().Get("root"))
	if root == "" {
		root = callerID
	}
	if root != callerID {
		claims, _ := httpx.ClaimsFromContext(ctx)
		if !claims.IsAdmin() {
			slogx.FromContext(ctx).Warn("referral tree denied", slog.String("root", root))
			httpx.WriteError(w, http.StatusForbidden, chatsdk.ErrorCodeForbidden, "Administrator role required to trace another user")
			return
		}
	}

	tree, err := h.InviteService.BuildTree(ctx, root)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chatsdk.ReferralTreeResponse{
		UserID:  tree.UserID,
		Invited: toReferralNodes(tree.Invited),
	})
}
