package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

// writeServiceError maps service sentinels onto status codes. Anything
// unrecognised is logged and reported as a generic server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, httpx.ErrBadRequest),
		errors.Is(err, service.ErrInvalidInviteRequest),
		errors.Is(err, service.ErrInvalidRegistration),
		errors.Is(err, service.ErrInvalidConfigRequest):
		httpx.WriteError(w, http.StatusBadRequest, chatsdk.ErrorCodeInvalidRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, chatsdk.ErrorCodeInvalidCredentials, "Invalid email, username or password")

	case errors.Is(err, service.ErrQuotaExhausted):
		httpx.WriteError(w, http.StatusForbidden, chatsdk.ErrorCodeQuotaExhausted, "No invites remaining")
	case errors.Is(err, service.ErrNotOwner):
		httpx.WriteError(w, http.StatusForbidden, chatsdk.ErrorCodeNotOwner, "Invite belongs to another user")
	case errors.Is(err, service.ErrBootstrapDenied):
		httpx.WriteError(w, http.StatusForbidden, chatsdk.ErrorCodeForbidden, "Bootstrap secret missing or wrong")

	case errors.Is(err, service.ErrInviteNotFound):
		httpx.WriteError(w, http.StatusNotFound, chatsdk.ErrorCodeNotFound, "Invite not found")
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, chatsdk.ErrorCodeUserNotFound, "User not found")

	case errors.Is(err, service.ErrAlreadyResolved):
		httpx.WriteError(w, http.StatusConflict, chatsdk.ErrorCodeAlreadyResolved, "Invite already consumed or revoked")
	case errors.Is(err, service.ErrUserExists):
		httpx.WriteError(w, http.StatusConflict, chatsdk.ErrorCodeConflict, "Email or username already taken")
	case errors.Is(err, service.ErrAlreadyBootstrapped):
		httpx.WriteError(w, http.StatusConflict, chatsdk.ErrorCodeAlreadyBootstrapped, "An administrator already exists")

	case errors.Is(err, service.ErrInviteExpired):
		httpx.WriteError(w, http.StatusGone, chatsdk.ErrorCodeExpired, "Invite has expired")

	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, chatsdk.ErrorCodeServerError, "An internal error occurred")
	}
}
