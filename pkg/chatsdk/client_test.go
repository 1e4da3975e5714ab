package chatsdk_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginKeepsToken(t *testing.T) {
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req chatsdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.EmailOrUsername)

		writeJSON(w, http.StatusOK, chatsdk.AuthResponse{
			User:  chatsdk.UserResponse{ID: "u1", Username: "alice"},
			Token: "tok-123",
		})
	})
	mux.HandleFunc("GET /v1/invites", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, chatsdk.InviteListResponse{
			Invites: []chatsdk.InviteResponse{{ID: "i1", Code: "abc", State: "ISSUED"}},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := chatsdk.NewClient(srv.URL + "/")
	ctx := context.Background()

	_, err := c.ListInvites(ctx)
	require.ErrorIs(t, err, chatsdk.ErrNotAuthenticated)

	auth, err := c.Login(ctx, chatsdk.LoginRequest{EmailOrUsername: "alice", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "u1", auth.User.ID)
	require.Equal(t, "tok-123", c.Token())

	invites, err := c.ListInvites(ctx)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestAPIErrorParsing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/invites/{code}/revoke", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, chatsdk.ErrorResponse{
			Error:            chatsdk.ErrorCodeAlreadyResolved,
			ErrorDescription: "invite already consumed or revoked",
		})
	})
	mux.HandleFunc("GET /v1/invites/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>proxy</html>"))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := chatsdk.NewClient(srv.URL)
	c.SetToken("tok")
	ctx := context.Background()

	err := c.RevokeInvite(ctx, "abc")
	var apiErr *chatsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.ErrorIs(t, err, &chatsdk.APIError{Code: chatsdk.ErrorCodeAlreadyResolved})

	_, err = c.ValidateInvite(ctx, "abc")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, chatsdk.ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestRealtimeURL(t *testing.T) {
	c := chatsdk.NewClient("https://chat.example.com")
	require.Equal(t, "wss://chat.example.com/v1/realtime", c.RealtimeURL())

	c.SetToken("abc")
	require.Equal(t, "wss://chat.example.com/v1/realtime?token=abc", c.RealtimeURL())

	require.Equal(t, "ws://localhost:4000/v1/realtime", chatsdk.NewClient("http://localhost:4000").RealtimeURL())
}
