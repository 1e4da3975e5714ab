//go:build e2e

package chat_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
)

// TestRateLimitLoginEndpoint verifies that login is rate limited.
// This endpoint has strict limits (5 req/min) to prevent brute force attacks.
func TestRateLimitLoginEndpoint(t *testing.T) {
	baseURL, cleanup := setupChatContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := chatsdk.NewClient(baseURL)

	for i := range 5 {
		_, err := client.Login(t.Context(), chatsdk.LoginRequest{EmailOrUsername: "nobody", Password: "wrongpass"})
		assertAPIError(t, err, http.StatusUnauthorized, chatsdk.ErrorCodeInvalidCredentials)
		t.Logf("request %d refused with invalid credentials", i+1)
	}

	_, err := client.Login(t.Context(), chatsdk.LoginRequest{EmailOrUsername: "nobody", Password: "wrongpass"})
	assertAPIError(t, err, http.StatusTooManyRequests, chatsdk.ErrorCodeRateLimited)
}

// TestRateLimitInviteValidation verifies invite probing is rate limited.
func TestRateLimitInviteValidation(t *testing.T) {
	baseURL, cleanup := setupChatContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := chatsdk.NewClient(baseURL)

	var lastErr error
	for range 6 {
		_, lastErr = client.ValidateInvite(t.Context(), "guessed-code")
	}

	require.Error(t, lastErr)
	assertAPIError(t, lastErr, http.StatusTooManyRequests, chatsdk.ErrorCodeRateLimited)
}
