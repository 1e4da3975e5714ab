package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewWiresEverything(t *testing.T) {
	dir := t.TempDir()

	cfg := Config{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		Issuer:               "tabchat-test",
		TokenTTL:             time.Hour,
		BootstrapSecret:      "let-me-in",
		DatabaseFile:         filepath.Join(dir, "chat.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		CORSOrigin:           "*",
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 4000,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		InviteRetention:      24 * time.Hour,
	}

	application, err := New(cfg)
	require.NoError(t, err)
	application.housekeepingService.Start()

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	require.NoError(t, application.Shutdown())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{JWTSecret: "short"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
