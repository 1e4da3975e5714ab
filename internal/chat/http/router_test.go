package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	chathttp "github.com/aussiebroadwan/tabchat/internal/chat/http"
	"github.com/aussiebroadwan/tabchat/internal/chat/realtime"
	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/internal/chat/store/drivers/sqlite"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
	"github.com/aussiebroadwan/tabchat/pkg/cryptox"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
)

const (
	testIssuer  = "tabchat-test"
	testSecret  = "let-me-in"
	adminPasswd = "admin-password"
	userPasswd  = "correct horse"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type harness struct {
	server   *httptest.Server
	presence *realtime.Presence
	signer   *jwtx.HS256
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	invites := &service.InviteService{Store: st}
	accounts := &service.AccountService{Store: st, Invites: invites, Signer: signer, Issuer: testIssuer}
	admin := &service.AdminService{Store: st, BootstrapSecret: testSecret}

	presence := realtime.NewPresence()
	dispatcher := realtime.NewDispatcher(realtime.NewRooms(), logger)

	router := chathttp.NewRouter(signer, "test", st, logger)
	router.AccountService = accounts
	router.InviteService = invites
	router.AdminService = admin
	router.Presence = presence
	router.Gateway = realtime.NewGateway(signer, presence, dispatcher, []string{"*"})
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		dispatcher.Close()
		server.Close()
	})

	return &harness{server: server, presence: presence, signer: signer}
}

func (h *harness) client() *chatsdk.Client {
	return chatsdk.NewClient(h.server.URL)
}

func (h *harness) bootstrap(t *testing.T) (*chatsdk.Client, *chatsdk.AuthResponse) {
	t.Helper()

	c := h.client()
	auth, err := c.Bootstrap(context.Background(), chatsdk.BootstrapRequest{
		Secret:      testSecret,
		Email:       "root@example.com",
		Username:    "root",
		DisplayName: "Root",
		Password:    adminPasswd,
	})
	require.NoError(t, err)
	return c, auth
}

func (h *harness) register(t *testing.T, code, username string) (*chatsdk.Client, *chatsdk.AuthResponse) {
	t.Helper()

	c := h.client()
	auth, err := c.Register(context.Background(), chatsdk.RegisterRequest{
		InviteCode:  code,
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: strings.ToUpper(username),
		Password:    userPasswd,
	})
	require.NoError(t, err)
	return c, auth
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *chatsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

func TestInviteSignupFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, adminAuth := h.bootstrap(t)
	require.Equal(t, "ADMIN", adminAuth.User.Role)
	require.Equal(t, 5, adminAuth.User.InvitesRemaining)

	inv, err := admin.IssueInvite(ctx, chatsdk.InviteRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, "ISSUED", inv.State)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)

	// anyone may check a code before signing up
	check, err := h.client().ValidateInvite(ctx, inv.Code)
	require.NoError(t, err)
	require.True(t, check.Valid)
	require.NotNil(t, check.Inviter)
	require.Equal(t, "root", check.Inviter.Username)

	bob, bobAuth := h.register(t, inv.Code, "bob")
	require.Equal(t, "USER", bobAuth.User.Role)

	me, err := bob.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, bobAuth.User.ID, me.ID)

	check, err = h.client().ValidateInvite(ctx, inv.Code)
	require.NoError(t, err)
	require.False(t, check.Valid)
	require.Equal(t, "USED", check.Reason)

	mine, err := admin.ListInvites(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "CONSUMED", mine[0].State)
	require.Equal(t, bobAuth.User.ID, mine[0].ConsumedBy)

	// the same code cannot be spent twice
	_, err = h.client().Register(ctx, chatsdk.RegisterRequest{
		InviteCode:  inv.Code,
		Email:       "carol@example.com",
		Username:    "carol",
		DisplayName: "Carol",
		Password:    userPasswd,
	})
	requireAPIError(t, err, http.StatusConflict, chatsdk.ErrorCodeAlreadyResolved)

	tree, err := admin.InviteTree(ctx, "")
	require.NoError(t, err)
	require.Equal(t, adminAuth.User.ID, tree.UserID)
	require.Len(t, tree.Invited, 1)
	require.Equal(t, bobAuth.User.ID, tree.Invited[0].UserID)
}

func TestBootstrapOnlyOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.client().Bootstrap(ctx, chatsdk.BootstrapRequest{
		Secret:      "wrong",
		Email:       "root@example.com",
		Username:    "root",
		DisplayName: "Root",
		Password:    adminPasswd,
	})
	requireAPIError(t, err, http.StatusForbidden, chatsdk.ErrorCodeForbidden)

	h.bootstrap(t)

	_, err = h.client().Bootstrap(ctx, chatsdk.BootstrapRequest{
		Secret:      testSecret,
		Email:       "second@example.com",
		Username:    "second",
		DisplayName: "Second",
		Password:    adminPasswd,
	})
	requireAPIError(t, err, http.StatusConflict, chatsdk.ErrorCodeAlreadyBootstrapped)
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bootstrap(t)

	c := h.client()
	_, err := c.Login(ctx, chatsdk.LoginRequest{EmailOrUsername: "root", Password: "nope-nope"})
	requireAPIError(t, err, http.StatusUnauthorized, chatsdk.ErrorCodeInvalidCredentials)

	auth, err := c.Login(ctx, chatsdk.LoginRequest{EmailOrUsername: "root@example.com", Password: adminPasswd})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)

	require.NoError(t, c.Logout(ctx))
	require.Empty(t, c.Token())

	_, err = c.Me(ctx)
	require.ErrorIs(t, err, chatsdk.ErrNotAuthenticated)
}

func TestLoginSetsTokenCookie(t *testing.T) {
	h := newHarness(t)
	h.bootstrap(t)

	body := strings.NewReader(`{"emailOrUsername":"root","password":"` + adminPasswd + `"}`)
	resp, err := http.Post(h.server.URL+"/v1/auth/login", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == httpx.TokenCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.NotEmpty(t, cookie.Value)

	// the cookie alone authenticates
	req, err := http.NewRequest(http.MethodGet, h.server.URL+"/v1/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)

	me, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)
}

func TestRevokeRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, adminAuth := h.bootstrap(t)

	first, err := admin.IssueInvite(ctx, chatsdk.InviteRequest{})
	require.NoError(t, err)
	second, err := admin.IssueInvite(ctx, chatsdk.InviteRequest{})
	require.NoError(t, err)

	bob, _ := h.register(t, first.Code, "bob")

	err = bob.RevokeInvite(ctx, second.Code)
	requireAPIError(t, err, http.StatusForbidden, chatsdk.ErrorCodeNotOwner)

	err = admin.RevokeInvite(ctx, "no-such-code")
	requireAPIError(t, err, http.StatusNotFound, chatsdk.ErrorCodeNotFound)

	err = admin.RevokeInvite(ctx, first.Code)
	requireAPIError(t, err, http.StatusConflict, chatsdk.ErrorCodeAlreadyResolved)

	require.NoError(t, admin.RevokeInvite(ctx, second.Code))

	me, err := admin.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, adminAuth.User.InvitesRemaining-1, me.InvitesRemaining)
}

func TestIssueInviteValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, _ := h.bootstrap(t)

	_, err := admin.IssueInvite(ctx, chatsdk.InviteRequest{ExpiresInDays: 31})
	requireAPIError(t, err, http.StatusBadRequest, chatsdk.ErrorCodeInvalidRequest)

	_, err = admin.IssueInvite(ctx, chatsdk.InviteRequest{Email: "not-an-email"})
	requireAPIError(t, err, http.StatusBadRequest, chatsdk.ErrorCodeInvalidRequest)

	_, err = admin.ResetQuotas(ctx, 0)
	require.NoError(t, err)

	_, err = admin.IssueInvite(ctx, chatsdk.InviteRequest{})
	requireAPIError(t, err, http.StatusForbidden, chatsdk.ErrorCodeQuotaExhausted)
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, adminAuth := h.bootstrap(t)
	inv, err := admin.IssueInvite(ctx, chatsdk.InviteRequest{})
	require.NoError(t, err)
	bob, bobAuth := h.register(t, inv.Code, "bob")

	_, err = bob.GetConfig(ctx)
	requireAPIError(t, err, http.StatusForbidden, chatsdk.ErrorCodeForbidden)

	_, err = bob.InviteTree(ctx, adminAuth.User.ID)
	requireAPIError(t, err, http.StatusForbidden, chatsdk.ErrorCodeForbidden)

	cfg, err := admin.SetDefaultInvites(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.DefaultInvitesPerUser)

	_, err = admin.SetDefaultInvites(ctx, 101)
	requireAPIError(t, err, http.StatusBadRequest, chatsdk.ErrorCodeInvalidRequest)

	adj, err := admin.AdjustQuota(ctx, bobAuth.User.ID, -100)
	require.NoError(t, err)
	require.Equal(t, 0, adj.InvitesRemaining)

	_, err = admin.AdjustQuota(ctx, "missing-user", 1)
	requireAPIError(t, err, http.StatusNotFound, chatsdk.ErrorCodeUserNotFound)

	// admins may trace anyone
	tree, err := admin.InviteTree(ctx, bobAuth.User.ID)
	require.NoError(t, err)
	require.Empty(t, tree.Invited)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/v1/invites", "/v1/auth/me", "/v1/admin/config"} {
		resp, err := http.Get(h.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client()

	live, err := c.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := c.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, 0, ready.OnlineUsers)

	resp, err := http.Get(h.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRealtimeMountedOnRouter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, auth := h.bootstrap(t)

	wsURL := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/v1/realtime?token=" + auth.Token
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	require.NoError(t, err)
	defer ws.Close()

	// online for self, then the snapshot
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = ws.ReadMessage()
	require.NoError(t, err)
	_, _, err = ws.ReadMessage()
	require.NoError(t, err)

	ready, err := h.client().GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, ready.OnlineUsers)
	require.True(t, h.presence.IsOnline(auth.User.ID))
}
