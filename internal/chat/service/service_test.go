package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
	"github.com/aussiebroadwan/tabchat/internal/chat/store/drivers/sqlite"
	"github.com/aussiebroadwan/tabchat/pkg/cryptox"
	"github.com/aussiebroadwan/tabchat/pkg/idx"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// fakeClock is a settable time source shared by every service in a test.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	store    *sqlite.Store
	clock    *fakeClock
	invites  *service.InviteService
	accounts *service.AccountService
	admin    *service.AdminService
	signer   *jwtx.HS256
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "tabchat-test")
	require.NoError(t, err)

	// Anchored on wall time: jwtx verifies expiry against the real clock.
	clock := &fakeClock{t: time.Now().UTC().Truncate(time.Second)}
	invites := &service.InviteService{Store: s, Clock: clock.Now}

	return &fixture{
		store:   s,
		clock:   clock,
		invites: invites,
		accounts: &service.AccountService{
			Store:   s,
			Invites: invites,
			Signer:  signer,
			Issuer:  "tabchat-test",
			Clock:   clock.Now,
		},
		admin: &service.AdminService{
			Store:           s,
			BootstrapSecret: "let-me-in",
			Clock:           clock.Now,
		},
		signer: signer,
	}
}

// seedUser inserts a user directly, bypassing the invite gate.
func (f *fixture) seedUser(t *testing.T, username string, quota int) domain.User {
	t.Helper()

	u := domain.User{
		ID:               idx.New().String(),
		Email:            username + "@example.com",
		Username:         username,
		DisplayName:      username,
		PasswordHash:     "unused",
		Role:             domain.RoleUser,
		InvitesRemaining: quota,
		CreatedAt:        f.clock.Now(),
		UpdatedAt:        f.clock.Now(),
	}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), u))
	return u
}

func (f *fixture) quota(t *testing.T, userID string) int {
	t.Helper()

	u, err := f.store.Users().GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	return u.InvitesRemaining
}

func (f *fixture) register(t *testing.T, code, username string) domain.User {
	t.Helper()

	u, _, err := f.accounts.Register(context.Background(), domain.Registration{
		InviteCode:  code,
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: username,
		Password:    "correct horse",
	})
	require.NoError(t, err)
	return u
}

var _ store.Store = (*sqlite.Store)(nil)
