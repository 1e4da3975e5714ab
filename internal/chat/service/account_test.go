package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/service"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRegister_ConsumesInviteAndSignsToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.seedUser(t, "alice", 1)

	_, err := f.admin.SetDefaultInvites(ctx, 2)
	require.NoError(t, err)

	inv, err := f.invites.Issue(ctx, alice.ID, "", 0)
	require.NoError(t, err)

	bob, token, err := f.accounts.Register(ctx, domain.Registration{
		InviteCode:  inv.Code,
		Email:       "bob@example.com",
		Username:    "bob",
		DisplayName: "Bob",
		Password:    "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, bob.Role)
	require.Equal(t, 2, bob.InvitesRemaining)
	require.Equal(t, 2, f.quota(t, bob.ID))

	claims, err := f.signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, bob.ID, claims.Subject)
	require.Equal(t, "bob", claims.Username)
	require.Equal(t, jwtx.RoleUser, claims.Role)
	require.Equal(t, f.clock.Now().Add(jwtx.DefaultAccessTokenTTL), claims.ExpiresAt.Time.UTC())

	v, err := f.invites.Validate(ctx, inv.Code)
	require.NoError(t, err)
	require.Equal(t, domain.RejectUsed, v.Reason)
}

func TestRegister_Failures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.seedUser(t, "alice", 3)

	inv, err := f.invites.Issue(ctx, alice.ID, "", 0)
	require.NoError(t, err)

	base := domain.Registration{
		InviteCode:  inv.Code,
		Email:       "bob@example.com",
		Username:    "bob",
		DisplayName: "Bob",
		Password:    "correct horse",
	}

	t.Run("short password", func(t *testing.T) {
		reg := base
		reg.Password = "short"
		_, _, err := f.accounts.Register(ctx, reg)
		require.ErrorIs(t, err, service.ErrInvalidRegistration)
	})

	t.Run("bad email", func(t *testing.T) {
		reg := base
		reg.Email = "bob"
		_, _, err := f.accounts.Register(ctx, reg)
		require.ErrorIs(t, err, service.ErrInvalidRegistration)
	})

	t.Run("short username", func(t *testing.T) {
		reg := base
		reg.Username = "bo"
		_, _, err := f.accounts.Register(ctx, reg)
		require.ErrorIs(t, err, service.ErrInvalidRegistration)
	})

	t.Run("unknown invite", func(t *testing.T) {
		reg := base
		reg.InviteCode = "nope"
		_, _, err := f.accounts.Register(ctx, reg)
		require.ErrorIs(t, err, service.ErrInviteNotFound)
	})

	t.Run("username taken keeps invite usable", func(t *testing.T) {
		reg := base
		reg.Username = "alice"
		_, _, err := f.accounts.Register(ctx, reg)
		require.ErrorIs(t, err, service.ErrUserExists)

		v, err := f.invites.Validate(ctx, inv.Code)
		require.NoError(t, err)
		require.True(t, v.Valid)
	})

	t.Run("invite already used", func(t *testing.T) {
		_, _, err := f.accounts.Register(ctx, base)
		require.NoError(t, err)

		reg := base
		reg.Email = "carol@example.com"
		reg.Username = "carol"
		_, _, err = f.accounts.Register(ctx, reg)
		require.ErrorIs(t, err, service.ErrAlreadyResolved)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.seedUser(t, "alice", 1)

	inv, err := f.invites.Issue(ctx, alice.ID, "", 0)
	require.NoError(t, err)
	bob := f.register(t, inv.Code, "bob")

	u, token, err := f.accounts.Login(ctx, "bob", "correct horse")
	require.NoError(t, err)
	require.Equal(t, bob.ID, u.ID)
	require.NotEmpty(t, token)

	u, _, err = f.accounts.Login(ctx, "BOB@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, bob.ID, u.ID)

	_, _, err = f.accounts.Login(ctx, "bob", "wrong password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = f.accounts.Login(ctx, "nobody", "correct horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	me, err := f.accounts.Me(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", me.Username)

	_, err = f.accounts.Me(ctx, "missing")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
