package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestSchema_ConsumedInviteOutlivesDeleteAttempt(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	now := time.Now()
	newUser := func(name string) domain.User {
		u := domain.User{
			ID:           idx.New().String(),
			Email:        name + "@example.com",
			Username:     name,
			DisplayName:  name,
			PasswordHash: "hash",
		}
		require.NoError(t, s.Users().CreateUser(ctx, u))
		return u
	}

	inviter := newUser("inviter")
	invitee := newUser("invitee")
	require.NoError(t, s.Invites().CreateInvite(ctx, domain.Invite{
		ID:        idx.New().String(),
		Code:      "kept",
		InviterID: inviter.ID,
		ExpiresAt: now.Add(time.Hour),
	}))

	ok, err := s.Invites().ConsumeInvite(ctx, "kept", invitee.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, invitee.ID)
	require.Error(t, err, "deleting a user who consumed an invite must be refused")

	inv, err := s.Invites().GetInviteByCode(ctx, "kept")
	require.NoError(t, err)
	require.Equal(t, invitee.ID, inv.ConsumedBy)
	require.Equal(t, domain.InviteConsumed, inv.State(now))
}
