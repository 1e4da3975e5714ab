package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/stretchr/testify/require"
)

func TestInviteState(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	consumedAt := now.Add(-time.Hour)

	tests := []struct {
		name   string
		invite domain.Invite
		want   domain.InviteState
	}{
		{"issued", domain.Invite{ExpiresAt: now.Add(time.Hour)}, domain.InviteIssued},
		{"expired at boundary", domain.Invite{ExpiresAt: now}, domain.InviteExpired},
		{"revoked wins over expiry", domain.Invite{ExpiresAt: now.Add(-time.Hour), Revoked: true}, domain.InviteRevoked},
		{"consumed stays consumed after expiry", domain.Invite{ExpiresAt: now.Add(-time.Minute), ConsumedBy: "u2", ConsumedAt: &consumedAt}, domain.InviteConsumed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.invite.State(now))
		})
	}
}

func TestReferralTreeSize(t *testing.T) {
	tree := domain.ReferralTree{
		UserID: "a",
		Invited: []domain.ReferralNode{
			{UserID: "b", Children: []domain.ReferralNode{{UserID: "d"}}},
			{UserID: "c"},
		},
	}
	require.Equal(t, 3, tree.Size())
	require.Zero(t, domain.ReferralTree{UserID: "x"}.Size())
}
