package http

import (
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
)

func toUserResponse(u domain.User) chatsdk.UserResponse {
	return chatsdk.UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		DisplayName:      u.DisplayName,
		Role:             string(u.Role),
		InvitesRemaining: u.InvitesRemaining,
		CreatedAt:        u.CreatedAt,
	}
}

func toInviteResponse(inv domain.Invite, now time.Time) chatsdk.InviteResponse {
	return chatsdk.InviteResponse{
		ID:           inv.ID,
		Code:         inv.Code,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
		State:        string(inv.State(now)),
		ExpiresAt:    inv.ExpiresAt,
		ConsumedBy:   inv.ConsumedBy,
		ConsumedAt:   inv.ConsumedAt,
		CreatedAt:    inv.CreatedAt,
	}
}

func toValidationResponse(v domain.InviteValidation) chatsdk.InviteValidationResponse {
	if !v.Valid {
		return chatsdk.InviteValidationResponse{Valid: false, Reason: string(v.Reason)}
	}

	expires := v.ExpiresAt
	return chatsdk.InviteValidationResponse{
		Valid:     true,
		ExpiresAt: &expires,
		Inviter: &chatsdk.UserSummary{
			ID:          v.Inviter.ID,
			Username:    v.Inviter.Username,
			DisplayName: v.Inviter.DisplayName,
		},
	}
}

// toReferralNodes copies the tree iteratively so a deep referral chain cannot
// exhaust the goroutine stack.
func toReferralNodes(src []domain.ReferralNode) []chatsdk.ReferralNode {
	type frame struct {
		from []domain.ReferralNode
		to   []chatsdk.ReferralNode
	}

	out := make([]chatsdk.ReferralNode, len(src))
	stack := []frame{{from: src, to: out}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i, n := range f.from {
			f.to[i] = chatsdk.ReferralNode{
				InviteID: n.InviteID,
				Code:     n.Code,
				UserID:   n.UserID,
				Cycle:    n.Cycle,
				Children: make([]chatsdk.ReferralNode, len(n.Children)),
			}
			if len(n.Children) > 0 {
				stack = append(stack, frame{from: n.Children, to: f.to[i].Children})
			}
		}
	}
	return out
}
