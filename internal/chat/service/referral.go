package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
)

// BuildTree walks everyone rootUserID brought in, directly or transitively.
// All consumed invites are read in one query; the walk itself is in memory.
func (s *InviteService) BuildTree(ctx context.Context, rootUserID string) (domain.ReferralTree, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, rootUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ReferralTree{}, ErrUserNotFound
		}
		return domain.ReferralTree{}, err
	}

	// Rows arrive ordered by consumption time then id.
	consumed, err := s.Store.Invites().ListConsumedInvites(ctx)
	if err != nil {
		return domain.ReferralTree{}, err
	}

	return domain.BuildReferralTree(rootUserID, consumed), nil
}
