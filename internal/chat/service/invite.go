package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
	"github.com/aussiebroadwan/tabchat/pkg/cryptox"
	"github.com/aussiebroadwan/tabchat/pkg/idx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrUserNotFound         = errors.New("user not found")
	ErrQuotaExhausted       = errors.New("no invites remaining")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrNotOwner             = errors.New("invite belongs to another user")
	ErrAlreadyResolved      = errors.New("invite already consumed or revoked")
	ErrInviteExpired        = errors.New("invite has expired")
)

// InviteService is the invite ledger. Every state change is a single
// conditional UPDATE so concurrent callers can never both win.
type InviteService struct {
	Store store.Store

	// Clock is overridable for tests.
	Clock func() time.Time
}

func (s *InviteService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Now is the ledger's notion of the current time, used to derive invite state.
func (s *InviteService) Now() time.Time { return s.now() }

// Issue spends one of the inviter's invites and creates a fresh code.
// expiresInDays of 0 selects the default lifetime.
func (s *InviteService) Issue(
	ctx context.Context,
	inviterID string,
	email string,
	expiresInDays int,
) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	if expiresInDays == 0 {
		expiresInDays = domain.DefaultInviteExpiryDays
	}
	if expiresInDays < domain.MinInviteExpiryDays || expiresInDays > domain.MaxInviteExpiryDays {
		observeInvite("issue", ErrInvalidInviteRequest)
		return domain.Invite{}, fmt.Errorf("%w: expiry must be between %d and %d days",
			ErrInvalidInviteRequest, domain.MinInviteExpiryDays, domain.MaxInviteExpiryDays)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			observeInvite("issue", ErrInvalidInviteRequest)
			return domain.Invite{}, fmt.Errorf("%w: invalid email", ErrInvalidInviteRequest)
		}
	}

	code, err := cryptox.NewInviteCode()
	if err != nil {
		log.Error("failed to generate invite code", slog.Any("error", err))
		return domain.Invite{}, err
	}

	now := s.now()
	invite := domain.Invite{
		ID:           idx.NewAt(now).String(),
		Code:         code,
		InviterID:    inviterID,
		InviteeEmail: email,
		ExpiresAt:    now.Add(time.Duration(expiresInDays) * 24 * time.Hour),
		CreatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		took, err := tx.Users().TakeInvite(ctx, inviterID)
		if err != nil {
			return err
		}
		if !took {
			if _, err := tx.Users().GetUserByID(ctx, inviterID); errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			} else if err != nil {
				return err
			}
			return ErrQuotaExhausted
		}
		return tx.Invites().CreateInvite(ctx, invite)
	})
	observeInvite("issue", err)
	if err != nil {
		if errors.Is(err, ErrQuotaExhausted) || errors.Is(err, ErrUserNotFound) {
			log.Warn("invite issue refused",
				slog.String("inviter_id", inviterID),
				slog.String("reason", err.Error()),
			)
			return domain.Invite{}, err
		}
		log.Error("failed to issue invite", slog.String("inviter_id", inviterID), slog.Any("error", err))
		return domain.Invite{}, err
	}

	log.Info("invite issued",
		slog.String("invite_id", invite.ID),
		slog.String("inviter_id", inviterID),
		slog.Time("expires_at", invite.ExpiresAt),
	)
	return invite, nil
}

// Revoke cancels an unresolved invite and hands the quota back to its owner.
func (s *InviteService) Revoke(ctx context.Context, code, requesterID string) error {
	log := slogx.FromContext(ctx)

	invite, err := s.Store.Invites().GetInviteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			observeInvite("revoke", ErrInviteNotFound)
			return ErrInviteNotFound
		}
		return err
	}

	if invite.InviterID != requesterID {
		log.Warn("revoke attempted by non-owner",
			slog.String("invite_id", invite.ID),
			slog.String("requester_id", requesterID),
		)
		observeInvite("revoke", ErrNotOwner)
		return ErrNotOwner
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		revoked, err := tx.Invites().RevokeInvite(ctx, invite.ID)
		if err != nil {
			return err
		}
		if !revoked {
			return ErrAlreadyResolved
		}
		return tx.Users().ReturnInvite(ctx, invite.InviterID)
	})
	observeInvite("revoke", err)
	if err != nil {
		return err
	}

	log.Info("invite revoked", slog.String("invite_id", invite.ID))
	return nil
}

// Validate answers whether code could be consumed right now. It never
// mutates; only storage failures come back as an error.
func (s *InviteService) Validate(ctx context.Context, code string) (domain.InviteValidation, error) {
	invite, err := s.Store.Invites().GetInviteByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return domain.InviteValidation{Reason: domain.RejectNotFound}, nil
	}
	if err != nil {
		return domain.InviteValidation{}, err
	}

	switch invite.State(s.now()) {
	case domain.InviteConsumed:
		return domain.InviteValidation{Reason: domain.RejectUsed}, nil
	case domain.InviteRevoked:
		return domain.InviteValidation{Reason: domain.RejectRevoked}, nil
	case domain.InviteExpired:
		return domain.InviteValidation{Reason: domain.RejectExpired}, nil
	}

	inviter, err := s.Store.Users().GetUserByID(ctx, invite.InviterID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.InviteValidation{Reason: domain.RejectNotFound}, nil
	}
	if err != nil {
		return domain.InviteValidation{}, err
	}

	return domain.InviteValidation{
		Valid:     true,
		ExpiresAt: invite.ExpiresAt,
		Inviter:   inviter.Summary(),
	}, nil
}

// Consume marks code as used by newUserID. Exactly one of any number of
// concurrent callers succeeds.
func (s *InviteService) Consume(ctx context.Context, code, newUserID string) (domain.Invite, error) {
	return s.consume(ctx, s.Store, code, newUserID)
}

// ConsumeTx is Consume inside the caller's transaction, so the invite and the
// account it gates commit or roll back together.
func (s *InviteService) ConsumeTx(ctx context.Context, tx store.Tx, code, newUserID string) (domain.Invite, error) {
	return s.consume(ctx, tx, code, newUserID)
}

func (s *InviteService) consume(ctx context.Context, st store.Store, code, newUserID string) (domain.Invite, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	won, err := st.Invites().ConsumeInvite(ctx, code, newUserID, now)
	if err != nil {
		return domain.Invite{}, err
	}

	invite, err := st.Invites().GetInviteByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		observeInvite("consume", ErrInviteNotFound)
		return domain.Invite{}, ErrInviteNotFound
	}
	if err != nil {
		return domain.Invite{}, err
	}

	if !won {
		// Lost the compare-and-set; say why without ever retrying
		reason := ErrAlreadyResolved
		if invite.State(now) == domain.InviteExpired {
			reason = ErrInviteExpired
		}
		log.Warn("invite consume refused",
			slog.String("invite_id", invite.ID),
			slog.String("reason", reason.Error()),
		)
		observeInvite("consume", reason)
		return domain.Invite{}, reason
	}

	observeInvite("consume", nil)
	log.Info("invite consumed",
		slog.String("invite_id", invite.ID),
		slog.String("inviter_id", invite.InviterID),
		slog.String("user_id", newUserID),
	)
	return invite, nil
}

// ListMine returns the inviter's invites, newest first.
func (s *InviteService) ListMine(ctx context.Context, inviterID string) ([]domain.Invite, error) {
	return s.Store.Invites().ListInvitesByInviter(ctx, inviterID)
}

// ResetAllQuotas overwrites every user's remaining invites.
func (s *InviteService) ResetAllQuotas(ctx context.Context, value int) (int64, error) {
	if value < 0 || value > domain.MaxInvitesPerUser {
		return 0, fmt.Errorf("%w: quota must be between 0 and %d", ErrInvalidInviteRequest, domain.MaxInvitesPerUser)
	}

	n, err := s.Store.Users().SetAllInvites(ctx, value)
	if err != nil {
		return 0, err
	}

	slogx.FromContext(ctx).Info("invite quotas reset",
		slog.Int("value", value),
		slog.Int64("users", n),
	)
	return n, nil
}

// AdjustQuota shifts one user's quota by delta, flooring at zero. It is an
// administrative override and does not reconcile against issued invites.
func (s *InviteService) AdjustQuota(ctx context.Context, userID string, delta int) (int, error) {
	if delta < -domain.MaxQuotaAdjustment || delta > domain.MaxQuotaAdjustment {
		return 0, fmt.Errorf("%w: amount must be between -%d and %d",
			ErrInvalidInviteRequest, domain.MaxQuotaAdjustment, domain.MaxQuotaAdjustment)
	}

	remaining, err := s.Store.Users().AdjustInvites(ctx, userID, delta)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	slogx.FromContext(ctx).Info("invite quota adjusted",
		slog.String("user_id", userID),
		slog.Int("delta", delta),
		slog.Int("remaining", remaining),
	)
	return remaining, nil
}
