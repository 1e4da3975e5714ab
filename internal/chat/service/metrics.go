package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var inviteOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tabchat",
		Subsystem: "invites",
		Name:      "operations_total",
		Help:      "Invite ledger operations by outcome.",
	},
	[]string{"op", "outcome"},
)

func observeInvite(op string, err error) {
	inviteOperations.WithLabelValues(op, outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, ErrInviteNotFound):
		return "not_found"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, ErrInviteExpired):
		return "expired"
	case errors.Is(err, ErrInvalidInviteRequest):
		return "invalid"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	default:
		return "error"
	}
}
