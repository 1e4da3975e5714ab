package domain

import "time"

// Invite quota and lifetime bounds.
const (
	DefaultInviteExpiryDays = 7
	MinInviteExpiryDays     = 1
	MaxInviteExpiryDays     = 30
)

// InviteState is derived from the stored columns, never stored itself.
type InviteState string

const (
	InviteIssued   InviteState = "ISSUED"
	InviteConsumed InviteState = "CONSUMED"
	InviteRevoked  InviteState = "REVOKED"
	InviteExpired  InviteState = "EXPIRED"
)

type Invite struct {
	ID           string
	Code         string
	InviterID    string
	InviteeEmail string // optional
	ExpiresAt    time.Time
	Revoked      bool
	ConsumedBy   string // empty until consumed
	ConsumedAt   *time.Time
	CreatedAt    time.Time
}

// State reports where the invite sits in its lifecycle at now. Consumed and
// revoked are terminal and mutually exclusive; expiry only applies to an
// invite that is still issued.
func (i Invite) State(now time.Time) InviteState {
	switch {
	case i.ConsumedBy != "":
		return InviteConsumed
	case i.Revoked:
		return InviteRevoked
	case !now.Before(i.ExpiresAt):
		return InviteExpired
	default:
		return InviteIssued
	}
}

// InviteRejectReason explains why Validate turned a code away.
type InviteRejectReason string

const (
	RejectNotFound InviteRejectReason = "NOT_FOUND"
	RejectRevoked  InviteRejectReason = "REVOKED"
	RejectUsed     InviteRejectReason = "USED"
	RejectExpired  InviteRejectReason = "EXPIRED"
)

// InviteValidation is the read-only answer to "can this code be used right now".
type InviteValidation struct {
	Valid     bool
	Reason    InviteRejectReason // set when !Valid
	ExpiresAt time.Time          // set when Valid
	Inviter   UserSummary        // set when Valid
}
