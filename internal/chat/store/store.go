package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a Tx can hand out the very same repos bound to the
// transaction.
type Store interface {
	Users() Users
	Invites() Invites
	AppConfig() AppConfig

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. A nil return commits, anything
	// else rolls back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByLogin matches either the email or the username.
	GetUserByLogin(ctx context.Context, emailOrUsername string) (domain.User, error)

	// CreateUser inserts a new user. A clashing email or username yields
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// CountAdmins is used by bootstrap to refuse a second run.
	CountAdmins(ctx context.Context) (int, error)

	// TakeInvite decrements invites_remaining only while it is positive.
	// It reports false when nothing was decremented.
	TakeInvite(ctx context.Context, userID string) (bool, error)

	// ReturnInvite gives one invite back to the user.
	ReturnInvite(ctx context.Context, userID string) error

	// AdjustInvites adds delta (which may be negative) to the quota, flooring
	// at zero, and returns the new value.
	AdjustInvites(ctx context.Context, userID string, delta int) (int, error)

	// SetAllInvites overwrites every user's quota and returns rows affected.
	SetAllInvites(ctx context.Context, value int) (int64, error)
}

type Invites interface {
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByCode(ctx context.Context, code string) (domain.Invite, error)

	// ListInvitesByInviter returns the inviter's invites, newest first.
	ListInvitesByInviter(ctx context.Context, inviterID string) ([]domain.Invite, error)

	// ListConsumedInvites returns every consumed invite in consumption order.
	ListConsumedInvites(ctx context.Context) ([]domain.Invite, error)

	// RevokeInvite flips revoked only while the invite is still unresolved.
	// It reports false when the invite was already revoked or consumed.
	RevokeInvite(ctx context.Context, inviteID string) (bool, error)

	// ConsumeInvite marks the invite consumed by userID only while it is
	// issued (not revoked, not consumed, not expired at now). It reports false
	// when another caller got there first or the invite is not usable.
	ConsumeInvite(ctx context.Context, code, userID string, now time.Time) (bool, error)

	// DeleteStaleInvites removes never-consumed invites that became revoked or
	// expired before cutoff. Consumed invites are kept forever.
	DeleteStaleInvites(ctx context.Context, cutoff time.Time) (int64, error)
}

type AppConfig interface {
	// EnsureAppConfig creates the singleton row with defaults if it is
	// missing and returns whatever is stored.
	EnsureAppConfig(ctx context.Context, defaults domain.AppConfig) (domain.AppConfig, error)

	GetAppConfig(ctx context.Context) (domain.AppConfig, error)

	SetDefaultInvitesPerUser(ctx context.Context, value int) (domain.AppConfig, error)
}
