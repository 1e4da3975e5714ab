package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, username, display_name, password_hash, role, invites_remaining, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u                    domain.User
		role                 string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.DisplayName,
		&u.PasswordHash,
		&role,
		&u.InvitesRemaining,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.UserRole(role)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByLogin(ctx context.Context, emailOrUsername string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?1 OR username = ?1 LIMIT 1`,
		emailOrUsername,
	)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.Username,
		u.DisplayName,
		u.PasswordHash,
		string(u.Role),
		u.InvitesRemaining,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = ?`, string(domain.RoleAdmin),
	).Scan(&n)
	return n, err
}

func (r *usersRepo) TakeInvite(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		    SET invites_remaining = invites_remaining - 1, updated_at = ?
		  WHERE id = ? AND invites_remaining > 0`,
		toMillis(time.Now()), userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *usersRepo) ReturnInvite(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET invites_remaining = invites_remaining + 1, updated_at = ? WHERE id = ?`,
		toMillis(time.Now()), userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) AdjustInvites(ctx context.Context, userID string, delta int) (int, error) {
	var remaining int
	err := r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET invites_remaining = MAX(0, invites_remaining + ?), updated_at = ?
		  WHERE id = ?
		RETURNING invites_remaining`,
		delta, toMillis(time.Now()), userID,
	).Scan(&remaining)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return remaining, nil
}

func (r *usersRepo) SetAllInvites(ctx context.Context, value int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET invites_remaining = ?, updated_at = ?`,
		value, toMillis(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
