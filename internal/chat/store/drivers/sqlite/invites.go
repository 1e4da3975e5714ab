package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, code, inviter_id, invitee_email, expires_at, revoked, consumed_by, consumed_at, created_at`

func scanInvite(row interface{ Scan(...any) error }) (domain.Invite, error) {
	var (
		inv                  domain.Invite
		email, consumedBy    sql.NullString
		consumedAt           sql.NullInt64
		expiresAt, createdAt int64
	)
	err := row.Scan(
		&inv.ID,
		&inv.Code,
		&inv.InviterID,
		&email,
		&expiresAt,
		&inv.Revoked,
		&consumedBy,
		&consumedAt,
		&createdAt,
	)
	if err != nil {
		return domain.Invite{}, err
	}
	inv.InviteeEmail = mapNullString(email)
	inv.ConsumedBy = mapNullString(consumedBy)
	inv.ConsumedAt = mapNullMillisPtr(consumedAt)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.CreatedAt = fromMillis(createdAt)
	return inv, nil
}

func scanInvites(rows *sql.Rows) ([]domain.Invite, error) {
	defer rows.Close()

	var out []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (`+inviteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.Code,
		inv.InviterID,
		mapStringNull(inv.InviteeEmail),
		toMillis(inv.ExpiresAt),
		inv.Revoked,
		mapStringNull(inv.ConsumedBy),
		mapOptionalMillis(inv.ConsumedAt),
		toMillis(inv.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByCode(ctx context.Context, code string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE code = ?`, code)
	inv, err := scanInvite(row)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) ListInvitesByInviter(ctx context.Context, inviterID string) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE inviter_id = ? ORDER BY created_at DESC, id DESC`,
		inviterID,
	)
	if err != nil {
		return nil, err
	}
	return scanInvites(rows)
}

func (r *invitesRepo) ListConsumedInvites(ctx context.Context) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE consumed_by IS NOT NULL ORDER BY consumed_at, id`,
	)
	if err != nil {
		return nil, err
	}
	return scanInvites(rows)
}

func (r *invitesRepo) RevokeInvite(ctx context.Context, inviteID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invites SET revoked = 1 WHERE id = ? AND revoked = 0 AND consumed_by IS NULL`,
		inviteID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *invitesRepo) ConsumeInvite(ctx context.Context, code, userID string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invites
		    SET consumed_by = ?, consumed_at = ?
		  WHERE code = ? AND revoked = 0 AND consumed_by IS NULL AND expires_at > ?`,
		userID, toMillis(now), code, toMillis(now),
	)
	if err != nil {
		return false, mapConstraint(err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *invitesRepo) DeleteStaleInvites(ctx context.Context, cutoff time.Time) (int64, error) {
	// Revocation time is not recorded, so revoked invites age out from their
	// creation time.
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invites
		  WHERE consumed_by IS NULL
		    AND ((revoked = 1 AND created_at < ?1) OR expires_at < ?1)`,
		toMillis(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
