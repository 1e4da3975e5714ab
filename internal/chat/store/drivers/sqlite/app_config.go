package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
)

type appConfigRepo struct {
	db dbtx
}

func (r *appConfigRepo) EnsureAppConfig(ctx context.Context, defaults domain.AppConfig) (domain.AppConfig, error) {
	// Single statement; a concurrent first boot just loses the insert race
	// and reads the winner's row.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_config (id, default_invites_per_user, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		domain.AppConfigID, defaults.DefaultInvitesPerUser, toMillis(time.Now()),
	)
	if err != nil {
		return domain.AppConfig{}, err
	}
	return r.GetAppConfig(ctx)
}

func (r *appConfigRepo) GetAppConfig(ctx context.Context) (domain.AppConfig, error) {
	var (
		cfg       domain.AppConfig
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT default_invites_per_user, updated_at FROM app_config WHERE id = ?`,
		domain.AppConfigID,
	).Scan(&cfg.DefaultInvitesPerUser, &updatedAt)
	if err != nil {
		return domain.AppConfig{}, mapNotFound(err)
	}
	cfg.UpdatedAt = fromMillis(updatedAt)
	return cfg, nil
}

func (r *appConfigRepo) SetDefaultInvitesPerUser(ctx context.Context, value int) (domain.AppConfig, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_config (id, default_invites_per_user, updated_at)
		 VALUES (?1, ?2, ?3)
		 ON CONFLICT (id) DO UPDATE SET default_invites_per_user = ?2, updated_at = ?3`,
		domain.AppConfigID, value, toMillis(now),
	)
	if err != nil {
		return domain.AppConfig{}, err
	}
	return domain.AppConfig{DefaultInvitesPerUser: value, UpdatedAt: now.UTC().Truncate(time.Millisecond)}, nil
}
