package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
	"github.com/aussiebroadwan/tabchat/pkg/cryptox"
	"github.com/aussiebroadwan/tabchat/pkg/idx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

var (
	ErrBootstrapDenied      = errors.New("bootstrap secret missing or wrong")
	ErrAlreadyBootstrapped  = errors.New("an administrator already exists")
	ErrInvalidConfigRequest = errors.New("invalid config request")
)

// AdminService covers the administrator-only surface: creating the first
// admin and editing the app-wide config row.
type AdminService struct {
	Store store.Store

	// BootstrapSecret must be non-empty for Bootstrap to do anything.
	BootstrapSecret string

	Clock func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Bootstrap creates the first ADMIN account. It refuses once any admin exists.
func (s *AdminService) Bootstrap(ctx context.Context, data domain.BootstrapData) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if s.BootstrapSecret == "" ||
		subtle.ConstantTimeCompare([]byte(data.Secret), []byte(s.BootstrapSecret)) != 1 {
		log.Warn("bootstrap attempt with bad secret")
		return domain.User{}, ErrBootstrapDenied
	}

	if err := validateAccountFields(data.Email, data.Username, data.DisplayName, data.Password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(data.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        strings.TrimSpace(data.Email),
		Username:     strings.TrimSpace(data.Username),
		DisplayName:  strings.TrimSpace(data.DisplayName),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		admins, err := tx.Users().CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins > 0 {
			return ErrAlreadyBootstrapped
		}

		cfg, err := tx.AppConfig().EnsureAppConfig(ctx, domain.AppConfig{
			DefaultInvitesPerUser: domain.DefaultInvitesPerUser,
			UpdatedAt:             now,
		})
		if err != nil {
			return err
		}
		user.InvitesRemaining = cfg.DefaultInvitesPerUser

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUserExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("bootstrap admin created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// GetConfig returns the app config, creating it with defaults on first read.
func (s *AdminService) GetConfig(ctx context.Context) (domain.AppConfig, error) {
	return s.Store.AppConfig().EnsureAppConfig(ctx, domain.AppConfig{
		DefaultInvitesPerUser: domain.DefaultInvitesPerUser,
		UpdatedAt:             s.now(),
	})
}

// SetDefaultInvites changes the quota given to accounts created from now on.
// Existing users are untouched.
func (s *AdminService) SetDefaultInvites(ctx context.Context, value int) (domain.AppConfig, error) {
	if value < 0 || value > domain.MaxInvitesPerUser {
		return domain.AppConfig{}, fmt.Errorf("%w: default invites must be between 0 and %d",
			ErrInvalidConfigRequest, domain.MaxInvitesPerUser)
	}

	cfg, err := s.Store.AppConfig().SetDefaultInvitesPerUser(ctx, value)
	if err != nil {
		return domain.AppConfig{}, err
	}

	slogx.FromContext(ctx).Info("default invites updated", slog.Int("value", value))
	return cfg, nil
}
