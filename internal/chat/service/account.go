package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/tabchat/internal/chat/domain"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
	"github.com/aussiebroadwan/tabchat/pkg/cryptox"
	"github.com/aussiebroadwan/tabchat/pkg/idx"
	"github.com/aussiebroadwan/tabchat/pkg/jwtx"
	"github.com/aussiebroadwan/tabchat/pkg/slogx"
)

var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrUserExists          = errors.New("email or username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

const (
	minUsernameLen    = 3
	maxUsernameLen    = 30
	maxDisplayNameLen = 50
	minPasswordLen    = 8
)

// AccountService creates accounts behind an invite and signs the access
// tokens both the HTTP API and the realtime gateway accept.
type AccountService struct {
	Store   store.Store
	Invites *InviteService
	Signer  jwtx.Signer

	// Issuer is stamped into every token; TokenTTL defaults to a week.
	Issuer   string
	TokenTTL time.Duration

	Clock func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Register creates a USER account by consuming an invite. The account and
// the consumption commit together; a lost race leaves no account behind.
func (s *AccountService) Register(ctx context.Context, reg domain.Registration) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if err := validateAccountFields(reg.Email, reg.Username, reg.DisplayName, reg.Password); err != nil {
		return domain.User{}, "", err
	}
	if reg.InviteCode == "" {
		return domain.User{}, "", fmt.Errorf("%w: invite code is required", ErrInvalidRegistration)
	}

	// Cheap early answer for dead codes; the consume below is what counts.
	check, err := s.Invites.Validate(ctx, reg.InviteCode)
	if err != nil {
		return domain.User{}, "", err
	}
	if !check.Valid {
		return domain.User{}, "", rejectionError(check.Reason)
	}

	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	now := s.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        strings.TrimSpace(reg.Email),
		Username:     strings.TrimSpace(reg.Username),
		DisplayName:  strings.TrimSpace(reg.DisplayName),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
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

		_, err = s.Invites.ConsumeTx(ctx, tx, reg.InviteCode, user.ID)
		return err
	})
	if err != nil {
		log.Warn("registration failed",
			slog.String("username", user.Username),
			slog.String("reason", err.Error()),
		)
		return domain.User{}, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		log.Error("failed to sign access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, token, nil
}

// Login checks the password of the user named by email or username.
func (s *AccountService) Login(ctx context.Context, emailOrUsername, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByLogin(ctx, strings.TrimSpace(emailOrUsername))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login failed", slog.String("user_id", user.ID))
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// Me returns the stored account behind a token subject.
func (s *AccountService) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// IssueToken signs an access token for user.
func (s *AccountService) IssueToken(user domain.User) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		user.ID,
		user.Username,
		user.DisplayName,
		string(user.Role),
		ttl,
		s.Issuer,
		s.now(),
	)
	return s.Signer.Sign(claims)
}

func validateAccountFields(email, username, displayName, password string) error {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)

	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d to %d characters", ErrInvalidRegistration, minUsernameLen, maxUsernameLen)
	}
	if strings.ContainsAny(username, " \t\r\n@") {
		return fmt.Errorf("%w: username may not contain spaces or @", ErrInvalidRegistration)
	}
	if n := utf8.RuneCountInString(displayName); n < 1 || n > maxDisplayNameLen {
		return fmt.Errorf("%w: display name must be 1 to %d characters", ErrInvalidRegistration, maxDisplayNameLen)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, minPasswordLen)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidRegistration)
	}
	return nil
}

// rejectionError maps a validation reason onto the consume error taxonomy.
func rejectionError(reason domain.InviteRejectReason) error {
	switch reason {
	case domain.RejectExpired:
		return ErrInviteExpired
	case domain.RejectUsed, domain.RejectRevoked:
		return ErrAlreadyResolved
	default:
		return ErrInviteNotFound
	}
}
