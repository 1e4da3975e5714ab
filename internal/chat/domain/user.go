package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID               string
	Email            string
	Username         string
	DisplayName      string
	PasswordHash     string // argon2 encoded
	Role             UserRole
	InvitesRemaining int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserSummary is the public face of a user, safe to hand to other users.
type UserSummary struct {
	ID          string
	Username    string
	DisplayName string
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}
