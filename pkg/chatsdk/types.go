package chatsdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Realtime string `json:"realtime"`
}

type HealthResponse struct {
	Status      string        `json:"status"`
	Uptime      string        `json:"uptime"`
	Version     string        `json:"version"`
	OnlineUsers int           `json:"online_users"`
	Checks      *HealthChecks `json:"checks,omitempty"`
}

// ============================================================================
// Accounts
// ============================================================================

type RegisterRequest struct {
	InviteCode  string `json:"inviteCode" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3,max=30"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=50"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"displayName"`
	Role             string    `json:"role"`
	InvitesRemaining int       `json:"invitesRemaining"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AuthResponse is returned by register, login and bootstrap. The token is
// also set as an httpOnly cookie.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ============================================================================
// Invites
// ============================================================================

type InviteRequest struct {
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	ExpiresInDays int    `json:"expiresInDays,omitempty" validate:"omitempty,min=1,max=30"`
}

type InviteResponse struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	InviterID    string     `json:"inviterId"`
	InviteeEmail string     `json:"inviteeEmail,omitempty"`
	State        string     `json:"state"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	ConsumedBy   string     `json:"consumedBy,omitempty"`
	ConsumedAt   *time.Time `json:"consumedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type InviteListResponse struct {
	Invites []InviteResponse `json:"invites"`
}

type InviteValidationResponse struct {
	Valid     bool         `json:"valid"`
	Reason    string       `json:"reason,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	Inviter   *UserSummary `json:"inviter,omitempty"`
}

type ReferralNode struct {
	InviteID string         `json:"inviteId"`
	Code     string         `json:"code"`
	UserID   string         `json:"userId"`
	Cycle    bool           `json:"cycle,omitempty"`
	Children []ReferralNode `json:"children"`
}

type ReferralTreeResponse struct {
	UserID  string         `json:"userId"`
	Invited []ReferralNode `json:"invited"`
}

// ============================================================================
// Admin
// ============================================================================

type BootstrapRequest struct {
	Secret      string `json:"secret" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3,max=30"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=50"`
	Password    string `json:"password" validate:"required,min=8"`
}

type AppConfigResponse struct {
	DefaultInvitesPerUser int       `json:"defaultInvitesPerUser"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type AppConfigRequest struct {
	DefaultInvitesPerUser *int `json:"defaultInvitesPerUser" validate:"required,min=0,max=100"`
}

type QuotaAdjustRequest struct {
	Amount int `json:"amount" validate:"min=-100,max=100"`
}

type QuotaAdjustResponse struct {
	UserID           string `json:"userId"`
	InvitesRemaining int    `json:"invitesRemaining"`
}

type QuotaResetRequest struct {
	Value *int `json:"value" validate:"required,min=0,max=100"`
}

type QuotaResetResponse struct {
	UsersUpdated int64 `json:"usersUpdated"`
}
