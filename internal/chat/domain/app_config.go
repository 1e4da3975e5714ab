package domain

import "time"

const (
	// AppConfigID is the fixed primary key of the single config row.
	AppConfigID = "singleton"

	DefaultInvitesPerUser = 5
	MaxInvitesPerUser     = 100
	MaxQuotaAdjustment    = 100
)

type AppConfig struct {
	DefaultInvitesPerUser int
	UpdatedAt             time.Time
}
