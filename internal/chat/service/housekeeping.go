package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/store"
)

// DefaultInviteRetention is how long a dead, never-consumed invite is kept.
const DefaultInviteRetention = 90 * 24 * time.Hour

// PresenceCounter is the slice of the presence registry housekeeping reports on.
type PresenceCounter interface {
	Len() int
}

// HousekeepingService periodically prunes revoked and expired invites that
// were never consumed. Consumed invites are the referral tree and are kept.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Presence is optional; when set its size is logged each sweep.
	Presence PresenceCounter

	Clock func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour and a non-positive retention to 90 days.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = DefaultInviteRetention
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention),
	)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one cleanup pass and returns how many invites were removed.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock().UTC()
	}
	cutoff := now.Add(-s.Retention)

	deleted, err := s.Store.Invites().DeleteStaleInvites(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete stale invites", slog.Any("error", err))
		return 0
	}

	attrs := []any{
		slog.Int64("invites_deleted", deleted),
		slog.Time("cutoff", cutoff),
	}
	if s.Presence != nil {
		attrs = append(attrs, slog.Int("online_users", s.Presence.Len()))
	}
	s.Logger.Info("housekeeping sweep completed", attrs...)
	return deleted
}
