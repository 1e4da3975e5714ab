package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tabchat/internal/chat/realtime"
	"github.com/aussiebroadwan/tabchat/internal/chat/store"
	"github.com/aussiebroadwan/tabchat/pkg/chatsdk"
	"github.com/aussiebroadwan/tabchat/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, the number of users online and the status of the database and realtime gateway
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	chatsdk.HealthResponse	"status, uptime, version, online_users, checks"
//	@Failure		503	{object}	chatsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	presence *realtime.Presence,
	realtimeEnabled bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &chatsdk.HealthChecks{
			Database: "ok",
			Realtime: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !realtimeEnabled {
			checks.Realtime = "disabled"
		}

		online := 0
		if presence != nil {
			online = presence.Len()
		}

		response := chatsdk.HealthResponse{
			Status:      overallStatus,
			Uptime:      time.Since(startTime).String(),
			Version:     version,
			OnlineUsers: online,
			Checks:      checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
