package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	onlineUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tabchat",
		Subsystem: "presence",
		Name:      "online_users",
		Help:      "Users with at least one live connection.",
	})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tabchat",
		Subsystem: "realtime",
		Name:      "connections",
		Help:      "Open websocket connections.",
	})

	fanoutDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tabchat",
		Subsystem: "fanout",
		Name:      "deliveries_total",
		Help:      "Frames queued to subscribers, by event.",
	}, []string{"event"})

	fanoutDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tabchat",
		Subsystem: "fanout",
		Name:      "dropped_total",
		Help:      "Frames a subscriber could not accept, by event.",
	}, []string{"event"})

	inboundFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tabchat",
		Subsystem: "realtime",
		Name:      "inbound_frames_total",
		Help:      "Client frames received, by event and outcome.",
	}, []string{"event", "outcome"})
)
