package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cribwatch_relay_active_rooms",
		Help: "Number of live rooms in the registry",
	})

	RoomsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_rooms_created_total",
		Help: "Total number of rooms created",
	})

	RoomsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_rooms_swept_total",
		Help: "Total number of idle rooms deleted by the expiry sweep",
	})

	ActiveConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cribwatch_relay_active_connections",
		Help: "Number of joined connections by role",
	}, []string{"role"}) // "camera" | "monitor"

	JoinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cribwatch_relay_joins_total",
		Help: "Total number of successful joins by role",
	}, []string{"role"})

	JoinFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cribwatch_relay_join_failures_total",
		Help: "Total number of rejected joins",
	}, []string{"reason"}) // "room_not_found" | "already_bound"

	RelayMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cribwatch_relay_signalling_messages_total",
		Help: "Total signalling messages relayed between peers",
	}, []string{"kind"}) // "offer" | "answer" | "ice-candidate"

	RelayDropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cribwatch_relay_signalling_drops_total",
		Help: "Signalling messages dropped because the target was gone",
	}, []string{"kind"})

	BroadcastEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cribwatch_relay_broadcast_events_total",
		Help: "Room events fanned out to members",
	}, []string{"event"})

	StatusUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_status_updates_total",
		Help: "Total accepted status updates",
	})

	OutboundDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_outbound_dropped_total",
		Help: "Outbound events dropped because a connection's buffer was full",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_rate_limited_messages_total",
		Help: "Inbound messages dropped by the per-connection rate limiter",
	})

	ActiveWebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cribwatch_relay_active_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	WebSocketConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_websocket_connections_total",
		Help: "Total number of WebSocket connections",
	})

	WebSocketDisconnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_websocket_disconnections_total",
		Help: "Total number of WebSocket disconnections",
	})

	ConfigReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cribwatch_relay_config_reloads_total",
		Help: "Number of configuration reloads",
	})

	StartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cribwatch_relay_start_time_seconds",
		Help: "Server start time in Unix seconds",
	})
)
