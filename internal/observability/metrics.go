package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AuthFailures counts rejected logins and token verifications by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_auth_failures_total",
		Help: "Total number of authentication failures by reason",
	}, []string{"reason"})

	// ForumEvents counts realtime feed events published by type.
	ForumEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_forum_events_total",
		Help: "Total number of forum activity events published",
	}, []string{"type"})

	// WebSocketConnections is the gauge of active feed connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forumhub_websocket_connections",
		Help: "Number of active live feed WebSocket connections",
	})

	// WebSocketDrops counts feed messages or connections dropped by reason.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_websocket_drops_total",
		Help: "Total number of live feed messages or connections dropped",
	}, []string{"reason"})
)

// Auth failure reasons.
const (
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonInvalidToken       = "invalid_token"
	ReasonUnknownSubject     = "unknown_subject"
	ReasonMissingToken       = "missing_token"
)
