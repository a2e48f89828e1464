package signalling

import (
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/metrics"
	"github.com/cribwatch/relay/internal/sockets"
)

// WebSocketEventSender implements domain.EventSender over the socket pool.
// Events are queued on the target's outbound loop; a full queue drops the
// event rather than blocking the coordinator.
type WebSocketEventSender struct {
	pool *sockets.SocketPool
}

func NewWebSocketEventSender(pool *sockets.SocketPool) *WebSocketEventSender {
	return &WebSocketEventSender{pool: pool}
}

func (s *WebSocketEventSender) Send(connectionID string, event any) error {
	out := s.pool.GetSocket(sockets.SocketID(connectionID))
	if out == nil {
		return domain.ErrTargetUnavailable
	}
	if !out.TrySend(event) {
		metrics.OutboundDroppedTotal.Inc()
	}
	return nil
}

var _ domain.EventSender = (*WebSocketEventSender)(nil)
