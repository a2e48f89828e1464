package signalling

import (
	"log/slog"
	"time"

	"github.com/cribwatch/relay/internal/metrics"
	"github.com/cribwatch/relay/internal/sockets"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Session struct {
	Socket   sockets.Socket
	SocketID sockets.SocketID
	Outbound *sockets.Outbound
	Limiter  *rate.Limiter
	Cleanup  func()
}

// SessionHandler mints connection ids and wires each websocket into the pool
// with its outbound loop and inbound rate limiter.
type SessionHandler struct {
	pool         *sockets.SocketPool
	queueSize    int
	pingInterval time.Duration
	messageRate  rate.Limit
	messageBurst int
}

func NewSessionHandler(pool *sockets.SocketPool, queueSize int, pingInterval time.Duration, messageRate float64, messageBurst int) *SessionHandler {
	return &SessionHandler{
		pool:         pool,
		queueSize:    queueSize,
		pingInterval: pingInterval,
		messageRate:  rate.Limit(messageRate),
		messageBurst: messageBurst,
	}
}

func (h *SessionHandler) Register(conn *websocket.Conn) *Session {
	// Connection ids are minted fresh per transport session and never reused.
	socketID := sockets.SocketID(uuid.NewString())
	socket := sockets.NewSocket(conn)

	out := sockets.NewOutbound(socket, socketID, h.queueSize, h.pingInterval)
	h.pool.AddSocket(socketID, out)
	out.Start()

	metrics.ActiveWebSocketConnections.Inc()
	metrics.WebSocketConnectionsTotal.Inc()

	cleanup := func() {
		metrics.ActiveWebSocketConnections.Dec()
		metrics.WebSocketDisconnectionsTotal.Inc()
		h.pool.CloseSocket(socketID)
	}

	slog.Info("session started", "socketID", socketID, "remoteAddr", conn.NetConn().RemoteAddr().String())

	return &Session{
		Socket:   socket,
		SocketID: socketID,
		Outbound: out,
		Limiter:  rate.NewLimiter(h.messageRate, h.messageBurst),
		Cleanup:  cleanup,
	}
}
