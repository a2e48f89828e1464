package signalling

import (
	"errors"
	"log/slog"
	"time"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/config"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/metrics"
	"github.com/cribwatch/relay/internal/service"
	"github.com/gofiber/contrib/websocket"
)

// ConnectionHandler runs the message loop for one connection: init, joins,
// signalling relay, status updates, and cleanup on disconnect.
type ConnectionHandler struct {
	config         *config.Manager
	lifecycle      *service.LifecycleService
	relay          *service.RelayService
	sessionHandler *SessionHandler
}

func NewConnectionHandler(
	cfg *config.Manager,
	lifecycle *service.LifecycleService,
	relay *service.RelayService,
	sessionHandler *SessionHandler,
) *ConnectionHandler {
	return &ConnectionHandler{
		config:         cfg,
		lifecycle:      lifecycle,
		relay:          relay,
		sessionHandler: sessionHandler,
	}
}

func (h *ConnectionHandler) HandleSocket(c *websocket.Conn) {
	session := h.sessionHandler.Register(c)
	defer session.Cleanup()
	defer h.lifecycle.Disconnect(string(session.SocketID))

	cfg := h.config.Get()
	if !session.Outbound.TrySend(api.Message{
		Event: api.EventInit,
		Init: &api.InitMessage{
			PcConfig:     cfg.WebRTC.PeerConnectionConfig,
			PingInterval: cfg.Server.PingIntervalSec,
		},
	}) {
		slog.Error("failed to send init", "socketID", session.SocketID)
		return
	}

	h.readLoop(session)
}

// readLoop decodes frames until the peer goes away. Each frame decodes into a
// fresh envelope; reusing one would let an optional field set by an earlier
// message (a targetId, say) survive into a later message that omitted it.
func (h *ConnectionHandler) readLoop(session *Session) {
	for {
		var message api.Message
		if err := session.Socket.ReadJSON(&message); err != nil {
			slog.Debug("disconnected", "socketID", session.SocketID, "error", err)
			return
		}

		answer := h.processMessage(session, message)
		if answer != nil {
			session.Outbound.TrySend(*answer)
		}
	}
}

func (h *ConnectionHandler) processMessage(session *Session, m api.Message) *api.Message {
	id := string(session.SocketID)

	switch m.Event {
	case api.EventPong:
		return nil

	case api.EventJoinAsCamera:
		if m.Join == nil {
			return errorMessage("join-as-camera requires a roomCode")
		}
		snapshot, err := h.lifecycle.JoinCamera(id, m.Join.RoomCode)
		if err != nil {
			return joinError(err)
		}
		return &api.Message{
			Event:  api.EventJoinedAsCamera,
			Joined: &api.JoinedMessage{RoomCode: snapshot.RoomCode},
		}

	case api.EventJoinAsMonitor:
		if m.Join == nil {
			return errorMessage("join-as-monitor requires a roomCode")
		}
		snapshot, err := h.lifecycle.JoinMonitor(id, m.Join.RoomCode)
		if err != nil {
			return joinError(err)
		}
		cameraOnline := snapshot.CameraOnline
		status := string(snapshot.Status)
		return &api.Message{
			Event: api.EventJoinedAsMonitor,
			Joined: &api.JoinedMessage{
				RoomCode:     snapshot.RoomCode,
				CameraOnline: &cameraOnline,
				Status:       &status,
			},
		}

	case api.EventOffer:
		if m.Offer == nil || m.Offer.TargetID == "" {
			return nil
		}
		h.relay.RelayOffer(id, m.Offer.TargetID, m.Offer.Payload)
		return nil

	case api.EventAnswer:
		if m.Answer == nil || m.Answer.TargetID == "" {
			return nil
		}
		h.relay.RelayAnswer(id, m.Answer.TargetID, m.Answer.Payload)
		return nil

	case api.EventIceCandidate:
		if m.Ice == nil || m.Ice.TargetID == "" {
			return nil
		}
		h.relay.RelayCandidate(id, m.Ice.TargetID, m.Ice.Payload)
		return nil

	case api.EventStatusUpdate:
		if m.StatusUpdate == nil {
			return errorMessage("status-update requires a payload")
		}
		if !session.Limiter.Allow() {
			metrics.RateLimitedTotal.Inc()
			return nil
		}
		record := domain.StatusRecord{
			Status:     domain.Status(m.StatusUpdate.Status),
			Confidence: m.StatusUpdate.Confidence,
			Notes:      m.StatusUpdate.Notes,
			Position:   m.StatusUpdate.Position,
			Alert:      m.StatusUpdate.Alert,
			Snapshot:   m.StatusUpdate.Snapshot,
			Timestamp:  time.Now(),
		}
		if err := h.lifecycle.UpdateStatus(id, m.StatusUpdate.RoomCode, record); err != nil {
			return errorMessage(err.Error())
		}
		return nil
	}

	slog.Debug("ignoring unknown event", "event", m.Event, "socketID", session.SocketID)
	return nil
}

func joinError(err error) *api.Message {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return errorMessage("Room not found")
	case errors.Is(err, domain.ErrAlreadyBound):
		return errorMessage("Connection already joined a room")
	default:
		return errorMessage(err.Error())
	}
}

func errorMessage(msg string) *api.Message {
	return &api.Message{
		Event: api.EventError,
		Error: &api.ErrorMessage{Message: msg},
	}
}
