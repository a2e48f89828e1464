package service

import (
	"errors"
	"log/slog"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/metrics"
	"github.com/pion/webrtc/v4"
)

// RelayService routes offer/answer/ICE-candidate messages between one sender
// and one target connection. Payloads are never interpreted beyond routing.
// Delivery is fire-and-forget: a missing sender or target drops the message
// silently, with no confirmation either way. Re-initiating a handshake after
// a drop is the caller's concern.
type RelayService struct {
	presence *PresenceService
	sender   domain.EventSender
}

func NewRelayService(presence *PresenceService, sender domain.EventSender) *RelayService {
	return &RelayService{
		presence: presence,
		sender:   sender,
	}
}

func (s *RelayService) RelayOffer(senderID, targetID string, sdp webrtc.SessionDescription) {
	s.deliver(api.EventOffer, senderID, targetID, api.Message{
		Event: api.EventOffer,
		Offer: &api.SDPMessage{Payload: sdp, SenderID: senderID},
	})
}

func (s *RelayService) RelayAnswer(senderID, targetID string, sdp webrtc.SessionDescription) {
	s.deliver(api.EventAnswer, senderID, targetID, api.Message{
		Event:  api.EventAnswer,
		Answer: &api.SDPMessage{Payload: sdp, SenderID: senderID},
	})
}

func (s *RelayService) RelayCandidate(senderID, targetID string, candidate webrtc.ICECandidateInit) {
	s.deliver(api.EventIceCandidate, senderID, targetID, api.Message{
		Event: api.EventIceCandidate,
		Ice:   &api.IceMessage{Payload: candidate, SenderID: senderID},
	})
}

func (s *RelayService) deliver(kind api.Event, senderID, targetID string, msg api.Message) {
	if _, err := s.presence.Resolve(senderID); err != nil {
		metrics.RelayDropsTotal.WithLabelValues(string(kind)).Inc()
		return
	}
	if _, err := s.presence.Resolve(targetID); err != nil {
		// Expected steady-state: the target may have disconnected a moment
		// earlier. Not an error for the sender.
		metrics.RelayDropsTotal.WithLabelValues(string(kind)).Inc()
		slog.Debug("relay target gone, dropping", "kind", kind, "targetID", targetID)
		return
	}

	if err := s.sender.Send(targetID, msg); err != nil {
		if !errors.Is(err, domain.ErrTargetUnavailable) {
			slog.Warn("relay delivery failed", "kind", kind, "targetID", targetID, "error", err)
		}
		metrics.RelayDropsTotal.WithLabelValues(string(kind)).Inc()
		return
	}
	metrics.RelayMessagesTotal.WithLabelValues(string(kind)).Inc()
}
