package service

import (
	"log/slog"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/metrics"
)

// BroadcastService fans out room-level events: camera presence changes to
// monitors, join requests to the camera, status changes to everyone but the
// originator. Callers hold the room lock, so membership cannot change under a
// fan-out.
type BroadcastService struct {
	rooms  domain.RoomRepository
	sender domain.EventSender
}

func NewBroadcastService(rooms domain.RoomRepository, sender domain.EventSender) *BroadcastService {
	return &BroadcastService{
		rooms:  rooms,
		sender: sender,
	}
}

// NotifyCameraOnline tells every monitor in the room that the camera is live.
func (s *BroadcastService) NotifyCameraOnline(roomCode string) {
	s.toMonitors(roomCode, api.EventCameraOnline, api.Message{Event: api.EventCameraOnline})
}

// NotifyCameraOffline tells every monitor in the room that the camera left.
func (s *BroadcastService) NotifyCameraOffline(roomCode string) {
	s.toMonitors(roomCode, api.EventCameraOffline, api.Message{Event: api.EventCameraOffline})
}

// NotifyMonitorJoined asks the room's camera to initiate an offer toward the
// new monitor. Silent no-op when the room has no camera; the monitor waits
// offline until one joins.
func (s *BroadcastService) NotifyMonitorJoined(roomCode, monitorID string) {
	room, err := s.rooms.Get(roomCode)
	if err != nil || !room.HasCamera() {
		return
	}

	_ = s.sender.Send(room.CameraID, api.Message{
		Event:    api.EventPeerJoinRequest,
		PeerJoin: &api.PeerJoinMessage{NewMonitorID: monitorID},
	})
	metrics.BroadcastEventsTotal.WithLabelValues(string(api.EventPeerJoinRequest)).Inc()
}

// BroadcastStatus stores the record on the room and then fans the change out
// to every member except the originator. Write-then-broadcast: a monitor
// joining concurrently and reading current state never observes a broadcast
// it missed without also seeing the corresponding stored status.
func (s *BroadcastService) BroadcastStatus(roomCode string, record domain.StatusRecord, excludeConnectionID string) error {
	previous, err := s.rooms.UpdateStatus(roomCode, record)
	if err != nil {
		return err
	}

	room, err := s.rooms.Get(roomCode)
	if err != nil {
		return err
	}

	changed := api.ToStatusChanged(record, previous)
	msg := api.Message{Event: api.EventStatusChanged, StatusChanged: &changed}

	if room.CameraID != "" && room.CameraID != excludeConnectionID {
		_ = s.sender.Send(room.CameraID, msg)
	}
	for monitorID := range room.Monitors {
		if monitorID == excludeConnectionID {
			continue
		}
		_ = s.sender.Send(monitorID, msg)
	}

	metrics.StatusUpdatesTotal.Inc()
	metrics.BroadcastEventsTotal.WithLabelValues(string(api.EventStatusChanged)).Inc()
	return nil
}

func (s *BroadcastService) toMonitors(roomCode string, event api.Event, msg api.Message) {
	room, err := s.rooms.Get(roomCode)
	if err != nil {
		slog.Debug("broadcast against missing room", "event", event, "roomCode", roomCode)
		return
	}

	for monitorID := range room.Monitors {
		_ = s.sender.Send(monitorID, msg)
	}
	metrics.BroadcastEventsTotal.WithLabelValues(string(event)).Inc()
}
