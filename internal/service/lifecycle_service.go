package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/metrics"
)

// LifecycleService is the connection state machine: Unjoined -> Joined ->
// Disconnected. It validates joins against the registry, binds presence,
// mutates room membership and triggers the broadcaster, all under the room's
// lock so a join and a concurrent disconnect for the same room never
// interleave.
type LifecycleService struct {
	rooms       domain.RoomRepository
	presence    *PresenceService
	broadcaster *BroadcastService
	locks       *RoomLocks
}

func NewLifecycleService(
	rooms domain.RoomRepository,
	presence *PresenceService,
	broadcaster *BroadcastService,
	locks *RoomLocks,
) *LifecycleService {
	return &LifecycleService{
		rooms:       rooms,
		presence:    presence,
		broadcaster: broadcaster,
		locks:       locks,
	}
}

// JoinSnapshot is returned to the joining connection only, as its
// join-acknowledgement.
type JoinSnapshot struct {
	RoomCode     string
	CameraOnline bool
	Status       domain.Status
	LastStatus   *domain.StatusRecord
}

// JoinCamera attaches a connection as the room's camera. If the slot is
// occupied the new camera replaces the previous occupant without closing it;
// the stale occupant is reconciled when its own disconnect fires.
func (s *LifecycleService) JoinCamera(connectionID, roomCode string) (JoinSnapshot, error) {
	code := strings.ToUpper(roomCode)
	unlock := s.locks.Lock(code)
	defer unlock()

	room, err := s.validateJoin(connectionID, code)
	if err != nil {
		return JoinSnapshot{}, err
	}

	if err := s.presence.Bind(connectionID, domain.RoleCamera, room.Code); err != nil {
		return JoinSnapshot{}, err
	}
	if err := s.rooms.SetCamera(room.Code, connectionID); err != nil {
		// Room vanished between lookup and mutation; roll the binding back so
		// the connection stays Unjoined and may retry.
		s.presence.Unbind(connectionID)
		metrics.JoinFailuresTotal.WithLabelValues("room_not_found").Inc()
		return JoinSnapshot{}, domain.ErrRoomNotFound
	}

	metrics.JoinsTotal.WithLabelValues(string(domain.RoleCamera)).Inc()
	metrics.ActiveConnections.WithLabelValues(string(domain.RoleCamera)).Inc()
	slog.Info("camera joined room", "roomCode", room.Code, "connectionID", connectionID)

	s.broadcaster.NotifyCameraOnline(room.Code)

	return JoinSnapshot{RoomCode: room.Code}, nil
}

// JoinMonitor attaches a connection as a monitor and, when a camera is
// present, asks it to initiate an offer toward the newcomer. The returned
// snapshot carries the room state current at join time.
func (s *LifecycleService) JoinMonitor(connectionID, roomCode string) (JoinSnapshot, error) {
	code := strings.ToUpper(roomCode)
	unlock := s.locks.Lock(code)
	defer unlock()

	room, err := s.validateJoin(connectionID, code)
	if err != nil {
		return JoinSnapshot{}, err
	}

	if err := s.presence.Bind(connectionID, domain.RoleMonitor, room.Code); err != nil {
		return JoinSnapshot{}, err
	}
	if err := s.rooms.AddMonitor(room.Code, connectionID); err != nil {
		s.presence.Unbind(connectionID)
		metrics.JoinFailuresTotal.WithLabelValues("room_not_found").Inc()
		return JoinSnapshot{}, domain.ErrRoomNotFound
	}

	metrics.JoinsTotal.WithLabelValues(string(domain.RoleMonitor)).Inc()
	metrics.ActiveConnections.WithLabelValues(string(domain.RoleMonitor)).Inc()
	slog.Info("monitor joined room", "roomCode", room.Code, "connectionID", connectionID)

	s.broadcaster.NotifyMonitorJoined(room.Code, connectionID)

	return JoinSnapshot{
		RoomCode:     room.Code,
		CameraOnline: room.HasCamera(),
		Status:       room.Status,
		LastStatus:   room.LastStatus,
	}, nil
}

// Disconnect tears down a connection's room state. Idempotent: an unjoined or
// already-disconnected connection is a no-op with no broadcast.
func (s *LifecycleService) Disconnect(connectionID string) {
	binding, ok := s.presence.Unbind(connectionID)
	if !ok {
		return
	}

	unlock := s.locks.Lock(binding.RoomCode)
	defer unlock()

	switch binding.Role {
	case domain.RoleCamera:
		metrics.ActiveConnections.WithLabelValues(string(domain.RoleCamera)).Dec()
		cleared, err := s.rooms.ClearCamera(binding.RoomCode, connectionID)
		if err != nil {
			// Room already swept; nothing left to clean up.
			return
		}
		// A camera that was replaced no longer holds the slot; its disconnect
		// must not tell monitors the live replacement went offline.
		if cleared {
			slog.Info("camera left room", "roomCode", binding.RoomCode, "connectionID", connectionID)
			s.broadcaster.NotifyCameraOffline(binding.RoomCode)
		}
	case domain.RoleMonitor:
		metrics.ActiveConnections.WithLabelValues(string(domain.RoleMonitor)).Dec()
		if err := s.rooms.RemoveMonitor(binding.RoomCode, connectionID); err != nil {
			return
		}
		slog.Info("monitor left room", "roomCode", binding.RoomCode, "connectionID", connectionID)
	}
}

// UpdateStatus records a camera-reported status on the sender's room and fans
// the change out to the other members. The reported room code, when present,
// must match the room the sender actually joined.
func (s *LifecycleService) UpdateStatus(connectionID, roomCode string, record domain.StatusRecord) error {
	binding, err := s.presence.Resolve(connectionID)
	if err != nil {
		return fmt.Errorf("status update from unjoined connection: %w", err)
	}
	if roomCode != "" && strings.ToUpper(roomCode) != binding.RoomCode {
		return domain.ErrRoomNotFound
	}
	if !record.Status.Valid() {
		return fmt.Errorf("unknown status %q", record.Status)
	}

	unlock := s.locks.Lock(binding.RoomCode)
	defer unlock()

	return s.broadcaster.BroadcastStatus(binding.RoomCode, record, connectionID)
}

// validateJoin enforces the Unjoined precondition and resolves the room. A
// failed join leaves presence untouched so the connection may retry with a
// different code.
func (s *LifecycleService) validateJoin(connectionID, code string) (domain.Room, error) {
	if _, err := s.presence.Resolve(connectionID); err == nil {
		metrics.JoinFailuresTotal.WithLabelValues("already_bound").Inc()
		return domain.Room{}, domain.ErrAlreadyBound
	}

	room, err := s.rooms.Get(code)
	if err != nil {
		metrics.JoinFailuresTotal.WithLabelValues("room_not_found").Inc()
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}
