package service

import "github.com/cribwatch/relay/internal/domain"

// PresenceService tracks which live connection holds which role in which
// room.
type PresenceService struct {
	presence domain.PresenceRepository
}

func NewPresenceService(presence domain.PresenceRepository) *PresenceService {
	return &PresenceService{presence: presence}
}

func (s *PresenceService) Bind(connectionID string, role domain.Role, roomCode string) error {
	return s.presence.Bind(domain.Binding{
		ConnectionID: connectionID,
		Role:         role,
		RoomCode:     roomCode,
	})
}

// Resolve reports the role and room of a connection, or ErrTargetUnavailable
// if it never joined. Used to validate senders and targets before relaying or
// broadcasting on their behalf.
func (s *PresenceService) Resolve(connectionID string) (domain.Binding, error) {
	return s.presence.Resolve(connectionID)
}

// Unbind removes the association. Unbinding an unknown connection is a no-op;
// transports may signal disconnect more than once.
func (s *PresenceService) Unbind(connectionID string) (domain.Binding, bool) {
	binding, err := s.presence.Unbind(connectionID)
	if err != nil {
		return domain.Binding{}, false
	}
	return binding, true
}

func (s *PresenceService) CountByRole(role domain.Role) int {
	return s.presence.CountByRole(role)
}
