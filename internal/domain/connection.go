package domain

// Role is assigned exactly once, when a connection joins a room.
type Role string

const (
	RoleCamera  Role = "camera"
	RoleMonitor Role = "monitor"
)

// Binding associates a live connection with its role and room. A connection
// that has not joined has no binding at all.
type Binding struct {
	ConnectionID string
	Role         Role
	RoomCode     string
}

type PresenceRepository interface {
	// Bind fails with ErrAlreadyBound if the connection already has a role.
	Bind(binding Binding) error
	Resolve(connectionID string) (Binding, error)
	// Unbind removes and returns the binding. Returns ErrTargetUnavailable if
	// the connection was never bound; callers treat that as a no-op since
	// transports may signal disconnect more than once.
	Unbind(connectionID string) (Binding, error)
	CountByRole(role Role) int
}

// EventSender delivers a single event to one live connection. Delivery is
// fire-and-forget: implementations must not block the caller and may drop the
// event if the target's outbound buffer is full.
type EventSender interface {
	Send(connectionID string, event any) error
}
