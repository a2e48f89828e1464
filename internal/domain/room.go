package domain

import (
	"errors"
	"time"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomNotEmpty      = errors.New("room still has members")
	ErrAlreadyBound      = errors.New("connection already joined a room")
	ErrTargetUnavailable = errors.New("target connection is not live")
)

// Status is the application-level state a camera reports for its room.
type Status string

const (
	StatusUnknown  Status = "unknown"
	StatusSleeping Status = "sleeping"
	StatusAwake    Status = "awake"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnknown, StatusSleeping, StatusAwake:
		return true
	}
	return false
}

// StatusRecord is the last accepted status payload for a room. Position, Alert
// and Snapshot are passed through to monitors without interpretation.
type StatusRecord struct {
	Status     Status
	Confidence int
	Notes      string
	Position   string
	Alert      bool
	Snapshot   string
	Timestamp  time.Time
}

// Room pairs at most one camera connection with any number of monitors.
// CameraID is empty while no camera is attached. Monitors is a set keyed by
// connection id.
type Room struct {
	Code       string
	CreatedAt  time.Time
	CameraID   string
	Monitors   map[string]struct{}
	Status     Status
	LastStatus *StatusRecord
}

func (r *Room) HasCamera() bool {
	return r.CameraID != ""
}

func (r *Room) MonitorCount() int {
	return len(r.Monitors)
}

func (r *Room) Empty() bool {
	return r.CameraID == "" && len(r.Monitors) == 0
}

// IdleSince reports whether the room is old enough and empty enough to be
// swept. A room with any live member is never idle, regardless of age.
func (r *Room) IdleSince(now time.Time, threshold time.Duration) bool {
	return r.Empty() && now.Sub(r.CreatedAt) > threshold
}

type RoomRepository interface {
	Save(room Room) error
	Get(code string) (Room, error)
	GetAll() ([]Room, error)
	Exists(code string) bool
	Count() int
	// SetCamera replaces the camera slot unconditionally (last join wins).
	SetCamera(code, connectionID string) error
	// ClearCamera empties the camera slot only if it still holds connectionID,
	// so a stale camera disconnecting after a takeover cannot evict its
	// replacement. Reports whether the slot was actually cleared.
	ClearCamera(code, connectionID string) (bool, error)
	AddMonitor(code, connectionID string) error
	RemoveMonitor(code, connectionID string) error
	// UpdateStatus stores the record and returns the status it replaced.
	UpdateStatus(code string, record StatusRecord) (previous Status, err error)
	Delete(code string) error
}
