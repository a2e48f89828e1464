package memory

import (
	"strings"
	"sync"

	"github.com/cribwatch/relay/internal/domain"
)

// RoomRepository keeps the code->room map behind a RWMutex. Codes are
// normalized to upper case on every operation so lookups are case-insensitive.
type RoomRepository struct {
	rooms map[string]domain.Room
	mu    sync.RWMutex
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[string]domain.Room),
	}
}

func normalize(code string) string {
	return strings.ToUpper(code)
}

func (r *RoomRepository) Save(room domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room.Code = normalize(room.Code)
	if room.Monitors == nil {
		room.Monitors = make(map[string]struct{})
	}
	r.rooms[room.Code] = room
	return nil
}

func (r *RoomRepository) Get(code string) (domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[normalize(code)]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (r *RoomRepository) GetAll() ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	return rooms, nil
}

func (r *RoomRepository) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[normalize(code)]
	return ok
}

func (r *RoomRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *RoomRepository) SetCamera(code, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[normalize(code)]
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.CameraID = connectionID
	r.rooms[room.Code] = room
	return nil
}

func (r *RoomRepository) ClearCamera(code, connectionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[normalize(code)]
	if !ok {
		return false, domain.ErrRoomNotFound
	}
	// Guarded clear: an old camera disconnecting after being replaced must not
	// vacate the new camera's slot.
	if room.CameraID != connectionID {
		return false, nil
	}
	room.CameraID = ""
	r.rooms[room.Code] = room
	return true, nil
}

func (r *RoomRepository) AddMonitor(code, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[normalize(code)]
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.Monitors[connectionID] = struct{}{}
	return nil
}

func (r *RoomRepository) RemoveMonitor(code, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[normalize(code)]
	if !ok {
		return domain.ErrRoomNotFound
	}
	delete(room.Monitors, connectionID)
	return nil
}

func (r *RoomRepository) UpdateStatus(code string, record domain.StatusRecord) (domain.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[normalize(code)]
	if !ok {
		return "", domain.ErrRoomNotFound
	}
	previous := room.Status
	room.Status = record.Status
	room.LastStatus = &record
	r.rooms[room.Code] = room
	return previous, nil
}

func (r *RoomRepository) Delete(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalize(code)
	if _, ok := r.rooms[key]; !ok {
		return domain.ErrRoomNotFound
	}
	delete(r.rooms, key)
	return nil
}

// cloneRoom copies the monitor set so callers cannot mutate repository state
// through the returned value.
func cloneRoom(room domain.Room) domain.Room {
	monitors := make(map[string]struct{}, len(room.Monitors))
	for id := range room.Monitors {
		monitors[id] = struct{}{}
	}
	room.Monitors = monitors
	if room.LastStatus != nil {
		record := *room.LastStatus
		room.LastStatus = &record
	}
	return room
}

var _ domain.RoomRepository = (*RoomRepository)(nil)
