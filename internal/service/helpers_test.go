package service

import (
	"sync"
	"testing"
	"time"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

// fakeSender records every event delivered per connection id.
type fakeSender struct {
	mu     sync.Mutex
	events map[string][]api.Message
}

func newFakeSender() *fakeSender {
	return &fakeSender{events: make(map[string][]api.Message)}
}

func (f *fakeSender) Send(connectionID string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[connectionID] = append(f.events[connectionID], event.(api.Message))
	return nil
}

func (f *fakeSender) sent(connectionID string) []api.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Message(nil), f.events[connectionID]...)
}

func (f *fakeSender) sentOfKind(connectionID string, event api.Event) []api.Message {
	var out []api.Message
	for _, msg := range f.sent(connectionID) {
		if msg.Event == event {
			out = append(out, msg)
		}
	}
	return out
}

type testStack struct {
	roomRepo  *memory.RoomRepository
	rooms     *RoomService
	presence  *PresenceService
	lifecycle *LifecycleService
	relay     *RelayService
	sender    *fakeSender
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	sender := newFakeSender()
	roomRepo := memory.NewRoomRepository()
	locks := NewRoomLocks()
	presence := NewPresenceService(memory.NewPresenceRepository())
	broadcaster := NewBroadcastService(roomRepo, sender)

	return &testStack{
		roomRepo:  roomRepo,
		rooms:     NewRoomService(roomRepo, locks, 6),
		presence:  presence,
		lifecycle: NewLifecycleService(roomRepo, presence, broadcaster, locks),
		relay:     NewRelayService(presence, sender),
		sender:    sender,
	}
}

// saveRoom registers a room directly, optionally backdated, so tests control
// codes and ages without going through the generator.
func (s *testStack) saveRoom(t *testing.T, code string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.roomRepo.Save(domain.Room{
		Code:      code,
		CreatedAt: createdAt,
		Monitors:  make(map[string]struct{}),
		Status:    domain.StatusUnknown,
	}))
}
