package signalling

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/config"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/repository/memory"
	"github.com/cribwatch/relay/internal/service"
	"github.com/cribwatch/relay/internal/sockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// scriptedSocket feeds a fixed sequence of raw frames to ReadJSON, then
// reports the peer gone.
type scriptedSocket struct {
	frames [][]byte
}

func (s *scriptedSocket) ReadJSON(v any) error {
	if len(s.frames) == 0 {
		return errors.New("connection closed")
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return json.Unmarshal(frame, v)
}

func (s *scriptedSocket) WriteJSON(v any) error { return nil }
func (s *scriptedSocket) Close() error          { return nil }

type recordingSender struct {
	events map[string][]api.Message
}

func (r *recordingSender) Send(connectionID string, event any) error {
	r.events[connectionID] = append(r.events[connectionID], event.(api.Message))
	return nil
}

func TestReadLoopDoesNotLeakTargetAcrossFrames(t *testing.T) {
	sender := &recordingSender{events: make(map[string][]api.Message)}
	roomRepo := memory.NewRoomRepository()
	locks := service.NewRoomLocks()
	presence := service.NewPresenceService(memory.NewPresenceRepository())
	broadcaster := service.NewBroadcastService(roomRepo, sender)
	relay := service.NewRelayService(presence, sender)
	lifecycle := service.NewLifecycleService(roomRepo, presence, broadcaster, locks)

	require.NoError(t, presence.Bind("cam", domain.RoleCamera, "ABC123"))
	require.NoError(t, presence.Bind("mon-1", domain.RoleMonitor, "ABC123"))

	// The second frame omits targetId; it must be dropped, not routed to the
	// first frame's target.
	socket := &scriptedSocket{frames: [][]byte{
		[]byte(`{"event":"offer","offer":{"payload":{"type":"offer","sdp":"v=0 a"},"targetId":"mon-1"}}`),
		[]byte(`{"event":"offer","offer":{"payload":{"type":"offer","sdp":"v=0 b"}}}`),
	}}

	mgr, err := config.NewManager(t.TempDir())
	require.NoError(t, err)
	handler := NewConnectionHandler(mgr, lifecycle, relay,
		NewSessionHandler(sockets.NewSocketPool(), 4, time.Hour, 5, 10))

	session := &Session{
		Socket:   socket,
		SocketID: "cam",
		Outbound: sockets.NewOutbound(socket, "cam", 4, time.Hour),
		Limiter:  rate.NewLimiter(5, 10),
		Cleanup:  func() {},
	}
	handler.readLoop(session)

	var offers []api.Message
	for _, msg := range sender.events["mon-1"] {
		if msg.Event == api.EventOffer {
			offers = append(offers, msg)
		}
	}
	require.Len(t, offers, 1)
	assert.Equal(t, "v=0 a", offers[0].Offer.Payload.SDP)
}
