package api

import (
	"time"

	"github.com/pion/webrtc/v4"
)

type Event string

const (
	EventInit Event = "init"
	EventPing Event = "ping"
	EventPong Event = "pong"

	EventJoinAsCamera    Event = "join-as-camera"
	EventJoinAsMonitor   Event = "join-as-monitor"
	EventJoinedAsCamera  Event = "joined-as-camera"
	EventJoinedAsMonitor Event = "joined-as-monitor"

	EventCameraOnline    Event = "camera-online"
	EventCameraOffline   Event = "camera-offline"
	EventPeerJoinRequest Event = "peer-join-request"

	EventOffer        Event = "offer"
	EventAnswer       Event = "answer"
	EventIceCandidate Event = "ice-candidate"

	EventStatusUpdate  Event = "status-update"
	EventStatusChanged Event = "status-changed"

	EventError Event = "error"
)

// Message is the envelope for every event exchanged with a connection. Exactly
// one payload pointer is set, matching Event.
type Message struct {
	Event         Event                 `json:"event"`
	Init          *InitMessage          `json:"init,omitempty"`
	Ping          *PingMessage          `json:"ping,omitempty"`
	Join          *JoinMessage          `json:"join,omitempty"`
	Joined        *JoinedMessage        `json:"joined,omitempty"`
	PeerJoin      *PeerJoinMessage      `json:"peerJoin,omitempty"`
	Offer         *SDPMessage           `json:"offer,omitempty"`
	Answer        *SDPMessage           `json:"answer,omitempty"`
	Ice           *IceMessage           `json:"ice,omitempty"`
	StatusUpdate  *StatusUpdateMessage  `json:"statusUpdate,omitempty"`
	StatusChanged *StatusChangedMessage `json:"statusChanged,omitempty"`
	Error         *ErrorMessage         `json:"error,omitempty"`
}

// InitMessage is sent once per connection, before any join, so clients can
// build their peer connection without hardcoding ICE servers.
type InitMessage struct {
	PcConfig     PeerConnectionConfig `json:"pcConfig"`
	PingInterval int                  `json:"pingInterval"`
}

type PingMessage struct {
	Timestamp int64 `json:"timestamp"`
}

type JoinMessage struct {
	RoomCode string `json:"roomCode"`
}

// JoinedMessage acknowledges a successful join to the joining connection only.
// CameraOnline and Status are present for monitors.
type JoinedMessage struct {
	RoomCode     string  `json:"roomCode"`
	CameraOnline *bool   `json:"cameraOnline,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// PeerJoinMessage asks the camera to initiate an offer toward a new monitor.
type PeerJoinMessage struct {
	NewMonitorID string `json:"newMonitorId"`
}

// SDPMessage carries an offer or answer. TargetID is set by the sending
// client; SenderID is set by the relay on delivery. The session description
// is never interpreted beyond routing.
type SDPMessage struct {
	Payload  webrtc.SessionDescription `json:"payload"`
	TargetID string                    `json:"targetId,omitempty"`
	SenderID string                    `json:"senderId,omitempty"`
}

type IceMessage struct {
	Payload  webrtc.ICECandidateInit `json:"payload"`
	TargetID string                  `json:"targetId,omitempty"`
	SenderID string                  `json:"senderId,omitempty"`
}

type StatusUpdateMessage struct {
	RoomCode   string `json:"roomCode"`
	Status     string `json:"status"`
	Confidence int    `json:"confidence"`
	Notes      string `json:"notes,omitempty"`
	Position   string `json:"position,omitempty"`
	Alert      bool   `json:"alert,omitempty"`
	Snapshot   string `json:"snapshot,omitempty"`
}

type StatusChangedMessage struct {
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus"`
	Confidence     int       `json:"confidence"`
	Notes          string    `json:"notes,omitempty"`
	Position       string    `json:"position,omitempty"`
	Alert          bool      `json:"alert,omitempty"`
	Snapshot       string    `json:"snapshot,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
