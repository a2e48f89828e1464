package api

import "github.com/pion/webrtc/v4"

// PeerConnectionConfig is handed to every client at init so cameras and
// monitors negotiate against the same ICE servers.
type PeerConnectionConfig struct {
	IceServers []webrtc.ICEServer `json:"iceServers"`
}

func DefaultPeerConnectionConfig() PeerConnectionConfig {
	return PeerConnectionConfig{
		IceServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
			{URLs: []string{"stun:stun1.l.google.com:19302"}},
		},
	}
}

type GenerateRoomResponse struct {
	RoomCode string `json:"roomCode"`
}

type RoomInfoResponse struct {
	Exists       bool `json:"exists"`
	HasCamera    bool `json:"hasCamera"`
	MonitorCount int  `json:"monitorCount"`
}

type StatsResponse struct {
	ActiveRooms    int     `json:"activeRooms"`
	ActiveCameras  int     `json:"activeCameras"`
	ActiveMonitors int     `json:"activeMonitors"`
	UptimeSeconds  float64 `json:"uptime"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type BannerResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	ActiveRooms int    `json:"activeRooms"`
}

// AdminRoom is the admin API's view of a room, including membership.
type AdminRoom struct {
	Code       string      `json:"code"`
	CreatedAt  string      `json:"createdAt"`
	CameraID   string      `json:"cameraId,omitempty"`
	MonitorIDs []string    `json:"monitorIds"`
	Status     string      `json:"status"`
	LastStatus *LastStatus `json:"lastStatus,omitempty"`
}

type LastStatus struct {
	Status     string `json:"status"`
	Confidence int    `json:"confidence"`
	Notes      string `json:"notes,omitempty"`
	Timestamp  string `json:"timestamp"`
}
