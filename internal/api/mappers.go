package api

import (
	"sort"
	"time"

	"github.com/cribwatch/relay/internal/domain"
)

func ToRoomInfo(room domain.Room) RoomInfoResponse {
	return RoomInfoResponse{
		Exists:       true,
		HasCamera:    room.HasCamera(),
		MonitorCount: room.MonitorCount(),
	}
}

func ToStatusChanged(record domain.StatusRecord, previous domain.Status) StatusChangedMessage {
	return StatusChangedMessage{
		Status:         string(record.Status),
		PreviousStatus: string(previous),
		Confidence:     record.Confidence,
		Notes:          record.Notes,
		Position:       record.Position,
		Alert:          record.Alert,
		Snapshot:       record.Snapshot,
		Timestamp:      record.Timestamp,
	}
}

func ToAdminRoom(room domain.Room) AdminRoom {
	monitors := make([]string, 0, len(room.Monitors))
	for id := range room.Monitors {
		monitors = append(monitors, id)
	}
	sort.Strings(monitors)

	out := AdminRoom{
		Code:       room.Code,
		CreatedAt:  room.CreatedAt.Format(time.RFC3339),
		CameraID:   room.CameraID,
		MonitorIDs: monitors,
		Status:     string(room.Status),
	}
	if room.LastStatus != nil {
		out.LastStatus = &LastStatus{
			Status:     string(room.LastStatus.Status),
			Confidence: room.LastStatus.Confidence,
			Notes:      room.LastStatus.Notes,
			Timestamp:  room.LastStatus.Timestamp.Format(time.RFC3339),
		}
	}
	return out
}

func ToAdminRooms(rooms []domain.Room) []AdminRoom {
	out := make([]AdminRoom, len(rooms))
	for i, room := range rooms {
		out[i] = ToAdminRoom(room)
	}
	return out
}
