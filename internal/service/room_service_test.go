package service

import (
	"testing"
	"time"

	"github.com/cribwatch/relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomGeneratesLookupableCode(t *testing.T) {
	s := newTestStack(t)

	code, err := s.rooms.CreateRoom()
	require.NoError(t, err)

	require.Len(t, code, 6)
	for _, c := range code {
		assert.Contains(t, codeAlphabet, string(c))
	}

	room, err := s.rooms.Lookup(code)
	require.NoError(t, err)
	assert.Equal(t, code, room.Code)
	assert.Equal(t, domain.StatusUnknown, room.Status)
	assert.True(t, room.Empty())
}

func TestCreateRoomCodesAreDistinct(t *testing.T) {
	s := newTestStack(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		code, err := s.rooms.CreateRoom()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "code %s issued twice", code)
		seen[code] = struct{}{}
	}
	assert.Equal(t, 20, s.rooms.Count())
}

func TestSweepDeletesOnlyOldEmptyRooms(t *testing.T) {
	s := newTestStack(t)
	now := time.Now()
	threshold := 30 * time.Minute

	s.saveRoom(t, "OLDIDL", now.Add(-time.Hour))
	s.saveRoom(t, "OLDBSY", now.Add(-time.Hour))
	s.saveRoom(t, "FRESH1", now.Add(-time.Minute))

	_, err := s.lifecycle.JoinMonitor("mon", "OLDBSY")
	require.NoError(t, err)

	swept := s.rooms.SweepExpired(now, threshold)
	assert.Equal(t, 1, swept)

	assert.False(t, s.roomRepo.Exists("OLDIDL"))
	assert.True(t, s.roomRepo.Exists("OLDBSY"))
	assert.True(t, s.roomRepo.Exists("FRESH1"))
}

func TestSweepKeepsOldRoomWithCamera(t *testing.T) {
	s := newTestStack(t)
	now := time.Now()

	s.saveRoom(t, "OLDCAM", now.Add(-2*time.Hour))
	_, err := s.lifecycle.JoinCamera("cam", "OLDCAM")
	require.NoError(t, err)

	swept := s.rooms.SweepExpired(now, 30*time.Minute)
	assert.Zero(t, swept)
	assert.True(t, s.roomRepo.Exists("OLDCAM"))
}

func TestForceDeleteRefusesOccupiedRoom(t *testing.T) {
	s := newTestStack(t)
	s.saveRoom(t, "ABC123", time.Now())

	_, err := s.lifecycle.JoinMonitor("mon", "ABC123")
	require.NoError(t, err)

	err = s.rooms.ForceDelete("ABC123")
	assert.ErrorIs(t, err, domain.ErrRoomNotEmpty)

	s.lifecycle.Disconnect("mon")
	require.NoError(t, s.rooms.ForceDelete("ABC123"))
	assert.False(t, s.roomRepo.Exists("ABC123"))

	err = s.rooms.ForceDelete("ABC123")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
