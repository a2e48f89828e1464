package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/metrics"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomService is the room registry: code generation, lookup and the expiry
// sweep.
type RoomService struct {
	rooms      domain.RoomRepository
	locks      *RoomLocks
	codeLength int
}

func NewRoomService(rooms domain.RoomRepository, locks *RoomLocks, codeLength int) *RoomService {
	return &RoomService{
		rooms:      rooms,
		locks:      locks,
		codeLength: codeLength,
	}
}

// CreateRoom generates a code not currently in use and registers an empty
// room under it. Each call creates a new, distinct room.
func (s *RoomService) CreateRoom() (string, error) {
	for {
		code, err := s.generateCode()
		if err != nil {
			return "", err
		}
		if s.rooms.Exists(code) {
			continue
		}

		room := domain.Room{
			Code:      code,
			CreatedAt: time.Now(),
			Monitors:  make(map[string]struct{}),
			Status:    domain.StatusUnknown,
		}
		if err := s.rooms.Save(room); err != nil {
			return "", fmt.Errorf("failed to register room: %w", err)
		}

		metrics.RoomsCreatedTotal.Inc()
		metrics.ActiveRooms.Set(float64(s.rooms.Count()))
		return code, nil
	}
}

func (s *RoomService) Lookup(code string) (domain.Room, error) {
	return s.rooms.Get(code)
}

func (s *RoomService) GetAll() ([]domain.Room, error) {
	return s.rooms.GetAll()
}

func (s *RoomService) Count() int {
	return s.rooms.Count()
}

// SweepExpired deletes every room older than threshold that has no camera and
// no monitors. Rooms with any live member survive regardless of age. Each
// candidate is re-checked under its room lock so a sweep never deletes a room
// mid-join. Returns the number of rooms deleted.
func (s *RoomService) SweepExpired(now time.Time, threshold time.Duration) int {
	rooms, err := s.rooms.GetAll()
	if err != nil {
		return 0
	}

	swept := 0
	for _, candidate := range rooms {
		if !candidate.IdleSince(now, threshold) {
			continue
		}

		unlock := s.locks.Lock(candidate.Code)
		room, err := s.rooms.Get(candidate.Code)
		if err == nil && room.IdleSince(now, threshold) {
			if err := s.rooms.Delete(room.Code); err == nil {
				s.locks.Forget(room.Code)
				swept++
			}
		}
		unlock()
	}

	if swept > 0 {
		metrics.RoomsSweptTotal.Add(float64(swept))
		metrics.ActiveRooms.Set(float64(s.rooms.Count()))
	}
	return swept
}

// ForceDelete removes an idle room immediately, regardless of age. Used by
// the admin API; rooms with members are refused.
func (s *RoomService) ForceDelete(code string) error {
	unlock := s.locks.Lock(code)
	defer unlock()

	room, err := s.rooms.Get(code)
	if err != nil {
		return err
	}
	if !room.Empty() {
		return domain.ErrRoomNotEmpty
	}
	if err := s.rooms.Delete(room.Code); err != nil {
		return err
	}
	s.locks.Forget(room.Code)
	metrics.ActiveRooms.Set(float64(s.rooms.Count()))
	return nil
}

func (s *RoomService) generateCode() (string, error) {
	code := make([]byte, s.codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
