package service

import (
	"strings"
	"sync"

	"github.com/cribwatch/relay/internal/utils"
)

// RoomLocks serializes all compound mutations for a single room code: a join,
// a disconnect, a status update and the expiry sweep never interleave for the
// same room. Unrelated rooms proceed in parallel.
type RoomLocks struct {
	locks *utils.SyncMap[string, *sync.Mutex]
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: utils.NewSyncMap[string, *sync.Mutex]()}
}

// Lock acquires the lock for code and returns the unlock func.
func (l *RoomLocks) Lock(code string) func() {
	mu, _ := l.locks.LoadOrStore(strings.ToUpper(code), &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}

// Forget drops the lock entry for a deleted room. Callers must hold the lock
// when the room is removed, so a late LoadOrStore simply mints a fresh mutex
// for a code that no longer resolves.
func (l *RoomLocks) Forget(code string) {
	l.locks.Delete(strings.ToUpper(code))
}
