package utils

import "sync"

// SyncMap is a typed wrapper over sync.Map.
type SyncMap[K comparable, V any] struct {
	sm sync.Map
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{}
}

func (m *SyncMap[K, V]) Load(key K) (V, bool) {
	val, ok := m.sm.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return val.(V), true
}

func (m *SyncMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	val, loaded := m.sm.LoadOrStore(key, value)
	return val.(V), loaded
}

func (m *SyncMap[K, V]) Delete(key K) {
	m.sm.Delete(key)
}

func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.sm.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}
