package sockets

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// SocketID identifies one live transport session. IDs are minted at connect
// time and never reused.
type SocketID string

type Socket interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

type socketImpl struct {
	ws *websocket.Conn
	mu sync.Mutex // the underlying conn allows only one concurrent writer
}

func NewSocket(conn *websocket.Conn) Socket {
	return &socketImpl{ws: conn}
}

func (s *socketImpl) ReadJSON(v any) error {
	return s.ws.ReadJSON(v)
}

func (s *socketImpl) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.WriteJSON(v)
}

func (s *socketImpl) Close() error {
	return s.ws.Close()
}
