package sockets

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSocket struct {
	mu      sync.Mutex
	written []any
	closed  bool
}

func (s *recordingSocket) ReadJSON(v any) error { select {} }

func (s *recordingSocket) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = append(s.written, v)
	return nil
}

func (s *recordingSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSocket) writtenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.written)
}

func TestTrySendDropsWhenQueueFull(t *testing.T) {
	// Not started: nothing drains the queue, so capacity is the hard limit.
	out := NewOutbound(&recordingSocket{}, "sock-1", 2, time.Hour)
	defer out.cancel()

	assert.True(t, out.TrySend("one"))
	assert.True(t, out.TrySend("two"))
	assert.False(t, out.TrySend("three"))
}

func TestTrySendRefusedAfterStop(t *testing.T) {
	out := NewOutbound(&recordingSocket{}, "sock-1", 4, time.Hour)
	out.Start()
	out.Stop()

	assert.False(t, out.TrySend("late"))
}

func TestStartedOutboundWritesQueuedMessages(t *testing.T) {
	sock := &recordingSocket{}
	out := NewOutbound(sock, "sock-1", 4, time.Hour)
	out.Start()

	require.True(t, out.TrySend("hello"))

	deadline := time.After(time.Second)
	for sock.writtenCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("queued message never written")
		case <-time.After(5 * time.Millisecond):
		}
	}
	out.Stop()

	sock.mu.Lock()
	defer sock.mu.Unlock()
	assert.Equal(t, "hello", sock.written[0])
}

// blockedSocket parks every WriteJSON until the conn is closed, like a peer
// whose TCP receive buffer filled up.
type blockedSocket struct {
	release chan struct{}
	once    sync.Once
}

func newBlockedSocket() *blockedSocket {
	return &blockedSocket{release: make(chan struct{})}
}

func (s *blockedSocket) ReadJSON(v any) error { select {} }

func (s *blockedSocket) WriteJSON(v any) error {
	<-s.release
	return errors.New("use of closed connection")
}

func (s *blockedSocket) Close() error {
	s.once.Do(func() { close(s.release) })
	return nil
}

func TestCloseSocketWithStuckWriterDoesNotStallPool(t *testing.T) {
	pool := NewSocketPool()

	stuck := newBlockedSocket()
	out := NewOutbound(stuck, "stuck", 1, time.Hour)
	out.Start()
	pool.AddSocket("stuck", out)

	require.True(t, out.TrySend("never delivered"))
	// Wait for the writer to take the message and park in WriteJSON.
	deadline := time.After(time.Second)
	for len(out.messages) > 0 {
		select {
		case <-deadline:
			t.Fatal("writer never picked up the message")
		case <-time.After(time.Millisecond):
		}
	}

	healthy := NewOutbound(&recordingSocket{}, "healthy", 1, time.Hour)
	pool.AddSocket("healthy", healthy)

	closed := make(chan struct{})
	go func() {
		pool.CloseSocket("stuck")
		close(closed)
	}()

	// Delivery to unrelated connections must not block behind the teardown of
	// a connection whose writer is wedged.
	got := make(chan *Outbound, 1)
	go func() { got <- pool.GetSocket("healthy") }()

	select {
	case g := <-got:
		assert.Same(t, healthy, g)
	case <-time.After(time.Second):
		t.Fatal("GetSocket blocked behind a stuck writer")
	}
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("CloseSocket never returned")
	}
}

func TestPoolReplacesSocketOnCollision(t *testing.T) {
	pool := NewSocketPool()

	first := &recordingSocket{}
	outFirst := NewOutbound(first, "sock-1", 4, time.Hour)
	outFirst.Start()
	pool.AddSocket("sock-1", outFirst)

	second := &recordingSocket{}
	outSecond := NewOutbound(second, "sock-1", 4, time.Hour)
	outSecond.Start()
	pool.AddSocket("sock-1", outSecond)

	assert.True(t, first.closed)
	assert.Same(t, outSecond, pool.GetSocket("sock-1"))

	pool.Close()
	assert.True(t, second.closed)
}
