package sockets

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cribwatch/relay/internal/api"
)

// Outbound owns all writes to a single connection: queued events from the
// coordinator and periodic pings. The queue is bounded so a slow reader can
// never stall room-wide processing; TrySend reports a drop instead of
// blocking.
type Outbound struct {
	socket     Socket
	socketID   SocketID
	messages   chan any
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	pingTicker *time.Ticker
}

func NewOutbound(socket Socket, socketID SocketID, queueSize int, pingInterval time.Duration) *Outbound {
	ctx, cancel := context.WithCancel(context.Background())
	return &Outbound{
		socket:     socket,
		socketID:   socketID,
		messages:   make(chan any, queueSize),
		ctx:        ctx,
		cancel:     cancel,
		pingTicker: time.NewTicker(pingInterval),
	}
}

func (o *Outbound) Start() {
	o.wg.Add(2)
	go o.writerLoop()
	go o.pingLoop()
}

func (o *Outbound) Stop() {
	o.cancel()
	o.pingTicker.Stop()
	o.wg.Wait()
}

// TrySend enqueues an event without blocking. Returns false when the loop is
// stopped or the queue is full; the event is dropped in both cases.
func (o *Outbound) TrySend(msg any) bool {
	select {
	case <-o.ctx.Done():
		return false
	default:
	}

	select {
	case o.messages <- msg:
		return true
	case <-o.ctx.Done():
		return false
	default:
		return false
	}
}

func (o *Outbound) writerLoop() {
	defer o.wg.Done()

	for {
		select {
		case msg := <-o.messages:
			if err := o.socket.WriteJSON(msg); err != nil {
				slog.Error("failed to send message", "socketID", o.socketID, "error", err)
				return
			}
		case <-o.ctx.Done():
			return
		}
	}
}

func (o *Outbound) pingLoop() {
	defer o.wg.Done()

	for {
		select {
		case <-o.pingTicker.C:
			if !o.TrySend(api.Message{
				Event: api.EventPing,
				Ping:  &api.PingMessage{Timestamp: time.Now().Unix()},
			}) {
				return
			}
		case <-o.ctx.Done():
			return
		}
	}
}
