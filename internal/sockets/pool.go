package sockets

import "sync"

// SocketPool maps connection ids to their outbound loops. All delivery to a
// connection goes through its loop so nothing here ever blocks on a peer.
type SocketPool struct {
	mutex sync.Mutex
	conns map[SocketID]*Outbound
}

func NewSocketPool() *SocketPool {
	return &SocketPool{
		conns: make(map[SocketID]*Outbound),
	}
}

func (p *SocketPool) AddSocket(id SocketID, out *Outbound) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if old, contains := p.conns[id]; contains {
		// Close the conn first: a writer parked in WriteJSON on a dead peer
		// only unblocks when the conn goes away, and Stop waits for it.
		_ = old.socket.Close()
		old.Stop()
	}
	p.conns[id] = out
}

func (p *SocketPool) GetSocket(id SocketID) *Outbound {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if out, contains := p.conns[id]; contains {
		return out
	}
	return nil
}

func (p *SocketPool) CloseSocket(id SocketID) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if out, contains := p.conns[id]; contains {
		_ = out.socket.Close()
		out.Stop()
		delete(p.conns, id)
	}
}

func (p *SocketPool) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for id, out := range p.conns {
		_ = out.socket.Close()
		out.Stop()
		delete(p.conns, id)
	}
}
