package sync

import (
	"context"
	gosync "sync"
)

// Broker is an in-process broadcast fabric: channels joined to the same room
// receive each other's messages synchronously. It backs tests and local
// multi-table setups without a relay.
//
// Delivery runs on the publisher's goroutine, and a publisher may hold its
// table lock while publishing. Two tables mutating concurrently over one
// broker could therefore lock each other's tables in opposite orders. Keep
// one mutating goroutine per broker; the websocket channel delivers through
// its own read loop and has no such constraint.
type Broker struct {
	mu    gosync.Mutex
	rooms map[string][]*MemoryChannel
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{rooms: make(map[string][]*MemoryChannel)}
}

// Join adds a new channel to a room.
func (b *Broker) Join(room string) *MemoryChannel {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := &MemoryChannel{broker: b, room: room}
	b.rooms[room] = append(b.rooms[room], ch)
	return ch
}

func (b *Broker) broadcast(from *MemoryChannel, env Envelope) {
	b.mu.Lock()
	members := append([]*MemoryChannel(nil), b.rooms[from.room]...)
	b.mu.Unlock()
	for _, m := range members {
		if m == from {
			continue
		}
		m.deliver(env)
	}
}

func (b *Broker) leave(ch *MemoryChannel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	members := b.rooms[ch.room]
	for i, m := range members {
		if m == ch {
			b.rooms[ch.room] = append(members[:i], members[i+1:]...)
			return
		}
	}
}

// MemoryChannel is a Channel delivered in-process by a Broker.
type MemoryChannel struct {
	broker  *Broker
	room    string
	mu      gosync.Mutex
	handler func(Envelope)
	closed  bool
}

// Publish implements Channel.
func (c *MemoryChannel) Publish(_ context.Context, env Envelope) error {
	c.broker.broadcast(c, env)
	return nil
}

// Start implements Channel.
func (c *MemoryChannel) Start(handler func(Envelope)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Close implements Channel.
func (c *MemoryChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.handler = nil
	c.mu.Unlock()
	c.broker.leave(c)
	return nil
}

func (c *MemoryChannel) deliver(env Envelope) {
	c.mu.Lock()
	handler := c.handler
	closed := c.closed
	c.mu.Unlock()
	if handler != nil && !closed {
		handler(env)
	}
}
