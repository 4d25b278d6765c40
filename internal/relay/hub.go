package relay

import (
	gosync "sync"

	"go.uber.org/zap"

	"github.com/cardtable/cardtable-server-go/internal/sync"
)

// Hub tracks rooms and their connected clients. The relay is deliberately
// dumb: it never parses frames, holds no game state, and has no authority.
// Every frame a client sends is forwarded verbatim to the other members of
// its room. A room exists while it has members; an empty room is just an
// unused code.
type Hub struct {
	logger *zap.Logger

	mu    gosync.RWMutex
	rooms map[string]map[*client]bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[*client]bool),
	}
}

// NewRoomCode returns a fresh code with no current members. Collisions on a
// 32^6 space are rare; regenerate rather than error.
func (h *Hub) NewRoomCode() string {
	for {
		code := sync.NewRoomCode()
		if h.RoomSize(code) == 0 {
			return code
		}
	}
}

// RoomSize returns the number of clients in a room.
func (h *Hub) RoomSize(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[c.room]
	if members == nil {
		members = make(map[*client]bool)
		h.rooms[c.room] = members
	}
	members[c] = true
	h.logger.Info("client joined room",
		zap.String("room", c.room),
		zap.Int("members", len(members)),
	)
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[c.room]
	if !members[c] {
		return
	}
	delete(members, c)
	close(c.send)
	if len(members) == 0 {
		delete(h.rooms, c.room)
	}
	h.logger.Info("client left room",
		zap.String("room", c.room),
		zap.Int("members", len(members)),
	)
}

// broadcast forwards a frame to every other member of the sender's room. A
// member whose send buffer is full is dropped rather than allowed to stall
// the room.
func (h *Hub) broadcast(from *client, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[from.room]
	for c := range members {
		if c == from {
			continue
		}
		select {
		case c.send <- frame:
		default:
			delete(members, c)
			close(c.send)
			h.logger.Warn("dropped slow client", zap.String("room", c.room))
		}
	}
}
