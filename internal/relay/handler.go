package relay

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cardtable/cardtable-server-go/internal/sync"
)

// The room code is the only capability needed to join a room, so there is
// nothing for an origin check to protect.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one websocket member of a room.
type client struct {
	room string
	conn *websocket.Conn
	send chan []byte
}

// Router builds the relay's HTTP surface.
func Router(h *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz)
	r.Post("/rooms", createRoom(h))
	r.Get("/ws/{code}", serveRoom(h))
	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func createRoom(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		code := h.NewRoomCode()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func serveRoom(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !sync.ValidRoomCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		c := &client{room: code, conn: conn, send: make(chan []byte, 16)}
		h.join(c)
		go c.writePump()
		c.readPump(h)
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.leave(c)
		c.conn.Close()
	}()
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		h.broadcast(c, frame)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
