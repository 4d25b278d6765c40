package sync

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Channel is an unordered broadcast transport scoped to one room. Messages
// published here reach every other member; the sender's own messages are not
// echoed back. Delivery order across members is not guaranteed.
type Channel interface {
	// Publish sends an envelope to all other room members.
	Publish(ctx context.Context, env Envelope) error
	// Start begins delivering inbound envelopes to the handler.
	Start(handler func(Envelope))
	// Close tears the channel down; the handler receives nothing afterwards.
	Close() error
}

// WebsocketChannel is a Channel over a relay websocket. The relay fans each
// frame out to the other members of the room and adds nothing else.
type WebsocketChannel struct {
	conn    *websocket.Conn
	logger  *zap.Logger
	writeMu gosync.Mutex
	closed  chan struct{}
	once    gosync.Once
}

// DialRoom connects to a relay room, e.g. relayURL "ws://localhost:8089"
// and a 6-character room code.
func DialRoom(ctx context.Context, relayURL, code string, logger *zap.Logger) (*WebsocketChannel, error) {
	if !ValidRoomCode(code) {
		return nil, fmt.Errorf("invalid room code %q", code)
	}
	url := strings.TrimRight(relayURL, "/") + "/ws/" + code
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial relay %s: %w", url, err)
	}
	logger.Info("joined broadcast room",
		zap.String("room", code),
		zap.String("relay", relayURL),
	)
	return &WebsocketChannel{
		conn:   conn,
		logger: logger,
		closed: make(chan struct{}),
	}, nil
}

// Publish implements Channel.
func (c *WebsocketChannel) Publish(_ context.Context, env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to publish %s: %w", env.Event, err)
	}
	return nil
}

// Start implements Channel. The read loop runs until the connection drops or
// Close is called; a dropped connection degrades to offline play.
func (c *WebsocketChannel) Start(handler func(Envelope)) {
	go func() {
		for {
			var env Envelope
			if err := c.conn.ReadJSON(&env); err != nil {
				select {
				case <-c.closed:
				default:
					c.logger.Warn("broadcast channel read failed", zap.Error(err))
				}
				return
			}
			handler(env)
		}
	}()
}

// Close implements Channel.
func (c *WebsocketChannel) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}
