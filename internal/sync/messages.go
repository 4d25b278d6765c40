package sync

import (
	"encoding/json"
	"fmt"

	"github.com/cardtable/cardtable-server-go/internal/game"
)

// Broadcast event names. The channel is unordered and serverless: every
// message is a full fact, never a delta that depends on arrival order.
const (
	EventPlayerState  = "player_state"
	EventPlayerJoin   = "player_join"
	EventPlayerLeave  = "player_leave"
	EventGameLog      = "game_log"
	EventPresencePing = "presence_ping"
)

// Envelope frames one broadcast message.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals a payload into an envelope.
func NewEnvelope(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	return Envelope{Event: event, Payload: data}, nil
}

// PlayerStatePayload replicates one seat's full board state. Timestamp is
// Unix milliseconds at production time; receivers apply last-applied-wins
// and keep the timestamp for observability only.
type PlayerStatePayload struct {
	PlayerID  game.SeatID       `json:"playerId"`
	State     *game.PlayerState `json:"state"`
	Timestamp int64             `json:"timestamp"`
}

// PlayerJoinPayload announces a peer at a seat.
type PlayerJoinPayload struct {
	UserID   string      `json:"userId"`
	PlayerID game.SeatID `json:"playerId"`
	Name     string      `json:"name"`
	Status   string      `json:"status"`
	LastSeen int64       `json:"lastSeen"`
}

// PlayerLeavePayload announces a departing seat.
type PlayerLeavePayload struct {
	PlayerID game.SeatID `json:"playerId"`
}

// GameLogPayload replicates a privacy-filtered log entry.
type GameLogPayload struct {
	Entry    game.LogEntry `json:"entry"`
	PlayerID game.SeatID   `json:"playerId"`
}
