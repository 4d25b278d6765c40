package game

import (
	"github.com/cardtable/cardtable-server-go/internal/game/mana"
)

// SeatID identifies one of the four fixed player slots in a room.
type SeatID string

const (
	Seat1 SeatID = "player-1"
	Seat2 SeatID = "player-2"
	Seat3 SeatID = "player-3"
	Seat4 SeatID = "player-4"
)

// Seats lists all seats in order.
var Seats = []SeatID{Seat1, Seat2, Seat3, Seat4}

// ValidSeat reports whether the id names one of the four seats.
func ValidSeat(id SeatID) bool {
	for _, s := range Seats {
		if s == id {
			return true
		}
	}
	return false
}

// PlayerCounterKind names one of the fixed player-level counters.
type PlayerCounterKind string

const (
	PlayerCounterPoison       PlayerCounterKind = "poison"
	PlayerCounterEnergy       PlayerCounterKind = "energy"
	PlayerCounterExperience   PlayerCounterKind = "experience"
	PlayerCounterRad          PlayerCounterKind = "rad"
	PlayerCounterTickets      PlayerCounterKind = "tickets"
	PlayerCounterCommanderTax PlayerCounterKind = "commanderTax"
	PlayerCounterStormCount   PlayerCounterKind = "stormCount"
)

// PlayerCounters is the fixed record of player-level counters.
type PlayerCounters struct {
	Poison       int `json:"poison"`
	Energy       int `json:"energy"`
	Experience   int `json:"experience"`
	Rad          int `json:"rad"`
	Tickets      int `json:"tickets"`
	CommanderTax int `json:"commanderTax"`
	StormCount   int `json:"stormCount"`
}

// Adjust applies a signed delta to the named counter, clamping at zero.
// Unknown kinds are ignored.
func (pc *PlayerCounters) Adjust(kind PlayerCounterKind, delta int) {
	var field *int
	switch kind {
	case PlayerCounterPoison:
		field = &pc.Poison
	case PlayerCounterEnergy:
		field = &pc.Energy
	case PlayerCounterExperience:
		field = &pc.Experience
	case PlayerCounterRad:
		field = &pc.Rad
	case PlayerCounterTickets:
		field = &pc.Tickets
	case PlayerCounterCommanderTax:
		field = &pc.CommanderTax
	case PlayerCounterStormCount:
		field = &pc.StormCount
	default:
		return
	}
	*field += delta
	if *field < 0 {
		*field = 0
	}
}

// Get returns the value of the named counter.
func (pc *PlayerCounters) Get(kind PlayerCounterKind) int {
	switch kind {
	case PlayerCounterPoison:
		return pc.Poison
	case PlayerCounterEnergy:
		return pc.Energy
	case PlayerCounterExperience:
		return pc.Experience
	case PlayerCounterRad:
		return pc.Rad
	case PlayerCounterTickets:
		return pc.Tickets
	case PlayerCounterCommanderTax:
		return pc.CommanderTax
	case PlayerCounterStormCount:
		return pc.StormCount
	default:
		return 0
	}
}

// Position is a board coordinate assigned by the UI layout. The engine only
// stores and replicates it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerState is the full replicable state of one seat's board. Exactly one
// seat's state is the writable ground truth on any client; the other seats
// hold replicas overwritten wholesale by inbound broadcasts.
type PlayerState struct {
	ID              SeatID              `json:"id"`
	Life            int                 `json:"life"`
	Counters        PlayerCounters      `json:"counters"`
	Mana            mana.Pool           `json:"manaPool"`
	Cards           []*CardInstance     `json:"cards"`
	CardPositions   map[string]Position `json:"cardPositions"`
	CommanderCardID string              `json:"commanderCardId,omitempty"`
	TopCardRevealed bool                `json:"isTopCardRevealed"`
}

// Copy creates a deep copy with no aliasing of card instances or positions.
func (ps *PlayerState) Copy() *PlayerState {
	cp := *ps
	cp.Cards = copyCards(ps.Cards)
	cp.CardPositions = make(map[string]Position, len(ps.CardPositions))
	for id, pos := range ps.CardPositions {
		cp.CardPositions[id] = pos
	}
	return &cp
}

func copyCards(cards []*CardInstance) []*CardInstance {
	out := make([]*CardInstance, len(cards))
	for i, c := range cards {
		out[i] = c.Copy()
	}
	return out
}
