package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/cardtable-server-go/internal/game"
	"github.com/cardtable/cardtable-server-go/internal/game/counters"
)

func newTestClient(t *testing.T, broker *Broker, room string, seat game.SeatID, name string) (*game.Table, *Synchronizer) {
	t.Helper()
	table := game.NewTable(game.Config{}, nil)
	s := NewSynchronizer(table, "user-"+string(seat), name, nil)
	require.NoError(t, s.Join(broker.Join(room), seat))
	return table, s
}

func statePayload(t *testing.T, seat game.SeatID, life, timestamp int64) Envelope {
	t.Helper()
	env, err := NewEnvelope(EventPlayerState, PlayerStatePayload{
		PlayerID: seat,
		State: &game.PlayerState{
			ID:            seat,
			Life:          int(life),
			CardPositions: map[string]game.Position{},
		},
		Timestamp: timestamp,
	})
	require.NoError(t, err)
	return env
}

func TestJoinSelfHealingPresence(t *testing.T) {
	broker := NewBroker()
	_, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	_, bob := newTestClient(t, broker, "ROOM01", game.Seat2, "Bob")

	// Alice was already in the room when Bob announced; her re-announce must
	// have told Bob about her without any server tracking membership.
	assert.Equal(t, []game.SeatID{game.Seat2}, alice.TakenSeats())
	assert.Equal(t, []game.SeatID{game.Seat1}, bob.TakenSeats())

	peers := bob.ConnectedPeers()
	require.Len(t, peers, 1)
	assert.Equal(t, "Alice", peers[0].Name)
	assert.Equal(t, game.Seat1, peers[0].Seat)
}

func TestJoinIsLogged(t *testing.T) {
	broker := NewBroker()
	aliceTable, _ := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	newTestClient(t, broker, "ROOM01", game.Seat2, "Bob")

	var joined bool
	for _, entry := range aliceTable.LogEntries() {
		if entry.Action == game.ActionJoin {
			joined = true
			assert.Contains(t, entry.Message, "Bob")
		}
	}
	assert.True(t, joined, "expected a join log entry for Bob")
}

func TestLocalMutationReplicates(t *testing.T) {
	broker := NewBroker()
	aliceTable, _ := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	_, bob := newTestClient(t, broker, "ROOM01", game.Seat2, "Bob")

	aliceTable.AdjustLife(-7)

	replica := bob.RemoteState(game.Seat1)
	require.NotNil(t, replica)
	assert.Equal(t, 33, replica.Life)
}

func TestLastAppliedWins(t *testing.T) {
	broker := NewBroker()
	_, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	// The newer snapshot arrives first, the older one second. With no
	// conflict detection the replica must equal whichever was applied last.
	newer := statePayload(t, game.Seat2, 31, 2000)
	older := statePayload(t, game.Seat2, 35, 1000)
	require.NoError(t, raw.Publish(context.Background(), newer))
	require.NoError(t, raw.Publish(context.Background(), older))

	replica := alice.RemoteState(game.Seat2)
	require.NotNil(t, replica)
	assert.Equal(t, 35, replica.Life)
	assert.Equal(t, int64(1000), alice.LastApplied(game.Seat2))
}

func TestEchoSuppression(t *testing.T) {
	broker := NewBroker()
	aliceTable, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	// A state broadcast tagged with the local seat must never be applied,
	// even if the relay were to echo it back.
	require.NoError(t, raw.Publish(context.Background(), statePayload(t, game.Seat1, 5, 999)))

	assert.Nil(t, alice.RemoteState(game.Seat1))
	assert.Equal(t, 40, aliceTable.Life())
}

func TestReplicatedCardWithoutCountersIsApplied(t *testing.T) {
	broker := NewBroker()
	aliceTable, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	// Peers are free to omit the counters field from card JSON entirely; the
	// replica must still apply and stay usable, never crash the client.
	payload := json.RawMessage(`{
		"playerId": "player-2",
		"state": {
			"id": "player-2",
			"life": 38,
			"cards": [{"id": "c1", "card": {"name": "Forest"}, "zone": "battlefield"}]
		},
		"timestamp": 42
	}`)
	require.NoError(t, raw.Publish(context.Background(), Envelope{Event: EventPlayerState, Payload: payload}))

	replica := alice.RemoteState(game.Seat2)
	require.NotNil(t, replica)
	assert.Equal(t, 38, replica.Life)
	require.Len(t, replica.Cards, 1)
	require.NotNil(t, replica.Cards[0].Counters)
	assert.Equal(t, 0, replica.Cards[0].Counters.Total())

	// The normalized replica must also survive being viewed and mutated.
	alice.SwitchView(game.Seat2)
	aliceTable.AdjustCardCounter("c1", counters.Charge, 2)
	card := aliceTable.FindCard("c1")
	require.NotNil(t, card)
	assert.Equal(t, 2, card.Counters.Count(counters.Charge))
}

func TestRemoteStateRefreshesViewedBoard(t *testing.T) {
	broker := NewBroker()
	aliceTable, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	require.NoError(t, raw.Publish(context.Background(), statePayload(t, game.Seat2, 28, 1)))
	alice.SwitchView(game.Seat2)
	assert.Equal(t, 28, aliceTable.Life())

	// A newer broadcast for the seat on screen updates the live fields too.
	require.NoError(t, raw.Publish(context.Background(), statePayload(t, game.Seat2, 25, 2)))
	assert.Equal(t, 25, aliceTable.Life())
}

func TestSwitchViewDoesNotClobberRemoteReplica(t *testing.T) {
	broker := NewBroker()
	aliceTable, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	require.NoError(t, raw.Publish(context.Background(), statePayload(t, game.Seat2, 30, 1)))
	alice.SwitchView(game.Seat2)
	aliceTable.AdjustLife(-10)
	alice.SwitchView(game.Seat1)

	// The local edit while looking at Bob's board must not overwrite the
	// replica: Bob's own broadcasts are its only writer.
	replica := alice.RemoteState(game.Seat2)
	require.NotNil(t, replica)
	assert.Equal(t, 30, replica.Life)
}

func TestSwitchViewRoundTripPreservesLocalBoard(t *testing.T) {
	table := game.NewTable(game.Config{}, nil)
	s := NewSynchronizer(table, "user-1", "Solo", nil)

	table.AdjustLife(-4)
	s.SwitchView(game.Seat2)
	assert.Equal(t, 40, table.Life(), "fresh seat starts at full life")
	s.SwitchView(game.Seat1)
	assert.Equal(t, 36, table.Life())
}

func TestOfflineHotSeatPersistsEverySeat(t *testing.T) {
	table := game.NewTable(game.Config{}, nil)
	s := NewSynchronizer(table, "user-1", "Solo", nil)

	s.SwitchView(game.Seat2)
	table.AdjustLife(-15)
	s.SwitchView(game.Seat1)

	replica := s.RemoteState(game.Seat2)
	require.NotNil(t, replica)
	assert.Equal(t, 25, replica.Life)
}

func TestGameLogReplicationAndDedupe(t *testing.T) {
	broker := NewBroker()
	aliceTable, _ := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	entry := game.LogEntry{
		ID:        uuid.NewString(),
		Turn:      1,
		Timestamp: time.Now(),
		Action:    game.ActionDraw,
		Message:   "Drew a card",
	}
	env, err := NewEnvelope(EventGameLog, GameLogPayload{Entry: entry, PlayerID: game.Seat2})
	require.NoError(t, err)
	require.NoError(t, raw.Publish(context.Background(), env))
	require.NoError(t, raw.Publish(context.Background(), env))

	var count int
	for _, e := range aliceTable.LogEntries() {
		if e.ID == entry.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLobbyPresencePing(t *testing.T) {
	broker := NewBroker()
	newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")

	bobTable := game.NewTable(game.Config{}, nil)
	bob := NewSynchronizer(bobTable, "user-bob", "Bob", nil)
	require.NoError(t, bob.EnterLobby(broker.Join("ROOM01")))

	// The ping solicited Alice's announcement, so Bob can see her seat is
	// taken before committing to one himself.
	assert.Equal(t, []game.SeatID{game.Seat1}, bob.TakenSeats())

	require.NoError(t, bob.CommitSeat(game.Seat2))
	assert.Equal(t, game.Seat2, bob.LocalSeat())
}

func TestLeaveAnnouncesDeparture(t *testing.T) {
	broker := NewBroker()
	aliceTable, alice := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	_, bob := newTestClient(t, broker, "ROOM01", game.Seat2, "Bob")

	bob.Leave()

	assert.Empty(t, alice.TakenSeats())
	var left bool
	for _, entry := range aliceTable.LogEntries() {
		if entry.Action == game.ActionLeave {
			left = true
		}
	}
	assert.True(t, left, "expected a leave log entry")
	assert.False(t, bob.Online())
}

func TestCommitSeatRejectsInvalidSeat(t *testing.T) {
	table := game.NewTable(game.Config{}, nil)
	s := NewSynchronizer(table, "user-1", "Solo", nil)
	assert.Error(t, s.CommitSeat("player-9"))
}

func TestUnknownEventIgnored(t *testing.T) {
	broker := NewBroker()
	aliceTable, _ := newTestClient(t, broker, "ROOM01", game.Seat1, "Alice")
	raw := broker.Join("ROOM01")

	require.NoError(t, raw.Publish(context.Background(), Envelope{Event: "emote_wave"}))
	assert.Equal(t, 40, aliceTable.Life())
}
