package sync

import (
	"context"
	"encoding/json"
	"fmt"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/cardtable/cardtable-server-go/internal/game"
)

// PeerInfo describes a connected peer at a seat.
type PeerInfo struct {
	UserID   string
	Seat     game.SeatID
	Name     string
	Status   string
	LastSeen int64
}

// Synchronizer owns the multiplayer view of a session: which seat is local,
// which is on screen, the stored per-seat states, and the broadcast channel.
// The local seat's stored state is only ever written by view switches; remote
// seats' stored states are written exclusively by inbound replication, so
// looking at a peer's board can never clobber their authoritative data.
//
// Replication is full-state and last-applied-wins: whatever player_state
// message is processed last for a seat defines that seat, regardless of when
// it was produced. The carried timestamp is recorded but deliberately not
// used to reject stale messages.
//
// Locking: s.mu is a leaf lock. It is never held across calls into the table
// or the channel; the table's mutation hooks may acquire it.
type Synchronizer struct {
	logger *zap.Logger
	table  *game.Table

	userID      string
	displayName string

	mu          gosync.Mutex
	channel     Channel
	seated      bool
	localSeat   game.SeatID
	viewedSeat  game.SeatID
	players     map[game.SeatID]*game.PlayerState
	connected   map[game.SeatID]PeerInfo
	lastApplied map[game.SeatID]int64
}

// NewSynchronizer creates an offline synchronizer for a table. Offline play
// uses seat player-1 until a room is joined.
func NewSynchronizer(table *game.Table, userID, displayName string, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		logger:      logger,
		table:       table,
		userID:      userID,
		displayName: displayName,
		localSeat:   game.Seat1,
		viewedSeat:  game.Seat1,
		players:     make(map[game.SeatID]*game.PlayerState),
		connected:   make(map[game.SeatID]PeerInfo),
		lastApplied: make(map[game.SeatID]int64),
	}
	table.SetOnMutate(s.publishState)
	table.SetOnLogEntry(s.publishLogEntry)
	return s
}

// Online reports whether a broadcast channel is attached.
func (s *Synchronizer) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel != nil
}

// LocalSeat returns the local seat id.
func (s *Synchronizer) LocalSeat() game.SeatID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localSeat
}

// ViewedSeat returns the seat currently on screen.
func (s *Synchronizer) ViewedSeat() game.SeatID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewedSeat
}

// EnterLobby attaches a channel without committing to a seat and sends a
// presence ping soliciting player_join replies, so the client can see which
// seats are taken before choosing one.
func (s *Synchronizer) EnterLobby(ch Channel) error {
	s.mu.Lock()
	s.channel = ch
	s.seated = false
	s.mu.Unlock()

	ch.Start(s.handle)
	env, err := NewEnvelope(EventPresencePing, nil)
	if err != nil {
		return err
	}
	return ch.Publish(context.Background(), env)
}

// CommitSeat claims a seat, announces it, and replicates the local board to
// the room.
func (s *Synchronizer) CommitSeat(seat game.SeatID) error {
	if !game.ValidSeat(seat) {
		return fmt.Errorf("invalid seat %q", seat)
	}
	s.mu.Lock()
	s.seated = true
	s.localSeat = seat
	s.viewedSeat = seat
	s.mu.Unlock()

	if err := s.announce(); err != nil {
		return err
	}
	s.BroadcastLocalState()
	return nil
}

// Join is EnterLobby followed by CommitSeat.
func (s *Synchronizer) Join(ch Channel, seat game.SeatID) error {
	if err := s.EnterLobby(ch); err != nil {
		return err
	}
	return s.CommitSeat(seat)
}

// Leave announces departure and detaches the channel. Gameplay degrades to
// solo/offline rather than blocking.
func (s *Synchronizer) Leave() {
	s.mu.Lock()
	ch := s.channel
	seat := s.localSeat
	seated := s.seated
	s.channel = nil
	s.seated = false
	s.connected = make(map[game.SeatID]PeerInfo)
	s.mu.Unlock()

	if ch == nil {
		return
	}
	if seated {
		if env, err := NewEnvelope(EventPlayerLeave, PlayerLeavePayload{PlayerID: seat}); err == nil {
			if err := ch.Publish(context.Background(), env); err != nil {
				s.logger.Warn("failed to announce departure", zap.Error(err))
			}
		}
	}
	if err := ch.Close(); err != nil {
		s.logger.Warn("failed to close broadcast channel", zap.Error(err))
	}
}

// SwitchView brings another seat's board onto the screen. If the seat being
// left is the local seat (or the app is offline), its live fields are first
// persisted back into the stored state; remote seats' stored states are
// never written here.
func (s *Synchronizer) SwitchView(target game.SeatID) {
	if !game.ValidSeat(target) {
		return
	}
	s.mu.Lock()
	viewed := s.viewedSeat
	local := s.localSeat
	online := s.channel != nil
	s.mu.Unlock()
	if viewed == target {
		return
	}

	if viewed == local || !online {
		persisted := s.table.ExportState(viewed)
		s.mu.Lock()
		s.players[viewed] = persisted
		s.mu.Unlock()
	}

	fresh := s.table.FreshState(target)
	s.mu.Lock()
	next := s.players[target]
	if next == nil {
		next = fresh
		s.players[target] = next
	}
	loaded := next.Copy()
	s.viewedSeat = target
	s.mu.Unlock()

	s.table.LoadState(loaded)
	s.logger.Debug("switched view", zap.String("seat", string(target)))
}

// BroadcastLocalState publishes the local seat's board. While the local seat
// is on screen that is the live state; while a peer's board is on screen it
// is the stored copy persisted at the last view switch.
func (s *Synchronizer) BroadcastLocalState() {
	s.mu.Lock()
	seat := s.localSeat
	viewingLocal := s.viewedSeat == seat
	var stored *game.PlayerState
	if !viewingLocal && s.players[seat] != nil {
		stored = s.players[seat].Copy()
	}
	s.mu.Unlock()

	if viewingLocal {
		stored = s.table.ExportState(seat)
	}
	if stored == nil {
		return
	}
	s.publishStateAs(seat, stored)
}

// RemoteState returns a copy of the stored state for a seat, or nil.
func (s *Synchronizer) RemoteState(seat game.SeatID) *game.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.players[seat]; st != nil {
		return st.Copy()
	}
	return nil
}

// LastApplied returns the production timestamp carried by the most recently
// applied player_state for a seat, zero if none.
func (s *Synchronizer) LastApplied(seat game.SeatID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastApplied[seat]
}

// ConnectedPeers returns the known peers in seat order.
func (s *Synchronizer) ConnectedPeers() []PeerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	var peers []PeerInfo
	for _, seat := range game.Seats {
		if info, ok := s.connected[seat]; ok {
			peers = append(peers, info)
		}
	}
	return peers
}

// TakenSeats returns the seats currently claimed by peers.
func (s *Synchronizer) TakenSeats() []game.SeatID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var seats []game.SeatID
	for _, seat := range game.Seats {
		if _, ok := s.connected[seat]; ok {
			seats = append(seats, seat)
		}
	}
	return seats
}

// ---- outbound ----

// publishState is the table's mutation hook; st already carries a deep copy
// of the live fields. Runs with the table lock held, so it must not call
// back into the table. The live fields describe the viewed seat, so nothing
// is broadcast while a peer's board is on screen.
func (s *Synchronizer) publishState(st *game.PlayerState) {
	s.mu.Lock()
	seat := s.localSeat
	viewingLocal := s.viewedSeat == seat
	s.mu.Unlock()
	if !viewingLocal {
		return
	}
	s.publishStateAs(seat, st)
}

func (s *Synchronizer) publishStateAs(seat game.SeatID, st *game.PlayerState) {
	s.mu.Lock()
	ch := s.channel
	seated := s.seated
	s.mu.Unlock()
	if ch == nil || !seated {
		return
	}
	st.ID = seat
	env, err := NewEnvelope(EventPlayerState, PlayerStatePayload{
		PlayerID:  seat,
		State:     st,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error("failed to encode player state", zap.Error(err))
		return
	}
	if err := ch.Publish(context.Background(), env); err != nil {
		s.logger.Warn("failed to broadcast player state", zap.Error(err))
	}
}

// publishLogEntry is the table's log hook; the entry is already privacy
// filtered for third parties.
func (s *Synchronizer) publishLogEntry(entry game.LogEntry) {
	s.mu.Lock()
	ch := s.channel
	seat := s.localSeat
	seated := s.seated
	s.mu.Unlock()
	if ch == nil || !seated {
		return
	}
	env, err := NewEnvelope(EventGameLog, GameLogPayload{Entry: entry, PlayerID: seat})
	if err != nil {
		s.logger.Error("failed to encode log entry", zap.Error(err))
		return
	}
	if err := ch.Publish(context.Background(), env); err != nil {
		s.logger.Warn("failed to broadcast log entry", zap.Error(err))
	}
}

func (s *Synchronizer) announce() error {
	s.mu.Lock()
	ch := s.channel
	seat := s.localSeat
	seated := s.seated
	s.mu.Unlock()
	if ch == nil || !seated {
		return nil
	}
	env, err := NewEnvelope(EventPlayerJoin, PlayerJoinPayload{
		UserID:   s.userID,
		PlayerID: seat,
		Name:     s.displayName,
		Status:   "connected",
		LastSeen: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}
	return ch.Publish(context.Background(), env)
}

// ---- inbound ----

// handle dispatches one inbound envelope. Unknown events are ignored so
// newer clients can extend the catalog without breaking older ones.
func (s *Synchronizer) handle(env Envelope) {
	switch env.Event {
	case EventPlayerState:
		var p PlayerStatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.logger.Warn("malformed player_state payload", zap.Error(err))
			return
		}
		s.handlePlayerState(p)
	case EventPlayerJoin:
		var p PlayerJoinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.logger.Warn("malformed player_join payload", zap.Error(err))
			return
		}
		s.handlePlayerJoin(p)
	case EventPlayerLeave:
		var p PlayerLeavePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.logger.Warn("malformed player_leave payload", zap.Error(err))
			return
		}
		s.handlePlayerLeave(p)
	case EventGameLog:
		var p GameLogPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			s.logger.Warn("malformed game_log payload", zap.Error(err))
			return
		}
		s.handleGameLog(p)
	case EventPresencePing:
		s.handlePresencePing()
	default:
		s.logger.Debug("ignoring unknown broadcast event", zap.String("event", env.Event))
	}
}

// handlePlayerState applies a replicated board: last-applied-wins, no
// conflict detection. Echoes of the local seat are dropped.
func (s *Synchronizer) handlePlayerState(p PlayerStatePayload) {
	if p.State == nil || !game.ValidSeat(p.PlayerID) {
		return
	}
	s.mu.Lock()
	if s.seated && p.PlayerID == s.localSeat {
		s.mu.Unlock()
		return
	}
	st := p.State.Copy()
	st.ID = p.PlayerID
	s.players[p.PlayerID] = st
	s.lastApplied[p.PlayerID] = p.Timestamp
	viewing := s.viewedSeat == p.PlayerID
	refreshed := st.Copy()
	s.mu.Unlock()

	if viewing {
		s.table.LoadState(refreshed)
	}
}

// handlePlayerJoin records a peer. A peer not previously known triggers the
// self-healing announce: log the join, re-announce ourselves, and re-send
// our board so the newcomer catches up without a rendezvous server.
func (s *Synchronizer) handlePlayerJoin(p PlayerJoinPayload) {
	if !game.ValidSeat(p.PlayerID) {
		return
	}
	s.mu.Lock()
	if s.seated && p.PlayerID == s.localSeat {
		s.mu.Unlock()
		return
	}
	_, known := s.connected[p.PlayerID]
	s.connected[p.PlayerID] = PeerInfo{
		UserID:   p.UserID,
		Seat:     p.PlayerID,
		Name:     p.Name,
		Status:   p.Status,
		LastSeen: p.LastSeen,
	}
	s.mu.Unlock()
	if known {
		return
	}

	s.table.LogLocalEvent(game.ActionJoin, fmt.Sprintf("%s joined at %s", p.Name, p.PlayerID))
	if err := s.announce(); err != nil {
		s.logger.Warn("failed to re-announce after join", zap.Error(err))
	}
	s.BroadcastLocalState()
}

func (s *Synchronizer) handlePlayerLeave(p PlayerLeavePayload) {
	s.mu.Lock()
	info, known := s.connected[p.PlayerID]
	delete(s.connected, p.PlayerID)
	s.mu.Unlock()
	if !known {
		return
	}
	s.table.LogLocalEvent(game.ActionLeave, fmt.Sprintf("%s left the game", info.Name))
}

// handleGameLog appends a replicated entry verbatim: the sender already
// rendered it privacy-safe for third parties. Duplicates are dropped by id.
func (s *Synchronizer) handleGameLog(p GameLogPayload) {
	s.mu.Lock()
	echo := s.seated && p.PlayerID == s.localSeat
	s.mu.Unlock()
	if echo {
		return
	}
	s.table.AppendRemoteLogEntry(p.Entry)
}

// handlePresencePing answers a lobby client with our join announcement.
func (s *Synchronizer) handlePresencePing() {
	if err := s.announce(); err != nil {
		s.logger.Warn("failed to answer presence ping", zap.Error(err))
	}
}
