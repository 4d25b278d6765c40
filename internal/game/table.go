package game

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cardtable/cardtable-server-go/internal/game/mana"
)

// Config carries the session-level game settings.
type Config struct {
	StartingLife int // Commander default is 40
	OpeningHand  int // cards drawn after import, default 7
}

func (c Config) withDefaults() Config {
	if c.StartingLife == 0 {
		c.StartingLife = 40
	}
	if c.OpeningHand == 0 {
		c.OpeningHand = 7
	}
	return c
}

// Table owns the mutable board state for one session. It is constructed per
// session and passed by reference; there is no ambient global store. All
// mutation funnels through the table's lock, so there is exactly one writer
// at a time. The live fields always describe the seat currently being viewed;
// the synchronizer swaps them when the view changes.
type Table struct {
	mu     sync.Mutex
	logger *zap.Logger
	rng    *rand.Rand
	config Config

	// Live ("proxy") board fields for the viewed seat.
	cards           []*CardInstance
	life            int
	turn            int
	counters        PlayerCounters
	manaPool        *mana.Pool
	positions       map[string]Position
	commanderCardID string
	topCardRevealed bool

	log       *Log
	history   *History
	targeting TargetingMode

	// Deck import bookkeeping. importGen invalidates a superseded import so
	// its completion cannot clobber a newer one.
	importGen int
	importing bool
	importErr string

	onMutate   func(*PlayerState)
	onLogEntry func(LogEntry)
}

// NewTable creates an empty table for a new session.
func NewTable(cfg Config, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &Table{
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		config:    cfg,
		life:      cfg.StartingLife,
		turn:      1,
		manaPool:  mana.NewPool(),
		positions: make(map[string]Position),
		log:       NewLog(),
		history:   NewHistory(),
	}
}

// SetOnMutate registers a hook invoked with a deep copy of the live state
// after every committed mutation. The synchronizer uses it to broadcast. The
// hook runs under the table lock and must not call back into the table.
func (t *Table) SetOnMutate(fn func(*PlayerState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMutate = fn
}

// SetOnLogEntry registers a hook invoked with the privacy-filtered copy of
// every locally appended log entry. Same calling rules as SetOnMutate.
func (t *Table) SetOnLogEntry(fn func(LogEntry)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLogEntry = fn
}

// ---- internal helpers (callers hold t.mu) ----

func (t *Table) findCard(id string) *CardInstance {
	for _, c := range t.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (t *Table) cardIndex(id string) int {
	for i, c := range t.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// zoneIndices returns the indices of cards in the given zone, preserving
// collection order. For the library this order is the library order, index 0
// on top.
func (t *Table) zoneIndices(zone Zone) []int {
	var idx []int
	for i, c := range t.cards {
		if c.Zone == zone {
			idx = append(idx, i)
		}
	}
	return idx
}

// snapshot deep-copies the five undoable fields.
func (t *Table) snapshot() *Snapshot {
	return &Snapshot{
		Cards:    copyCards(t.cards),
		Life:     t.life,
		Turn:     t.turn,
		Counters: t.counters,
		Mana:     *t.manaPool,
	}
}

// restoreSnapshot replaces the five undoable fields with deep copies of the
// snapshot's content. Copying again keeps the stored snapshot immune to
// later live mutation.
func (t *Table) restoreSnapshot(s *Snapshot) {
	t.cards = copyCards(s.Cards)
	t.life = s.Life
	t.turn = s.Turn
	t.counters = s.Counters
	pool := s.Mana
	t.manaPool = &pool
}

// beginMutation pushes a pre-mutation snapshot. Call only after all
// preconditions have passed: blocked operations must leave history untouched.
func (t *Table) beginMutation() {
	t.history.Record(t.snapshot())
}

// committed fires the mutation hook with a deep copy of the live state.
func (t *Table) committed() {
	if t.onMutate != nil {
		t.onMutate(t.exportStateLocked(""))
	}
}

// appendLog records a local log entry and fires the log hook.
func (t *Table) appendLog(action ActionType, message, public string) {
	entry := t.log.Append(t.turn, action, message, public)
	if t.onLogEntry != nil {
		t.onLogEntry(entry.PublicCopy())
	}
}

func (t *Table) exportStateLocked(seat SeatID) *PlayerState {
	ps := &PlayerState{
		ID:              seat,
		Life:            t.life,
		Counters:        t.counters,
		Mana:            *t.manaPool,
		Cards:           copyCards(t.cards),
		CardPositions:   make(map[string]Position, len(t.positions)),
		CommanderCardID: t.commanderCardID,
		TopCardRevealed: t.topCardRevealed,
	}
	for id, pos := range t.positions {
		ps.CardPositions[id] = pos
	}
	return ps
}

// ---- state access ----

// ExportState returns a deep copy of the live board state tagged with the
// given seat id.
func (t *Table) ExportState(seat SeatID) *PlayerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exportStateLocked(seat)
}

// LoadState replaces the live board fields with a deep copy of the given
// state. History, log and targeting are untouched: the log is an audit trail
// shared across views, and targeting is a transient gesture.
func (t *Table) LoadState(ps *PlayerState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := ps.Copy()
	t.cards = cp.Cards
	t.life = cp.Life
	t.counters = cp.Counters
	pool := cp.Mana
	t.manaPool = &pool
	t.positions = cp.CardPositions
	t.commanderCardID = cp.CommanderCardID
	t.topCardRevealed = cp.TopCardRevealed
}

// FreshState returns the initial board for a seat with no stored or
// replicated state yet: no cards, starting life, everything else zeroed.
func (t *Table) FreshState(seat SeatID) *PlayerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &PlayerState{
		ID:            seat,
		Life:          t.config.StartingLife,
		CardPositions: make(map[string]Position),
	}
}

// FindCard returns a deep copy of the instance with the given id, or nil.
func (t *Table) FindCard(id string) *CardInstance {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c := t.findCard(id); c != nil {
		return c.Copy()
	}
	return nil
}

// Cards returns deep copies of all instances in collection order.
func (t *Table) Cards() []*CardInstance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyCards(t.cards)
}

// CardsInZone returns deep copies of the instances in a zone, in order.
func (t *Table) CardsInZone(zone Zone) []*CardInstance {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*CardInstance
	for _, c := range t.cards {
		if c.Zone == zone {
			out = append(out, c.Copy())
		}
	}
	return out
}

// Life returns the viewed seat's life total.
func (t *Table) Life() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.life
}

// Turn returns the current turn number.
func (t *Table) Turn() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.turn
}

// Counters returns the player-level counter record.
func (t *Table) Counters() PlayerCounters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters
}

// ManaPool returns a copy of the mana pool.
func (t *Table) ManaPool() mana.Pool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.manaPool
}

// CommanderCardID returns the designated commander instance id.
func (t *Table) CommanderCardID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commanderCardID
}

// TopCardRevealed reports whether the library's top card is face up for all.
func (t *Table) TopCardRevealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.topCardRevealed
}

// LogEntries returns a copy of the activity log.
func (t *Table) LogEntries() []LogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Entries()
}

// LogLocalEvent appends a log entry for a locally observed session event
// such as a peer joining or leaving. Every client observes these
// independently, so they are never broadcast.
func (t *Table) LogLocalEvent(action ActionType, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log.Append(t.turn, action, message, "")
}

// AppendRemoteLogEntry appends a replicated entry, deduplicating by id.
func (t *Table) AppendRemoteLogEntry(entry LogEntry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.AppendRemote(entry)
}

// TargetingState returns the current targeting mode.
func (t *Table) TargetingState() TargetingMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targeting
}

// ImportStatus reports whether an import is in flight and the last
// user-visible import error, if any.
func (t *Table) ImportStatus() (loading bool, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.importing, t.importErr
}

// ---- history ----

// Undo restores the most recent past snapshot. No-op when there is nothing
// to undo; reports whether state changed.
func (t *Table) Undo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	restored := t.history.Undo(t.snapshot())
	if restored == nil {
		return false
	}
	t.restoreSnapshot(restored)
	t.committed()
	return true
}

// Redo is the mirror of Undo.
func (t *Table) Redo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	restored := t.history.Redo(t.snapshot())
	if restored == nil {
		return false
	}
	t.restoreSnapshot(restored)
	t.committed()
	return true
}

// CanUndo reports whether an undo is available.
func (t *Table) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.CanUndo()
}

// CanRedo reports whether a redo is available.
func (t *Table) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.CanRedo()
}

// ResetMatch destroys all card instances and returns every session field to
// its initial value. The only path that destroys instances outside import.
func (t *Table) ResetMatch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
	t.committed()
}

func (t *Table) resetLocked() {
	t.cards = nil
	t.life = t.config.StartingLife
	t.turn = 1
	t.counters = PlayerCounters{}
	t.manaPool = mana.NewPool()
	t.positions = make(map[string]Position)
	t.commanderCardID = ""
	t.topCardRevealed = false
	t.targeting = Idle()
	t.log.Clear()
	t.history.Clear()
}
