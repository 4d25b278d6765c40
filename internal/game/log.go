package game

import (
	"time"

	"github.com/google/uuid"
)

// ActionType classifies a game log entry.
type ActionType string

const (
	ActionDraw          ActionType = "draw"
	ActionMill          ActionType = "mill"
	ActionShuffle       ActionType = "shuffle"
	ActionMove          ActionType = "move"
	ActionTap           ActionType = "tap"
	ActionUntap         ActionType = "untap"
	ActionUntapAll      ActionType = "untap_all"
	ActionCounter       ActionType = "counter"
	ActionLife          ActionType = "life"
	ActionMana          ActionType = "mana"
	ActionPlayerCounter ActionType = "player_counter"
	ActionTurn          ActionType = "turn"
	ActionAttach        ActionType = "attach"
	ActionDetach        ActionType = "detach"
	ActionToken         ActionType = "token"
	ActionDuplicate     ActionType = "duplicate"
	ActionScry          ActionType = "scry"
	ActionReveal        ActionType = "reveal"
	ActionReorder       ActionType = "reorder"
	ActionImport        ActionType = "import"
	ActionReset         ActionType = "reset"
	ActionJoin          ActionType = "join"
	ActionLeave         ActionType = "leave"
)

// LogEntry is one record in the append-only activity log. Message is the
// local rendering; Public is the privacy-filtered rendering sent to peers
// (card names a third party must not see are redacted there). Replicated
// entries carry the sender's Public text in Message.
type LogEntry struct {
	ID        string     `json:"id"`
	Turn      int        `json:"turn"`
	Timestamp time.Time  `json:"timestamp"`
	Action    ActionType `json:"actionType"`
	Message   string     `json:"message"`
	Public    string     `json:"-"`
}

// PublicCopy returns the entry with its message replaced by the privacy-safe
// rendering, ready to broadcast.
func (e LogEntry) PublicCopy() LogEntry {
	e.Message = e.Public
	e.Public = ""
	return e
}

// Log is the append-only, privacy-filtered activity record for one session.
// It deduplicates replicated entries by id. The log is deliberately outside
// undo/redo: it is an audit trail, not part of the board state.
type Log struct {
	entries []LogEntry
	seen    map[string]bool
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{seen: make(map[string]bool)}
}

// Append records a locally generated entry and returns it. If public is
// empty the local message is assumed safe to share.
func (l *Log) Append(turn int, action ActionType, message, public string) LogEntry {
	if public == "" {
		public = message
	}
	entry := LogEntry{
		ID:        uuid.NewString(),
		Turn:      turn,
		Timestamp: time.Now(),
		Action:    action,
		Message:   message,
		Public:    public,
	}
	l.entries = append(l.entries, entry)
	l.seen[entry.ID] = true
	return entry
}

// AppendRemote appends an entry received from a peer. The sender has already
// applied privacy filtering, so the message is stored verbatim. Duplicate
// deliveries are dropped; returns whether the entry was appended.
func (l *Log) AppendRemote(entry LogEntry) bool {
	if l.seen[entry.ID] {
		return false
	}
	entry.Public = ""
	l.entries = append(l.entries, entry)
	l.seen[entry.ID] = true
	return true
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear drops all entries, for a full match reset.
func (l *Log) Clear() {
	l.entries = nil
	l.seen = make(map[string]bool)
}
