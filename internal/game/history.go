package game

import (
	"github.com/cardtable/cardtable-server-go/internal/game/mana"
)

// historyLimit caps the undo past-stack.
const historyLimit = 50

// Snapshot is a structural deep copy of the five undoable fields: cards,
// life, turn, player counters and mana pool. Snapshots share nothing with the
// live state; mutating one never alters the other. Game log, targeting mode
// and card positions are deliberately excluded (the log is an audit trail,
// layout is cosmetic).
type Snapshot struct {
	Cards    []*CardInstance
	Life     int
	Turn     int
	Counters PlayerCounters
	Mana     mana.Pool
}

// Equal reports whether two snapshots describe identical state, including
// card order within the collection.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s.Life != other.Life || s.Turn != other.Turn ||
		s.Counters != other.Counters || s.Mana != other.Mana {
		return false
	}
	if len(s.Cards) != len(other.Cards) {
		return false
	}
	for i := range s.Cards {
		if !cardInstancesEqual(s.Cards[i], other.Cards[i]) {
			return false
		}
	}
	return true
}

func cardInstancesEqual(a, b *CardInstance) bool {
	if a.ID != b.ID || a.Card != b.Card || a.Zone != b.Zone ||
		a.Tapped != b.Tapped || a.Token != b.Token || a.Revealed != b.Revealed ||
		a.AttachedTo != b.AttachedTo {
		return false
	}
	if len(a.Attachments) != len(b.Attachments) {
		return false
	}
	for i := range a.Attachments {
		if a.Attachments[i] != b.Attachments[i] {
			return false
		}
	}
	return a.Counters.Equal(b.Counters)
}

// History holds the bounded undo/redo stacks of snapshots.
type History struct {
	past   []*Snapshot
	future []*Snapshot
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record pushes a snapshot of the pre-mutation state onto the past-stack,
// trimming to the most recent 50, and clears the future-stack: a new
// mutation invalidates any redo line.
func (h *History) Record(snapshot *Snapshot) {
	h.past = append(h.past, snapshot)
	if len(h.past) > historyLimit {
		h.past = h.past[len(h.past)-historyLimit:]
	}
	h.future = nil
}

// Undo pops the most recent past snapshot, pushing the supplied snapshot of
// the current state onto the future-stack. Returns nil if there is nothing
// to undo.
func (h *History) Undo(current *Snapshot) *Snapshot {
	if len(h.past) == 0 {
		return nil
	}
	restored := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return restored
}

// Redo is the mirror of Undo.
func (h *History) Redo(current *Snapshot) *Snapshot {
	if len(h.future) == 0 {
		return nil
	}
	restored := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return restored
}

// CanUndo reports whether the past-stack is non-empty.
func (h *History) CanUndo() bool {
	return len(h.past) > 0
}

// CanRedo reports whether the future-stack is non-empty.
func (h *History) CanRedo() bool {
	return len(h.future) > 0
}

// PastLen returns the past-stack depth.
func (h *History) PastLen() int {
	return len(h.past)
}

// Clear drops both stacks, for a full match reset.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}
