package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cardtable/cardtable-server-go/internal/game/counters"
)

// LibraryPosition selects where a card entering the library is spliced in.
type LibraryPosition string

const (
	LibraryTop    LibraryPosition = "top"
	LibraryBottom LibraryPosition = "bottom"
)

// ReorderDirection selects which neighbor a card swaps with.
type ReorderDirection int

const (
	ReorderLeft  ReorderDirection = -1
	ReorderRight ReorderDirection = 1
)

// MoveCard moves a card to the given zone. Unknown ids are a no-op, as is a
// non-commander card targeting the command zone. A card leaving the
// battlefield cascades its attachments: auras follow it to the graveyard
// untapped, equipment merely detaches. Every zone change resets tap state.
func (t *Table) MoveCard(cardID string, to Zone, pos LibraryPosition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.moveCardLocked(cardID, to, pos, true) {
		t.committed()
	}
}

// moveCardLocked performs the move under the caller's lock. logMove=false
// suppresses the classified log entry; draw-specific callers log themselves.
// Returns whether state was mutated.
func (t *Table) moveCardLocked(cardID string, to Zone, pos LibraryPosition, logMove bool) bool {
	card := t.findCard(cardID)
	if card == nil {
		return false
	}
	// Only the designated commander may ever occupy the command zone.
	if to == ZoneCommand && cardID != t.commanderCardID {
		t.logger.Debug("blocked non-commander move to command zone",
			zap.String("card_id", cardID),
		)
		return false
	}

	t.beginMutation()
	from := card.Zone

	if from == ZoneBattlefield && to != ZoneBattlefield {
		t.cascadeBattlefieldExit(card)
	}

	card.Zone = to
	card.Tapped = false

	if to == ZoneLibrary {
		t.spliceIntoLibrary(card, pos)
	}

	if logMove {
		t.logMoveLocked(card, from, to, pos)
	}
	return true
}

// cascadeBattlefieldExit cleans up the attachment relation in both
// directions when a card leaves the battlefield.
func (t *Table) cascadeBattlefieldExit(card *CardInstance) {
	if card.IsAttached() {
		if parent := t.findCard(card.AttachedTo); parent != nil {
			parent.removeAttachment(card.ID)
		}
		card.AttachedTo = ""
	}
	for _, childID := range card.Attachments {
		child := t.findCard(childID)
		if child == nil {
			continue
		}
		child.AttachedTo = ""
		if child.Card.HasType("aura") {
			// An aura cannot exist unattached; it goes to the graveyard.
			child.Zone = ZoneGraveyard
			child.Tapped = false
			t.appendLog(ActionMove,
				fmt.Sprintf("%s was put into the graveyard", child.Card.Name), "")
		}
	}
	card.Attachments = nil
}

// spliceIntoLibrary removes the card from its collection slot and reinserts
// it at the top or bottom of the library sub-sequence, preserving the
// relative order of the remaining library cards.
func (t *Table) spliceIntoLibrary(card *CardInstance, pos LibraryPosition) {
	idx := t.cardIndex(card.ID)
	if idx < 0 {
		return
	}
	t.cards = append(t.cards[:idx], t.cards[idx+1:]...)

	libIdx := t.zoneIndices(ZoneLibrary)
	insertAt := len(t.cards)
	if pos == LibraryBottom {
		if len(libIdx) > 0 {
			insertAt = libIdx[len(libIdx)-1] + 1
		}
	} else {
		if len(libIdx) > 0 {
			insertAt = libIdx[0]
		}
	}
	t.cards = append(t.cards[:insertAt], append([]*CardInstance{card}, t.cards[insertAt:]...)...)
}

// logMoveLocked appends the classified log entry for a (from, to) pair.
// Library-to-hand is suppressed: draw callers log it with privacy filtering.
func (t *Table) logMoveLocked(card *CardInstance, from, to Zone, pos LibraryPosition) {
	name := card.Card.Name
	switch to {
	case ZoneBattlefield:
		t.appendLog(ActionMove, fmt.Sprintf("%s entered the battlefield", name), "")
	case ZoneGraveyard:
		if from == ZoneLibrary {
			t.appendLog(ActionMill, fmt.Sprintf("%s was milled", name), "")
		} else {
			t.appendLog(ActionMove, fmt.Sprintf("%s was put into the graveyard", name), "")
		}
	case ZoneExile:
		t.appendLog(ActionMove, fmt.Sprintf("%s was exiled", name), "")
	case ZoneHand:
		if from != ZoneLibrary {
			t.appendLog(ActionMove, fmt.Sprintf("%s was returned to hand", name), "")
		}
	case ZoneLibrary:
		if pos == LibraryBottom {
			t.appendLog(ActionMove, fmt.Sprintf("%s was put on the bottom of the library", name), "")
		} else {
			t.appendLog(ActionMove, fmt.Sprintf("%s was put on top of the library", name), "")
		}
	case ZoneCommand:
		t.appendLog(ActionMove, fmt.Sprintf("%s went to the command zone", name), "")
	default:
		t.appendLog(ActionMove, fmt.Sprintf("%s moved from %s to %s", name, from, to), "")
	}
}

// TapCard taps a card. Already-tapped cards are left alone.
func (t *Table) TapCard(cardID string) {
	t.setTapped(cardID, true)
}

// UntapCard untaps a card. Already-untapped cards are left alone.
func (t *Table) UntapCard(cardID string) {
	t.setTapped(cardID, false)
}

// ToggleTap flips a card's tap state.
func (t *Table) ToggleTap(cardID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil {
		return
	}
	t.setTappedLocked(card, !card.Tapped)
	t.committed()
}

func (t *Table) setTapped(cardID string, tapped bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil || card.Tapped == tapped {
		return
	}
	t.setTappedLocked(card, tapped)
	t.committed()
}

func (t *Table) setTappedLocked(card *CardInstance, tapped bool) {
	t.beginMutation()
	card.Tapped = tapped
	if tapped {
		t.appendLog(ActionTap, fmt.Sprintf("%s was tapped", card.Card.Name), "")
	} else {
		t.appendLog(ActionUntap, fmt.Sprintf("%s was untapped", card.Card.Name), "")
	}
}

// UntapAll untaps every tapped card on the battlefield. Other zones are
// untouched. No-op when nothing is tapped.
func (t *Table) UntapAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	tapped := false
	for _, c := range t.cards {
		if c.Zone == ZoneBattlefield && c.Tapped {
			tapped = true
			break
		}
	}
	if !tapped {
		return
	}
	t.beginMutation()
	for _, c := range t.cards {
		if c.Zone == ZoneBattlefield {
			c.Tapped = false
		}
	}
	t.appendLog(ActionUntapAll, "Untapped all permanents", "")
	t.committed()
}

// AddCardCounter adds one counter of the given kind, creating the entry at
// count 1 if absent.
func (t *Table) AddCardCounter(cardID string, kind counters.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil {
		return
	}
	t.beginMutation()
	card.Counters.Add(kind)
	t.appendLog(ActionCounter,
		fmt.Sprintf("Added a %s counter to %s", kind, card.Card.Name), "")
	t.committed()
}

// RemoveCardCounter removes one counter of the given kind; the entry is
// dropped entirely at zero. No-op when the kind is absent.
func (t *Table) RemoveCardCounter(cardID string, kind counters.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil || !card.Counters.Has(kind) {
		return
	}
	t.beginMutation()
	card.Counters.Remove(kind)
	t.appendLog(ActionCounter,
		fmt.Sprintf("Removed a %s counter from %s", kind, card.Card.Name), "")
	t.committed()
}

// AdjustCardCounter applies a signed delta to a counter of the given kind.
func (t *Table) AdjustCardCounter(cardID string, kind counters.Kind, delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil || delta == 0 {
		return
	}
	if delta < 0 && !card.Counters.Has(kind) {
		return
	}
	t.beginMutation()
	card.Counters.Adjust(kind, delta)
	t.appendLog(ActionCounter,
		fmt.Sprintf("%s now has %d %s counters", card.Card.Name, card.Counters.Count(kind), kind), "")
	t.committed()
}

// ReorderCardInZone swaps a card with its neighbor within the hand or
// battlefield sub-sequence. Other zones and out-of-bounds swaps are no-ops.
func (t *Table) ReorderCardInZone(cardID string, dir ReorderDirection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil {
		return
	}
	if card.Zone != ZoneHand && card.Zone != ZoneBattlefield {
		return
	}
	idx := t.zoneIndices(card.Zone)
	pos := -1
	for i, ci := range idx {
		if t.cards[ci].ID == cardID {
			pos = i
			break
		}
	}
	target := pos + int(dir)
	if pos < 0 || target < 0 || target >= len(idx) {
		return
	}
	t.beginMutation()
	a, b := idx[pos], idx[target]
	t.cards[a], t.cards[b] = t.cards[b], t.cards[a]
	t.committed()
}
