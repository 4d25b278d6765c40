package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardtable/cardtable-server-go/internal/catalog"
	"github.com/cardtable/cardtable-server-go/internal/game/mana"
)

// AdjustLife applies a signed delta to the viewed seat's life total. Life
// may go negative; the engine does not decide game loss.
func (t *Table) AdjustLife(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if delta == 0 {
		return
	}
	t.beginMutation()
	t.life += delta
	if delta > 0 {
		t.appendLog(ActionLife, fmt.Sprintf("Gained %d life (now %d)", delta, t.life), "")
	} else {
		t.appendLog(ActionLife, fmt.Sprintf("Lost %d life (now %d)", -delta, t.life), "")
	}
	t.committed()
}

// AdjustPlayerCounter applies a signed delta to one of the fixed player
// counters, clamping at zero.
func (t *Table) AdjustPlayerCounter(kind PlayerCounterKind, delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if delta == 0 || (delta < 0 && t.counters.Get(kind) == 0) {
		return
	}
	t.beginMutation()
	t.counters.Adjust(kind, delta)
	t.appendLog(ActionPlayerCounter,
		fmt.Sprintf("%s is now %d", kind, t.counters.Get(kind)), "")
	t.committed()
}

// AdjustMana applies a signed delta to one mana bucket, clamping at zero.
func (t *Table) AdjustMana(color mana.Color, delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if delta == 0 || (delta < 0 && t.manaPool.Get(color) == 0) {
		return
	}
	t.beginMutation()
	t.manaPool.Adjust(color, delta)
	t.appendLog(ActionMana,
		fmt.Sprintf("Mana pool: %d %s", t.manaPool.Get(color), color), "")
	t.committed()
}

// ClearManaPool empties every mana bucket.
func (t *Table) ClearManaPool() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.manaPool.Total() == 0 {
		return
	}
	t.beginMutation()
	t.manaPool.Empty()
	t.appendLog(ActionMana, "Emptied the mana pool", "")
	t.committed()
}

// SetCardPosition stores the UI layout coordinate for a card. Positions are
// cosmetic: replicated to peers but excluded from undo snapshots, and no log
// entry is written.
func (t *Table) SetCardPosition(cardID string, pos Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.findCard(cardID) == nil {
		return
	}
	t.positions[cardID] = pos
	t.committed()
}

// NextTurn advances the turn counter. The engine keeps no turn structure
// beyond the number itself.
func (t *Table) NextTurn() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.beginMutation()
	t.turn++
	t.appendLog(ActionTurn, fmt.Sprintf("Turn %d", t.turn), "")
	t.committed()
}

// CreateToken puts a new token instance of the given card onto the
// battlefield.
func (t *Table) CreateToken(card catalog.Card) *CardInstance {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.beginMutation()
	token := NewCardInstance(card, ZoneBattlefield)
	token.Token = true
	t.cards = append(t.cards, token)
	t.appendLog(ActionToken, fmt.Sprintf("Created a %s token", card.Name), "")
	t.committed()
	return token.Copy()
}

// DuplicateCard creates a token copy of an existing instance in the same
// zone, carrying over tap state and counters but never attachment links.
func (t *Table) DuplicateCard(cardID string) *CardInstance {
	t.mu.Lock()
	defer t.mu.Unlock()
	source := t.findCard(cardID)
	if source == nil {
		return nil
	}
	t.beginMutation()
	dup := source.Copy()
	dup.ID = uuid.NewString()
	dup.Token = true
	dup.AttachedTo = ""
	dup.Attachments = nil
	t.cards = append(t.cards, dup)
	t.appendLog(ActionDuplicate, fmt.Sprintf("Duplicated %s", source.Card.Name), "")
	t.committed()
	return dup.Copy()
}
