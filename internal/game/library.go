package game

import "fmt"

// ScryChanges describes the outcome of a scry: four disjoint id lists
// covering a previously inspected prefix of the library.
type ScryChanges struct {
	NewTopOrder []string `json:"newTopOrder"`
	ToBottom    []string `json:"toBottom"`
	ToGraveyard []string `json:"toGraveyard"`
	ToExile     []string `json:"toExile"`
}

func (sc ScryChanges) empty() bool {
	return len(sc.NewTopOrder) == 0 && len(sc.ToBottom) == 0 &&
		len(sc.ToGraveyard) == 0 && len(sc.ToExile) == 0
}

// ShuffleLibrary applies a Fisher-Yates permutation to the library
// sub-sequence. Other zones are untouched.
func (t *Table) ShuffleLibrary() {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.zoneIndices(ZoneLibrary)
	if len(idx) < 2 {
		return
	}
	t.beginMutation()
	t.shuffleLibraryLocked(idx)
	t.appendLog(ActionShuffle, "Shuffled the library", "")
	t.committed()
}

func (t *Table) shuffleLibraryLocked(idx []int) {
	for i := len(idx) - 1; i > 0; i-- {
		j := t.rng.Intn(i + 1)
		t.cards[idx[i]], t.cards[idx[j]] = t.cards[idx[j]], t.cards[idx[i]]
	}
}

// topLibraryCard returns the library card at index 0, or nil.
func (t *Table) topLibraryCard() *CardInstance {
	for _, c := range t.cards {
		if c.Zone == ZoneLibrary {
			return c
		}
	}
	return nil
}

// LibraryCount returns the number of cards in the library.
func (t *Table) LibraryCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.zoneIndices(ZoneLibrary))
}

// DrawCard moves the top library card to hand. Empty library is a no-op.
// The move's own log entry is suppressed; the draw logs itself so the card
// name can be redacted for peers.
func (t *Table) DrawCard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	top := t.topLibraryCard()
	if top == nil {
		return
	}
	name := top.Card.Name
	if !t.moveCardLocked(top.ID, ZoneHand, "", false) {
		return
	}
	t.appendLog(ActionDraw, fmt.Sprintf("Drew %s", name), "Drew a card")
	t.committed()
}

// DrawCards draws n cards one at a time, stopping early if the library
// empties mid-sequence.
func (t *Table) DrawCards(n int) {
	for i := 0; i < n; i++ {
		t.DrawCard()
	}
}

// MillCard moves the top library card to the graveyard. Empty library is a
// no-op. Milled cards are public, so the classified move log stands.
func (t *Table) MillCard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	top := t.topLibraryCard()
	if top == nil {
		return
	}
	if t.moveCardLocked(top.ID, ZoneGraveyard, "", true) {
		t.committed()
	}
}

// MillCards mills n cards one at a time with partial progress.
func (t *Table) MillCards(n int) {
	for i := 0; i < n; i++ {
		t.MillCard()
	}
}

// PutTopCardToBottom moves the top library card to the bottom and hides the
// top card again. Requires at least two library cards.
func (t *Table) PutTopCardToBottom() {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.zoneIndices(ZoneLibrary)
	if len(idx) < 2 {
		return
	}
	top := t.cards[idx[0]]
	if !t.moveCardLocked(top.ID, ZoneLibrary, LibraryBottom, false) {
		return
	}
	t.topCardRevealed = false
	t.appendLog(ActionMove, "Put the top card of the library on the bottom", "")
	t.committed()
}

// ToggleTopCardRevealed flips the player-level flag describing whether the
// library's top card is face up for everyone. The flag is not part of the
// undo snapshot.
func (t *Table) ToggleTopCardRevealed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.topCardRevealed = !t.topCardRevealed
	if t.topCardRevealed {
		if top := t.topLibraryCard(); top != nil {
			t.appendLog(ActionReveal,
				fmt.Sprintf("Revealed %s on top of the library", top.Card.Name), "")
		} else {
			t.appendLog(ActionReveal, "Revealed the top card of the library", "")
		}
	} else {
		t.appendLog(ActionReveal, "Stopped revealing the top card of the library", "")
	}
	t.committed()
}

// ApplyScryChanges rebuilds the library after an inspection of its prefix:
// the kept prefix in its new order on top, the untouched remainder, then the
// cards sent to the bottom. Graveyard- and exile-bound cards leave the
// library untapped. Every affected id is detached from its original slot
// first so no card can be duplicated.
func (t *Table) ApplyScryChanges(changes ScryChanges) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if changes.empty() {
		return
	}
	t.beginMutation()

	affected := make(map[string]bool)
	for _, list := range [][]string{changes.NewTopOrder, changes.ToBottom, changes.ToGraveyard, changes.ToExile} {
		for _, id := range list {
			affected[id] = true
		}
	}

	// Pull affected instances out, keeping everything else in order.
	pulled := make(map[string]*CardInstance, len(affected))
	remaining := t.cards[:0:0]
	for _, c := range t.cards {
		if affected[c.ID] {
			pulled[c.ID] = c
		} else {
			remaining = append(remaining, c)
		}
	}

	// Split the untouched remainder of the library out of the collection.
	var rest []*CardInstance
	var libraryRemainder []*CardInstance
	for _, c := range remaining {
		if c.Zone == ZoneLibrary {
			libraryRemainder = append(libraryRemainder, c)
		} else {
			rest = append(rest, c)
		}
	}

	take := func(ids []string) []*CardInstance {
		var out []*CardInstance
		for _, id := range ids {
			if c, ok := pulled[id]; ok {
				out = append(out, c)
			}
		}
		return out
	}

	for _, c := range take(changes.ToGraveyard) {
		c.Zone = ZoneGraveyard
		c.Tapped = false
		rest = append(rest, c)
	}
	for _, c := range take(changes.ToExile) {
		c.Zone = ZoneExile
		c.Tapped = false
		rest = append(rest, c)
	}

	newTop := take(changes.NewTopOrder)
	toBottom := take(changes.ToBottom)
	for _, c := range newTop {
		c.Zone = ZoneLibrary
	}
	for _, c := range toBottom {
		c.Zone = ZoneLibrary
	}

	t.cards = rest
	t.cards = append(t.cards, newTop...)
	t.cards = append(t.cards, libraryRemainder...)
	t.cards = append(t.cards, toBottom...)

	total := len(changes.NewTopOrder) + len(changes.ToBottom) +
		len(changes.ToGraveyard) + len(changes.ToExile)
	t.appendLog(ActionScry, fmt.Sprintf("Scried %d cards", total), "")
	t.committed()
}
