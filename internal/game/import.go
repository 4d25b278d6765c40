package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cardtable/cardtable-server-go/internal/catalog"
)

var (
	// ErrEmptyDeck is returned when a deck list parses to zero cards.
	ErrEmptyDeck = errors.New("deck list contained no cards")
	// ErrCommanderUnresolved is returned when the commander name cannot be
	// resolved by the catalog. The deck body tolerates unresolved names; the
	// commander does not.
	ErrCommanderUnresolved = errors.New("commander could not be found")
)

// ImportDeck resets the board and builds a fresh game from a deck list: the
// commander into the command zone, the deck body into a shuffled library,
// then an opening hand. Unresolved deck-body names are returned for the UI
// to surface; an unresolved commander or an empty list aborts the import and
// leaves prior state untouched.
//
// Catalog resolution may suspend; the import generation token guarantees
// that a superseded import's completion cannot clobber a newer one.
func (t *Table) ImportDeck(ctx context.Context, cat catalog.Catalog, commanderName, deckList string) ([]string, error) {
	entries := catalog.ParseDeckList(deckList)

	t.mu.Lock()
	t.importGen++
	gen := t.importGen
	t.importing = true
	t.importErr = ""
	t.mu.Unlock()

	fail := func(msg string, err error) ([]string, error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.importGen == gen {
			t.importing = false
			t.importErr = msg
		}
		return nil, err
	}

	if len(entries) == 0 {
		return fail("The deck list contained no cards.", ErrEmptyDeck)
	}

	names := make([]string, 0, len(entries)+1)
	names = append(names, commanderName)
	for _, e := range entries {
		names = append(names, e.Name)
	}

	found, missing, err := cat.ResolveNames(ctx, names)
	if err != nil {
		return fail("The card catalog is unavailable.", fmt.Errorf("failed to resolve deck list: %w", err))
	}

	byName := make(map[string]catalog.Card, len(found))
	for _, c := range found {
		byName[normalizedKey(c.Name)] = c
	}
	commanderCard, ok := byName[normalizedKey(commanderName)]
	if !ok {
		return fail(fmt.Sprintf("Commander %q could not be found.", commanderName), ErrCommanderUnresolved)
	}

	// Drop the commander from the missing list if the catalog reported it
	// under a differently cased name.
	bodyMissing := make([]string, 0, len(missing))
	for _, name := range missing {
		if normalizedKey(name) != normalizedKey(commanderName) {
			bodyMissing = append(bodyMissing, name)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.importGen != gen {
		// A newer import superseded this one while the catalog call was in
		// flight; its results are discarded.
		t.logger.Debug("superseded deck import discarded", zap.Int("generation", gen))
		return bodyMissing, nil
	}

	t.resetLocked()

	commander := NewCardInstance(commanderCard, ZoneCommand)
	t.commanderCardID = commander.ID
	t.cards = append(t.cards, commander)

	deckSize := 0
	for _, e := range entries {
		card, ok := byName[normalizedKey(e.Name)]
		if !ok {
			continue
		}
		for i := 0; i < e.Quantity; i++ {
			t.cards = append(t.cards, NewCardInstance(card, ZoneLibrary))
			deckSize++
		}
	}

	t.shuffleLibraryLocked(t.zoneIndices(ZoneLibrary))

	// Opening hand, fewer if the deck is small. Drawn as part of the import
	// itself: no per-card snapshots, and undo cannot cross the import.
	handSize := t.config.OpeningHand
	if deckSize < handSize {
		handSize = deckSize
	}
	drawn := 0
	for _, i := range t.zoneIndices(ZoneLibrary) {
		if drawn == handSize {
			break
		}
		t.cards[i].Zone = ZoneHand
		drawn++
	}

	t.importing = false
	t.importErr = ""
	t.appendLog(ActionImport,
		fmt.Sprintf("Imported %s with a %d-card deck", commanderCard.Name, deckSize), "")
	if drawn > 0 {
		t.appendLog(ActionDraw, fmt.Sprintf("Drew %d cards", drawn), "")
	}
	t.committed()

	if len(bodyMissing) > 0 {
		t.logger.Info("deck import finished with unresolved names",
			zap.Int("deck_size", deckSize),
			zap.Int("unresolved", len(bodyMissing)),
		)
	}
	return bodyMissing, nil
}

func normalizedKey(name string) string {
	return catalog.NormalizeName(name)
}
