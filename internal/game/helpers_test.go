package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardtable/cardtable-server-go/internal/catalog"
)

func tc(name, typeLine string) catalog.Card {
	return catalog.Card{
		ID:       strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:     name,
		TypeLine: typeLine,
	}
}

var (
	commanderAtraxa = tc("Atraxa, Praetors' Voice", "Legendary Creature — Phyrexian Angel Horror")
	cardSolRing     = tc("Sol Ring", "Artifact")
	cardSignet      = tc("Arcane Signet", "Artifact")
	cardForest      = tc("Forest", "Basic Land — Forest")
	cardBears       = tc("Grizzly Bears", "Creature — Bear")
	cardRancor      = tc("Rancor", "Enchantment — Aura")
	cardSword       = tc("Sword of Fire and Ice", "Artifact — Equipment")
)

// mustImport resets the table with a fresh deck. Every card referenced by the
// deck list must appear in cards.
func mustImport(t *testing.T, tbl *Table, commander catalog.Card, deckList string, cards ...catalog.Card) {
	t.Helper()
	cat := catalog.NewMemory(append(cards, commander)...)
	missing, err := tbl.ImportDeck(context.Background(), cat, commander.Name, deckList)
	require.NoError(t, err)
	require.Empty(t, missing)
}

func zoneOf(t *testing.T, tbl *Table, cardID string) Zone {
	t.Helper()
	card := tbl.FindCard(cardID)
	require.NotNil(t, card)
	return card.Zone
}

func zoneIDs(tbl *Table, zone Zone) []string {
	var ids []string
	for _, c := range tbl.CardsInZone(zone) {
		ids = append(ids, c.ID)
	}
	return ids
}
