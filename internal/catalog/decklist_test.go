package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeckList(t *testing.T) {
	text := `// my deck
4 Lightning Bolt
2x Counterspell

# lands
Island
sideboard
3 Pyroblast
Commander
1 Atraxa, Praetors' Voice`

	entries := ParseDeckList(text)
	require.Len(t, entries, 5)

	assert.Equal(t, DeckEntry{Quantity: 4, Name: "Lightning Bolt"}, entries[0])
	assert.Equal(t, DeckEntry{Quantity: 2, Name: "Counterspell"}, entries[1])
	assert.Equal(t, DeckEntry{Quantity: 1, Name: "Island"}, entries[2])
	assert.Equal(t, DeckEntry{Quantity: 3, Name: "Pyroblast"}, entries[3])
	assert.Equal(t, DeckEntry{Quantity: 1, Name: "Atraxa, Praetors' Voice"}, entries[4])
}

func TestParseDeckList_Empty(t *testing.T) {
	assert.Empty(t, ParseDeckList(""))
	assert.Empty(t, ParseDeckList("// nothing here\n\n# still nothing"))
}

func TestParseDeckList_NameWithLeadingNumberWord(t *testing.T) {
	// A quantity token must be numeric; otherwise the whole line is the name.
	entries := ParseDeckList("Borrowing 100,000 Arrows")
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Quantity)
	assert.Equal(t, "Borrowing 100,000 Arrows", entries[0].Name)
}

func TestMemoryCatalog_PartialResolution(t *testing.T) {
	cat := NewMemory(
		Card{ID: "c1", Name: "Lightning Bolt", TypeLine: "Instant"},
		Card{ID: "c2", Name: "Island", TypeLine: "Basic Land - Island"},
	)

	found, missing, err := cat.ResolveNames(context.Background(), []string{"lightning bolt", "Island", "Black Lotus"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "c1", found[0].ID)
	assert.Equal(t, "c2", found[1].ID)
	assert.Equal(t, []string{"Black Lotus"}, missing)
}

func TestCard_TypeChecks(t *testing.T) {
	aura := Card{Name: "Pacifism", TypeLine: "Enchantment - Aura"}
	sword := Card{Name: "Sword of Fire and Ice", TypeLine: "Artifact - Equipment"}
	bear := Card{Name: "Grizzly Bears", TypeLine: "Creature - Bear"}

	assert.True(t, aura.HasType("aura"))
	assert.True(t, aura.IsAttachmentType())
	assert.True(t, sword.IsAttachmentType())
	assert.False(t, bear.IsAttachmentType())
}
