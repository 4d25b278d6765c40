package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/cardtable-server-go/internal/game/counters"
)

func TestNewCardInstance(t *testing.T) {
	a := NewCardInstance(cardBears, ZoneLibrary)
	b := NewCardInstance(cardBears, ZoneLibrary)
	assert.NotEqual(t, a.ID, b.ID, "each physical copy gets its own identity")
	assert.Equal(t, ZoneLibrary, a.Zone)
	assert.False(t, a.Tapped)
	assert.NotNil(t, a.Counters)
}

func TestCardInstanceCopyIsDeep(t *testing.T) {
	orig := NewCardInstance(cardBears, ZoneBattlefield)
	orig.Counters.Add(counters.PlusOnePlusOne)
	orig.Attachments = []string{"child-1"}

	cp := orig.Copy()
	cp.Counters.Add(counters.PlusOnePlusOne)
	cp.Attachments[0] = "tampered"
	cp.Tapped = true

	assert.Equal(t, 1, orig.Counters.Count(counters.PlusOnePlusOne))
	assert.Equal(t, "child-1", orig.Attachments[0])
	assert.False(t, orig.Tapped)
}

func TestAttachmentHelpers(t *testing.T) {
	card := NewCardInstance(cardBears, ZoneBattlefield)
	card.addAttachment("x")
	card.addAttachment("x")
	assert.Equal(t, []string{"x"}, card.Attachments, "attachment ids form a set")

	card.addAttachment("y")
	card.removeAttachment("x")
	assert.Equal(t, []string{"y"}, card.Attachments)

	card.removeAttachment("absent")
	assert.Equal(t, []string{"y"}, card.Attachments)

	assert.False(t, card.IsAttached())
	card.AttachedTo = "parent"
	assert.True(t, card.IsAttached())
}

func TestCardInstanceJSONShape(t *testing.T) {
	card := NewCardInstance(cardBears, ZoneHand)
	card.Counters.Add(counters.Charge)

	data, err := json.Marshal(card)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "id")
	assert.Contains(t, decoded, "zone")
	assert.Equal(t, "hand", decoded["zone"])
	assert.Contains(t, decoded, "isTapped")
	assert.Contains(t, decoded, "counters")
}
