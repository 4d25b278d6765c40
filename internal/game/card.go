package game

import (
	"github.com/google/uuid"

	"github.com/cardtable/cardtable-server-go/internal/catalog"
	"github.com/cardtable/cardtable-server-go/internal/game/counters"
)

// CardInstance is one physical copy of a card in play, distinct from the
// immutable catalog.Card it references. Instances are created by deck import,
// token creation and duplication, and destroyed only by a match reset.
type CardInstance struct {
	ID          string        `json:"id"`
	Card        catalog.Card  `json:"card"`
	Zone        Zone          `json:"zone"`
	Tapped      bool          `json:"isTapped"`
	Counters    *counters.Set `json:"counters"`
	Token       bool          `json:"isToken"`
	Revealed    bool          `json:"isRevealed"`
	AttachedTo  string        `json:"attachedToId,omitempty"`
	Attachments []string      `json:"attachmentIds"`
}

// NewCardInstance creates an untapped instance of the given card in a zone.
func NewCardInstance(card catalog.Card, zone Zone) *CardInstance {
	return &CardInstance{
		ID:       uuid.NewString(),
		Card:     card,
		Zone:     zone,
		Counters: counters.NewSet(),
	}
}

// Copy creates a deep copy of the instance. Attachment links are copied as-is;
// callers that need an unlinked copy (duplication) clear them afterwards.
func (ci *CardInstance) Copy() *CardInstance {
	cp := *ci
	cp.Counters = ci.Counters.Copy()
	cp.Attachments = append([]string(nil), ci.Attachments...)
	return &cp
}

// IsAttached reports whether the instance is attached to a parent.
func (ci *CardInstance) IsAttached() bool {
	return ci.AttachedTo != ""
}

// addAttachment records a child id, idempotently.
func (ci *CardInstance) addAttachment(id string) {
	for _, existing := range ci.Attachments {
		if existing == id {
			return
		}
	}
	ci.Attachments = append(ci.Attachments, id)
}

// removeAttachment drops a child id if present.
func (ci *CardInstance) removeAttachment(id string) {
	for i, existing := range ci.Attachments {
		if existing == id {
			ci.Attachments = append(ci.Attachments[:i], ci.Attachments[i+1:]...)
			return
		}
	}
}
