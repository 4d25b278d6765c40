package game

import "fmt"

// AttachCard attaches a source card to a target. Only equipment, auras and
// fortifications may attach; anything else is a no-op. A source already
// attached elsewhere is re-parented. The source joins the target's zone
// untapped: attachment implies co-location.
func (t *Table) AttachCard(sourceID, targetID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.attachCardLocked(sourceID, targetID) {
		t.committed()
	}
}

func (t *Table) attachCardLocked(sourceID, targetID string) bool {
	source := t.findCard(sourceID)
	target := t.findCard(targetID)
	if source == nil || target == nil || sourceID == targetID {
		return false
	}
	if !source.Card.IsAttachmentType() {
		return false
	}

	t.beginMutation()

	if source.IsAttached() {
		if prev := t.findCard(source.AttachedTo); prev != nil {
			prev.removeAttachment(source.ID)
		}
	}

	source.AttachedTo = target.ID
	source.Zone = target.Zone
	source.Tapped = false
	target.addAttachment(source.ID)

	t.appendLog(ActionAttach,
		fmt.Sprintf("%s was attached to %s", source.Card.Name, target.Card.Name), "")
	return true
}

// DetachCard detaches a card from its parent. A card with no parent is a
// no-op. The card stays in its current zone.
func (t *Table) DetachCard(cardID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	card := t.findCard(cardID)
	if card == nil || !card.IsAttached() {
		return
	}
	t.beginMutation()
	if parent := t.findCard(card.AttachedTo); parent != nil {
		parent.removeAttachment(card.ID)
	}
	card.AttachedTo = ""
	t.appendLog(ActionDetach, fmt.Sprintf("%s was unattached", card.Card.Name), "")
	t.committed()
}

// StartTargeting enters targeting mode with the given source card. Ignored
// while targeting is already in progress.
func (t *Table) StartTargeting(sourceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.targeting.Active() {
		return
	}
	if t.findCard(sourceID) == nil {
		return
	}
	t.targeting = Targeting(sourceID)
}

// CancelTargeting returns to idle from any state.
func (t *Table) CancelTargeting() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targeting = Idle()
}

// CompleteTargeting commits the in-progress targeting gesture as an
// attachment and returns to idle. Only valid while targeting; this is the
// single path from a drag-to-target gesture to a committed attachment.
func (t *Table) CompleteTargeting(targetID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sourceID, ok := t.targeting.Source()
	if !ok {
		return
	}
	mutated := t.attachCardLocked(sourceID, targetID)
	t.targeting = Idle()
	if mutated {
		t.committed()
	}
}
