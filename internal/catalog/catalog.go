package catalog

import (
	"context"
	"strings"
)

// Catalog resolves exact card names to Card records. Resolution is partial:
// names that cannot be found are returned in the missing list, never as an
// error. Errors are reserved for transport failures.
type Catalog interface {
	ResolveNames(ctx context.Context, names []string) (found []Card, missing []string, err error)
}

// Memory is an in-process catalog backed by a name-keyed map. It serves
// tests and offline play.
type Memory struct {
	byName map[string]Card
}

// NewMemory creates a memory catalog from the given cards.
func NewMemory(cards ...Card) *Memory {
	m := &Memory{byName: make(map[string]Card, len(cards))}
	for _, c := range cards {
		m.byName[NormalizeName(c.Name)] = c
	}
	return m
}

// Add registers a card, replacing any card with the same name.
func (m *Memory) Add(card Card) {
	m.byName[NormalizeName(card.Name)] = card
}

// ResolveNames implements Catalog.
func (m *Memory) ResolveNames(_ context.Context, names []string) ([]Card, []string, error) {
	var found []Card
	var missing []string
	for _, name := range names {
		if card, ok := m.byName[NormalizeName(name)]; ok {
			found = append(found, card)
		} else {
			missing = append(missing, name)
		}
	}
	return found, missing, nil
}

// NormalizeName canonicalizes a card name for lookup: trimmed, lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
