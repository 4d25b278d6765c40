package catalog

import "strings"

// Card is an immutable card definition from the catalog. Instances reference
// these records; the engine never mutates them.
type Card struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TypeLine   string `json:"type_line"`
	ManaCost   string `json:"mana_cost"`
	OracleText string `json:"oracle_text"`
	ImageURL   string `json:"image_url"`
	ArtCropURL string `json:"art_crop_url"`
}

// HasType reports whether the card's type line contains the given word,
// case-insensitively. Zone-transition rules key off "aura", "equipment" and
// "fortification".
func (c Card) HasType(word string) bool {
	return strings.Contains(strings.ToLower(c.TypeLine), strings.ToLower(word))
}

// IsAttachmentType reports whether the card may be attached to a permanent.
func (c Card) IsAttachmentType() bool {
	return c.HasType("equipment") || c.HasType("aura") || c.HasType("fortification")
}
