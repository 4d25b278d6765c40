package counters

import "encoding/json"

// Counter is a quantity of one counter kind on a card. Count is always
// positive; a counter that reaches zero is removed from its Set.
type Counter struct {
	Kind  Kind
	Count int
}

// NewCounter creates a counter with the given kind and count.
func NewCounter(kind Kind, count int) Counter {
	if count <= 0 {
		count = 1
	}
	return Counter{Kind: kind, Count: count}
}

// counterJSON is the wire form of a counter.
type counterJSON struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MarshalJSON encodes the counter with its kind's wire name.
func (c Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(counterJSON{Type: c.Kind.String(), Count: c.Count})
}

// UnmarshalJSON decodes a counter from its wire form.
func (c *Counter) UnmarshalJSON(data []byte) error {
	var w counterJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Kind = ParseKind(w.Type)
	c.Count = w.Count
	return nil
}

// Set is an ordered collection of counters on a single card. Order is
// insertion order; each kind appears at most once. A nil *Set reads as empty:
// replicated card JSON may omit the counters field, leaving the pointer nil
// until the first Copy normalizes it.
type Set struct {
	entries []Counter
}

// NewSet creates an empty counter set.
func NewSet() *Set {
	return &Set{}
}

// Add increments the counter of the given kind by one, creating a new entry
// with count 1 if the kind is absent.
func (s *Set) Add(kind Kind) {
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			s.entries[i].Count++
			return
		}
	}
	s.entries = append(s.entries, Counter{Kind: kind, Count: 1})
}

// Remove decrements the counter of the given kind by one and drops the entry
// entirely once its count reaches zero. Removing an absent kind is a no-op.
func (s *Set) Remove(kind Kind) {
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			s.entries[i].Count--
			if s.entries[i].Count <= 0 {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			}
			return
		}
	}
}

// Adjust applies a signed delta to the counter of the given kind. Positive
// deltas on an absent kind create it; the entry is dropped when the count
// falls to zero or below.
func (s *Set) Adjust(kind Kind, delta int) {
	if delta == 0 {
		return
	}
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			s.entries[i].Count += delta
			if s.entries[i].Count <= 0 {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			}
			return
		}
	}
	if delta > 0 {
		s.entries = append(s.entries, Counter{Kind: kind, Count: delta})
	}
}

// Count returns the count for the given kind, zero if absent.
func (s *Set) Count(kind Kind) int {
	if s == nil {
		return 0
	}
	for _, c := range s.entries {
		if c.Kind == kind {
			return c.Count
		}
	}
	return 0
}

// Has reports whether the set holds any counters of the given kind.
func (s *Set) Has(kind Kind) bool {
	return s.Count(kind) > 0
}

// Len returns the number of distinct kinds in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Total returns the total number of counters across all kinds.
func (s *Set) Total() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, c := range s.entries {
		total += c.Count
	}
	return total
}

// All returns the counters in insertion order. The returned slice is a copy.
func (s *Set) All() []Counter {
	if s == nil {
		return nil
	}
	out := make([]Counter, len(s.entries))
	copy(out, s.entries)
	return out
}

// Copy creates a deep copy of the set. Copying a nil set yields a fresh empty
// set, so copies are always safe to mutate.
func (s *Set) Copy() *Set {
	if s == nil {
		return NewSet()
	}
	out := &Set{entries: make([]Counter, len(s.entries))}
	copy(out.entries, s.entries)
	return out
}

// Equal reports whether two sets hold the same counters in the same order.
// Nil sets compare equal to empty ones.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for i := range s.entries {
		if s.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an ordered array of counters.
func (s *Set) MarshalJSON() ([]byte, error) {
	if s == nil || len(s.entries) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.entries)
}

// UnmarshalJSON decodes the set from an ordered array of counters.
func (s *Set) UnmarshalJSON(data []byte) error {
	var entries []Counter
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}
