package counters

import (
	"encoding/json"
	"testing"
)

func TestSet_AddAndRemove(t *testing.T) {
	s := NewSet()

	s.Add(PlusOnePlusOne)
	if s.Count(PlusOnePlusOne) != 1 {
		t.Errorf("Expected 1 +1/+1 counter, got %d", s.Count(PlusOnePlusOne))
	}

	s.Add(PlusOnePlusOne)
	if s.Count(PlusOnePlusOne) != 2 {
		t.Errorf("Expected 2 +1/+1 counters, got %d", s.Count(PlusOnePlusOne))
	}

	s.Remove(PlusOnePlusOne)
	if s.Count(PlusOnePlusOne) != 1 {
		t.Errorf("Expected 1 +1/+1 counter after remove, got %d", s.Count(PlusOnePlusOne))
	}

	// Removing the last counter drops the entry entirely
	s.Remove(PlusOnePlusOne)
	if s.Has(PlusOnePlusOne) {
		t.Error("Expected +1/+1 entry to be gone at count 0")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty set, got %d entries", s.Len())
	}
}

func TestSet_RemoveAbsentIsNoop(t *testing.T) {
	s := NewSet()
	s.Remove(Charge)
	if s.Len() != 0 {
		t.Errorf("Expected empty set, got %d entries", s.Len())
	}
}

func TestSet_Adjust(t *testing.T) {
	s := NewSet()

	s.Adjust(Charge, 3)
	if s.Count(Charge) != 3 {
		t.Errorf("Expected 3 charge counters, got %d", s.Count(Charge))
	}

	s.Adjust(Charge, -1)
	if s.Count(Charge) != 2 {
		t.Errorf("Expected 2 charge counters, got %d", s.Count(Charge))
	}

	// Adjusting below zero removes the entry
	s.Adjust(Charge, -5)
	if s.Has(Charge) {
		t.Error("Expected charge entry to be removed")
	}

	// Negative adjust on an absent kind creates nothing
	s.Adjust(Loyalty, -2)
	if s.Has(Loyalty) {
		t.Error("Expected no loyalty entry from negative adjust")
	}
}

func TestSet_PreservesInsertionOrder(t *testing.T) {
	s := NewSet()
	s.Add(Charge)
	s.Add(PlusOnePlusOne)
	s.Add(Custom("vibes"))
	s.Add(Charge)

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(all))
	}
	if all[0].Kind != Charge || all[1].Kind != PlusOnePlusOne || all[2].Kind != Custom("vibes") {
		t.Errorf("Insertion order not preserved: %v", all)
	}
	if all[0].Count != 2 {
		t.Errorf("Expected charge count 2, got %d", all[0].Count)
	}
}

func TestSet_CopyDoesNotAlias(t *testing.T) {
	s := NewSet()
	s.Add(Stun)
	cp := s.Copy()

	s.Add(Stun)
	if cp.Count(Stun) != 1 {
		t.Errorf("Copy aliased live set: expected 1, got %d", cp.Count(Stun))
	}
}

func TestSet_NilReadsAsEmpty(t *testing.T) {
	var s *Set

	if s.Count(Charge) != 0 {
		t.Errorf("Expected count 0 on nil set, got %d", s.Count(Charge))
	}
	if s.Len() != 0 || s.Total() != 0 {
		t.Errorf("Expected nil set to be empty, got len %d total %d", s.Len(), s.Total())
	}
	if s.All() != nil {
		t.Errorf("Expected nil entries from nil set, got %v", s.All())
	}
	if !s.Equal(NewSet()) {
		t.Error("Expected nil set to equal an empty set")
	}
	if s.Equal(func() *Set { n := NewSet(); n.Add(Charge); return n }()) {
		t.Error("Expected nil set to differ from a populated set")
	}

	cp := s.Copy()
	if cp == nil {
		t.Fatal("Expected a usable copy of a nil set")
	}
	cp.Add(Charge)
	if cp.Count(Charge) != 1 {
		t.Errorf("Expected copy of nil set to be writable, got count %d", cp.Count(Charge))
	}
}

func TestKind_CustomNormalizesToWellKnown(t *testing.T) {
	if Custom("charge") != Charge {
		t.Error("Expected custom tag 'charge' to normalize to the well-known kind")
	}
	if !Custom("doom").IsCustom() {
		t.Error("Expected 'doom' to be a custom kind")
	}
	if Custom("doom").String() != "doom" {
		t.Errorf("Expected custom kind name 'doom', got %q", Custom("doom").String())
	}
}

func TestSet_JSONRoundTrip(t *testing.T) {
	s := NewSet()
	s.Adjust(PlusOnePlusOne, 2)
	s.Add(Custom("doom"))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded := NewSet()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !s.Equal(decoded) {
		t.Errorf("round trip mismatch: %v vs %v", s.All(), decoded.All())
	}
}
