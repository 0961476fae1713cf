package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestContentHash_StableAndShort(t *testing.T) {
	t.Parallel()

	type payload struct {
		Category string   `json:"category"`
		Legs     []string `json:"legs"`
	}

	first, err := ContentHash(payload{Category: "BALANCED", Legs: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := ContentHash(payload{Category: "BALANCED", Legs: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable hash, got %s vs %s", first, second)
	}
	if len(first) != ContentLength {
		t.Fatalf("expected %d chars, got %q", ContentLength, first)
	}

	other, _ := ContentHash(payload{Category: "AGGRESSIVE", Legs: []string{"a", "b"}})
	if other == first {
		t.Fatalf("different payloads must hash differently")
	}
}

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	value, err := NewUUIDGenerator().NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if _, err := uuid.Parse(value); err != nil {
		t.Fatalf("expected uuid, got %q: %v", value, err)
	}
}
