package core

import (
	"testing"
)

// TestNewBatchIDUniqueness tests that NewBatchID generates unique identifiers
func TestNewBatchIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[BatchID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewBatchID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestBatchIDOrdering(t *testing.T) {
	// v7 IDs sort by creation time
	first := NewBatchID()
	second := NewBatchID()
	if first.String() >= second.String() {
		t.Errorf("Expected %s to sort before %s", first, second)
	}
}

func TestBatchIDIsEmpty(t *testing.T) {
	if !BatchID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if BatchID("batch-1").String() != "batch-1" {
		t.Error("Expected String() to return the raw value")
	}
}
