package core

import (
	"github.com/google/uuid"
)

// BatchID identifies one extraction batch in logs
type BatchID string

// NewBatchID creates a time-ordered identifier (UUID v7, v4 if v7 is unavailable)
func NewBatchID() BatchID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return BatchID(id.String())
}

// String returns the string representation
func (id BatchID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id BatchID) IsEmpty() bool {
	return id == ""
}
