package core

import (
	"github.com/google/uuid"
)

// NewRequestID returns a time-ordered identifier for a computation request.
// IDs from one process sort in submission order.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
