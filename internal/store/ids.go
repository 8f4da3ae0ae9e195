package store

import "github.com/google/uuid"

// NewEntryID returns a time-ordered unique id (UUIDv7). Ids sort roughly by creation time,
// but callers must not rely on that for ordering.
func NewEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
