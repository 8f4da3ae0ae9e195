package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewEntryID_IsTimeOrderedUUID(t *testing.T) {
	a := NewEntryID()
	b := NewEntryID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	u, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("parse %q: %v", a, err)
	}
	if u.Version() != 7 {
		t.Fatalf("expected UUIDv7, got v%d", u.Version())
	}
}
