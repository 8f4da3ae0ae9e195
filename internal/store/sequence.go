package store

import (
	"sort"

	"timeline-cli/internal/model"
)

// Mode decides what happens to the order of the sequence when a mutation is committed.
type Mode int

const (
	// ModeSorted re-sorts the whole sequence by date (add, edit, delete).
	ModeSorted Mode = iota
	// ModeManual keeps the array order exactly as the mutation left it (reposition, side swap).
	// The manual order stays pinned until the next ModeSorted commit.
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	default:
		return "sorted"
	}
}

// Sequence applies mode to entries in place and returns them.
func Sequence(entries []model.Entry, mode Mode) []model.Entry {
	if mode == ModeSorted {
		SortByDate(entries)
	}
	return entries
}

// SortByDate sorts entries ascending by date. The sort is stable, so entries with equal
// (or equally missing) dates keep their prior relative order.
func SortByDate(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return model.DateLess(entries[i].Date, entries[j].Date)
	})
}

// Move returns a copy of entries with the entry at from reinserted at to.
//
// to is measured against the sequence before removal: when it lies after from it is
// decremented by one to account for the shift. The insertion point is clamped to bounds.
// Callers must check that from is in range.
func Move(entries []model.Entry, from, to int) []model.Entry {
	moved := entries[from]

	rest := make([]model.Entry, 0, len(entries))
	rest = append(rest, entries[:from]...)
	rest = append(rest, entries[from+1:]...)

	insertAt := to
	if insertAt > from {
		insertAt--
	}
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}

	out := make([]model.Entry, 0, len(entries))
	out = append(out, rest[:insertAt]...)
	out = append(out, moved)
	out = append(out, rest[insertAt:]...)
	return out
}

// IsNoopMove reports whether moving from -> to leaves the order unchanged.
func IsNoopMove(from, to int) bool {
	return to == from || to == from+1
}
