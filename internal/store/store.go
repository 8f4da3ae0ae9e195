package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"timeline-cli/internal/model"
)

// BlobKey is the well-known key the whole sequence is persisted under.
const BlobKey = "timelineData"

// Store owns the ordered entry sequence and its persisted mirror.
//
// Every mutation is computed on a copy, sequenced, written through the backend, and only then
// swapped in. A failed write leaves both memory and storage at the previous state.
type Store struct {
	backend Backend
	log     *slog.Logger

	entries []model.Entry
	pinned  bool
}

// Patch lists the fields an update merges into an entry. Nil fields are left alone.
type Patch struct {
	Title *string
	Date  *string
	Note  *string
	Image *string

	// ClearImage drops the image; it wins over Image.
	ClearImage bool
}

func New(b Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: b, log: log, entries: []model.Entry{}}
}

// Load reads the persisted sequence. Missing or corrupt data yields an empty sequence;
// only backend I/O failures are returned.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.backend.Read(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", BlobKey, err)
	}
	s.entries = decodeEntries(raw, s.log)
	s.pinned = false
	s.log.Debug("timeline loaded", "entries", len(s.entries))
	return nil
}

// Entries returns a snapshot of the current order.
func (s *Store) Entries() []model.Entry {
	return append([]model.Entry{}, s.entries...)
}

func (s *Store) Len() int { return len(s.entries) }

// Pinned reports whether the current order came from a manual commit.
func (s *Store) Pinned() bool { return s.pinned }

func (s *Store) Find(id string) (model.Entry, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Entry{}, false
	}
	return s.entries[i], true
}

// At returns the entry at index i of the current order.
func (s *Store) At(i int) (model.Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return model.Entry{}, false
	}
	return s.entries[i], true
}

// IndexOf returns the position of id in the current order, or -1.
func (s *Store) IndexOf(id string) int { return s.indexOf(id) }

// Resolve finds an entry by exact id or by a unique id prefix.
func (s *Store) Resolve(ref string) (model.Entry, bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Entry{}, false, nil
	}
	if e, ok := s.Find(ref); ok {
		return e, true, nil
	}
	var hit *model.Entry
	for i := range s.entries {
		if strings.HasPrefix(s.entries[i].ID, ref) {
			if hit != nil {
				return model.Entry{}, false, fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			hit = &s.entries[i]
		}
	}
	if hit == nil {
		return model.Entry{}, false, nil
	}
	return *hit, true, nil
}

// Insert appends e and re-sorts by date.
func (s *Store) Insert(ctx context.Context, e model.Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if !model.ValidType(e.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, e.Type)
	}
	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	next := append(s.Entries(), e)
	return s.commit(ctx, next, ModeSorted, "insert")
}

// Remove deletes the entry with id. A missing id is a no-op and nothing is written.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := make([]model.Entry, 0, len(s.entries))
	next = append(next, s.entries[:i]...)
	next = append(next, s.entries[i+1:]...)
	return true, s.commit(ctx, next, ModeSorted, "remove")
}

// Update merges p into the entry with id and re-sorts by date.
// Note and image patches are ignored for milestones.
func (s *Store) Update(ctx context.Context, id string, p Patch) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := s.Entries()
	applyPatch(&next[i], p)
	return true, s.commit(ctx, next, ModeSorted, "update")
}

// ToggleSide flips a memory between left and right without re-sorting.
func (s *Store) ToggleSide(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if s.entries[i].IsMilestone() {
		return true, fmt.Errorf("%w: %s", ErrNotMemory, id)
	}
	next := s.Entries()
	next[i].Position = next[i].EffectiveSide().Flipped()
	return true, s.commit(ctx, next, ModeManual, "toggle-side")
}

// Reposition moves the entry at from to the insertion point to (measured before removal)
// and persists the result without re-sorting.
func (s *Store) Reposition(ctx context.Context, from, to int) error {
	if from < 0 || from >= len(s.entries) {
		return fmt.Errorf("%w: from=%d len=%d", ErrIndexOutOfRange, from, len(s.entries))
	}
	next := Move(s.entries, from, to)
	return s.commit(ctx, next, ModeManual, "reposition")
}

// Persist writes the current sequence as-is.
func (s *Store) Persist(ctx context.Context) error {
	return s.write(ctx, s.entries)
}

func (s *Store) commit(ctx context.Context, next []model.Entry, mode Mode, op string) error {
	next = Sequence(next, mode)
	if err := s.write(ctx, next); err != nil {
		s.log.Error("timeline commit failed", "op", op, "err", err)
		return err
	}
	s.entries = next
	s.pinned = mode == ModeManual
	s.log.Debug("timeline committed", "op", op, "mode", mode.String(), "entries", len(next))
	return nil
}

func (s *Store) write(ctx context.Context, entries []model.Entry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, raw); err != nil {
		return fmt.Errorf("write %s: %w", BlobKey, err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(e *model.Entry, p Patch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = strings.TrimSpace(*p.Date)
	}
	if e.IsMilestone() {
		return
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	if p.ClearImage {
		e.Image = ""
	} else if p.Image != nil {
		e.Image = *p.Image
	}
}

func encodeEntries(entries []model.Entry) ([]byte, error) {
	if entries == nil {
		entries = []model.Entry{}
	}
	return json.Marshal(entries)
}

func decodeEntries(raw []byte, log *slog.Logger) []model.Entry {
	out := []model.Entry{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out
	}
	var xs []model.Entry
	if err := json.Unmarshal(raw, &xs); err != nil {
		log.Warn("persisted timeline is corrupt; starting empty", "key", BlobKey, "err", err)
		return out
	}
	seen := map[string]bool{}
	for _, e := range xs {
		if strings.TrimSpace(e.ID) == "" {
			e.ID = NewEntryID()
			log.Warn("entry without id; assigned a new one", "id", e.ID)
		}
		if seen[e.ID] {
			log.Warn("dropping entry with duplicate id", "id", e.ID)
			continue
		}
		seen[e.ID] = true
		if e.Type == "" {
			e.Type = model.EntryMemory
		}
		out = append(out, e)
	}
	return out
}
