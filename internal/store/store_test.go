package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"timeline-cli/internal/model"
)

// memBackend is an in-memory Backend that counts writes and can be told to fail.
type memBackend struct {
	raw     []byte
	writes  int
	failErr error
}

func (b *memBackend) Read(ctx context.Context) ([]byte, error) { return b.raw, nil }

func (b *memBackend) Write(ctx context.Context, raw []byte) error {
	if b.failErr != nil {
		return b.failErr
	}
	b.writes++
	b.raw = append([]byte{}, raw...)
	return nil
}

func (b *memBackend) Close() error { return nil }

func newMemStore(t *testing.T, entries ...model.Entry) (*Store, *memBackend) {
	t.Helper()
	b := &memBackend{}
	s := New(b, nil)
	s.entries = append([]model.Entry{}, entries...)
	return s, b
}

func mem(id, date string) model.Entry {
	return model.Entry{ID: id, Type: model.EntryMemory, Title: id, Date: date, Position: model.SideLeft}
}

func ids(entries []model.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []model.Entry, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("order mismatch:\nwant: %v\ngot:  %v", want, ids(got))
	}
}

func TestInsert_SortsByDate(t *testing.T) {
	ctx := context.Background()
	s, b := newMemStore(t, mem("jan", "2024-01-10"), mem("mar", "2024-03-01"))

	if err := s.Insert(ctx, mem("feb", "2024-02-01")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	assertIDs(t, s.Entries(), "jan", "feb", "mar")
	if b.writes != 1 {
		t.Fatalf("expected 1 write, got %d", b.writes)
	}
	if s.Pinned() {
		t.Fatalf("sorted commit must not pin the order")
	}
}

func TestInsert_MissingAndMalformedDatesSortFirst_Stable(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemStore(t,
		mem("dated", "2023-05-05"),
		mem("a-nodate", ""),
		mem("same-1", "2023-01-01"),
		mem("same-2", "2023-01-01"),
	)

	if err := s.Insert(ctx, mem("bad", "05/05/2023")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, mem("ancient", "1901-06-01")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	assertIDs(t, s.Entries(), "a-nodate", "bad", "ancient", "same-1", "same-2", "dated")
}

func TestInsert_RejectsDuplicateAndInvalid(t *testing.T) {
	ctx := context.Background()
	s, b := newMemStore(t, mem("x", ""))

	if err := s.Insert(ctx, mem("x", "")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := s.Insert(ctx, model.Entry{ID: "y", Type: "photo"}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if err := s.Insert(ctx, model.Entry{Type: model.EntryMemory}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if b.writes != 0 {
		t.Fatalf("rejected inserts must not write; got %d writes", b.writes)
	}
}

func TestReposition_KeepsManualOrder_UntilNextSortedMutation(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemStore(t, mem("a", "2024-01-01"), mem("b", "2024-02-01"), mem("c", "2024-03-01"))

	// Target 2 is measured before removal, so "a" lands at index 1.
	if err := s.Reposition(ctx, 0, 2); err != nil {
		t.Fatalf("Reposition: %v", err)
	}
	assertIDs(t, s.Entries(), "b", "a", "c")
	if !s.Pinned() {
		t.Fatalf("expected manual order to be pinned")
	}

	// Side toggle keeps the pinned order too.
	if _, err := s.ToggleSide(ctx, "c"); err != nil {
		t.Fatalf("ToggleSide: %v", err)
	}
	assertIDs(t, s.Entries(), "b", "a", "c")

	// Next default-mode mutation restores date order.
	title := "renamed"
	if _, err := s.Update(ctx, "b", Patch{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	assertIDs(t, s.Entries(), "a", "b", "c")
	if s.Pinned() {
		t.Fatalf("expected pin to be cleared by sorted commit")
	}
}

func TestReposition_DoesNotTouchDates(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemStore(t, mem("a", "2024-01-01"), mem("b", ""), mem("c", "2024-03-01"))
	before := map[string]string{}
	for _, e := range s.Entries() {
		before[e.ID] = e.Date
	}
	if err := s.Reposition(ctx, 2, 0); err != nil {
		t.Fatalf("Reposition: %v", err)
	}
	assertIDs(t, s.Entries(), "c", "a", "b")
	for _, e := range s.Entries() {
		if before[e.ID] != e.Date {
			t.Fatalf("date changed for %s: %q -> %q", e.ID, before[e.ID], e.Date)
		}
	}
}

func TestReposition_OutOfRange(t *testing.T) {
	s, b := newMemStore(t, mem("a", ""))
	err := s.Reposition(context.Background(), 3, 0)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if b.writes != 0 {
		t.Fatalf("expected no write")
	}
}

func TestMove(t *testing.T) {
	base := []model.Entry{mem("a", ""), mem("b", ""), mem("c", ""), mem("d", "")}
	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward past neighbor", from: 0, to: 2, want: []string{"b", "a", "c", "d"}},
		{name: "forward to end", from: 1, to: 4, want: []string{"a", "c", "d", "b"}},
		{name: "backward", from: 3, to: 1, want: []string{"a", "d", "b", "c"}},
		{name: "backward to start", from: 2, to: 0, want: []string{"c", "a", "b", "d"}},
		{name: "same slot", from: 1, to: 1, want: []string{"a", "b", "c", "d"}},
		{name: "adjacent after is a noop", from: 1, to: 2, want: []string{"a", "b", "c", "d"}},
		{name: "clamped high", from: 0, to: 99, want: []string{"b", "c", "d", "a"}},
		{name: "clamped low", from: 2, to: -5, want: []string{"c", "a", "b", "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Move(base, tc.from, tc.to)
			if !reflect.DeepEqual(ids(got), tc.want) {
				t.Fatalf("Move(%d,%d): want %v got %v", tc.from, tc.to, tc.want, ids(got))
			}
			if !reflect.DeepEqual(ids(base), []string{"a", "b", "c", "d"}) {
				t.Fatalf("Move must not modify its input; got %v", ids(base))
			}
			if IsNoopMove(tc.from, tc.to) && !reflect.DeepEqual(ids(got), ids(base)) {
				t.Fatalf("IsNoopMove(%d,%d) but order changed", tc.from, tc.to)
			}
		})
	}
}

func TestRemove_MissingIDIsNoop(t *testing.T) {
	s, b := newMemStore(t, mem("a", "2024-01-01"), mem("b", ""))
	found, err := s.Remove(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if found {
		t.Fatalf("expected found=false")
	}
	assertIDs(t, s.Entries(), "a", "b")
	if b.writes != 0 {
		t.Fatalf("expected no write for missing id, got %d", b.writes)
	}
}

func TestRemove_ResortsRemaining(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemStore(t, mem("a", "2024-01-01"), mem("b", "2024-02-01"), mem("c", "2024-03-01"))
	if err := s.Reposition(ctx, 2, 0); err != nil {
		t.Fatalf("Reposition: %v", err)
	}
	if _, err := s.Remove(ctx, "b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertIDs(t, s.Entries(), "a", "c")
}

func TestUpdate_MergesFields_IgnoresMemoryFieldsOnMilestone(t *testing.T) {
	ctx := context.Background()
	ms := model.Entry{ID: "m", Type: model.EntryMilestone, Title: "Milestone", Date: "2024-01-01"}
	s, _ := newMemStore(t, ms, mem("a", "2024-02-01"))

	note := "ignored"
	img := "data:image/png;base64,AAAA"
	date := "2024-05-01"
	found, err := s.Update(ctx, "m", Patch{Note: &note, Image: &img, Date: &date})
	if err != nil || !found {
		t.Fatalf("Update: found=%v err=%v", found, err)
	}
	got, _ := s.Find("m")
	if got.Note != "" || got.Image != "" {
		t.Fatalf("milestone must not take note/image: %#v", got)
	}
	if got.Date != date || got.Type != model.EntryMilestone {
		t.Fatalf("unexpected milestone after update: %#v", got)
	}
	assertIDs(t, s.Entries(), "a", "m")

	found, err = s.Update(ctx, "a", Patch{Note: &note, Image: &img})
	if err != nil || !found {
		t.Fatalf("Update: found=%v err=%v", found, err)
	}
	got, _ = s.Find("a")
	if got.Note != note || got.Image != img {
		t.Fatalf("memory fields not merged: %#v", got)
	}

	if _, err := s.Update(ctx, "a", Patch{ClearImage: true, Image: &img}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = s.Find("a")
	if got.Image != "" {
		t.Fatalf("expected image cleared, got %q", got.Image)
	}
}

func TestToggleSide(t *testing.T) {
	ctx := context.Background()
	unset := model.Entry{ID: "u", Type: model.EntryMemory}
	ms := model.Entry{ID: "m", Type: model.EntryMilestone}
	s, b := newMemStore(t, unset, ms)

	if _, err := s.ToggleSide(ctx, "u"); err != nil {
		t.Fatalf("ToggleSide: %v", err)
	}
	got, _ := s.Find("u")
	if got.Position != model.SideRight {
		t.Fatalf("unset position renders left, so toggling must give right; got %q", got.Position)
	}
	if _, err := s.ToggleSide(ctx, "u"); err != nil {
		t.Fatalf("ToggleSide: %v", err)
	}
	got, _ = s.Find("u")
	if got.Position != model.SideLeft {
		t.Fatalf("expected left, got %q", got.Position)
	}

	writes := b.writes
	if _, err := s.ToggleSide(ctx, "m"); !errors.Is(err, ErrNotMemory) {
		t.Fatalf("expected ErrNotMemory, got %v", err)
	}
	if found, err := s.ToggleSide(ctx, "missing"); found || err != nil {
		t.Fatalf("expected silent no-op, got found=%v err=%v", found, err)
	}
	if b.writes != writes {
		t.Fatalf("expected no writes for rejected toggles")
	}
}

func TestCommit_FailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s, b := newMemStore(t, mem("a", "2024-01-01"), mem("b", "2024-02-01"))
	b.failErr = errors.New("disk full")

	if err := s.Insert(ctx, mem("c", "2023-01-01")); err == nil {
		t.Fatalf("expected write error")
	}
	if err := s.Reposition(ctx, 0, 2); err == nil {
		t.Fatalf("expected write error")
	}
	assertIDs(t, s.Entries(), "a", "b")
}

func TestResolve(t *testing.T) {
	s, _ := newMemStore(t, mem("0190-aaaa", ""), mem("0190-abbb", ""), mem("0191-cccc", ""))

	if e, ok, err := s.Resolve("0191"); err != nil || !ok || e.ID != "0191-cccc" {
		t.Fatalf("unique prefix: got %v %v %v", e.ID, ok, err)
	}
	if e, ok, err := s.Resolve("0190-aaaa"); err != nil || !ok || e.ID != "0190-aaaa" {
		t.Fatalf("exact id: got %v %v %v", e.ID, ok, err)
	}
	if _, _, err := s.Resolve("0190-a"); !errors.Is(err, ErrAmbiguousID) {
		t.Fatalf("expected ErrAmbiguousID, got %v", err)
	}
	if _, ok, err := s.Resolve("zzz"); ok || err != nil {
		t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
	}
}

func TestLoad_MissingOrCorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"", "null", "{not json", `{"id":"x"}`} {
		b := &memBackend{raw: []byte(raw)}
		s := New(b, nil)
		if err := s.Load(ctx); err != nil {
			t.Fatalf("Load(%q): %v", raw, err)
		}
		if s.Len() != 0 {
			t.Fatalf("Load(%q): expected empty, got %d", raw, s.Len())
		}
	}
}

func TestLoad_DropsDuplicateIDs(t *testing.T) {
	b := &memBackend{raw: []byte(`[{"id":"1","type":"memory","title":"a"},{"id":"1","type":"memory","title":"b"},{"id":"2","title":"c"}]`)}
	s := New(b, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertIDs(t, s.Entries(), "1", "2")
	if e, _ := s.Find("1"); e.Title != "a" {
		t.Fatalf("expected first occurrence kept, got %q", e.Title)
	}
	if e, _ := s.Find("2"); e.Type != model.EntryMemory {
		t.Fatalf("expected missing type to default to memory, got %q", e.Type)
	}
}

func TestLoad_ReadsBrowserLayout(t *testing.T) {
	raw := `[{"id":"1704067200000","title":"Beach","date":"2024-01-01","note":"sunny","type":"memory","position":"right","image":null},
{"id":"1704067200001","title":"Moved","type":"milestone","date":""}]`
	s := New(&memBackend{raw: []byte(raw)}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []model.Entry{
		{ID: "1704067200000", Type: model.EntryMemory, Title: "Beach", Date: "2024-01-01", Note: "sunny", Position: model.SideRight},
		{ID: "1704067200001", Type: model.EntryMilestone, Title: "Moved"},
	}
	if !reflect.DeepEqual(s.Entries(), want) {
		t.Fatalf("mismatch:\nwant: %#v\ngot:  %#v", want, s.Entries())
	}
}

func TestRoundTrip_AllBackends(t *testing.T) {
	for _, kind := range []string{BackendSQLite, BackendFile} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			b, err := OpenBackend(ctx, dir, kind)
			if err != nil {
				t.Fatalf("OpenBackend: %v", err)
			}
			s := New(b, nil)
			if err := s.Load(ctx); err != nil {
				t.Fatalf("Load (empty): %v", err)
			}
			for _, e := range []model.Entry{
				{ID: "1", Type: model.EntryMemory, Title: "Beach", Date: "2024-06-01", Note: "**sun**", Image: "data:image/png;base64,iVBORw0KGgo=", Position: model.SideRight},
				{ID: "2", Type: model.EntryMilestone, Title: "Graduation", Date: "2024-03-01"},
				{ID: "3", Type: model.EntryMemory, Title: "Memory", Position: model.SideLeft},
			} {
				if err := s.Insert(ctx, e); err != nil {
					t.Fatalf("Insert: %v", err)
				}
			}
			if err := s.Reposition(ctx, 0, 3); err != nil {
				t.Fatalf("Reposition: %v", err)
			}
			want := s.Entries()
			if err := b.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			b2, err := OpenBackend(ctx, dir, BackendAuto)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer b2.Close()
			s2 := New(b2, nil)
			if err := s2.Load(ctx); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(want, s2.Entries()) {
				t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, s2.Entries())
			}
		})
	}
}

func TestDetectBackend(t *testing.T) {
	dir := t.TempDir()
	if got := DetectBackend(dir); got != BackendSQLite {
		t.Fatalf("empty dir: want sqlite, got %s", got)
	}
	if err := os.WriteFile(filepath.Join(dir, blobFileName), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := DetectBackend(dir); got != BackendFile {
		t.Fatalf("blob file present: want file, got %s", got)
	}
}

func TestFileBackend_CorruptFileLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), blobFileName)
	if err := os.WriteFile(path, []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(NewFileBackend(path), nil)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty sequence")
	}
	if err := s.Insert(ctx, mem("a", "")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) == "[{" {
		t.Fatalf("expected corrupt file to be replaced")
	}
}

func TestOpenBackend_UnknownKind(t *testing.T) {
	if _, err := OpenBackend(context.Background(), t.TempDir(), "redis"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
