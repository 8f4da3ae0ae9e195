package mutate

import (
	"context"
	"strings"

	"timeline-cli/internal/model"
	"timeline-cli/internal/store"
)

// MemoryDraft is the input of add-memory. Image is an already-decoded data URL (or empty).
type MemoryDraft struct {
	Title string
	Date  string
	Note  string
	Image string
}

type MilestoneDraft struct {
	Title string
	Date  string
}

// AddMemory creates a memory on the left side; an empty title falls back to "Memory".
func AddMemory(ctx context.Context, st *store.Store, d MemoryDraft) (model.Entry, error) {
	e := model.Entry{
		ID:       store.NewEntryID(),
		Type:     model.EntryMemory,
		Title:    titleOrDefault(d.Title, model.EntryMemory),
		Date:     strings.TrimSpace(d.Date),
		Note:     d.Note,
		Image:    d.Image,
		Position: model.SideLeft,
	}
	if err := st.Insert(ctx, e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// AddMilestone creates a milestone; an empty title falls back to "Milestone".
func AddMilestone(ctx context.Context, st *store.Store, d MilestoneDraft) (model.Entry, error) {
	e := model.Entry{
		ID:    store.NewEntryID(),
		Type:  model.EntryMilestone,
		Title: titleOrDefault(d.Title, model.EntryMilestone),
		Date:  strings.TrimSpace(d.Date),
	}
	if err := st.Insert(ctx, e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// Update merges p into the entry and re-sorts by date.
func Update(ctx context.Context, st *store.Store, id string, p store.Patch) (model.Entry, error) {
	found, err := st.Update(ctx, id, p)
	if err != nil {
		return model.Entry{}, err
	}
	if !found {
		return model.Entry{}, NotFoundError{Kind: "entry", ID: id}
	}
	e, _ := st.Find(id)
	return e, nil
}

// Delete removes the entry once c confirms.
func Delete(ctx context.Context, st *store.Store, id string, c Confirmer) error {
	if _, ok := st.Find(id); !ok {
		return NotFoundError{Kind: "entry", ID: id}
	}
	if !c.Confirm(DeletePrompt) {
		return ErrDeclined
	}
	_, err := st.Remove(ctx, id)
	return err
}

// RemoveImage drops a memory's photo once c confirms. A memory without a photo is left alone
// and no confirmation is asked.
func RemoveImage(ctx context.Context, st *store.Store, id string, c Confirmer) (model.Entry, error) {
	e, ok := st.Find(id)
	if !ok {
		return model.Entry{}, NotFoundError{Kind: "entry", ID: id}
	}
	if e.IsMilestone() {
		return e, store.ErrNotMemory
	}
	if e.Image == "" {
		return e, nil
	}
	if !c.Confirm(RemoveImagePrompt) {
		return e, ErrDeclined
	}
	return Update(ctx, st, id, store.Patch{ClearImage: true})
}

// SwapSide flips a memory between left and right, keeping the current order.
func SwapSide(ctx context.Context, st *store.Store, id string) (model.Entry, error) {
	found, err := st.ToggleSide(ctx, id)
	if err != nil {
		return model.Entry{}, err
	}
	if !found {
		return model.Entry{}, NotFoundError{Kind: "entry", ID: id}
	}
	e, _ := st.Find(id)
	return e, nil
}

func titleOrDefault(title string, t model.EntryType) string {
	if strings.TrimSpace(title) == "" {
		return model.DefaultTitle(t)
	}
	return title
}
