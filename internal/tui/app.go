package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"timeline-cli/internal/imagedata"
	"timeline-cli/internal/model"
	"timeline-cli/internal/mutate"
	"timeline-cli/internal/reorder"
	"timeline-cli/internal/store"
	"timeline-cli/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalConfirm
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmRemoveImage
)

type confirmState struct {
	kind    confirmKind
	entryID string
	focus   confirmModalFocus
}

// pendingImage is the single in-flight operation waiting on a photo decode.
type pendingImage struct {
	seq    int
	task   *imagedata.Task
	values formValues
}

type imageDecodedMsg struct {
	seq int
	url string
	err error
}

var errBusy = errors.New("a photo is still being read; try again when it finishes")

type appModel struct {
	ctx        context.Context
	store      *store.Store
	moves      *reorder.Controller
	log        *slog.Logger
	dir        string
	plainNotes bool

	width  int
	height int

	// cursor indexes the interleaved rows (nodes and, while moving, markers).
	cursor int

	modal   modalKind
	form    entryForm
	confirm confirmState

	pending *pendingImage
	seq     int

	flash    string
	flashErr bool
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := appModel{
		ctx:        ctx,
		store:      opts.Store,
		moves:      reorder.New(opts.Store),
		log:        log,
		dir:        opts.Dir,
		plainNotes: opts.PlainNotes,
		width:      80,
		height:     24,
	}
	if st, err := store.LoadTUIState(opts.Dir); err == nil && st.FocusedEntryID != "" {
		m.focusEntry(st.FocusedEntryID)
	}
	return m
}

// saveState remembers the focused entry for the next launch. Best effort.
func (m appModel) saveState() {
	st := &store.TUIState{}
	if n, ok := m.currentNode(); ok {
		st.FocusedEntryID = n.ID
	}
	if err := store.SaveTUIState(m.dir, st); err != nil {
		m.log.Warn("save tui state", "err", err)
	}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) timeline() view.Timeline {
	return view.Build(m.store.Entries(), m.moves.State())
}

func (m appModel) rows() []view.Row {
	return m.timeline().Rows()
}

func (m appModel) currentRow() (view.Row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return view.Row{}, false
	}
	return rows[m.cursor], true
}

func (m appModel) currentNode() (view.Node, bool) {
	r, ok := m.currentRow()
	if !ok || r.Node == nil {
		return view.Node{}, false
	}
	return *r.Node, true
}

func (m *appModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// focusEntry moves the cursor to the row showing id.
func (m *appModel) focusEntry(id string) {
	for i, r := range m.rows() {
		if r.Node != nil && r.Node.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *appModel) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}

func (m *appModel) reportErr(op string, err error) {
	m.log.Warn("tui action failed", "op", op, "err", err)
	m.setFlash(err.Error(), true)
}

// afterMutation re-renders from the store snapshot. Any pending move selection refers to
// indices that may have shifted, so it is dropped.
func (m *appModel) afterMutation(focusID string) {
	m.moves.Cancel()
	if focusID != "" {
		m.focusEntry(focusID)
		return
	}
	m.clampCursor()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.moves.Cancel()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.modal == modalForm {
			m.form.resize(m.width)
		}
		return m, nil

	case imageDecodedMsg:
		return m.finishImage(msg)

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		switch m.modal {
		case modalForm:
			return m.updateForm(msg)
		case modalConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateMain(msg)
		}
	}

	if m.modal == modalForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	switch msg.String() {
	case "ctrl+c", "q":
		m.saveState()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "home", "g":
		m.cursor = 0
		return m, nil
	case "end", "G":
		m.cursor = len(m.rows()) - 1
		m.clampCursor()
		return m, nil

	case "esc":
		n, onNode := m.currentNode()
		m.moves.Cancel()
		if onNode {
			m.focusEntry(n.ID)
		}
		m.clampCursor()
		return m, nil

	case "r":
		// Hard refresh: re-read storage (e.g. after CLI commands in another terminal).
		if m.pending != nil {
			m.setFlash(errBusy.Error(), true)
			return m, nil
		}
		var focusID string
		if n, ok := m.currentNode(); ok {
			focusID = n.ID
		}
		if err := m.store.Load(m.ctx); err != nil {
			m.reportErr("reload", err)
			return m, nil
		}
		m.afterMutation(focusID)
		m.setFlash("Reloaded", false)
		return m, nil

	case "a":
		return m.openForm(formAddMemory, model.Entry{})
	case "M":
		return m.openForm(formAddMilestone, model.Entry{})
	case "e":
		n, ok := m.currentNode()
		if !ok {
			return m, nil
		}
		e, ok := m.store.Find(n.ID)
		if !ok {
			return m, nil
		}
		return m.openForm(formEdit, e)

	case "d":
		n, ok := m.currentNode()
		if !ok {
			return m, nil
		}
		return m.openConfirm(confirmDelete, n.ID)

	case "x":
		n, ok := m.currentNode()
		if !ok {
			return m, nil
		}
		if !n.Has(view.ActionSwapSide) {
			m.setFlash("Milestones have no photo", true)
			return m, nil
		}
		if !n.HasImage {
			m.setFlash("No photo to remove", false)
			return m, nil
		}
		return m.openConfirm(confirmRemoveImage, n.ID)

	case "s":
		n, ok := m.currentNode()
		if !ok || !n.Has(view.ActionSwapSide) {
			return m, nil
		}
		if m.pending != nil {
			m.setFlash(errBusy.Error(), true)
			return m, nil
		}
		if _, err := mutate.SwapSide(m.ctx, m.store, n.ID); err != nil {
			m.reportErr("swap-side", err)
			return m, nil
		}
		m.afterMutation(n.ID)
		return m, nil

	case "m", " ":
		n, ok := m.currentNode()
		if !ok {
			return m, nil
		}
		m.moves.Select(n.Index)
		m.focusEntry(n.ID)
		return m, nil

	case "enter":
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		if r.Marker != nil {
			return m.commitMove(r.Marker.Target)
		}
		e, ok := m.store.Find(r.Node.ID)
		if !ok {
			return m, nil
		}
		return m.openForm(formEdit, e)
	}
	return m, nil
}

func (m appModel) commitMove(target int) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		m.setFlash(errBusy.Error(), true)
		return m, nil
	}
	from, ok := m.moves.Active()
	if !ok {
		return m, nil
	}
	moved, _ := m.store.At(from)
	if err := m.moves.Commit(m.ctx, target); err != nil {
		m.reportErr("move", err)
		m.clampCursor()
		return m, nil
	}
	m.focusEntry(moved.ID)
	return m, nil
}

func (m appModel) openForm(mode formMode, e model.Entry) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		m.setFlash(errBusy.Error(), true)
		return m, nil
	}
	m.form = newEntryForm(mode, e, m.width)
	m.modal = modalForm
	return m, m.form.setFocus(fieldTitle)
}

func (m appModel) openConfirm(kind confirmKind, id string) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		m.setFlash(errBusy.Error(), true)
		return m, nil
	}
	m.confirm = confirmState{kind: kind, entryID: id, focus: confirmFocusCancel}
	m.modal = modalConfirm
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "tab":
		return m, m.form.cycle(1)
	case "shift+tab":
		return m, m.form.cycle(-1)
	case "ctrl+s":
		return m.submitForm()
	case "ctrl+e":
		if m.form.kind != model.EntryMemory {
			return m, nil
		}
		focus := m.form.setFocus(fieldNote)
		cmd, err := editNoteExternally(m.form.note.Value())
		if err != nil {
			m.reportErr("editor", err)
			return m, focus
		}
		return m, tea.Batch(focus, cmd)
	case "enter":
		// Enter adds newlines inside the note.
		if m.form.focus != fieldNote {
			return m.submitForm()
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	v := m.form.values()
	m.closeModal()

	if v.ImagePath == "" {
		m.applyForm(v, "")
		return m, nil
	}
	if m.pending != nil {
		m.setFlash(errBusy.Error(), true)
		return m, nil
	}
	m.seq++
	task := imagedata.Start(m.ctx, v.ImagePath)
	m.pending = &pendingImage{seq: m.seq, task: task, values: v}
	m.setFlash("Reading photo…", false)
	return m, waitForImage(m.ctx, m.seq, task)
}

func waitForImage(ctx context.Context, seq int, task *imagedata.Task) tea.Cmd {
	return func() tea.Msg {
		url, err := task.Wait(ctx)
		return imageDecodedMsg{seq: seq, url: url, err: err}
	}
}

// finishImage commits the pending operation once its photo is decoded. A failed decode
// aborts the operation and nothing is written.
func (m appModel) finishImage(msg imageDecodedMsg) (tea.Model, tea.Cmd) {
	if m.pending == nil || m.pending.seq != msg.seq {
		return m, nil
	}
	p := m.pending
	m.pending = nil
	if msg.err != nil {
		m.reportErr("read-photo", fmt.Errorf("read photo %s: %w", p.task.Path(), msg.err))
		return m, nil
	}
	m.flash = ""
	m.applyForm(p.values, msg.url)
	return m, nil
}

func (m *appModel) applyForm(v formValues, imageURL string) {
	var (
		e   model.Entry
		err error
	)
	switch v.Mode {
	case formAddMemory:
		e, err = mutate.AddMemory(m.ctx, m.store, mutate.MemoryDraft{Title: v.Title, Date: v.Date, Note: v.Note, Image: imageURL})
	case formAddMilestone:
		e, err = mutate.AddMilestone(m.ctx, m.store, mutate.MilestoneDraft{Title: v.Title, Date: v.Date})
	case formEdit:
		p := store.Patch{Title: &v.Title, Date: &v.Date}
		if v.Kind == model.EntryMemory {
			p.Note = &v.Note
			if imageURL != "" {
				p.Image = &imageURL
			}
		}
		e, err = mutate.Update(m.ctx, m.store, v.EntryID, p)
	}
	if err != nil {
		m.reportErr("save", err)
		return
	}
	m.afterMutation(e.ID)
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n", "q":
		m.closeModal()
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.doConfirm()
	case "enter":
		if m.confirm.focus == confirmFocusConfirm {
			return m.doConfirm()
		}
		m.closeModal()
		return m, nil
	}
	return m, nil
}

func (m appModel) doConfirm() (tea.Model, tea.Cmd) {
	c := m.confirm
	m.closeModal()
	switch c.kind {
	case confirmDelete:
		if err := mutate.Delete(m.ctx, m.store, c.entryID, mutate.Confirmed); err != nil {
			m.reportErr("delete", err)
			return m, nil
		}
		m.afterMutation("")
	case confirmRemoveImage:
		if _, err := mutate.RemoveImage(m.ctx, m.store, c.entryID, mutate.Confirmed); err != nil {
			m.reportErr("remove-image", err)
			return m, nil
		}
		m.afterMutation(c.entryID)
	}
	return m, nil
}

func (m appModel) View() string {
	header := m.viewHeader()
	footer := m.viewFooter()

	if m.modal != modalNone {
		var box string
		if m.modal == modalForm {
			box = m.form.View()
		} else {
			box = m.viewConfirm()
		}
		bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
		if bodyH < lipgloss.Height(box) {
			bodyH = lipgloss.Height(box)
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, box), footer)
	}

	detail := m.viewDetail()
	avail := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if detail != "" {
		avail -= lipgloss.Height(detail)
	}
	parts := []string{header, m.viewBody(avail)}
	if detail != "" {
		parts = append(parts, detail)
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

func (m appModel) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Timeline")
	meta := fmt.Sprintf("%d entries", m.store.Len())
	if m.store.Pinned() {
		meta += " · manual order"
	}
	if i, ok := m.moves.Active(); ok {
		if e, ok := m.store.At(i); ok {
			meta += " · moving " + e.Title
		}
	}
	line := title + "  " + styleMuted().Render(meta)
	if m.dir != "" {
		line += "  " + styleMuted().Render(m.dir)
	}
	return ansi.Truncate(line, m.width, "…")
}

func (m appModel) viewBody(avail int) string {
	if avail < 1 {
		avail = 1
	}
	tl := m.timeline()
	if len(tl.Nodes) == 0 {
		empty := styleMuted().Render("No entries yet. Press a to add a memory, M to add a milestone.")
		return lipgloss.Place(m.width, avail, lipgloss.Center, lipgloss.Center, empty)
	}

	blocks := renderRows(tl, m.width, m.cursor)
	var lines []string
	cursorLine := 0
	for i, b := range blocks {
		if i == m.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, strings.Split(b, "\n")...)
	}

	top := cursorLine - avail/3
	if top > len(lines)-avail {
		top = len(lines) - avail
	}
	if top < 0 {
		top = 0
	}
	end := top + avail
	if end > len(lines) {
		end = len(lines)
	}
	out := lines[top:end]
	for len(out) < avail {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (m appModel) viewDetail() string {
	n, ok := m.currentNode()
	if !ok || strings.TrimSpace(n.Note) == "" || m.height < 16 {
		return ""
	}
	maxH := m.height / 4
	w := m.width - 4
	note := n.Note
	if m.plainNotes {
		note = lipgloss.NewStyle().Width(w).Render(strings.TrimSpace(note))
	} else {
		note = renderMarkdown(note, w)
	}
	lines := strings.Split(note, "\n")
	if len(lines) > maxH {
		lines = append(lines[:maxH-1], styleMuted().Render("…"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(colorCardBorder).
		Render(strings.Join(lines, "\n"))
}

func (m appModel) viewFooter() string {
	if m.flash != "" {
		st := lipgloss.NewStyle().Padding(0, 1)
		if m.flashErr {
			st = st.Foreground(colorSurfaceBg).Background(colorFlashErrorBg)
		} else {
			st = st.Foreground(colorAccent)
		}
		return ansi.Truncate(st.Render(m.flash), m.width, "…")
	}
	help := "a: memory  M: milestone  e: edit  d: delete  x: remove photo  s: swap side  m: move  r: reload  q: quit"
	if _, ok := m.moves.Active(); ok {
		help = "↑/↓: pick a spot  enter: move here  m: deselect  esc: cancel"
	}
	return ansi.Truncate(styleMuted().Render(help), m.width, "…")
}

func (m appModel) viewConfirm() string {
	prompt := mutate.DeletePrompt
	title := "Delete entry"
	confirmLabel := "Delete"
	if m.confirm.kind == confirmRemoveImage {
		prompt = mutate.RemoveImagePrompt
		title = "Remove photo"
		confirmLabel = "Remove"
	}
	body := prompt
	if e, ok := m.store.Find(m.confirm.entryID); ok {
		body = prompt + "\n\n" + lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(e.Title, modalBodyWidth(m.width), "…"))
	}
	return renderConfirmModal(m.width, title, body, confirmLabel, "Cancel", m.confirm.focus)
}
