package tui

import (
	"strings"

	"timeline-cli/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formMode int

const (
	formAddMemory formMode = iota
	formAddMilestone
	formEdit
)

type formField int

const (
	fieldTitle formField = iota
	fieldDate
	fieldNote
	fieldImage
)

// formValues is what a submitted form asks for. ImagePath is a file still to be decoded.
type formValues struct {
	Mode      formMode
	EntryID   string
	Kind      model.EntryType
	Title     string
	Date      string
	Note      string
	ImagePath string
}

type entryForm struct {
	mode    formMode
	entryID string
	kind    model.EntryType

	title textinput.Model
	date  textinput.Model
	note  textarea.Model
	image textinput.Model

	focus formField
	width int
}

func newEntryForm(mode formMode, e model.Entry, width int) entryForm {
	f := entryForm{mode: mode, entryID: e.ID, kind: e.Type, width: width}
	switch mode {
	case formAddMemory:
		f.kind = model.EntryMemory
	case formAddMilestone:
		f.kind = model.EntryMilestone
	}

	f.title = textinput.New()
	f.title.Prompt = ""
	f.title.Placeholder = model.DefaultTitle(f.kind)
	f.title.SetValue(e.Title)

	f.date = textinput.New()
	f.date.Prompt = ""
	f.date.Placeholder = "YYYY-MM-DD"
	f.date.CharLimit = 10
	f.date.SetValue(e.Date)

	f.note = textarea.New()
	f.note.ShowLineNumbers = false
	f.note.CharLimit = 0
	f.note.Placeholder = "Note (markdown)"
	f.note.SetValue(e.Note)

	f.image = textinput.New()
	f.image.Prompt = ""
	f.image.Placeholder = "path/to/photo.jpg"
	if mode == formEdit && e.Image != "" {
		f.image.Placeholder = "leave empty to keep the current photo"
	}

	f.resize(width)
	f.setFocus(fieldTitle)
	return f
}

func (f *entryForm) fields() []formField {
	if f.kind == model.EntryMilestone {
		return []formField{fieldTitle, fieldDate}
	}
	return []formField{fieldTitle, fieldDate, fieldNote, fieldImage}
}

func (f *entryForm) resize(width int) {
	f.width = width
	w := modalBodyWidth(width) - 8
	if w < 10 {
		w = 10
	}
	f.title.Width = w
	f.date.Width = w
	f.image.Width = w
	f.note.SetWidth(w)
	f.note.SetHeight(4)
}

func (f *entryForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.date.Blur()
	f.note.Blur()
	f.image.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldDate:
		return f.date.Focus()
	case fieldNote:
		return f.note.Focus()
	case fieldImage:
		return f.image.Focus()
	}
	return nil
}

// cycle moves focus by delta, wrapping around.
func (f *entryForm) cycle(delta int) tea.Cmd {
	fs := f.fields()
	cur := 0
	for i, x := range fs {
		if x == f.focus {
			cur = i
		}
	}
	next := (cur + delta + len(fs)) % len(fs)
	return f.setFocus(fs[next])
}

func (f entryForm) Update(msg tea.Msg) (entryForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldNote:
		f.note, cmd = f.note.Update(msg)
	case fieldImage:
		f.image, cmd = f.image.Update(msg)
	}
	return f, cmd
}

func (f entryForm) values() formValues {
	v := formValues{
		Mode:    f.mode,
		EntryID: f.entryID,
		Kind:    f.kind,
		Title:   strings.TrimSpace(f.title.Value()),
		Date:    strings.TrimSpace(f.date.Value()),
	}
	if f.kind == model.EntryMemory {
		v.Note = f.note.Value()
		v.ImagePath = strings.TrimSpace(f.image.Value())
	}
	return v
}

func (f entryForm) modalTitle() string {
	switch f.mode {
	case formAddMemory:
		return "Add memory"
	case formAddMilestone:
		return "Add milestone"
	default:
		if f.kind == model.EntryMilestone {
			return "Edit milestone"
		}
		return "Edit memory"
	}
}

func (f entryForm) View() string {
	label := func(field formField, s string) string {
		st := lipgloss.NewStyle().Width(7)
		if f.focus == field {
			return st.Bold(true).Foreground(colorAccent).Render(s)
		}
		return st.Foreground(colorChromeMutedFg).Render(s)
	}
	rows := []string{
		label(fieldTitle, "Title") + f.title.View(),
		label(fieldDate, "Date") + f.date.View(),
	}
	if f.kind == model.EntryMemory {
		rows = append(rows,
			lipgloss.JoinHorizontal(lipgloss.Top, label(fieldNote, "Note"), f.note.View()),
			label(fieldImage, "Photo")+f.image.View(),
		)
	}
	helpText := "tab: next field   enter/ctrl+s: save   esc: cancel"
	if f.kind == model.EntryMemory {
		helpText = "tab: next field   ctrl+e: note in $EDITOR   enter/ctrl+s: save   esc: cancel"
	}
	help := styleMuted().Width(modalBodyWidth(f.width)).Render(helpText)
	rows = append(rows, "", help)
	return renderModalBox(f.width, f.modalTitle(), strings.Join(rows, "\n"))
}
