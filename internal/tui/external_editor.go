package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	path string
	err  error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// editNoteExternally suspends the TUI and opens the form's note in $VISUAL/$EDITOR.
func editNoteExternally(note string) (tea.Cmd, error) {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "timeline-note-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(note); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{path: path, err: err}
	}), nil
}

// applyExternalEditorResult copies the edited note back into the open form.
func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	defer func() { _ = os.Remove(msg.path) }()

	if msg.err != nil {
		m.setFlash("Editor failed: "+msg.err.Error(), true)
		return
	}
	b, err := os.ReadFile(msg.path)
	if err != nil {
		m.setFlash("Editor read failed: "+err.Error(), true)
		return
	}
	if m.modal != modalForm {
		return
	}
	before := m.form.note.Value()
	after := strings.TrimRight(string(b), "\n")
	m.form.note.SetValue(after)
	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		m.setFlash(fmt.Sprintf("No changes from %s", externalEditorName()), false)
		return
	}
	m.setFlash(fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName()), false)
}
