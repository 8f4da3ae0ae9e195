package tui

import (
	"context"
	"log/slog"

	"timeline-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Store *store.Store
	// Dir is shown in the header.
	Dir string
	Log *slog.Logger
	// Theme is light|dark|auto (config.yaml tui.theme).
	Theme string
	// PlainNotes shows notes as raw text instead of rendered markdown.
	PlainNotes bool
}

func Run(ctx context.Context, opts Options) error {
	applyThemePreference(opts.Theme)
	applyColorProfilePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
