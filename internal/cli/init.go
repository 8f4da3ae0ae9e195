package cli

import (
	"timeline-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage (workspace-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			// Write the (possibly empty) sequence so the blob exists for other tools.
			if err := s.Store.Persist(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			// If we're in workspace mode but no current workspace is set, set it.
			if app.Workspace != "" && app.cfg != nil && app.cfg.CurrentWorkspace == "" {
				app.cfg.CurrentWorkspace = app.Workspace
				_ = store.SaveConfig(app.cfg)
			}

			return writeOut(cmd, app, map[string]any{
				"dir":     s.Dir,
				"backend": s.Backend,
				"entries": s.Store.Len(),
			})
		},
	}
	return cmd
}
