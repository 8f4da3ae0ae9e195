package cli

import (
	"timeline-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show config.yaml and the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			backend := app.Backend
			if backend == store.BackendAuto {
				backend = store.DetectBackend(dir)
			}
			return writeOut(cmd, app, map[string]any{
				"configPath": path,
				"config":     app.cfg,
				"effective": map[string]any{
					"dir":       dir,
					"workspace": app.Workspace,
					"backend":   backend,
					"format":    app.Format,
					"logLevel":  app.LogLevel,
				},
			})
		},
	})
	return cmd
}
