package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"timeline-cli/internal/format"
	"timeline-cli/internal/logging"
	"timeline-cli/internal/store"
	"timeline-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	Backend    string
	PrettyJSON bool
	Format     string
	LogLevel   string
	Yes        bool

	cfg *store.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "timeline",
		Short:        "Timeline of memories and milestones (local-first CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  timeline

  # Scriptable commands
  timeline add memory --title "First flat" --date 2021-06-01 --image ./flat.jpg
  timeline add milestone --title "Moved to Oslo" --date 2021-05-20
  timeline list --format text
  timeline move 3 0
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		app.applyConfigDefaults()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TIMELINE_DIR", ""), "Path to the data dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("TIMELINE_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("TIMELINE_BACKEND", ""), "Storage backend (auto|sqlite|file)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TIMELINE_FORMAT", ""), "Output format (json|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TIMELINE_LOG_LEVEL", ""), "Log level (debug|info|warn|error); debug also logs to stderr")
	cmd.PersistentFlags().BoolVarP(&app.Yes, "yes", "y", false, "Answer yes to confirmation prompts")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newRemoveImageCmd(app))
	cmd.AddCommand(newSwapCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// applyConfigDefaults fills settings left empty by flags and env from config.yaml.
func (app *App) applyConfigDefaults() {
	cfg := app.cfg
	if cfg == nil {
		cfg = &store.Config{}
	}
	if app.Dir == "" {
		app.Dir = strings.TrimSpace(cfg.DataDir)
	}
	if app.Backend == "" {
		app.Backend = cfg.Backend
	}
	if app.Backend == "" {
		app.Backend = store.BackendAuto
	}
	if app.Format == "" {
		app.Format = cfg.Format
	}
	if app.Format == "" {
		app.Format = "json"
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}
}

// resolveDir picks the data dir: --dir/TIMELINE_DIR, config data_dir, then the workspace.
func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	// Workspace-first:
	// 1) --workspace
	// 2) config.yaml current_workspace
	// 3) default workspace ("default")
	name := app.Workspace
	if name == "" && app.cfg != nil {
		name = app.cfg.CurrentWorkspace
	}
	if name == "" {
		name = store.DefaultWorkspace
	}
	dir, err := store.WorkspaceDir(name)
	if err != nil {
		return "", err
	}
	app.Workspace = name
	app.Dir = dir
	return dir, nil
}

type session struct {
	Store   *store.Store
	Log     *slog.Logger
	Dir     string
	Backend string

	closers []func() error
}

func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openSession resolves the data dir, opens the backend and logger, and loads the timeline.
// A nil stderr keeps logs out of the terminal (TUI mode).
func openSession(ctx context.Context, app *App, stderr io.Writer) (*session, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	logFile := filepath.Join(dir, "timeline.log")
	if app.cfg != nil && strings.TrimSpace(app.cfg.LogFile) != "" {
		logFile = app.cfg.LogFile
	}
	lopts := logging.Options{Level: app.LogLevel, File: logFile}
	if stderr != nil && strings.EqualFold(strings.TrimSpace(app.LogLevel), "debug") {
		lopts.Stderr = stderr
	}
	log, closeLog, err := logging.New(lopts)
	if err != nil {
		return nil, err
	}
	s := &session{Log: log, Dir: dir, closers: []func() error{closeLog}}

	kind := strings.ToLower(strings.TrimSpace(app.Backend))
	if kind == "" || kind == store.BackendAuto {
		kind = store.DetectBackend(dir)
	}
	b, err := store.OpenBackend(ctx, dir, kind)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.closers = append(s.closers, b.Close)
	s.Backend = kind

	s.Store = store.New(b, log.With("dir", dir, "backend", kind))
	if err := s.Store.Load(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openSession(cmd.Context(), app, nil)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	opts := tui.Options{Store: s.Store, Dir: s.Dir, Log: s.Log}
	if app.cfg != nil && app.cfg.TUI != nil {
		opts.Theme = app.cfg.TUI.Theme
		if app.cfg.TUI.RenderNotes != nil {
			opts.PlainNotes = !*app.cfg.TUI.RenderNotes
		}
	}
	return tui.Run(cmd.Context(), opts)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes data inside the {"data": ...} envelope, or as text when requested and
// supported by the value.
func writeOut(cmd *cobra.Command, app *App, data any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		if tr, ok := data.(format.TextRenderer); ok {
			return format.WriteText(cmd.OutOrStdout(), tr)
		}
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": data}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
