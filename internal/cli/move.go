package cli

import (
	"timeline-cli/internal/reorder"
	"timeline-cli/internal/tui"
	"timeline-cli/internal/view"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the entry at index <from> to insertion point <to> (pins the order)",
		Long: `Indices are the 0-based positions printed by "timeline list".

<to> is an insertion point counted before the entry is taken out: "move 3 0" puts entry 3
first, "move 0 4" puts entry 0 after entry 3. Out-of-range targets are clamped.
The resulting order is kept as-is until the next add, edit, delete or photo removal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex("from", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := parseIndex("to", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			moves := reorder.New(s.Store)
			moves.Select(from)
			if err := moves.Commit(cmd.Context(), to); err != nil {
				return writeErr(cmd, err)
			}

			tl := view.Build(s.Store.Entries(), moves.State())
			return writeOut(cmd, app, tui.StaticTimeline{Timeline: tl, Width: 80})
		},
	}
	return cmd
}
