package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"timeline-cli/internal/imagedata"
	"timeline-cli/internal/model"
	"timeline-cli/internal/mutate"
	"timeline-cli/internal/reorder"
	"timeline-cli/internal/store"
	"timeline-cli/internal/tui"
	"timeline-cli/internal/view"

	"github.com/spf13/cobra"
)

// entryOut is an entry as printed by the CLI. JSON output is the stored shape.
type entryOut struct {
	model.Entry
}

func (e entryOut) RenderText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", e.ID, e.Type, view.FormatDate(e.Date))
	fmt.Fprintf(&b, "title: %s\n", e.Title)
	if e.IsMemory() {
		fmt.Fprintf(&b, "side:  %s\n", e.EffectiveSide())
		if e.Image != "" {
			fmt.Fprintf(&b, "image: %s (%d bytes)\n", imagedata.MIMEType(e.Image), imagedata.Size(e.Image))
		} else {
			fmt.Fprintf(&b, "image: %s\n", view.NoPhotoLabel)
		}
		if strings.TrimSpace(e.Note) != "" {
			b.WriteString("\n")
			b.WriteString(e.Note)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func newListCmd(app *App) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the timeline in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			tl := view.Build(s.Store.Entries(), reorder.Idle{})
			return writeOut(cmd, app, tui.StaticTimeline{Timeline: tl, Width: width})
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Render width for --format text")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show one entry (id or unique id prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, err := resolveEntry(s.Store, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryOut{e})
		},
	}
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a memory or milestone",
	}
	cmd.AddCommand(newAddMemoryCmd(app))
	cmd.AddCommand(newAddMilestoneCmd(app))
	return cmd
}

func newAddMemoryCmd(app *App) *cobra.Command {
	var title, date, note, image string
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Add a memory (left side; re-sorts by date)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			d := mutate.MemoryDraft{Title: title, Date: date, Note: note}
			if strings.TrimSpace(image) != "" {
				url, err := imagedata.Decode(cmd.Context(), image)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.Image = url
			}
			e, err := mutate.AddMemory(cmd.Context(), s.Store, d)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryOut{e})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (default: Memory)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note (markdown)")
	cmd.Flags().StringVar(&image, "image", "", "Path to an image file to embed")
	return cmd
}

func newAddMilestoneCmd(app *App) *cobra.Command {
	var title, date string
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Add a milestone (re-sorts by date)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, err := mutate.AddMilestone(cmd.Context(), s.Store, mutate.MilestoneDraft{Title: title, Date: date})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryOut{e})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (default: Milestone)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var title, date, note, image string
	var clearImage bool
	cmd := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Edit an entry's fields (re-sorts by date)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, err := resolveEntry(s.Store, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var p store.Patch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("date") {
				p.Date = &date
			}
			if cmd.Flags().Changed("note") {
				p.Note = &note
			}
			if clearImage {
				p.ClearImage = true
			} else if cmd.Flags().Changed("image") {
				url, err := imagedata.Decode(cmd.Context(), image)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.Image = &url
			}
			if e.IsMilestone() && (p.Note != nil || p.Image != nil || p.ClearImage) {
				s.Log.Warn("note/image ignored for milestone", "id", e.ID)
			}

			updated, err := mutate.Update(cmd.Context(), s.Store, e.ID, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryOut{updated})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD; empty clears)")
	cmd.Flags().StringVar(&note, "note", "", "New note (memories only)")
	cmd.Flags().StringVar(&image, "image", "", "Replace the image with this file (memories only)")
	cmd.Flags().BoolVar(&clearImage, "clear-image", false, "Drop the image without asking (memories only)")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, err := resolveEntry(s.Store, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			err = mutate.Delete(cmd.Context(), s.Store, e.ID, confirmer(cmd, app))
			if errors.Is(err, mutate.ErrDeclined) {
				return writeOut(cmd, app, map[string]any{"id": e.ID, "deleted": false})
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"id": e.ID, "deleted": true})
		},
	}
	return cmd
}

func newRemoveImageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-image <entry-id>",
		Short: "Remove a memory's photo (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, err := resolveEntry(s.Store, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			updated, err := mutate.RemoveImage(cmd.Context(), s.Store, e.ID, confirmer(cmd, app))
			// Declining leaves the photo in place; report the unchanged entry.
			if err != nil && !errors.Is(err, mutate.ErrDeclined) {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryOut{updated})
		},
	}
	return cmd
}

func newSwapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <entry-id>",
		Short: "Move a memory to the other side of the line (pins the current order)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, err := resolveEntry(s.Store, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			updated, err := mutate.SwapSide(cmd.Context(), s.Store, e.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryOut{updated})
		},
	}
	return cmd
}

// confirmer asks on stdin unless --yes was given.
func confirmer(cmd *cobra.Command, app *App) mutate.Confirmer {
	if app.Yes {
		return mutate.Confirmed
	}
	return promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func promptConfirmer(in io.Reader, out io.Writer) mutate.Confirmer {
	r := bufio.NewReader(in)
	return mutate.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, _ := r.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
