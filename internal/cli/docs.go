package cli

import (
	"fmt"
	"strings"

	"timeline-cli/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// docTopic prints as rendered markdown with --format text.
type docTopic struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
}

func (d docTopic) RenderText() string {
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("notty"), glamour.WithWordWrap(80))
	if err != nil {
		return d.Markdown
	}
	out, err := r.Render(d.Markdown)
	if err != nil {
		return d.Markdown
	}
	return out
}

type docIndex struct {
	Topics []docs.Topic `json:"topics"`
}

func (d docIndex) RenderText() string {
	var b strings.Builder
	for _, t := range d.Topics {
		fmt.Fprintf(&b, "%-10s %s\n", t.Name, t.Title)
	}
	return b.String()
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, docIndex{Topics: docs.Topics()})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `timeline docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, docTopic{Topic: strings.ToLower(topic), Markdown: body})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")

	return cmd
}
