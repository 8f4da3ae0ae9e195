package tui

import (
	"fmt"
	"strings"

	"timeline-cli/internal/model"
	"timeline-cli/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	railWidth    = 3
	minRowsWidth = 40
)

// StaticTimeline renders a timeline without any interaction state, e.g. for `list --format text`.
// It marshals to JSON as the plain view model.
type StaticTimeline struct {
	view.Timeline
	Width int `json:"-"`
}

func (s StaticTimeline) RenderText() string {
	if len(s.Nodes) == 0 {
		return styleMuted().Render("No entries yet.")
	}
	return strings.Join(renderRows(s.Timeline, s.Width, -1), "\n")
}

// renderRows renders one block per row of tl.Rows(). cursor is the highlighted row, or -1.
func renderRows(tl view.Timeline, width int, cursor int) []string {
	if width <= 0 {
		width = 80
	}
	if width < minRowsWidth {
		width = minRowsWidth
	}
	rows := tl.Rows()
	out := make([]string, 0, len(rows))
	for i, r := range rows {
		selected := i == cursor
		switch {
		case r.Marker != nil:
			out = append(out, renderMarker(*r.Marker, width, selected))
		case r.Node.Type == model.EntryMilestone:
			out = append(out, renderMilestone(*r.Node, width, selected))
		default:
			out = append(out, renderMemory(*r.Node, width, selected))
		}
	}
	return out
}

func columnWidth(width int) int {
	return (width - railWidth) / 2
}

func cardBorderColor(n view.Node, selected bool) lipgloss.TerminalColor {
	switch {
	case n.Moving:
		return colorMoving
	case selected:
		return colorSelectedBorder
	default:
		return colorCardBorder
	}
}

func renderMemory(n view.Node, width int, selected bool) string {
	colW := columnWidth(width)
	// Card = border (2) + padding (2) + text.
	textW := colW - 5
	if textW < 4 {
		textW = 4
	}

	date := lipgloss.NewStyle().Foreground(colorAccent).Render(ansi.Truncate(n.DisplayDate, textW, "…"))
	title := lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(n.Title, textW, "…"))
	photo := n.ImageLabel
	if n.HasImage {
		photo = "▣ " + photo
	}
	lines := []string{date, title, lipgloss.NewStyle().Foreground(colorCardMetaFg).Render(ansi.Truncate(photo, textW, "…"))}
	if n.Moving {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorMoving).Render("moving…"))
	}

	border := lipgloss.RoundedBorder()
	if n.Moving {
		border = lipgloss.DoubleBorder()
	} else if selected {
		border = lipgloss.ThickBorder()
	}
	card := lipgloss.NewStyle().
		Border(border).
		BorderForeground(cardBorderColor(n, selected)).
		Padding(0, 1).
		Width(colW - 3).
		Render(strings.Join(lines, "\n"))

	h := lipgloss.Height(card)
	blank := lipgloss.NewStyle().Width(colW).Height(h).Render("")
	rail := renderRail(h, n.Moving)
	if n.Side == model.SideRight {
		return lipgloss.JoinHorizontal(lipgloss.Top, blank, rail, lipgloss.NewStyle().Width(colW).PaddingLeft(1).Render(card))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(colW).Align(lipgloss.Right).PaddingRight(1).Render(card), rail, blank)
}

// renderRail draws the center line next to a card, with the node dot on the title row.
func renderRail(h int, moving bool) string {
	dot := "●"
	if moving {
		dot = "◎"
	}
	lines := make([]string, h)
	for i := range lines {
		lines[i] = " │ "
	}
	if h > 1 {
		lines[1] = " " + dot + " "
	}
	return lipgloss.NewStyle().Foreground(colorAccent).Render(strings.Join(lines, "\n"))
}

func renderMilestone(n view.Node, width int, selected bool) string {
	maxText := width - 10
	label := "◆ " + ansi.Truncate(n.Title, maxText, "…")
	date := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(n.DisplayDate)
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(colorMilestone).Render(label), date}
	if n.Moving {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorMoving).Render("moving…"))
	}

	border := lipgloss.RoundedBorder()
	if n.Moving {
		border = lipgloss.DoubleBorder()
	} else if selected {
		border = lipgloss.ThickBorder()
	}
	borderColor := colorMilestone
	if n.Moving || selected {
		borderColor = cardBorderColor(n, selected)
	}
	box := lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))

	rail := lipgloss.NewStyle().Foreground(colorAccent).Render("│")
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, rail),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, box),
	)
}

func renderMarker(mk view.Marker, width int, selected bool) string {
	label := fmt.Sprintf("┄┄ move here (%d) ┄┄", mk.Target)
	st := lipgloss.NewStyle().Foreground(colorMoving)
	if selected {
		label = "▶ " + label + " ◀"
		st = st.Bold(true).Background(colorSelectedBg)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, st.Render(label))
}
