package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestMarkdownStyle_FollowsBackground(t *testing.T) {
	prev := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prev) })

	lipgloss.SetHasDarkBackground(false)
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	lipgloss.SetHasDarkBackground(true)
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestRenderMarkdown_KeepsText(t *testing.T) {
	out := renderMarkdown("We found a **tiny** café.", 40)
	if !strings.Contains(out, "tiny") || !strings.Contains(out, "café") {
		t.Fatalf("expected note text in output: %q", out)
	}
	if renderMarkdown("   ", 40) != "" {
		t.Fatalf("blank note should render empty")
	}
}

func TestApplyThemePreference_EnvWinsOverConfig(t *testing.T) {
	prev := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prev) })

	t.Setenv("COLORFGBG", "")
	t.Setenv("TIMELINE_TUI_THEME", "dark")
	applyThemePreference("light")
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("expected env theme to win")
	}

	t.Setenv("TIMELINE_TUI_THEME", "")
	applyThemePreference("light")
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected config theme light")
	}
}
