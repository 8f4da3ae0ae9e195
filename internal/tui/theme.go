package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted          lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg  lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg     lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg     lipgloss.TerminalColor = ac("235", "255")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorSurfaceBg      lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg      lipgloss.TerminalColor = ac("235", "252")
	colorControlBg      lipgloss.TerminalColor = ac("252", "235")
	colorAccent         lipgloss.TerminalColor = ac("27", "62")
	colorCardMetaFg     lipgloss.TerminalColor = ac("238", "250")
	colorFlashErrorBg   lipgloss.TerminalColor = ac("196", "160")

	// Milestones and the moving entry stand out from ordinary memories.
	colorMilestone lipgloss.TerminalColor = ac("130", "214")
	colorMoving    lipgloss.TerminalColor = ac("127", "170")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful for
// non-interactive CLI output but can accidentally disable colors in a TUI. For the TUI,
// we only honor NO_COLOR and otherwise follow the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports, trust the env.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) TIMELINE_TUI_THEME=light|dark|auto
// 2) config.yaml tui.theme
// 3) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference(configured string) {
	if dark, ok := themeIsDark(os.Getenv("TIMELINE_TUI_THEME")); ok {
		lipgloss.SetHasDarkBackground(dark)
		return
	}
	if dark, ok := themeIsDark(configured); ok {
		lipgloss.SetHasDarkBackground(dark)
		return
	}
	// COLORFGBG is often "fg;bg" (sometimes more segments). Use last segment as bg.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

func themeIsDark(v string) (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "light":
		return false, true
	case "dark":
		return true, true
	default:
		return false, false
	}
}
