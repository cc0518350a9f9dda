package tui

import (
	"os"
	"strings"

	"todo-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette helpers. Colors are adaptive so the list stays readable whichever
// theme is stored; applyTheme decides which variant lipgloss picks.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted        = ac("240", "243")
	colorAccent       = ac("27", "62")
	colorSelectedBg   = ac("#e9e9e9", "#262626")
	colorSelectedFg   = ac("235", "255")
	colorCompletedFg  = ac("249", "240")
	colorDropTargetFg = ac("27", "75")
	colorErrorFg      = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	}
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
}

func styleCompleted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorCompletedFg).Strikethrough(true)
}

func styleDragging() lipgloss.Style {
	return lipgloss.NewStyle().Faint(true).Italic(true)
}

func styleDropTarget() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorDropTargetFg).Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg)
}

func styleActiveFilter() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
}

// applyTheme points lipgloss's adaptive colors at the stored theme.
// TODO_TUI_THEME=light|dark overrides the stored value for one session.
func applyTheme(t model.Theme) {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("TODO_TUI_THEME"))); v != "" {
		if parsed, err := model.ParseTheme(v); err == nil {
			t = parsed
		}
	}
	lipgloss.SetHasDarkBackground(t == model.ThemeDark)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable colors
// in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports.
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
