package tui

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The view must stay readable on both light and dark terminals: colors are
// lipgloss.AdaptiveColor and "faint" is only applied on dark backgrounds.

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
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")

	// Pills.
	colorPillBg     = ac("252", "236")
	colorPillFg     = ac("235", "252")
	colorPillDoneFg = ac("244", "245")
	colorSelectedBg = ac("#e9e9e9", "#3a3a3a")
	colorSelectedFg = ac("232", "255")

	// Drag feedback: the dragged pill is dimmed, the drop target uses the accent.
	colorAccent   = ac("27", "62")
	colorAccentFg = ac("255", "235")

	colorError   = ac("160", "203")
	colorInputBg = ac("254", "234")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// pillState selects how a pill is drawn.
type pillState int

const (
	pillNormal pillState = iota
	pillSelected
	pillDragSource
	pillDropTarget
	pillEditing
)

func stylePill(st pillState, done bool) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Background(colorPillBg).Foreground(colorPillFg)
	if done {
		base = base.Foreground(colorPillDoneFg).Strikethrough(true)
	}
	switch st {
	case pillSelected:
		return base.Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	case pillDragSource:
		return faintIfDark(base.Italic(true))
	case pillDropTarget:
		return base.Background(colorAccent).Foreground(colorAccentFg).Bold(true)
	case pillEditing:
		return base.Background(colorInputBg).Strikethrough(false)
	default:
		return base
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which is right for piped CLI output
// but can switch colors off inside the alt screen; only NO_COLOR is honored here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector found
	// (Terminal.app under-reports).
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) PLANNER_TUI_THEME=light|dark|auto
// 2) pref (the tui.theme config value)
// 3) COLORFGBG ("fg;bg")
// 4) macOS appearance
func applyThemePreference(pref string) {
	for _, v := range []string{os.Getenv("PLANNER_TUI_THEME"), pref} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
			return
		}
	}

	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			lipgloss.SetHasDarkBackground(dark)
		}
	}
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// Prints "Dark" in dark mode; exits 1 in light mode (key missing).
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
