package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render box-drawing and check glyphs poorly, so every affordance
// has an ASCII fallback.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set from PLANNER_TUI_GLYPHS, falling
// back to pref (the tui.glyphs config value). Unknown values are ignored.
func applyGlyphPreference(pref string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PLANNER_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(pref))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphCheckbox(done bool) string {
	if glyphs() == glyphSetASCII {
		if done {
			return "[x]"
		}
		return "[ ]"
	}
	if done {
		return "●"
	}
	return "○"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphAdd() string { return "+" }

func glyphDropMarker() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphEllipsis() string {
	if glyphs() == glyphSetASCII {
		return "..."
	}
	return "…"
}
