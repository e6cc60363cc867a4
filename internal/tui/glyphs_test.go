package tui

import "testing"

func TestGlyphs_EnvOverridesConfig(t *testing.T) {
	t.Setenv("PLANNER_TUI_GLYPHS", "")
	setGlyphs(glyphSetUnicode)
	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}

	applyGlyphPreference("ascii")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected ascii glyphs from config; got %v", got)
	}
	if glyphCheckbox(true) != "[x]" || glyphCheckbox(false) != "[ ]" {
		t.Fatalf("unexpected ascii checkboxes %q %q", glyphCheckbox(true), glyphCheckbox(false))
	}

	t.Setenv("PLANNER_TUI_GLYPHS", "unicode")
	applyGlyphPreference("ascii")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected env to win over config; got %v", got)
	}

	// Unknown values are ignored (keep current).
	setGlyphs(glyphSetASCII)
	t.Setenv("PLANNER_TUI_GLYPHS", "bogus")
	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}
	setGlyphs(glyphSetUnicode)
}
