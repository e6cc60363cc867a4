package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// queries, so renderers use a fixed style and are built once.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders the weekly note for the preview pane. On any
// renderer error the raw markdown is returned.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero

	// Headings and body follow the view's text color instead of the
	// style's bright palette.
	fg := mdColor(colorSurfaceFg, styleName)
	cfg.Text.Color = fg
	cfg.H1.Color = fg
	cfg.H2.Color = fg
	cfg.H1.BackgroundColor = nil
	return cfg
}

// markdownStyle follows the view's theme so the preview never uses a dark
// palette on a light terminal.
func markdownStyle() string {
	for _, v := range []string{os.Getenv("PLANNER_TUI_MD_STYLE"), os.Getenv("PLANNER_TUI_THEME")} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			return "light"
		case "dark":
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	s := c.Dark
	if styleName == "light" {
		s = c.Light
	}
	return &s
}
