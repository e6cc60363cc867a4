package tui

import (
	"strconv"
	"strings"

	"planner-cli/internal/habitlist"
	"planner-cli/internal/model"

	"github.com/charmbracelet/x/ansi"
)

const (
	pillGap     = 1
	minNameCols = 8
	addLabel    = "Add habit"
	retryLabel  = "[ Retry ]"
)

// layoutInput is everything the habit area needs to be drawn. It is a plain
// value so rendering and mouse hit-testing share one computation.
type layoutInput struct {
	width int
	week  model.Week

	seq    []model.Habit
	cursor int
	drag   habitlist.DragState

	editing  string // original name of the pill being renamed
	editView string
	adding   bool
	addView  string

	loading  bool
	loadErr  string
	disabled bool
}

// hitBox is the screen area of one pill. x1 is exclusive; clicks before
// check land on the checkbox.
type hitBox struct {
	index  int
	y      int
	x0, x1 int
	check  int
}

func (h hitBox) contains(x, y int) bool {
	return y == h.y && x >= h.x0 && x < h.x1
}

type span struct {
	y      int
	x0, x1 int
}

func (s span) contains(x, y int) bool {
	return s.y >= 0 && y == s.y && x >= s.x0 && x < s.x1
}

type layout struct {
	lines []string
	pills []hitBox

	add   span // "+ Add habit" row or the add input
	retry span

	// Rows holding pills, [listTop, listBottom). Leaving them cancels a drag.
	listTop, listBottom int
}

func (l layout) pillAt(x, y int) (hitBox, bool) {
	for _, h := range l.pills {
		if h.contains(x, y) {
			return h, true
		}
	}
	return hitBox{}, false
}

// inList reports whether row y holds pills.
func (l layout) inList(y int) bool {
	return y >= l.listTop && y < l.listBottom
}

func computeLayout(in layoutInput) layout {
	width := in.width
	if width <= 0 {
		width = 80
	}
	lay := layout{add: span{y: -1}, retry: span{y: -1}, listTop: -1, listBottom: -1}

	title := styleTitle().Render(in.week.Title()) + styleMuted().Render(" · "+strconv.Itoa(in.week.Year))
	if in.loading {
		title += styleMuted().Render("  loading" + glyphEllipsis())
	}
	lay.lines = append(lay.lines, title, "")

	switch {
	case in.disabled:
		lay.lines = append(lay.lines, styleMuted().Render("The habit tracker is turned off in the weekly view settings."))
		return lay
	case in.loadErr != "":
		lay.lines = append(lay.lines, styleError().Render(in.loadErr), "")
		lay.retry = span{y: len(lay.lines), x0: 0, x1: ansi.StringWidth(retryLabel)}
		lay.lines = append(lay.lines, stylePill(pillSelected, false).UnsetPadding().Render(retryLabel))
		return lay
	case in.seq == nil:
		lay.lines = append(lay.lines, styleMuted().Render("Loading habits"+glyphEllipsis()))
		return lay
	}

	incomplete, completed := habitlist.Split(in.seq)
	lay.listTop = len(lay.lines)
	lay.flow(in, incomplete, width)
	if len(incomplete) > 0 && len(completed) > 0 {
		lay.lines = append(lay.lines, styleMuted().Render(strings.Repeat(glyphHRule(), min(width, 40))))
	}
	lay.flow(in, completed, width)
	lay.listBottom = len(lay.lines)
	if len(in.seq) == 0 {
		lay.lines = append(lay.lines, styleMuted().Render("No habits yet."))
	}

	lay.lines = append(lay.lines, "")
	lay.add.y = len(lay.lines)
	if in.adding {
		lay.add.x1 = width
		lay.lines = append(lay.lines, in.addView)
	} else {
		label := glyphAdd() + " " + addLabel
		lay.add.x1 = ansi.StringWidth(label)
		lay.lines = append(lay.lines, styleMuted().Render(label))
	}
	return lay
}

// flow lays rows out left to right, wrapping at width.
func (lay *layout) flow(in layoutInput, rows []habitlist.Row, width int) {
	if len(rows) == 0 {
		return
	}
	var line strings.Builder
	x := 0
	y := len(lay.lines)
	for _, r := range rows {
		text, check := pillText(in, r, width)
		w := ansi.StringWidth(text)
		if x > 0 && x+pillGap+w > width {
			lay.lines = append(lay.lines, line.String())
			line.Reset()
			x = 0
			y++
		}
		if x > 0 {
			line.WriteString(strings.Repeat(" ", pillGap))
			x += pillGap
		}
		lay.pills = append(lay.pills, hitBox{index: r.Index, y: y, x0: x, x1: x + w, check: x + check})
		line.WriteString(text)
		x += w
	}
	lay.lines = append(lay.lines, line.String())
}

// pillText renders one pill and returns it with the column where the
// checkbox ends, relative to the pill.
func pillText(in layoutInput, r habitlist.Row, width int) (string, int) {
	h := r.Habit
	box := glyphCheckbox(h.Completed)
	check := 1 + ansi.StringWidth(box)

	if in.editing != "" && h.Name == in.editing {
		return stylePill(pillEditing, false).Render(box + " " + in.editView), check
	}

	st := pillNormal
	switch {
	case in.drag.Phase == habitlist.PhaseDragOver && r.Index == in.drag.Target && r.Index != in.drag.Source:
		st = pillDropTarget
	case in.drag.Phase != habitlist.PhaseIdle && r.Index == in.drag.Source:
		st = pillDragSource
	case r.Index == in.cursor:
		st = pillSelected
	}

	maxName := width - check - 3
	if maxName < minNameCols {
		maxName = minNameCols
	}
	name := ansi.Truncate(h.Name, maxName, glyphEllipsis())
	return stylePill(st, h.Completed).Render(box + " " + name), check
}
