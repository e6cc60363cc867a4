// Package markdown reads and rewrites the habits section of weekly notes.
//
// A weekly note is an ordinary markdown file. The habits live as a task list
// under a heading titled "Habits" (any level, case-insensitive):
//
//	# Week 05
//
//	## Habits
//
//	- [ ] Exercise
//	- [x] Read
//
// Rewriting only touches the habits section; everything else in the note is
// kept byte for byte.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const HabitsHeading = "Habits"

// Task is one checkbox line of the habits section.
type Task struct {
	Checked bool
	Text    string
}

type section struct {
	start int // offset of the heading line
	body  int // offset just past the heading, setext underline included
	end   int // offset of the next heading at the same or a higher level, or len(src)
	level int
}

// Note is a parsed weekly note.
type Note struct {
	src    []byte
	habits *section
	tasks  []Task
}

var (
	md = goldmark.New(goldmark.WithExtensions(extension.TaskList))

	checkboxPrefix = regexp.MustCompile(`^\[[ xX]\]\s*`)
)

// Parse never fails: any byte sequence is valid markdown.
func Parse(src []byte) *Note {
	n := &Note{src: src}
	doc := md.Parser().Parse(text.NewReader(src))

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch x := node.(type) {
		case *ast.Heading:
			start, ok := headingStart(x, src)
			if !ok {
				continue
			}
			if n.habits != nil && n.habits.end < 0 && x.Level <= n.habits.level {
				n.habits.end = start
			}
			if n.habits == nil && strings.EqualFold(headingText(x, src), HabitsHeading) {
				n.habits = &section{start: start, body: headingEnd(x, start, src), end: -1, level: x.Level}
			}
		case *ast.List:
			if n.habits == nil || n.habits.end >= 0 {
				continue
			}
			n.tasks = append(n.tasks, listTasks(x, src)...)
		}
	}
	if n.habits != nil && n.habits.end < 0 {
		n.habits.end = len(src)
	}
	return n
}

// HasHabitsSection reports whether the note contains a Habits heading.
func (n *Note) HasHabitsSection() bool { return n.habits != nil }

// Tasks returns the tasks of the habits section in file order.
func (n *Note) Tasks() []Task {
	return append([]Task(nil), n.tasks...)
}

// WithHabits returns the note source with the habits section replaced by tasks.
// If the note has no habits section one is appended; an empty note gets a
// "# <weekTitle>" heading first.
func (n *Note) WithHabits(weekTitle string, tasks []Task) []byte {
	var b bytes.Buffer

	if n.habits == nil {
		body := bytes.TrimRight(n.src, "\n \t")
		if len(bytes.TrimSpace(body)) == 0 {
			b.WriteString("# " + weekTitle + "\n")
		} else {
			b.Write(body)
			b.WriteString("\n")
		}
		b.WriteString("\n## " + HabitsHeading + "\n")
		writeTasks(&b, tasks)
		return b.Bytes()
	}

	body := min(n.habits.body, n.habits.end)
	b.Write(n.src[:body])
	if body == 0 || n.src[body-1] != '\n' {
		b.WriteString("\n")
	}
	writeTasks(&b, tasks)
	if tail := n.src[n.habits.end:]; len(tail) > 0 {
		b.WriteString("\n")
		b.Write(tail)
	}
	return b.Bytes()
}

// NewNote renders a fresh weekly note holding only the habits section.
func NewNote(weekTitle string, tasks []Task) []byte {
	return Parse(nil).WithHabits(weekTitle, tasks)
}

func writeTasks(b *bytes.Buffer, tasks []Task) {
	if len(tasks) == 0 {
		return
	}
	b.WriteString("\n")
	for _, t := range tasks {
		if t.Checked {
			b.WriteString("- [x] ")
		} else {
			b.WriteString("- [ ] ")
		}
		b.WriteString(strings.TrimSpace(t.Text))
		b.WriteString("\n")
	}
}

func listTasks(list *ast.List, src []byte) []Task {
	var out []Task
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}
		box := findCheckBox(li)
		if box == nil {
			continue
		}
		raw := itemText(li, src)
		if raw == "" {
			continue
		}
		out = append(out, Task{Checked: box.IsChecked, Text: raw})
	}
	return out
}

func findCheckBox(li *ast.ListItem) *extast.TaskCheckBox {
	var box *extast.TaskCheckBox
	_ = ast.Walk(li, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, nested := n.(*ast.List); nested {
			return ast.WalkSkipChildren, nil
		}
		if cb, ok := n.(*extast.TaskCheckBox); ok {
			box = cb
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return box
}

// itemText returns the raw markdown of the item's first block, minus the
// checkbox. Raw source (not rendered text) keeps inline formatting intact.
func itemText(li *ast.ListItem, src []byte) string {
	block := li.FirstChild()
	if block == nil {
		return ""
	}
	lines := block.Lines()
	var parts []string
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(src))))
	}
	raw := strings.Join(parts, " ")
	raw = checkboxPrefix.ReplaceAllString(raw, "")
	return strings.TrimSpace(raw)
}

func headingText(h *ast.Heading, src []byte) string {
	lines := h.Lines()
	var parts []string
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(src))))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func headingStart(h *ast.Heading, src []byte) (int, bool) {
	if h.Lines().Len() == 0 {
		return 0, false
	}
	off := h.Lines().At(0).Start
	if i := bytes.LastIndexByte(src[:off], '\n'); i >= 0 {
		return i + 1, true
	}
	return 0, true
}

// headingEnd returns the offset just past the heading's last source line. A
// setext heading also owns the underline that follows its text.
func headingEnd(h *ast.Heading, start int, src []byte) int {
	lines := h.Lines()
	end := lines.At(lines.Len() - 1).Stop
	if end <= 0 || src[end-1] != '\n' {
		end = nextLine(src, end)
	}
	if !isATXHeading(src[start:]) {
		end = nextLine(src, end)
	}
	return end
}

// nextLine returns the offset of the line after the one containing off.
func nextLine(src []byte, off int) int {
	if off >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(src)
}

func isATXHeading(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}
