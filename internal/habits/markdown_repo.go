package habits

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"planner-cli/internal/fsutil"
	"planner-cli/internal/markdown"
	"planner-cli/internal/model"
)

const DefaultWeeklyNameFormat = "YYYY-[W]WW"

// NoteCommitter records weekly note writes in version control.
type NoteCommitter interface {
	CheckWritable(dir string) error
	CommitNote(ctx context.Context, path, message string) (bool, error)
}

// MarkdownRepository keeps each week in a weekly note under Dir. Only the
// Habits section of a note is ever rewritten.
type MarkdownRepository struct {
	Dir        string
	NameFormat string

	// Git, when set, gates writes and commits each written note.
	Git NoteCommitter
}

func NewMarkdownRepository(dir, nameFormat string) *MarkdownRepository {
	if strings.TrimSpace(nameFormat) == "" {
		nameFormat = DefaultWeeklyNameFormat
	}
	return &MarkdownRepository{Dir: dir, NameFormat: nameFormat}
}

// Path is the weekly note file for wk.
func (r *MarkdownRepository) Path(wk model.Week) string {
	return filepath.Join(r.Dir, FormatWeekName(r.NameFormat, wk)+".md")
}

func (r *MarkdownRepository) RawNote(ctx context.Context, wk model.Week) ([]byte, error) {
	b, err := os.ReadFile(r.Path(wk))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrWeekNotFound
	}
	return b, err
}

// Load reads the tasks of the note's Habits section; file order becomes
// Order. A repeated task name keeps its first occurrence.
func (r *MarkdownRepository) Load(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error) {
	b, err := r.RawNote(ctx, wk)
	if err != nil {
		return nil, err
	}
	wh := model.NewWeeklyHabits(wk)
	for i, t := range markdown.Parse(b).Tasks() {
		if wh.Has(t.Text) {
			continue
		}
		wh.Habits[t.Text] = &model.Habit{Name: t.Text, Completed: t.Checked, Order: i}
	}
	return wh, nil
}

func (r *MarkdownRepository) Save(ctx context.Context, wh *model.WeeklyHabits) error {
	wk := wh.Week()
	path := r.Path(wk)
	if r.Git != nil {
		if err := r.Git.CheckWritable(r.Dir); err != nil {
			return err
		}
	}

	var out []byte
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		out = markdown.Parse(existing).WithHabits(wk.Title(), tasks(wh))
	case errors.Is(err, os.ErrNotExist):
		out = markdown.NewNote(wk.Title(), tasks(wh))
	default:
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fsutil.AtomicWriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if r.Git != nil {
		if _, err := r.Git.CommitNote(ctx, path, "planner: habits "+wk.Key()); err != nil {
			return fmt.Errorf("commit %s: %w", path, err)
		}
	}
	return nil
}

// FormatWeekName renders a weekly note name. Supported tokens: YYYY and GGGG
// (ISO year), WW (zero-padded week), W (week); text in [brackets] is literal.
func FormatWeekName(format string, wk model.Week) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		rest := format[i:]
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				b.WriteString(rest[1:])
				return b.String()
			}
			b.WriteString(rest[1:end])
			i += end + 1
		case strings.HasPrefix(rest, "YYYY"), strings.HasPrefix(rest, "GGGG"):
			fmt.Fprintf(&b, "%04d", wk.Year)
			i += 4
		case strings.HasPrefix(rest, "WW"):
			fmt.Fprintf(&b, "%02d", wk.Number)
			i += 2
		case rest[0] == 'W':
			fmt.Fprintf(&b, "%d", wk.Number)
			i++
		default:
			b.WriteByte(rest[0])
			i++
		}
	}
	return b.String()
}
