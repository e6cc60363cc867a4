package habitlist

import (
	"sort"

	"planner-cli/internal/model"
)

// Order returns the habits of wk sorted by (Completed, Order) ascending:
// every incomplete habit precedes every completed one. Positions in the
// result are the index space used by Drag and Reorder.
//
// Habits with equal completion and order are sorted by name, because map
// iteration order is random and the result must be deterministic.
//
// The result holds copies; wk is never modified.
func Order(wk *model.WeeklyHabits) []model.Habit {
	if wk == nil {
		return nil
	}
	out := make([]model.Habit, 0, len(wk.Habits))
	for name, h := range wk.Habits {
		if h == nil {
			continue
		}
		hh := *h
		if hh.Name == "" {
			hh.Name = name
		}
		out = append(out, hh)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
	return out
}

// Row is a habit in one of the two visual sublists, with its position in the
// combined ordered sequence.
type Row struct {
	Index int
	Habit model.Habit
}

// Split partitions an ordered sequence into its incomplete and completed
// rows. Row.Index still refers to seq.
func Split(seq []model.Habit) (incomplete, completed []Row) {
	for i, h := range seq {
		r := Row{Index: i, Habit: h}
		if h.Completed {
			completed = append(completed, r)
		} else {
			incomplete = append(incomplete, r)
		}
	}
	return incomplete, completed
}

func Names(seq []model.Habit) []string {
	out := make([]string, len(seq))
	for i, h := range seq {
		out[i] = h.Name
	}
	return out
}

// IndexOf returns the position of name in seq, or -1.
func IndexOf(seq []model.Habit, name string) int {
	for i, h := range seq {
		if h.Name == name {
			return i
		}
	}
	return -1
}
