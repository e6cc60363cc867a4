package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitExists      = errors.New("habit already exists")
	ErrHabitNameEmpty   = errors.New("habit name cannot be empty")
	// ErrHabitNameInvalid rejects names that would not survive as one task
	// line in a weekly note.
	ErrHabitNameInvalid = errors.New("habit name cannot contain line breaks or control characters")

	// Transport-level failures reported by remote backends.
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnavailable    = errors.New("backend unavailable")
)

// Habit is a single tracked habit. Name is its identity within a week.
type Habit struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
}

// WeeklyHabits is the habit set of one ISO week.
type WeeklyHabits struct {
	Year       int               `json:"year"`
	WeekNumber int               `json:"week_number"`
	Habits     map[string]*Habit `json:"habits"`     // keyed by habit name
	DayStatus  map[string]bool   `json:"day_status"` // keyed by YYYY-MM-DD
}

func NewWeeklyHabits(w Week) *WeeklyHabits {
	return &WeeklyHabits{
		Year:       w.Year,
		WeekNumber: w.Number,
		Habits:     map[string]*Habit{},
		DayStatus:  map[string]bool{},
	}
}

func (wh *WeeklyHabits) Week() Week {
	return Week{Year: wh.Year, Number: wh.WeekNumber}
}

func (wh *WeeklyHabits) Has(name string) bool {
	if wh == nil {
		return false
	}
	_, ok := wh.Habits[name]
	return ok
}

// NextOrder returns one past the highest order in the set (0 when empty).
func (wh *WeeklyHabits) NextOrder() int {
	max := -1
	for _, h := range wh.Habits {
		if h.Order > max {
			max = h.Order
		}
	}
	return max + 1
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (wh *WeeklyHabits) Clone() *WeeklyHabits {
	if wh == nil {
		return nil
	}
	out := &WeeklyHabits{
		Year:       wh.Year,
		WeekNumber: wh.WeekNumber,
		Habits:     make(map[string]*Habit, len(wh.Habits)),
		DayStatus:  make(map[string]bool, len(wh.DayStatus)),
	}
	for k, h := range wh.Habits {
		if h == nil {
			continue
		}
		hh := *h
		out.Habits[k] = &hh
	}
	for k, v := range wh.DayStatus {
		out.DayStatus[k] = v
	}
	return out
}

// NormalizeName trims a user-provided habit name and rejects blank names and
// names holding line breaks or other control characters.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrHabitNameEmpty
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return "", fmt.Errorf("%q: %w", name, ErrHabitNameInvalid)
	}
	return name, nil
}
