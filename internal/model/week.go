package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Week identifies an ISO 8601 week.
type Week struct {
	Year   int `json:"year"`
	Number int `json:"week"`
}

var weekKeyRe = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

func CurrentWeek(now time.Time) Week {
	y, w := now.ISOWeek()
	return Week{Year: y, Number: w}
}

// Key formats the week as "YYYY-Www" (e.g. 2024-W05), the weekly note file stem.
func (w Week) Key() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}

// Title is the heading used in weekly notes ("Week 05").
func (w Week) Title() string {
	return fmt.Sprintf("Week %02d", w.Number)
}

func (w Week) String() string { return w.Key() }

// Monday returns the first day of the week in loc.
func (w Week) Monday(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	// Jan 4th is always in ISO week 1.
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -offset)
	return week1Monday.AddDate(0, 0, (w.Number-1)*7)
}

// Prev returns the preceding ISO week, crossing year boundaries correctly
// (years have 52 or 53 ISO weeks).
func (w Week) Prev() Week {
	return CurrentWeek(w.Monday(time.UTC).AddDate(0, 0, -7))
}

func (w Week) Valid() bool {
	if w.Number < 1 || w.Number > 53 {
		return false
	}
	return CurrentWeek(w.Monday(time.UTC)) == w
}

func ParseWeek(s string) (Week, error) {
	m := weekKeyRe.FindStringSubmatch(s)
	if m == nil {
		return Week{}, fmt.Errorf("invalid week %q (want YYYY-Www)", s)
	}
	y, _ := strconv.Atoi(m[1])
	n, _ := strconv.Atoi(m[2])
	w := Week{Year: y, Number: n}
	if !w.Valid() {
		return Week{}, fmt.Errorf("invalid week %q: %d has no week %d", s, y, n)
	}
	return w, nil
}
