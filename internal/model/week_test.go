package model

import (
	"testing"
	"time"
)

func TestWeekPrev_CrossesYearBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Week
		want Week
	}{
		{Week{2024, 10}, Week{2024, 9}},
		{Week{2024, 1}, Week{2023, 52}},
		// 2020 has 53 ISO weeks.
		{Week{2021, 1}, Week{2020, 53}},
		{Week{2026, 1}, Week{2025, 52}},
	}
	for _, tc := range cases {
		if got := tc.in.Prev(); got != tc.want {
			t.Fatalf("%s.Prev(): expected %s; got %s", tc.in, tc.want, got)
		}
	}
}

func TestWeekKeyAndTitle(t *testing.T) {
	t.Parallel()

	w := Week{Year: 2024, Number: 5}
	if w.Key() != "2024-W05" {
		t.Fatalf("expected key 2024-W05; got %q", w.Key())
	}
	if w.Title() != "Week 05" {
		t.Fatalf("expected title Week 05; got %q", w.Title())
	}
}

func TestCurrentWeek_UsesISOYear(t *testing.T) {
	t.Parallel()

	// Sunday Jan 3rd 2021 still belongs to 2020-W53.
	got := CurrentWeek(time.Date(2021, time.January, 3, 12, 0, 0, 0, time.UTC))
	if got != (Week{Year: 2020, Number: 53}) {
		t.Fatalf("expected 2020-W53; got %s", got)
	}
}

func TestParseWeek(t *testing.T) {
	t.Parallel()

	w, err := ParseWeek("2020-W53")
	if err != nil {
		t.Fatalf("ParseWeek: %v", err)
	}
	if w != (Week{Year: 2020, Number: 53}) {
		t.Fatalf("unexpected week %s", w)
	}
	if _, err := ParseWeek("2021-W53"); err == nil {
		t.Fatalf("expected error for 2021-W53 (2021 has 52 weeks)")
	}
	if _, err := ParseWeek("2021/3"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}

func TestWeeklyHabits_CloneIsDeep(t *testing.T) {
	t.Parallel()

	wh := NewWeeklyHabits(Week{2024, 5})
	wh.Habits["Read"] = &Habit{Name: "Read", Order: 0}
	c := wh.Clone()
	c.Habits["Read"].Completed = true
	if wh.Habits["Read"].Completed {
		t.Fatalf("expected clone mutation not to leak into original")
	}
	if wh.NextOrder() != 1 {
		t.Fatalf("expected NextOrder 1; got %d", wh.NextOrder())
	}
}
